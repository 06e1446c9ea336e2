package state

import "github.com/nathoo/doomcrawl/types"

// PotionAttributes lists the attributes a potion can change, in roll order.
var PotionAttributes = []types.Attribute{
	types.AttrStrength, types.AttrDexterity, types.AttrIntelligence, types.AttrMaxHP,
}

// DrinkText is the first line of every potion narration.
const DrinkText = "You drink the potion..."

// HealingText follows DrinkText when the potion heals.
const HealingText = "Healing results."

// AttributePotionText describes the effect of an attribute change.
func AttributePotionText(attr types.Attribute, delta int) string {
	up := delta >= 0
	switch attr {
	case types.AttrStrength:
		if up {
			return "The potion increases your strength."
		}
		return "The potion decreases your strength."
	case types.AttrDexterity:
		if up {
			return "The potion increases your dexterity."
		}
		return "The potion decreases your dexterity."
	case types.AttrIntelligence:
		if up {
			return "The potion makes you smarter."
		}
		return "The potion makes you dumber."
	case types.AttrMaxHP:
		if up {
			return "Strange energies surge through you."
		}
		return "You feel weaker."
	}
	return "Strange energies surge through you."
}
