package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/doomcrawl/engine/rules"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled ruleset for consistency, appending to ve.
func validate(rs *rules.Ruleset, ve *ValidationError) {
	ve.Errors = append(ve.Errors, rs.Validate()...)

	// Warnings: settings that make the game unwinnable or trivial.
	if rs.RunChance == 1 {
		ve.Warnings = append(ve.Warnings, "run_chance 1 makes every escape succeed")
	}
	cheapest := min(rs.WeaponPrices[1], rs.WeaponPrices[2], rs.WeaponPrices[3]) +
		min(rs.ArmorPrices[1], rs.ArmorPrices[2], rs.ArmorPrices[3])
	if cheapest > rs.StartingGoldMin {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"cheapest starting gear costs %d, more than the minimum starting gold %d", cheapest, rs.StartingGoldMin))
	}
}
