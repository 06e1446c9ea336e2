// Package cli provides the plain line-oriented front end: terminal I/O,
// character creation, output formatting and meta-command dispatch.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/shell"
	"github.com/nathoo/doomcrawl/types"
)

const banner = "DUNGEON OF DOOM\nFind the ten treasures and escape the seven floors alive."

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *shell.Session
	Seed      int64 // used when Session.Game is nil and a character must be created
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI on stdin/stdout.
func New(s *shell.Session, seed int64) *CLI {
	return &CLI{
		Session: s,
		Seed:    seed,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop. A new game begins with character creation and
// the starting room; a loaded one re-narrates where it left off. Then it
// loops: prompt, input, dispatch, output, until /quit or end of input.
func (c *CLI) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.In)
	c.printLine(banner)
	c.printLine("")

	if c.Session.Game == nil {
		if err := c.create(ctx, scanner); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
		c.printEvents(c.Session.Game.StartEvents())
	} else {
		c.printEvents(c.Session.Game.ResumeEvents())
	}

	for {
		c.print(c.Session.Game.Prompt())
		if !scanner.Scan() {
			c.printLine("")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if shell.IsMeta(input) {
			rep := c.Session.Meta(ctx, input)
			for _, line := range rep.System {
				c.printSystem(line)
			}
			c.printEvents(rep.Events)
			if rep.Quit {
				return nil
			}
			continue
		}

		if c.Session.Game.Over() {
			c.printSystem("The game is over. Use /load or /quit.")
			continue
		}

		res, err := c.Session.Step(ctx, input)
		if err != nil {
			c.printLine("Nothing to repeat.")
			continue
		}
		c.printEvents(res.Events)
		if c.Session.Trace {
			for _, line := range c.Session.TraceLines(res) {
				c.printLine(line)
			}
		}
		if res.Mode == types.ModeVictory || res.Mode == types.ModeGameOver {
			c.printSystem(fmt.Sprintf("Game over after %d turns.", c.Session.Game.Turn()))
		}
	}
}

func (c *CLI) create(ctx context.Context, scanner *bufio.Scanner) error {
	r := rng.New(c.Seed)
	cr := &shell.Creator{In: scanner, Out: c.Out, Rules: c.Session.Options.Ruleset(), Echo: c.EchoInput}
	p, err := cr.Create(r)
	if err != nil {
		return err
	}
	c.Session.Begin(ctx, r, p)
	return nil
}

func (c *CLI) printEvents(evs []types.Event) {
	for _, line := range shell.Render(evs) {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
