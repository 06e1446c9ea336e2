// Doomcrawl is a deterministic Dungeon of Doom crawler for the terminal.
// Usage: doomcrawl [--seed N] [--plain] [--script <file>] [--trace] [--debug] [--ruleset <file>] [--continue <slot>]
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nathoo/doomcrawl/cli"
	"github.com/nathoo/doomcrawl/config"
	"github.com/nathoo/doomcrawl/engine"
	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/loader"
	"github.com/nathoo/doomcrawl/shell"
	"github.com/nathoo/doomcrawl/telemetry"
	"github.com/nathoo/doomcrawl/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "doomcrawl",
		Short:         "Explore the Dungeon of Doom",
		Long:          `Find the ten treasures hidden across seven floors and escape alive.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	f := root.Flags()
	f.Int64("seed", 0, "dungeon seed (0 picks one at random)")
	f.Bool("plain", false, "use the plain line interface")
	f.String("script", "", "play commands from a file, echoing each one")
	f.Bool("trace", false, "print per-command trace output")
	f.Bool("debug", false, "emit debug narration")
	f.String("ruleset", "", "Lua ruleset file or directory")
	f.String("continue", "", "resume from a save slot")
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// A missing .env is normal.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	script, _ := cmd.Flags().GetString("script")
	slot, _ := cmd.Flags().GetString("continue")
	trace, _ := cmd.Flags().GetBool("trace")
	plain := cfg.Plain || script != "" || !isTerminal()

	logger, closeLog, err := newLogger(cfg, plain)
	if err != nil {
		return err
	}
	defer closeLog()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Printf("loading .env: %v", envErr)
	}

	tracer := telemetry.NoopTracer()
	if cfg.Telemetry {
		shutdown, err := telemetry.Setup(ctx, version)
		if err != nil {
			logger.Printf("telemetry disabled: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Printf("telemetry shutdown: %v", err)
				}
			}()
			tracer = telemetry.Tracer("game")
		}
	}

	opts := engine.Options{Debug: cfg.Debug}
	if cfg.Ruleset != "" {
		rs, err := loader.Load(cfg.Ruleset, rules.Default())
		if err != nil {
			return fmt.Errorf("loading ruleset: %w", err)
		}
		opts.Rules = rs
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("opening save store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("closing save store: %v", err)
		}
	}()

	s := shell.New(nil, store, opts)
	s.Tracer = tracer
	s.Logger = logger
	s.Trace = trace

	if slot != "" {
		if _, err := s.LoadSlot(ctx, slot); err != nil {
			return fmt.Errorf("continuing from %s: %w", slot, err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = newSeed(); err != nil {
			return err
		}
	}
	logger.Printf("starting: seed %d, backend %s", seed, cfg.SaveBackend)

	// Script mode: read from the file, force plain, echo commands.
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(s, seed)
		c.In = f
		c.EchoInput = true
		return c.Run(ctx)
	}

	if plain {
		return cli.New(s, seed).Run(ctx)
	}

	fresh := s.Game == nil
	if fresh {
		r := rng.New(seed)
		cr := &shell.Creator{In: bufio.NewScanner(os.Stdin), Out: os.Stdout, Rules: opts.Ruleset()}
		p, err := cr.Create(r)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
		s.Begin(ctx, r, p)
	}
	return tui.Run(ctx, s, fresh)
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("seed") {
		seed, err := f.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = seed
	}
	if f.Changed("plain") {
		cfg.Plain, _ = f.GetBool("plain")
	}
	if f.Changed("debug") {
		cfg.Debug, _ = f.GetBool("debug")
	}
	if f.Changed("ruleset") {
		cfg.Ruleset, _ = f.GetString("ruleset")
	}
	return nil
}

// newLogger writes to the configured log file, else to stderr. The TUI owns
// the terminal, so without a log file it logs nowhere.
func newLogger(cfg config.Config, plain bool) (*log.Logger, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return log.New(f, "doomcrawl: ", log.LstdFlags), func() { f.Close() }, nil
	}
	var w io.Writer = os.Stderr
	if !plain {
		w = io.Discard
	}
	return log.New(w, "doomcrawl: ", log.LstdFlags), func() {}, nil
}

func newSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("generating seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
