// Package shell holds the front-end plumbing shared by the line CLI and
// the terminal UI: meta-command dispatch, save slots, traced steps and
// event formatting. Neither front end talks to storage directly.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathoo/doomcrawl/engine"
	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/save"
	"github.com/nathoo/doomcrawl/storage"
	"github.com/nathoo/doomcrawl/telemetry"
	"github.com/nathoo/doomcrawl/types"
)

// Session wraps a running game with its save store and diagnostics.
type Session struct {
	Game    *engine.Game
	Store   storage.Store
	Options engine.Options
	Tracer  trace.Tracer
	Logger  *log.Logger
	Trace   bool // print per-step diagnostics after each command

	lastCmd string
}

// New creates a session. Game may be nil until character creation is done.
func New(g *engine.Game, store storage.Store, opts engine.Options) *Session {
	return &Session{
		Game:    g,
		Store:   store,
		Options: opts,
		Tracer:  telemetry.NoopTracer(),
		Logger:  log.Default(),
	}
}

// Begin generates the dungeon for a freshly created player.
func (s *Session) Begin(ctx context.Context, r *rng.RNG, p *types.Player) {
	_, span := s.Tracer.Start(ctx, "game.new", trace.WithAttributes(attribute.Int64("game.seed", r.Seed())))
	s.Game = engine.NewWithPlayer(r, p, s.Options)
	s.lastCmd = ""
	span.SetAttributes(attribute.Int64("game.rng_position", r.Position()))
	span.End()
}

// Reply is the outcome of a meta-command.
type Reply struct {
	System []string      // bracketed system lines
	Events []types.Event // narration to show after the system lines
	Quit   bool
}

func (r *Reply) say(format string, args ...any) {
	r.System = append(r.System, fmt.Sprintf(format, args...))
}

// Step runs one game command inside a game.step span. "again" repeats the
// previous command.
func (s *Session) Step(ctx context.Context, input string) (types.Result, error) {
	if strings.EqualFold(strings.TrimSpace(input), "again") {
		if s.lastCmd == "" {
			return types.Result{}, ErrNothingToRepeat
		}
		input = s.lastCmd
	} else {
		s.lastCmd = input
	}

	_, span := telemetry.StartStep(ctx, s.Tracer, s.Game.Mode(), s.Game.Turn())
	res := s.Game.Step(input)
	telemetry.EndStep(span, res, s.Game.RNG.Position())
	return res, nil
}

// ErrNothingToRepeat is returned by Step for "again" before any command.
var ErrNothingToRepeat = errors.New("nothing to repeat")

// IsMeta reports whether input is a meta-command rather than game input.
func IsMeta(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// Meta dispatches a meta-command.
func (s *Session) Meta(ctx context.Context, input string) Reply {
	parts := strings.Fields(input)
	var rep Reply
	if len(parts) == 0 {
		return rep
	}
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		rep.say("Goodbye.")
		rep.Quit = true
	case "/save":
		s.cmdSave(ctx, arg, &rep)
	case "/load":
		s.cmdLoad(ctx, arg, &rep)
	case "/slots":
		s.cmdSlots(ctx, &rep)
	case "/help":
		rep.System = append(rep.System, metaHelp...)
	case "/state":
		s.cmdState(&rep)
	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			rep.say("Trace output enabled.")
		} else {
			rep.say("Trace output disabled.")
		}
	default:
		rep.say("Unknown command: %s. Type /help for available commands.", cmd)
	}
	return rep
}

var metaHelp = []string{
	"System:",
	"  /save [slot]  Save game (default: quicksave)",
	"  /load [slot]  Load game (default: quicksave)",
	"  /slots        List saved games",
	"  /quit         Exit game",
	"  /help         Show this help",
	"  /state        Debug: dump current state",
	"  /trace        Toggle per-command trace output",
	"Type H for the game commands.",
}

// SaveSlot writes the running game to slot.
func (s *Session) SaveSlot(ctx context.Context, slot string) error {
	ctx, span := s.Tracer.Start(ctx, "game.save", trace.WithAttributes(attribute.String("slot", slot)))
	data, err := save.Save(s.Game)
	if err == nil {
		err = s.Store.Put(ctx, slot, data)
	}
	if err != nil {
		telemetry.Fail(span, err)
		return err
	}
	span.End()
	return nil
}

// LoadSlot reads slot and builds a game from it. The running game is only
// replaced on success.
func (s *Session) LoadSlot(ctx context.Context, slot string) (*save.Data, error) {
	ctx, span := s.Tracer.Start(ctx, "game.load", trace.WithAttributes(attribute.String("slot", slot)))
	sd, g, err := s.load(ctx, slot)
	if err != nil {
		telemetry.Fail(span, err)
		return nil, err
	}
	span.End()
	s.Game = g
	s.lastCmd = ""
	return sd, nil
}

func (s *Session) load(ctx context.Context, slot string) (*save.Data, *engine.Game, error) {
	data, err := s.Store.Get(ctx, slot)
	if err != nil {
		return nil, nil, err
	}
	sd, err := save.Load(data)
	if err != nil {
		return nil, nil, err
	}
	g, err := save.Apply(sd, s.Options)
	if err != nil {
		return nil, nil, err
	}
	return sd, g, nil
}

func (s *Session) cmdSave(ctx context.Context, slot string, rep *Reply) {
	if slot == "" {
		slot = storage.DefaultSlot
	}
	if s.Game == nil {
		rep.say("Nothing to save yet.")
		return
	}
	if err := s.SaveSlot(ctx, slot); err != nil {
		s.Logger.Printf("save %s: %v", slot, err)
		rep.say("Save failed: %v", err)
		return
	}
	rep.say("Game saved to %s.", slot)
}

func (s *Session) cmdLoad(ctx context.Context, slot string, rep *Reply) {
	if slot == "" {
		slot = storage.DefaultSlot
	}
	sd, err := s.LoadSlot(ctx, slot)
	if err != nil {
		s.Logger.Printf("load %s: %v", slot, err)
		if errors.Is(err, storage.ErrNotFound) {
			rep.say("No save named %s.", slot)
		} else {
			rep.say("Load failed: %v", err)
		}
		return
	}
	rep.say("Game loaded from %s (turn %d).", slot, sd.Turn)
	rep.Events = s.Game.ResumeEvents()
}

func (s *Session) cmdSlots(ctx context.Context, rep *Reply) {
	slots, err := s.Store.List(ctx)
	if err != nil {
		s.Logger.Printf("list slots: %v", err)
		rep.say("Listing saves failed: %v", err)
		return
	}
	if len(slots) == 0 {
		rep.say("No saved games.")
		return
	}
	for _, sl := range slots {
		rep.say("%-20s %6d bytes  %s", sl.Name, sl.Size, sl.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func (s *Session) cmdState(rep *Reply) {
	g := s.Game
	if g == nil {
		rep.say("No game in progress.")
		return
	}
	p := g.Player
	rep.say("Turn: %d", g.Turn())
	rep.say("Mode: %s", g.Mode())
	rep.say("Position: floor %d, row %d, col %d", p.Pos.Z+1, p.Pos.Y+1, p.Pos.X+1)
	rep.say("RNG: seed %d, position %d", g.RNG.Seed(), g.RNG.Position())
	rep.say("Treasures: %v", p.Treasures)
	rep.say("Commands logged: %d", len(g.CommandLog()))
}

// TraceLines describes a step result for the /trace toggle.
func (s *Session) TraceLines(res types.Result) []string {
	lines := []string{fmt.Sprintf("[trace] Mode: %s  Turn: %d  RNG: %d", res.Mode, s.Game.Turn(), s.Game.RNG.Position())}
	if len(res.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(res.Events)))
		for _, e := range res.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s", e.Kind))
		}
	}
	return lines
}
