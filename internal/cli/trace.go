package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Player int // optional - only steps involving this seat
}

// TraceStep is one event of the log and what propagating it established.
type TraceStep struct {
	Seq           int64                 `json:"seq"`
	Event         string                `json:"event"`
	Learned       []engine.Fact         `json:"learned,omitempty"`
	Accused       []catalog.Card        `json:"accused,omitempty"`
	Resolved      []int                 `json:"resolved,omitempty"`
	Contradiction *ContradictionDetails `json:"contradiction,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	ID         string         `json:"id"`
	Steps      []TraceStep    `json:"steps"`
	Accusation []catalog.Card `json:"accusation"`
	Ready      bool           `json:"ready"`
}

// String renders the trace as a timeline.
func (r TraceResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trace of game %s\n", r.ID)
	for _, st := range r.Steps {
		fmt.Fprintf(&b, "#%d %s\n", st.Seq, st.Event)
		for _, f := range st.Learned {
			fmt.Fprintf(&b, "    player %d holds %s\n", f.Player, f.Card)
		}
		for _, n := range st.Resolved {
			fmt.Fprintf(&b, "    turn %d resolved\n", n)
		}
		if len(st.Accused) > 0 {
			fmt.Fprintf(&b, "    solution: %s\n", joinCards(st.Accused))
		}
		if c := st.Contradiction; c != nil {
			fmt.Fprintf(&b, "    contradiction (%s): %s\n", c.Kind, c.Message)
		}
	}
	fmt.Fprintf(&b, "Accusation: %s", joinCards(r.Accusation))
	if r.Ready {
		b.WriteString(" (ready)")
	}
	return b.String()
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <game-id>",
		Short: "Explain how each fact about a game was deduced",
		Long: `Replay a game's event log one event at a time and show what each event
taught: the cards located, the turns resolved, the solution cards deduced and
any contradiction raised along the way.

Step #0 is the setup itself.

Examples:
  sleuth trace 0192...
  sleuth trace 0192... --player 2
  sleuth trace 0192... --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Player, "player", 0, "only show steps involving this seat")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, id string, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	state, err := st.LoadState(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrGameNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("game %s not found", id), err)
		}
		return WrapExitError(ExitCommandError, "failed to load game", err)
	}

	result, err := buildTrace(id, state, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to trace game", err)
	}
	return opts.formatter(cmd).Success(result)
}

// buildTrace replays state the way engine.Replay does, recording the
// propagation report of every event.
func buildTrace(id string, state engine.GameState, opts *TraceOptions) (TraceResult, error) {
	cat, err := catalog.FromDefinition(state.Deck)
	if err != nil {
		return TraceResult{}, err
	}
	e, err := engine.New(cat, state.Setup, engine.WithLogger(opts.logger()))
	if err != nil {
		return TraceResult{}, err
	}

	result := TraceResult{ID: id, Steps: []TraceStep{}}

	setup, err := traceStep(e, 0, fmt.Sprintf("setup: %d players, you are player %d", state.Setup.Players, state.Setup.Self))
	if err != nil {
		return TraceResult{}, err
	}
	if opts.Player == 0 || setup.involves(opts.Player) {
		result.Steps = append(result.Steps, setup.TraceStep)
	}

	for _, ev := range state.Events {
		if err := e.Apply(ev); err != nil {
			return TraceResult{}, fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		step, err := traceStep(e, ev.Seq, describeEvent(ev))
		if err != nil {
			return TraceResult{}, err
		}
		if opts.Player == 0 || step.involves(opts.Player) || eventInvolves(ev, opts.Player) {
			result.Steps = append(result.Steps, step.TraceStep)
		}
	}

	result.Accusation = e.Accusation()
	result.Ready = e.ReadyToAccuse()
	return result, nil
}

type tracedStep struct {
	TraceStep
	players map[engine.PlayerID]bool
}

func (s tracedStep) involves(seat int) bool {
	return s.players[engine.PlayerID(seat)]
}

func traceStep(e *engine.Engine, seq int64, what string) (tracedStep, error) {
	rep, err := e.Propagate()
	step := tracedStep{
		TraceStep: TraceStep{
			Seq:      seq,
			Event:    what,
			Learned:  rep.Learned,
			Accused:  rep.Accused,
			Resolved: rep.Resolved,
		},
		players: make(map[engine.PlayerID]bool),
	}
	for _, f := range rep.Learned {
		step.players[f.Player] = true
	}
	if err != nil {
		c, ok := engine.IsContradiction(err)
		if !ok {
			return tracedStep{}, err
		}
		d := contradictionDetails(c)
		step.Contradiction = &d
		for _, p := range c.Players {
			step.players[p.ID] = true
		}
	}
	return step, nil
}

func eventInvolves(ev engine.Event, seat int) bool {
	id := engine.PlayerID(seat)
	switch {
	case ev.Turn != nil:
		return ev.Turn.Suggester == id || ev.Turn.Responder == id
	case ev.Correction != nil:
		return ev.Correction.Player == id
	}
	return false
}

func describeEvent(ev engine.Event) string {
	switch {
	case ev.Turn != nil && ev.Turn.Kind == engine.TurnPass:
		return fmt.Sprintf("player %d passed", ev.Turn.Suggester)
	case ev.Turn != nil:
		t := ev.Turn
		s := fmt.Sprintf("player %d suggested %s", t.Suggester, joinCards(t.Suggestion))
		if t.Responder == engine.NoPlayer {
			return s + ", nobody showed a card"
		}
		s += fmt.Sprintf(", player %d showed", t.Responder)
		if t.Observed != "" {
			s += " " + string(t.Observed)
		}
		return s
	case ev.Correction != nil:
		c := ev.Correction
		return fmt.Sprintf("correction: player %d %s %s", c.Player, c.Kind, c.Card)
	}
	return string(ev.Kind)
}
