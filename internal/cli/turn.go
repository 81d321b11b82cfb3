package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/engine"
)

// TurnOptions holds flags for the turn command.
type TurnOptions struct {
	*RootOptions
	Suggester int    // 0 means the next seat in rotation
	Suggest   string // comma-separated suggestion
	Responder string // seat number or "none"
	Seen      string // card shown to you on your own suggestion
	Pass      bool
}

// NewTurnCommand creates the turn command.
func NewTurnCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TurnOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "turn <game-id>",
		Short: "Record a suggestion or a pass",
		Long: `Record one turn and run every deduction it enables.

The suggester defaults to the next seat in rotation. --responder is the seat
that showed a card, or "none" when nobody could. When you made the suggestion
and somebody showed you a card, pass it with --seen.

Exit codes:
  0 - Turn recorded
  1 - Turn recorded, but the facts now contradict each other (use correct)
  2 - Command error (invalid turn, unknown game, etc.)

Examples:
  sleuth turn 0192... --suggest green,rope,hall --responder 2
  sleuth turn 0192... --suggest green,rope,hall --responder 2 --seen rope
  sleuth turn 0192... --suggester 3 --suggest plum,knife,study --responder none
  sleuth turn 0192... --pass`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTurn(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Suggester, "suggester", 0, "seat that made the suggestion (default: next in rotation)")
	cmd.Flags().StringVar(&opts.Suggest, "suggest", "", "suggested suspect, weapon and room, comma-separated")
	cmd.Flags().StringVar(&opts.Responder, "responder", "", `seat that showed a card, or "none"`)
	cmd.Flags().StringVar(&opts.Seen, "seen", "", "card you were shown")
	cmd.Flags().BoolVar(&opts.Pass, "pass", false, "the suggester passed")
	cmd.MarkFlagsMutuallyExclusive("pass", "suggest")
	cmd.MarkFlagsMutuallyExclusive("pass", "responder")
	cmd.MarkFlagsMutuallyExclusive("pass", "seen")
	cmd.MarkFlagsOneRequired("pass", "suggest")
	cmd.MarkFlagsRequiredTogether("suggest", "responder")

	return cmd
}

func runTurn(ctx context.Context, opts *TurnOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(ctx, opts.RootOptions, id)
	if err != nil {
		return err
	}
	defer s.Close()

	ev, err := buildTurnEvent(s.engine, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "turn rejected", err)
	}
	tv, err := s.engine.RecordTurn(ev)
	if err != nil {
		return WrapExitError(ExitCommandError, "turn rejected", err)
	}
	opts.logger().Debug("turn accepted", "game", id, "turn", tv.Number)

	rep, err := s.commit(ctx)
	if err != nil {
		return err
	}
	return reportGame(opts.RootOptions, cmd, s.view(false).withReport(rep), fmt.Sprintf("turn %d", tv.Number))
}

// buildTurnEvent parses the flags against the game's deck.
func buildTurnEvent(e *engine.Engine, opts *TurnOptions) (engine.TurnEvent, error) {
	suggester := engine.PlayerID(opts.Suggester)
	if suggester == engine.NoPlayer {
		suggester = e.NextSuggester()
	}
	if opts.Pass {
		return engine.Pass(suggester), nil
	}

	cat := e.Catalog()
	cards, err := cat.ParseList(opts.Suggest)
	if err != nil {
		return engine.TurnEvent{}, &engine.ValidationError{Field: "suggestion", Message: err.Error()}
	}
	responder, err := engine.ParseResponder(opts.Responder)
	if err != nil {
		return engine.TurnEvent{}, err
	}

	ev := engine.Suggest(suggester, cards, responder)
	if opts.Seen != "" {
		seen, err := cat.Parse(opts.Seen)
		if err != nil {
			return engine.TurnEvent{}, &engine.ValidationError{Field: "observed", Message: err.Error()}
		}
		ev = ev.WithObserved(seen)
	}
	return ev, nil
}

// reportGame writes the game after a change. A standing contradiction is a
// failure: the change is stored, but the user has to correct something.
func reportGame(opts *RootOptions, cmd *cobra.Command, view GameView, what string) error {
	f := opts.formatter(cmd)
	if c := view.Contradiction; c != nil {
		if err := f.Failure(CodeContradiction, fmt.Sprintf("%s: %s: %s", what, c.Kind, c.Message), view); err != nil {
			return err
		}
		return reportedFailure(fmt.Sprintf("%s left a contradiction", what))
	}
	return f.Success(view)
}
