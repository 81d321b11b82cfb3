package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/engine"
)

// CorrectOptions holds flags for the correct command.
type CorrectOptions struct {
	*RootOptions
	Player int
	Has    string
	Lacks  string
}

// NewCorrectCommand creates the correct command.
func NewCorrectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CorrectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "correct <game-id>",
		Short: "Assert that a player has or lacks a card",
		Long: `Record a fact learned outside the normal turn flow, or fix a mistake.

Corrections are how a contradiction is resolved: tell sleuth what you know
for certain and the deductions are rerun. Your own hand cannot be corrected.

Examples:
  sleuth correct 0192... --player 2 --has rope
  sleuth correct 0192... --player 3 --lacks hall`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrect(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Player, "player", 0, "seat the fact is about (required)")
	cmd.Flags().StringVar(&opts.Has, "has", "", "card the player holds")
	cmd.Flags().StringVar(&opts.Lacks, "lacks", "", "card the player cannot hold")
	_ = cmd.MarkFlagRequired("player")
	cmd.MarkFlagsMutuallyExclusive("has", "lacks")
	cmd.MarkFlagsOneRequired("has", "lacks")

	return cmd
}

func runCorrect(ctx context.Context, opts *CorrectOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(ctx, opts.RootOptions, id)
	if err != nil {
		return err
	}
	defer s.Close()

	kind, name := engine.Has, opts.Has
	if opts.Lacks != "" {
		kind, name = engine.Lacks, opts.Lacks
	}
	card, err := s.engine.Catalog().Parse(name)
	if err != nil {
		return WrapExitError(ExitCommandError, "correction rejected", &engine.ValidationError{Field: "card", Message: err.Error()})
	}

	c := engine.Correction{Player: engine.PlayerID(opts.Player), Kind: kind, Card: card}
	if err := s.engine.Correct(c); err != nil {
		return WrapExitError(ExitCommandError, "correction rejected", err)
	}

	rep, err := s.commit(ctx)
	if err != nil {
		return err
	}
	return reportGame(opts.RootOptions, cmd, s.view(false).withReport(rep), fmt.Sprintf("correction player %d %s %s", c.Player, c.Kind, c.Card))
}
