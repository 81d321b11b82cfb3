package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/store"
)

// ReplayGameResult holds the replay result for a single game.
type ReplayGameResult struct {
	ID            string `json:"id"`
	Events        int    `json:"events"`
	Fingerprint   string `json:"fingerprint"`
	Contradiction string `json:"contradiction,omitempty"`
	Deterministic bool   `json:"deterministic"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Games            []ReplayGameResult `json:"games"`
	TotalGames       int                `json:"total_games"`
	AllDeterministic bool               `json:"all_deterministic"`
}

// String renders the summary for a terminal.
func (r ReplayResult) String() string {
	if r.TotalGames == 0 {
		return "No games found in database."
	}
	s := fmt.Sprintf("Replay Summary: %d game(s)\n", r.TotalGames)
	for _, g := range r.Games {
		status := "✓"
		if !g.Deterministic {
			status = "✗"
		}
		s += fmt.Sprintf("%s %s  %d events  %s\n", status, g.ID, g.Events, g.Fingerprint)
		if g.Contradiction != "" {
			s += fmt.Sprintf("  standing contradiction: %s\n", g.Contradiction)
		}
		if g.Error != "" {
			s += fmt.Sprintf("  error: %s\n", g.Error)
		}
	}
	if r.AllDeterministic {
		return s + "✓ All games verified deterministic"
	}
	return s + "✗ Determinism verification failed"
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := rootOpts

	cmd := &cobra.Command{
		Use:   "replay [game-id]",
		Short: "Replay event logs and verify determinism",
		Long: `Rebuild games from their stored event logs and verify determinism.

Each game is replayed twice from the database; both replays must reach the
same fingerprint. Without a game ID every stored game is checked.

Exit codes:
  0 - All games are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  sleuth replay
  sleuth replay 0192...
  sleuth replay --db ./games.db --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, args, cmd)
		},
	}

	return cmd
}

func runReplay(ctx context.Context, opts *RootOptions, args []string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	var ids []string
	if len(args) == 1 {
		ids = args
	} else {
		games, err := st.ListGames(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list games", err)
		}
		for _, g := range games {
			ids = append(ids, g.ID)
		}
	}

	result := ReplayResult{
		Games:            make([]ReplayGameResult, 0, len(ids)),
		TotalGames:       len(ids),
		AllDeterministic: true,
	}
	for _, id := range ids {
		gr, err := replayAndVerifyGame(ctx, st, id, opts)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay game %s", id), err)
		}
		opts.logger().Debug("game replayed", "game", id, "events", gr.Events, "deterministic", gr.Deterministic)
		result.Games = append(result.Games, gr)
		if !gr.Deterministic {
			result.AllDeterministic = false
		}
	}

	f := opts.formatter(cmd)
	if !result.AllDeterministic {
		if err := f.Failure(CodeDeterminism, "determinism verification failed", result); err != nil {
			return err
		}
		return reportedFailure("determinism verification failed")
	}
	return f.Success(result)
}

// replayAndVerifyGame resumes a game twice and compares the fingerprints.
// A contradiction standing at the end of the log is reported, not treated
// as a failure; it replays identically.
func replayAndVerifyGame(ctx context.Context, st *store.Store, id string, opts *RootOptions) (ReplayGameResult, error) {
	state, err := st.LoadState(ctx, id)
	if err != nil {
		return ReplayGameResult{}, err
	}
	gr := ReplayGameResult{ID: id, Events: len(state.Events)}

	first, standing, err := resumeFingerprint(ctx, st, id, opts)
	if err != nil {
		gr.Error = err.Error()
		return gr, nil
	}
	second, _, err := resumeFingerprint(ctx, st, id, opts)
	if err != nil {
		gr.Error = err.Error()
		return gr, nil
	}

	gr.Fingerprint = first
	gr.Deterministic = first == second
	if standing != nil {
		gr.Contradiction = standing.Error()
	}
	return gr, nil
}

func resumeFingerprint(ctx context.Context, st *store.Store, id string, opts *RootOptions) (string, *engine.Contradiction, error) {
	e, err := st.Resume(ctx, id, engine.WithLogger(opts.logger()))
	var standing *engine.Contradiction
	if err != nil {
		c, ok := engine.IsContradiction(err)
		if !ok || e == nil {
			return "", nil, err
		}
		standing = c
	}
	fp, err := e.Fingerprint()
	if err != nil {
		return "", nil, err
	}
	return fp, standing, nil
}
