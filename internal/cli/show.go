package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Turns bool // list every turn, not only open ones
}

// GameListing is one row of the game list.
type GameListing struct {
	ID          string         `json:"id"`
	Players     int            `json:"players"`
	Self        int            `json:"self"`
	Hand        []catalog.Card `json:"hand"`
	Turns       int            `json:"turns"`
	Corrections int            `json:"corrections"`
	LastSeq     int64          `json:"last_seq"`
}

// GameList is the output of show without a game ID.
type GameList struct {
	Games []GameListing `json:"games"`
}

// String renders the list for a terminal.
func (l GameList) String() string {
	if len(l.Games) == 0 {
		return "No games found."
	}
	var b strings.Builder
	for i, g := range l.Games {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %d players, seat %d, %d turns, %d corrections", g.ID, g.Players, g.Self, g.Turns, g.Corrections)
	}
	return b.String()
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [game-id]",
		Short: "Show what is known about a game, or list games",
		Long: `Show every player's known and possible cards, the turns whose revealed
card is still unknown, and the accusation so far.

Without a game ID, list the stored games.

Examples:
  sleuth show
  sleuth show 0192...
  sleuth show 0192... --turns --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runList(cmd.Context(), opts, cmd)
			}
			return runShow(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Turns, "turns", false, "list every turn")

	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(ctx, opts.RootOptions, id)
	if err != nil {
		return err
	}
	defer s.Close()

	return opts.formatter(cmd).Success(s.view(opts.Turns))
}

func runList(ctx context.Context, opts *ShowOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	games, err := st.ListGames(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list games", err)
	}
	return opts.formatter(cmd).Success(newGameList(games))
}

func newGameList(games []store.GameSummary) GameList {
	out := GameList{Games: make([]GameListing, 0, len(games))}
	for _, g := range games {
		out.Games = append(out.Games, GameListing{
			ID:          g.ID,
			Players:     g.Setup.Players,
			Self:        int(g.Setup.Self),
			Hand:        g.Setup.Hand,
			Turns:       g.Turns,
			Corrections: g.Corrections,
			LastSeq:     g.LastSeq,
		})
	}
	return out
}
