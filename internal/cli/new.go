package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/store"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Players int
	Self    int
	Hand    string // comma-separated card names
	Deck    string // CUE deck file; empty means SLEUTH_DECK or the standard deck
	ID      string // optional; generated when empty
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a game",
		Long: `Start a game from your seat and your dealt hand.

Hand sizes follow the deal: the cards outside the envelope are dealt in seat
order and leftover cards go to the lowest seats. Your hand must match the size
of your seat.

Examples:
  sleuth new --players 3 --self 1 --hand white,plum,pipe,wrench,billiard,lounge
  sleuth new --players 4 --self 2 --hand green,rope,hall,study --deck mansion.cue
  sleuth new --players 3 --self 1 --hand ... --id friday-night`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Players, "players", 0, "number of players (required)")
	cmd.Flags().IntVar(&opts.Self, "self", 0, "your seat, 1-based (required)")
	cmd.Flags().StringVar(&opts.Hand, "hand", "", "your cards, comma-separated (required)")
	cmd.Flags().StringVar(&opts.Deck, "deck", "", "CUE deck definition (default: SLEUTH_DECK or the standard deck)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "game ID (default: a generated UUIDv7)")
	_ = cmd.MarkFlagRequired("players")
	_ = cmd.MarkFlagRequired("self")
	_ = cmd.MarkFlagRequired("hand")

	return cmd
}

func runNew(ctx context.Context, opts *NewOptions, cmd *cobra.Command) error {
	deck := opts.Deck
	if deck == "" {
		deck = opts.RootOptions.Deck
	}
	cat, err := loadCatalog(deck)
	if err != nil {
		return err
	}

	hand, err := cat.ParseList(opts.Hand)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid hand", &engine.ValidationError{Field: "hand", Message: err.Error()})
	}

	e, err := engine.New(cat, engine.Setup{
		Players: opts.Players,
		Self:    engine.PlayerID(opts.Self),
		Hand:    hand,
	}, engine.WithLogger(opts.logger()))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid setup", err)
	}

	var standing *engine.Contradiction
	if _, err := e.Propagate(); err != nil {
		c, ok := engine.IsContradiction(err)
		if !ok {
			return WrapExitError(ExitCommandError, "propagation failed", err)
		}
		standing = c
	}

	id := opts.ID
	if id == "" {
		id = store.UUIDv7Generator{}.Generate()
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.SaveGame(ctx, id, e); err != nil {
		if errors.Is(err, store.ErrGameExists) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("game %s already exists", id), err)
		}
		return WrapExitError(ExitCommandError, "failed to save game", err)
	}
	opts.logger().Info("game created", "game", id, "players", opts.Players, "self", opts.Self)

	view := newGameView(id, e, standing, false)
	f := opts.formatter(cmd)
	if standing != nil {
		if err := f.Failure(CodeContradiction, standing.Error(), view); err != nil {
			return err
		}
		return reportedFailure("setup is contradictory")
	}
	return f.Success(view)
}

// loadCatalog reads a CUE deck, or returns the standard deck for "".
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Standard(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load deck", err)
	}
	return cat, nil
}
