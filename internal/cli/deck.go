package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
)

// DeckOptions holds flags for the deck command.
type DeckOptions struct {
	*RootOptions
	Players int // optional - show the deal for this many players
}

// DeckCategory lists the cards of one category.
type DeckCategory struct {
	Name  string         `json:"name"`
	Cards []catalog.Card `json:"cards"`
}

// DeckView describes a deck and, optionally, how it is dealt.
type DeckView struct {
	Source     string         `json:"source"`
	Categories []DeckCategory `json:"categories"`
	Total      int            `json:"total"`
	HandSizes  []int          `json:"hand_sizes,omitempty"`
}

// String renders the deck for a terminal.
func (d DeckView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deck %s: %d cards\n", d.Source, d.Total)
	for _, c := range d.Categories {
		fmt.Fprintf(&b, "  %-8s %s\n", c.Name+":", joinCards(c.Cards))
	}
	for i, n := range d.HandSizes {
		fmt.Fprintf(&b, "  player %d is dealt %d cards\n", i+1, n)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewDeckCommand creates the deck command.
func NewDeckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deck [deck.cue]",
		Short: "Validate and show a deck",
		Long: `Load a CUE deck definition, validate it and print its cards.

A deck file defines the three categories:

  deck: {
      suspect: ["white", "plum", ...]
      weapon:  ["rope", "pipe", ...]
      room:    ["hall", "study", ...]
  }

Without a file the deck from SLEUTH_DECK, or the standard deck, is shown.

Examples:
  sleuth deck
  sleuth deck mansion.cue --players 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.RootOptions.Deck
			if len(args) == 1 {
				path = args[0]
			}
			return runDeck(opts, path, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Players, "players", 0, "show hand sizes for this many players")

	return cmd
}

func runDeck(opts *DeckOptions, path string, cmd *cobra.Command) error {
	cat, err := loadCatalog(path)
	if err != nil {
		return err
	}

	view := DeckView{Source: path, Total: cat.Deck().Len()}
	if path == "" {
		view.Source = "standard"
	}
	for _, c := range catalog.Categories {
		view.Categories = append(view.Categories, DeckCategory{Name: c.String(), Cards: cat.Names(c)})
	}

	if opts.Players != 0 {
		if opts.Players < 2 || opts.Players > view.Total-catalog.SolutionSize {
			return NewExitError(ExitCommandError, fmt.Sprintf("cannot deal %d cards to %d players", view.Total-catalog.SolutionSize, opts.Players))
		}
		view.HandSizes = engine.HandSizes(view.Total, opts.Players)
	}

	return opts.formatter(cmd).Success(view)
}
