package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/store"
)

// session is a stored game resumed into a live engine.
type session struct {
	id     string
	store  *store.Store
	engine *engine.Engine

	// standing is the contradiction left by the last propagation, if any.
	standing *engine.Contradiction
}

func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// openSession resumes game id. A standing contradiction does not prevent
// opening: the user needs the game to correct it.
func openSession(ctx context.Context, opts *RootOptions, id string) (*session, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}

	s := &session{id: id, store: st}
	e, err := st.Resume(ctx, id, engine.WithLogger(opts.logger()))
	if err != nil {
		c, ok := engine.IsContradiction(err)
		if !ok || e == nil {
			st.Close()
			if errors.Is(err, store.ErrGameNotFound) {
				return nil, WrapExitError(ExitCommandError, fmt.Sprintf("game %s not found", id), err)
			}
			return nil, WrapExitError(ExitCommandError, "failed to resume game", err)
		}
		s.standing = c
	}
	s.engine = e
	return s, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// commit propagates and stores the events the engine accepted since the
// game was opened. Events are stored even when propagation contradicts, so
// the log always matches what the user entered.
func (s *session) commit(ctx context.Context) (engine.Report, error) {
	rep, perr := s.engine.Propagate()
	if _, err := s.store.Sync(ctx, s.id, s.engine); err != nil {
		return rep, WrapExitError(ExitCommandError, "failed to store event", err)
	}
	if perr != nil {
		c, ok := engine.IsContradiction(perr)
		if !ok {
			return rep, WrapExitError(ExitCommandError, "propagation failed", perr)
		}
		s.standing = c
		return rep, nil
	}
	s.standing = nil
	return rep, nil
}

// view renders the session as a GameView.
func (s *session) view(withTurns bool) GameView {
	return newGameView(s.id, s.engine, s.standing, withTurns)
}

// GameView is the output of every command that shows a game.
type GameView struct {
	ID            string                `json:"id"`
	Players       []engine.PlayerView   `json:"players"`
	Turns         []engine.TurnView     `json:"turns,omitempty"`
	OpenTurns     []engine.TurnView     `json:"open_turns"`
	Accusation    []catalog.Card        `json:"accusation"`
	Ready         bool                  `json:"ready"`
	NextSuggester engine.PlayerID       `json:"next_suggester"`
	Contradiction *ContradictionDetails `json:"contradiction,omitempty"`

	// Learned is what the last command's propagation established.
	Learned []engine.Fact  `json:"learned,omitempty"`
	Accused []catalog.Card `json:"accused,omitempty"`
}

func newGameView(id string, e *engine.Engine, standing *engine.Contradiction, withTurns bool) GameView {
	v := GameView{
		ID:            id,
		Players:       e.Players(),
		OpenTurns:     []engine.TurnView{},
		Accusation:    e.Accusation(),
		Ready:         e.ReadyToAccuse(),
		NextSuggester: e.NextSuggester(),
	}
	turns := e.Turns()
	if withTurns {
		v.Turns = turns
	}
	for _, t := range turns {
		if !t.Resolved {
			v.OpenTurns = append(v.OpenTurns, t)
		}
	}
	if standing != nil {
		d := contradictionDetails(standing)
		v.Contradiction = &d
	}
	return v
}

func (v GameView) withReport(rep engine.Report) GameView {
	v.Learned = rep.Learned
	v.Accused = rep.Accused
	return v
}

// String renders the game for a terminal.
func (v GameView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s (next suggester: player %d)\n", v.ID, v.NextSuggester)

	for _, p := range v.Players {
		if p.Self {
			fmt.Fprintf(&b, "Player %d (you)\n", p.ID)
		} else {
			fmt.Fprintf(&b, "Player %d [%d/%d]\n", p.ID, len(p.Known), p.HandSize)
		}
		fmt.Fprintf(&b, "  hand:      %s\n", joinCards(p.Known))
		if !p.Self {
			fmt.Fprintf(&b, "  possibles: %s\n", joinCards(p.Possible))
		}
	}

	for _, f := range v.Learned {
		if f.Turn > 0 {
			fmt.Fprintf(&b, "Learned: player %d holds %s (turn %d)\n", f.Player, f.Card, f.Turn)
		} else {
			fmt.Fprintf(&b, "Learned: player %d holds %s\n", f.Player, f.Card)
		}
	}

	if len(v.Turns) > 0 {
		b.WriteString("Turns:\n")
		for _, t := range v.Turns {
			b.WriteString("  " + describeTurn(t) + "\n")
		}
	} else if len(v.OpenTurns) > 0 {
		b.WriteString("Open turns:\n")
		for _, t := range v.OpenTurns {
			b.WriteString("  " + describeTurn(t) + "\n")
		}
	}

	fmt.Fprintf(&b, "Accusation: %s", joinCards(v.Accusation))
	if v.Ready {
		b.WriteString("\nReady to accuse!")
	}
	if c := v.Contradiction; c != nil {
		fmt.Fprintf(&b, "\nContradiction (%s): %s", c.Kind, c.Message)
	}
	return b.String()
}

func describeTurn(t engine.TurnView) string {
	if t.Kind == engine.TurnPass {
		return fmt.Sprintf("turn %d: player %d passed", t.Number, t.Suggester)
	}
	responder := "nobody"
	if t.Responder != engine.NoPlayer {
		responder = fmt.Sprintf("player %d", t.Responder)
	}
	s := fmt.Sprintf("turn %d: player %d suggested %s, %s showed", t.Number, t.Suggester, joinCards(t.Suggestion), responder)
	switch {
	case t.Revealed != "":
		s += " " + string(t.Revealed)
	case !t.Resolved:
		s += " one of " + joinCards(t.Candidates)
	}
	return s
}

func joinCards(cards []catalog.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
