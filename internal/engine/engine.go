package engine

import (
	"log/slog"

	"github.com/roach88/sleuth/internal/catalog"
)

// DefaultMaxPasses bounds the propagation loop. A real game settles in a
// handful of passes; the bound only guards against a rule that reports
// progress without making any.
const DefaultMaxPasses = 1000

// Engine owns the players, the turn history and the accusation.
//
// Thread-safety model: none. All methods must be called from a single
// goroutine; the engine assumes exclusive single-writer access.
//
// INVARIANTS:
//   - turns and history are append-only
//   - accusation never shrinks and holds at most one card per category
//   - Turn.suggester/responder are seat numbers, never object references
type Engine struct {
	catalog    *catalog.Catalog
	setup      Setup
	players    []*player // players[i] is seat i+1
	self       *player
	turns      []*turn
	accusation catalog.Set
	history    []Event
	logger     *slog.Logger
	maxPasses  int
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxPasses sets the propagation pass limit.
//
// Default: 1000 passes (DefaultMaxPasses)
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		e.maxPasses = n
	}
}

// New creates an engine for a game.
//
// Hand sizes follow HandSizes; the self hand must match its seat's size,
// contain no duplicates and only cards from the catalog.
func New(cat *catalog.Catalog, setup Setup, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, invalid("catalog", "catalog is required")
	}
	if err := validateSetup(cat, setup); err != nil {
		return nil, err
	}

	e := &Engine{
		catalog:    cat,
		setup:      Setup{Players: setup.Players, Self: setup.Self, Hand: append([]catalog.Card(nil), setup.Hand...)},
		accusation: make(catalog.Set),
		logger:     slog.Default(),
		maxPasses:  DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(e)
	}

	deck := cat.Deck()
	hand := catalog.NewSet(setup.Hand...)
	sizes := HandSizes(cat.Total(), setup.Players)
	e.players = make([]*player, setup.Players)
	for i := range e.players {
		id := PlayerID(i + 1)
		isSelf := id == setup.Self
		e.players[i] = newPlayer(id, sizes[i], deck, hand, isSelf)
		if isSelf {
			e.self = e.players[i]
		}
	}

	e.logger.Info("game started",
		"players", setup.Players,
		"self", setup.Self,
		"hand_sizes", sizes,
		"deck_size", cat.Total(),
	)

	return e, nil
}

func validateSetup(cat *catalog.Catalog, setup Setup) error {
	active := cat.Total() - catalog.SolutionSize
	if setup.Players < 2 {
		return invalid("players", "need at least 2 players, got %d", setup.Players)
	}
	if setup.Players > active {
		return invalid("players", "%d players exceed the %d dealt cards", setup.Players, active)
	}
	if setup.Self < 1 || int(setup.Self) > setup.Players {
		return invalid("self", "player %d out of range 1..%d", setup.Self, setup.Players)
	}

	seen := make(catalog.Set, len(setup.Hand))
	for _, c := range setup.Hand {
		if !cat.Contains(c) {
			return invalid("hand", "unknown card %q", c)
		}
		if seen.Contains(c) {
			return invalid("hand", "card %q listed twice", c)
		}
		seen.Add(c)
	}

	want := HandSizes(cat.Total(), setup.Players)[setup.Self-1]
	if len(setup.Hand) != want {
		return invalid("hand", "player %d is dealt %d cards, got %d", setup.Self, want, len(setup.Hand))
	}
	return nil
}

// RecordTurn validates and appends a turn, applying its one-time deductions.
//
// It does not propagate; call Propagate next. On a validation error the
// engine is unchanged.
func (e *Engine) RecordTurn(ev TurnEvent) (TurnView, error) {
	if err := e.validateTurn(ev); err != nil {
		return TurnView{}, err
	}

	t := e.seedTurn(len(e.turns)+1, ev)
	e.turns = append(e.turns, t)

	stored := ev
	stored.Suggestion = append([]catalog.Card(nil), ev.Suggestion...)
	e.history = append(e.history, Event{Seq: e.nextSeq(), Kind: EventTurn, Turn: &stored})

	e.logger.Info("turn recorded",
		"turn", t.number,
		"kind", t.kind,
		"suggester", t.suggester,
		"responder", t.responder,
		"resolved", t.resolved,
	)

	return e.turnView(t), nil
}

// Correct applies a manual assertion about a non-self player's hand.
//
// Has moves the card into the player's known hand and removes it from every
// other player's possibles. Lacks removes it from the player's possibles.
// Like RecordTurn, Correct does not propagate.
func (e *Engine) Correct(c Correction) error {
	if err := e.validateSeat("player", c.Player); err != nil {
		return err
	}
	p := e.player(c.Player)
	if p.self {
		return invalid("player", "self's hand is fixed at setup")
	}
	if !e.catalog.Contains(c.Card) {
		return invalid("card", "unknown card %q", c.Card)
	}

	switch c.Kind {
	case Has:
		if e.accusation.Contains(c.Card) {
			return invalid("card", "%q was deduced as a solution card", c.Card)
		}
		for _, other := range e.players {
			if other != p && other.known.Contains(c.Card) {
				return invalid("card", "%q is already known to be held by player %d", c.Card, other.id)
			}
		}
		if !p.known.Contains(c.Card) && p.known.Len() >= p.handSize {
			return invalid("card", "player %d's hand of %d is already fully known", p.id, p.handSize)
		}
		if !p.known.Contains(c.Card) && !p.possible.Contains(c.Card) {
			e.logger.Warn("correction overrides an earlier deduction",
				"player", p.id,
				"card", c.Card,
			)
		}
		card := catalog.NewSet(c.Card)
		p.addToHand(card)
		e.stripFromOthers(p.id, card)

	case Lacks:
		if p.known.Contains(c.Card) {
			return invalid("card", "player %d is known to hold %q", p.id, c.Card)
		}
		p.removeFromPossible(catalog.NewSet(c.Card))

	default:
		return invalid("kind", "unknown correction %q (expected has or lacks)", c.Kind)
	}

	stored := c
	e.history = append(e.history, Event{Seq: e.nextSeq(), Kind: EventCorrection, Correction: &stored})

	e.logger.Info("correction applied",
		"player", c.Player,
		"kind", c.Kind,
		"card", c.Card,
	)
	return nil
}

// NextSuggester returns the seat whose turn is next in rotation.
func (e *Engine) NextSuggester() PlayerID {
	n := len(e.players)
	next := (len(e.turns) + 1) % n
	if next == 0 {
		next = n
	}
	return PlayerID(next)
}

// ReadyToAccuse reports whether one solution card per category is known.
func (e *Engine) ReadyToAccuse() bool {
	return e.accusation.Len() == catalog.SolutionSize
}

// Accusation returns the deduced solution cards in category order.
func (e *Engine) Accusation() []catalog.Card {
	return e.catalog.Sorted(e.accusation)
}

// Catalog returns the deck the engine plays with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Setup returns the game setup.
func (e *Engine) Setup() Setup {
	s := e.setup
	s.Hand = append([]catalog.Card(nil), e.setup.Hand...)
	return s
}

// TurnCount returns the number of recorded turns.
func (e *Engine) TurnCount() int {
	return len(e.turns)
}

// nextSeq returns the sequence number of the next history event. Sequence
// numbers start at 1 and have no gaps.
func (e *Engine) nextSeq() int64 {
	return int64(len(e.history)) + 1
}

func (e *Engine) player(id PlayerID) *player {
	return e.players[id-1]
}

// stripFromOthers removes cards from every non-self player's possibles
// except the given holder. A card is held by at most one player.
func (e *Engine) stripFromOthers(holder PlayerID, cards catalog.Set) bool {
	changed := false
	for _, p := range e.players {
		if p.self || p.id == holder {
			continue
		}
		if p.removeFromPossible(cards) {
			changed = true
		}
	}
	return changed
}
