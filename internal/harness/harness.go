package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/store"
	"github.com/roach88/sleuth/internal/testutil"
)

// Harness runs one scenario against a real engine backed by an in-memory
// store, the same way the CLI drives a live game.
type Harness struct {
	store   *store.Store
	engine  *engine.Engine
	catalog *catalog.Catalog
	gameID  string
	logger  *slog.Logger

	// standing is the contradiction left by the most recent propagation.
	standing *engine.Contradiction
}

// Option configures a scenario run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes engine logs to l. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load the deck and start the engine from the setup
//  2. Apply each step, propagate, and append the new events to the store
//  3. Resume a second engine from the store and require the same fingerprint
//  4. Evaluate assertions against the final state
//
// A returned error means the scenario could not run at all (bad deck, bad
// setup, store failure). Failed expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	cat, err := loadDeck(scenario.Deck)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	hand, err := parseCards(cat, scenario.Setup.Hand)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: setup hand: %w", scenario.Name, err)
	}
	setup := engine.Setup{
		Players: scenario.Setup.Players,
		Self:    engine.PlayerID(scenario.Setup.Self),
		Hand:    hand,
	}

	eng, err := engine.New(cat, setup, engine.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: setup: %w", scenario.Name, err)
	}
	if _, err := eng.Propagate(); err != nil {
		return nil, fmt.Errorf("scenario %s: setup: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	gameID := testutil.NewFixedIDGenerator(scenario.Name).Generate()
	if _, err := st.SaveGame(ctx, gameID, eng); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h := &Harness{
		store:   st,
		engine:  eng,
		catalog: cat,
		gameID:  gameID,
		logger:  o.logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		trace, err := h.executeStep(ctx, i+1, step)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", scenario.Name, i+1, err)
		}
		result.Trace = append(result.Trace, trace)

		want := step.Expect
		if want == "" {
			want = ExpectOK
		}
		if trace.Outcome != want {
			msg := fmt.Sprintf("step %d (%s): expected %s, got %s", trace.Step, trace.Input, want, trace.Outcome)
			if trace.Error != "" {
				msg += ": " + trace.Error
			}
			result.AddError(msg)
		}
	}

	if err := h.verifyReplay(ctx, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	fp, err := eng.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	result.Players = eng.Players()
	result.Accusation = eng.Accusation()
	result.Fingerprint = fp
	result.Contradiction = h.standing

	for _, msg := range EvaluateAssertions(eng, h.standing, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep applies one step and propagates. Rejected input and
// contradictions are outcomes, not errors; an error means the run is broken.
func (h *Harness) executeStep(ctx context.Context, n int, step Step) (StepTrace, error) {
	trace := StepTrace{Step: n, Input: describeStep(step)}

	if err := h.apply(step); err != nil {
		if !errors.Is(err, engine.ErrInvalidInput) {
			return trace, err
		}
		trace.Outcome = ExpectInvalid
		trace.Error = err.Error()
		h.logger.Debug("step rejected", "step", n, "error", err)
		return trace, nil
	}

	rep, err := h.engine.Propagate()
	trace.Learned = rep.Learned
	trace.Accused = rep.Accused
	h.standing = nil
	switch c, ok := engine.IsContradiction(err); {
	case ok:
		trace.Outcome = ExpectContradiction
		trace.Error = c.Error()
		h.standing = c
	case err != nil:
		return trace, err
	default:
		trace.Outcome = ExpectOK
	}

	if _, err := h.store.Sync(ctx, h.gameID, h.engine); err != nil {
		return trace, err
	}
	if history := h.engine.History(); len(history) > 0 {
		trace.Seq = history[len(history)-1].Seq
	}
	return trace, nil
}

func (h *Harness) apply(step Step) error {
	switch {
	case step.Pass != 0:
		_, err := h.engine.RecordTurn(engine.Pass(engine.PlayerID(step.Pass)))
		return err

	case step.Turn != nil:
		ev, err := h.turnEvent(step.Turn)
		if err != nil {
			return err
		}
		_, err = h.engine.RecordTurn(ev)
		return err

	case step.Correct != nil:
		c := step.Correct
		kind, name := engine.Has, c.Has
		if c.Lacks != "" {
			kind, name = engine.Lacks, c.Lacks
		}
		card, err := h.catalog.Parse(name)
		if err != nil {
			return &engine.ValidationError{Field: "card", Message: err.Error()}
		}
		return h.engine.Correct(engine.Correction{Player: engine.PlayerID(c.Player), Kind: kind, Card: card})
	}
	return fmt.Errorf("empty step")
}

func (h *Harness) turnEvent(ts *TurnSpec) (engine.TurnEvent, error) {
	suggestion, err := parseCards(h.catalog, ts.Suggest)
	if err != nil {
		return engine.TurnEvent{}, &engine.ValidationError{Field: "suggestion", Message: err.Error()}
	}
	responder, err := engine.ParseResponder(ts.Responder)
	if err != nil {
		return engine.TurnEvent{}, err
	}
	ev := engine.Suggest(engine.PlayerID(ts.Suggester), suggestion, responder)
	if ts.Seen != "" {
		seen, err := h.catalog.Parse(ts.Seen)
		if err != nil {
			return engine.TurnEvent{}, &engine.ValidationError{Field: "observed", Message: err.Error()}
		}
		ev = ev.WithObserved(seen)
	}
	return ev, nil
}

// verifyReplay resumes a second engine from the stored log and requires it
// to match the live one.
func (h *Harness) verifyReplay(ctx context.Context, result *Result) error {
	resumed, err := h.store.Resume(ctx, h.gameID, engine.WithLogger(h.logger))
	if err != nil {
		if _, ok := engine.IsContradiction(err); !ok || resumed == nil {
			return fmt.Errorf("resume: %w", err)
		}
	}

	want, err := h.engine.Fingerprint()
	if err != nil {
		return err
	}
	got, err := resumed.Fingerprint()
	if err != nil {
		return err
	}
	if got != want {
		result.AddError(fmt.Sprintf("replay diverged: live %s, resumed %s", want, got))
	}
	return nil
}

func loadDeck(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Standard(), nil
	}
	return catalog.LoadFile(path)
}

func parseCards(cat *catalog.Catalog, names []string) ([]catalog.Card, error) {
	cards := make([]catalog.Card, 0, len(names))
	for _, n := range names {
		c, err := cat.Parse(n)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// describeStep renders a step as a one-line summary for traces and errors.
func describeStep(step Step) string {
	switch {
	case step.Pass != 0:
		return fmt.Sprintf("pass %d", step.Pass)
	case step.Turn != nil:
		t := step.Turn
		s := fmt.Sprintf("turn %d suggests %s, responder %s", t.Suggester, strings.Join(t.Suggest, ","), t.Responder)
		if t.Seen != "" {
			s += ", seen " + t.Seen
		}
		return s
	case step.Correct != nil:
		c := step.Correct
		if c.Has != "" {
			return "correct " + strconv.Itoa(c.Player) + " has " + c.Has
		}
		return "correct " + strconv.Itoa(c.Player) + " lacks " + c.Lacks
	}
	return "empty"
}
