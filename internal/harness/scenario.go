package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted game: a setup, a sequence of observed turns and
// corrections, and assertions about what the engine must have deduced.
type Scenario struct {
	// Name uniquely identifies this scenario. Used as the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Deck is an optional path to a CUE deck definition, relative to the
	// scenario file. Empty means the standard deck.
	Deck string `yaml:"deck,omitempty"`

	// Setup is the game as seen by self.
	Setup SetupSpec `yaml:"setup"`

	// Steps are applied in order, each followed by propagation.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the final engine state.
	Assertions []Assertion `yaml:"assertions"`
}

// SetupSpec describes the seats and self's hand.
type SetupSpec struct {
	Players int      `yaml:"players"`
	Self    int      `yaml:"self"`
	Hand    []string `yaml:"hand"`
}

// Step is exactly one of Turn, Pass or Correct.
type Step struct {
	Turn    *TurnSpec       `yaml:"turn,omitempty"`
	Pass    int             `yaml:"pass,omitempty"`
	Correct *CorrectionSpec `yaml:"correct,omitempty"`

	// Expect is the expected outcome: "ok" (default), "invalid" for a
	// rejected input, or "contradiction" for a propagation contradiction.
	Expect string `yaml:"expect,omitempty"`
}

// TurnSpec is a suggestion and who answered it.
type TurnSpec struct {
	Suggester int      `yaml:"suggester"`
	Suggest   []string `yaml:"suggest"`

	// Responder is a seat number or "none".
	Responder string `yaml:"responder"`

	// Seen is the card self was shown on its own suggestion.
	Seen string `yaml:"seen,omitempty"`
}

// CorrectionSpec asserts a player has or lacks a card. Exactly one of Has
// and Lacks is set.
type CorrectionSpec struct {
	Player int    `yaml:"player"`
	Has    string `yaml:"has,omitempty"`
	Lacks  string `yaml:"lacks,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Player is the seat under test (known, lacks, possible).
	Player int `yaml:"player,omitempty"`

	// Cards are the expected cards. For known and lacks a subset check;
	// for possible and accusation an exact match.
	Cards []string `yaml:"cards,omitempty"`

	// Value is the expected readiness (ready).
	Value *bool `yaml:"value,omitempty"`

	// Number is the turn under test (turn).
	Number int `yaml:"number,omitempty"`

	// Resolved, Revealed and Candidates are optional turn expectations.
	Resolved   *bool    `yaml:"resolved,omitempty"`
	Revealed   string   `yaml:"revealed,omitempty"`
	Candidates []string `yaml:"candidates,omitempty"`

	// Kind is the expected contradiction kind (contradiction).
	Kind string `yaml:"kind,omitempty"`
}

// Assertion type constants.
const (
	AssertKnown         = "known"
	AssertLacks         = "lacks"
	AssertPossible      = "possible"
	AssertAccusation    = "accusation"
	AssertReady         = "ready"
	AssertTurn          = "turn"
	AssertContradiction = "contradiction"
)

// Step outcome constants.
const (
	ExpectOK            = "ok"
	ExpectInvalid       = "invalid"
	ExpectContradiction = "contradiction"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative Deck path is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if scenario.Deck != "" && !filepath.IsAbs(scenario.Deck) {
		scenario.Deck = filepath.Join(filepath.Dir(path), scenario.Deck)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks structure only. Card names, seats and game rules
// are checked by the engine when the scenario runs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Setup.Players == 0 {
		return fmt.Errorf("setup.players is required")
	}
	if s.Setup.Self == 0 {
		return fmt.Errorf("setup.self is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i+1, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	set := 0
	if step.Turn != nil {
		set++
	}
	if step.Pass != 0 {
		set++
	}
	if step.Correct != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of turn, pass or correct is required")
	}

	switch step.Expect {
	case "", ExpectOK, ExpectInvalid, ExpectContradiction:
	default:
		return fmt.Errorf("unknown expect %q (must be ok, invalid or contradiction)", step.Expect)
	}

	if c := step.Correct; c != nil && (c.Has == "") == (c.Lacks == "") {
		return fmt.Errorf("correct needs exactly one of has or lacks")
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertKnown, AssertLacks, AssertPossible:
		if a.Player == 0 {
			return fmt.Errorf("%s assertion requires 'player' field", a.Type)
		}
	case AssertAccusation:
	case AssertReady:
		if a.Value == nil {
			return fmt.Errorf("ready assertion requires 'value' field")
		}
	case AssertTurn:
		if a.Number == 0 {
			return fmt.Errorf("turn assertion requires 'number' field")
		}
	case AssertContradiction:
		if a.Kind == "" {
			return fmt.Errorf("contradiction assertion requires 'kind' field")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
