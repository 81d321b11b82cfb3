package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sleuth/internal/catalog"
	"github.com/roach88/sleuth/internal/engine"
	"github.com/roach88/sleuth/internal/ir"
)

// DefaultGoldenDir is where RunWithGolden keeps snapshots.
const DefaultGoldenDir = "testdata/golden"

// Snapshot renders a result as canonical JSON: the per-step trace and the
// final knowledge of every player. Identical runs produce identical bytes.
func Snapshot(name string, result *Result) ([]byte, error) {
	steps := make([]any, len(result.Trace))
	for i, st := range result.Trace {
		m := map[string]any{
			"step":    st.Step,
			"input":   st.Input,
			"outcome": st.Outcome,
		}
		if st.Error != "" {
			m["error"] = st.Error
		}
		if st.Seq != 0 {
			m["seq"] = st.Seq
		}
		if len(st.Learned) > 0 {
			learned := make([]any, len(st.Learned))
			for j, f := range st.Learned {
				learned[j] = map[string]any{
					"player": int(f.Player),
					"card":   string(f.Card),
					"turn":   f.Turn,
				}
			}
			m["learned"] = learned
		}
		if len(st.Accused) > 0 {
			m["accused"] = cardList(st.Accused)
		}
		steps[i] = m
	}

	players := make([]any, len(result.Players))
	for i, p := range result.Players {
		players[i] = playerMap(p)
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario_name": name,
		"pass":          result.Pass,
		"trace":         steps,
		"players":       players,
		"accusation":    cardList(result.Accusation),
		"fingerprint":   result.Fingerprint,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file named after the scenario, in testdata/golden by default.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...goldie.Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result, opts...); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result, opts ...goldie.Option) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t, append([]goldie.Option{
		goldie.WithFixtureDir(DefaultGoldenDir),
		goldie.WithNameSuffix(".golden"),
	}, opts...)...)
	g.Assert(t, name, data)
	return nil
}

func playerMap(p engine.PlayerView) map[string]any {
	return map[string]any{
		"id":        int(p.ID),
		"self":      p.Self,
		"hand_size": p.HandSize,
		"known":     cardList(p.Known),
		"possible":  cardList(p.Possible),
	}
}

func cardList(cards []catalog.Card) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = string(c)
	}
	return out
}
