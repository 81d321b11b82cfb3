package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: passing
description: "A pass changes nothing"
setup:
  players: 3
  self: 1
  hand: [white, plum, pipe, wrench, billiard, lounge]
steps:
  - pass: 2
assertions:
  - type: ready
    value: false
`

const failingScenario = `
name: failing
description: "Expects a card nobody has shown"
setup:
  players: 3
  self: 1
  hand: [white, plum, pipe, wrench, billiard, lounge]
steps:
  - pass: 2
assertions:
  - type: known
    player: 2
    cards: [rope]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", passingScenario)
	writeFile(t, dir, "a.yml", passingScenario)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	files, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, files)
}

func TestFindScenarios_SingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "only.yaml", passingScenario)

	files, err := FindScenarios(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindScenarios_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := FindScenarios(path)
	var nf *ScenarioNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, path, nf.Path)
}

func TestRunSuite_Testdata(t *testing.T) {
	res, err := RunSuite(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	assert.True(t, res.Pass(), "failures: %+v", res.Failures)
	assert.Equal(t, res.Total, res.Passed)
	assert.GreaterOrEqual(t, res.Total, 8)
}

func TestRunSuite_CountsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1_passing.yaml", passingScenario)
	writeFile(t, dir, "2_failing.yaml", failingScenario)
	writeFile(t, dir, "3_malformed.yaml", "name: [unclosed\n")
	writeFile(t, dir, "4_bad_setup.yaml", `
name: bad_setup
description: "Hand too short"
setup: {players: 3, self: 1, hand: [white]}
steps:
  - pass: 2
`)

	res, err := RunSuite(dir)
	require.NoError(t, err)

	assert.False(t, res.Pass())
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 3, res.Failed)
	require.Len(t, res.Failures, 3)

	assert.Equal(t, "failing", res.Failures[0].Name)
	assert.Contains(t, res.Failures[0].Errors[0], "missing [rope]")

	assert.Empty(t, res.Failures[1].Name)
	assert.Contains(t, res.Failures[1].Path, "3_malformed.yaml")

	assert.Equal(t, "bad_setup", res.Failures[2].Name)
}

func TestRunSuite_MissingPath(t *testing.T) {
	res, err := RunSuite(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Nil(t, res)
}
