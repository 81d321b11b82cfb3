package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const standardHand = "white,plum,pipe,wrench,billiard,lounge"

// cliRun is one in-process invocation of the CLI.
type cliRun struct {
	Stdout string
	Stderr string
	Code   int
}

// response decodes the JSON envelope, leaving data raw.
type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// testEnv pins the SLEUTH_* variables so the caller's shell cannot leak
// into a test, and returns a fresh database path.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("SLEUTH_FORMAT", "text")
	t.Setenv("SLEUTH_LOG_LEVEL", "warn")
	t.Setenv("SLEUTH_DECK", "")
	db := filepath.Join(t.TempDir(), "sleuth.db")
	t.Setenv("SLEUTH_DB", db)
	return db
}

func execute(t *testing.T, args ...string) cliRun {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(args, &out, &errOut)
	return cliRun{Stdout: out.String(), Stderr: errOut.String(), Code: code}
}

// executeJSON runs with --format json and decodes the envelope.
func executeJSON(t *testing.T, args ...string) (cliRun, response) {
	t.Helper()
	r := execute(t, append([]string{"--format", "json"}, args...)...)
	var resp response
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &resp), "stdout: %s\nstderr: %s", r.Stdout, r.Stderr)
	return r, resp
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

// newGame creates a 3-player standard game with self in seat 1.
func newGame(t *testing.T, db, id string) {
	t.Helper()
	r := execute(t, "--db", db, "new", "--players", "3", "--self", "1", "--hand", standardHand, "--id", id)
	require.Equal(t, ExitSuccess, r.Code, "stdout: %s\nstderr: %s", r.Stdout, r.Stderr)
}

func mustExecute(t *testing.T, args ...string) cliRun {
	t.Helper()
	r := execute(t, args...)
	require.Equal(t, ExitSuccess, r.Code, "%s\nstdout: %s\nstderr: %s", strings.Join(args, " "), r.Stdout, r.Stderr)
	return r
}
