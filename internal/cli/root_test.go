package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sleuth", cmd.Use)
	assert.Contains(t, cmd.Long, "Clue")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"new", "turn", "correct", "show", "trace", "replay", "test", "deck"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "sleuth.db", dbFlag.DefValue)
}

func TestTurnCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	turnCmd, _, err := cmd.Find([]string{"turn"})
	require.NoError(t, err)

	for _, name := range []string{"suggester", "suggest", "responder", "seen", "pass"} {
		assert.NotNil(t, turnCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	testEnv(t)

	r := execute(t, "--format", "invalid", "show")
	assert.Equal(t, ExitCommandError, r.Code)
	assert.Contains(t, r.Stderr, "invalid format")
}

func TestExecute_UnknownCommand(t *testing.T) {
	testEnv(t)

	r := execute(t, "accuse")
	assert.Equal(t, ExitCommandError, r.Code)
	assert.Contains(t, r.Stderr, "unknown command")
}

func TestExecute_MissingRequiredFlag(t *testing.T) {
	testEnv(t)

	r := execute(t, "new", "--players", "3")
	assert.Equal(t, ExitCommandError, r.Code)
	assert.Contains(t, r.Stderr, "required flag")
}

func TestExecute_EnvSelectsFormat(t *testing.T) {
	testEnv(t)
	t.Setenv("SLEUTH_FORMAT", "JSON")

	r := execute(t, "show")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)
	assert.Contains(t, r.Stdout, `"status": "ok"`)

	r = execute(t, "--format", "text", "show")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)
	assert.Equal(t, "No games found.\n", r.Stdout)
}

func TestExecute_EnvSelectsDatabase(t *testing.T) {
	db := testEnv(t)
	newGame(t, db, "g1")

	// No --db: SLEUTH_DB points at the same file.
	r := mustExecute(t, "show")
	assert.Contains(t, r.Stdout, "g1")
}

func TestExecute_BadEnv(t *testing.T) {
	testEnv(t)
	t.Setenv("SLEUTH_LOG_LEVEL", "loud")

	r := execute(t, "show")
	assert.Equal(t, ExitCommandError, r.Code)
	assert.Contains(t, r.Stderr, "invalid environment")
}

func TestExecute_VerboseLogsToStderr(t *testing.T) {
	db := testEnv(t)

	r := execute(t, "--db", db, "-v", "new", "--players", "3", "--self", "1", "--hand", standardHand, "--id", "g1")
	require.Equal(t, ExitSuccess, r.Code, r.Stderr)
	assert.Contains(t, r.Stderr, "game created")
	assert.NotContains(t, r.Stdout, "game created")
}
