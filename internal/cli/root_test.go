package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ducks/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	return cfg
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testConfig(t))
	require.NotNil(t, cmd)
	assert.Equal(t, "ducks", cmd.Use)
	assert.Contains(t, cmd.Long, "replayed")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig(t))
	commands := []string{"ui", "dispatch", "replay", "trace", "test"}

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
	cmd := NewRootCommand(testConfig(t))

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand(testConfig(t))
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"dispatch", "counter/increment", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestUICommandFlagsFollowConfig(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"DUCKS_LOCALE":    "en",
		"DUCKS_DEMO_USER": "hanako",
		"DUCKS_DB":        "/tmp/ducks.db",
	})
	require.NoError(t, err)

	cmd := NewRootCommand(cfg)
	uiCmd, _, err := cmd.Find([]string{"ui"})
	require.NoError(t, err)

	assert.Equal(t, "en", uiCmd.Flags().Lookup("locale").DefValue)
	assert.Equal(t, "hanako", uiCmd.Flags().Lookup("user").DefValue)
	assert.Equal(t, "/tmp/ducks.db", uiCmd.Flags().Lookup("db").DefValue)
	assert.NotNil(t, uiCmd.Flags().Lookup("log-file"))
	assert.NotNil(t, uiCmd.Flags().Lookup("session"))
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig(t))
	replayCmd, _, err := cmd.Find([]string{"replay"})
	require.NoError(t, err)

	require.NotNil(t, replayCmd.Flags().Lookup("db"))
	require.NotNil(t, replayCmd.Flags().Lookup("session"))
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig(t))
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	require.NotNil(t, traceCmd.Flags().Lookup("db"))
	require.NotNil(t, traceCmd.Flags().Lookup("session"))
	require.NotNil(t, traceCmd.Flags().Lookup("kind"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig(t))
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	require.NotNil(t, testCmd.Flags().Lookup("update"))
	require.NotNil(t, testCmd.Flags().Lookup("filter"))
	require.NotNil(t, testCmd.Flags().Lookup("golden-dir"))
}
