package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "miu", cmd.Use)
	assert.Contains(t, cmd.Long, "III -> U")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"rules", "apply", "play", "test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "Command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-file"))
}

func TestInvalidFormat(t *testing.T) {
	_, stderr, err := execute(t, "", "rules", "I", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, `invalid format "yaml"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "miu.cue")
	require.NoError(t, os.WriteFile(path, []byte(`shortcuts: "xyz"`), 0644))

	stdout, _, err := execute(t, "", "rules", "II", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "x  rule 1")
	assert.Contains(t, stdout, "y  rule 2  disabled", "duplicating II would outgrow a 3-key alphabet")
}

func TestBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miu.cue")
	require.NoError(t, os.WriteFile(path, []byte(`axiom: "Q"`), 0644))

	_, stderr, err := execute(t, "", "rules", "I", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E003]")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miu.log")

	_, _, err := execute(t, "", "apply", "MI", "2", "--log-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rule applied"`)
	assert.Contains(t, string(data), `"theorem":"II"`)
}
