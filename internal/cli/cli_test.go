package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sockmount/sockmount/internal/app"
	"github.com/sockmount/sockmount/internal/cli"
)

func TestParse_ServeDefaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-mount", "handlers"}

	// --- Act ---
	cfg, shouldExit, err := cli.Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, app.ModeServe, cfg.Mode)
	assert.Equal(t, app.DefaultAddr, cfg.Addr)
	assert.Equal(t, []string{"handlers"}, cfg.Mounts)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
}

func TestParse_PositionalArgsAreMounts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-mount", "a", "-mount", "b", "c", "d"}

	// --- Act ---
	cfg, shouldExit, err := cli.Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, []string{"a", "b", "c", "d"}, cfg.Mounts)
}

func TestParse_NoMountsPrintsUsage(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := cli.Parse(nil, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_ConfigFileAloneIsEnough(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-config", "sockmount.hcl"}

	// --- Act ---
	cfg, shouldExit, err := cli.Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "sockmount.hcl", cfg.ConfigPath)
	assert.Empty(t, cfg.Mounts)
}

func TestParse_HelpRequestsCleanExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := cli.Parse([]string{"-h"}, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_UnknownFlagFails(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := cli.Parse([]string{"--definitely-not-a-flag"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogFormatFails(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := cli.Parse([]string{"-mount", "x", "-log-format", "xml"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-format")
}

func TestParse_InvalidLogLevelFails(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := cli.Parse([]string{"-mount", "x", "-log-level", "loud"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-level")
}

func TestParse_ProbeMode(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{
		"-mode", "probe",
		"-url", "https://example.com:8443/custom/path",
		"-namespace", "/chat",
		"-event", "pong",
		"-timeout", "3s",
		"-insecure",
	}

	// --- Act ---
	cfg, shouldExit, err := cli.Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, app.ModeProbe, cfg.Mode)
	assert.Equal(t, "https://example.com:8443/custom/path", cfg.URL)
	assert.Equal(t, "/chat", cfg.Namespace)
	assert.Equal(t, "pong", cfg.Event)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.Insecure)
}

func TestParse_ProbeWithoutURLFails(t *testing.T) {
	t.Parallel()

	// --- Act ---
	_, _, err := cli.Parse([]string{"-mode", "probe"}, &bytes.Buffer{})

	// --- Assert ---
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "probe mode requires a target URL")
}

func TestParse_ModeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	// --- Act ---
	cfg, _, err := cli.Parse([]string{"-mode", "SERVE", "-mount", "x"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, app.ModeServe, cfg.Mode)
}
