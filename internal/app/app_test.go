package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/internal/ctxlog"
	"github.com/sockmount/sockmount/registry"
)

// testContext returns a context carrying a discard logger, which
// applyFileConfig requires.
func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sockmount.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// badModule registers an export that is neither a connection function nor a
// constructor, which registry validation must reject.
type badModule struct{}

func (m *badModule) Register(r *registry.Registry) {
	r.Add("broken", sockmount.Export{Name: "NotAFunc", Value: 42})
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "serve with a mount is valid",
			cfg:  Config{Mode: ModeServe, Mounts: []string{"handlers"}},
		},
		{
			name: "serve with only a config file is valid",
			cfg:  Config{Mode: ModeServe, ConfigPath: "sockmount.hcl"},
		},
		{
			name:    "serve without mounts or config file fails",
			cfg:     Config{Mode: ModeServe},
			wantErr: "serve mode requires at least one mount directory",
		},
		{
			name: "probe with a URL is valid",
			cfg:  Config{Mode: ModeProbe, URL: "http://localhost:3000"},
		},
		{
			name:    "probe without a URL fails",
			cfg:     Config{Mode: ModeProbe},
			wantErr: "probe mode requires a target URL",
		},
		{
			name:    "unknown mode fails",
			cfg:     Config{Mode: "dance"},
			wantErr: `unknown mode "dance"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			cfg, err := NewConfig(tc.cfg)

			// --- Assert ---
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestApplyFileConfig_FillsDefaultsAndConcatenates(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeConfigFile(t, `
		addr    = ":9101"
		root    = "/srv/handlers"
		verbose = true

		mount "chat" {}
		mount "admin" {}

		extras = ["hello", 42, true]
	`)
	cfg := &Config{
		Mode:       ModeServe,
		Addr:       DefaultAddr,
		ConfigPath: path,
		Mounts:     []string{"cli-dir"},
	}

	// --- Act ---
	err := applyFileConfig(testContext(), cfg)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, ":9101", cfg.Addr)
	assert.Equal(t, "/srv/handlers", cfg.Root)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"chat", "admin", "cli-dir"}, cfg.Mounts,
		"file mounts should come before flag mounts")

	require.Len(t, cfg.Extras, 3)
	assert.Equal(t, "hello", cfg.Extras[0])
	assert.Equal(t, float64(42), cfg.Extras[1])
	assert.Equal(t, true, cfg.Extras[2])
}

func TestApplyFileConfig_ExplicitFlagsWin(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeConfigFile(t, `
		addr = ":9101"
		root = "/srv/handlers"
	`)
	cfg := &Config{
		Mode:       ModeServe,
		Addr:       ":7777",
		Root:       "cli-root",
		ConfigPath: path,
	}

	// --- Act ---
	err := applyFileConfig(testContext(), cfg)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "cli-root", cfg.Root)
}

func TestApplyFileConfig_ParseErrorFails(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeConfigFile(t, `mount "chat" {`)
	cfg := &Config{Mode: ModeServe, Addr: DefaultAddr, ConfigPath: path}

	// --- Act ---
	err := applyFileConfig(testContext(), cfg)

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg, err := NewConfig(Config{
		Mode:      ModeServe,
		Addr:      DefaultAddr,
		Mounts:    []string{"handlers"},
		LogLevel:  "error",
		LogFormat: "text",
	})
	require.NoError(t, err)

	// --- Act ---
	a := NewApp(&bytes.Buffer{}, cfg)

	// --- Assert ---
	assert.Equal(t, []string{"welcome", "presence", "audit"}, a.Registry().Names())
}

func TestNewApp_PanicsOnBrokenConfigFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeConfigFile(t, `addr = `)
	cfg, err := NewConfig(Config{
		Mode:       ModeServe,
		Addr:       DefaultAddr,
		ConfigPath: path,
		LogLevel:   "error",
		LogFormat:  "text",
	})
	require.NoError(t, err)

	// --- Act / Assert ---
	require.Panics(t, func() {
		NewApp(&bytes.Buffer{}, cfg)
	})
}

func TestNewApp_PanicsOnMalformedModuleExport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg, err := NewConfig(Config{
		Mode:      ModeServe,
		Addr:      DefaultAddr,
		Mounts:    []string{"handlers"},
		LogLevel:  "error",
		LogFormat: "text",
	})
	require.NoError(t, err)

	// --- Act / Assert ---
	require.Panics(t, func() {
		NewApp(&bytes.Buffer{}, cfg, &badModule{})
	})
}

func TestRun_ServeShutsDownOnContextCancel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	manifest := `
		module "welcome" {}
	`
	require.NoError(t, os.MkdirAll(filepath.Join(root, "handlers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "handlers", "main.hcl"), []byte(manifest), 0644))

	cfg, err := NewConfig(Config{
		Mode:      ModeServe,
		Addr:      "127.0.0.1:0",
		Root:      root,
		Mounts:    []string{"handlers"},
		LogLevel:  "error",
		LogFormat: "text",
	})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	// --- Act ---
	runErr := a.Run(ctx)

	// --- Assert ---
	require.NoError(t, runErr, "a cancelled context should shut the server down cleanly")
}

func TestRun_ServeFailsOnBadMount(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	manifest := `
		module "does_not_exist" {}
	`
	require.NoError(t, os.MkdirAll(filepath.Join(root, "handlers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "handlers", "main.hcl"), []byte(manifest), 0644))

	cfg, err := NewConfig(Config{
		Mode:      ModeServe,
		Addr:      "127.0.0.1:0",
		Root:      root,
		Mounts:    []string{"handlers"},
		LogLevel:  "error",
		LogFormat: "text",
	})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, cfg)

	// --- Act ---
	runErr := a.Run(context.Background())

	// --- Assert ---
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "failed to mount handlers")
	assert.Contains(t, runErr.Error(), "does_not_exist")
}
