package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/teamwatch/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtensions verifies that unknown top-level keys are kept as extensions
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
endpoint: http://monitor:8080

logging:
  level: debug
  format:
    preset: json

tui:
  theme: terminal
  icons: ascii
  keybindings:
    refresh: ["r", "f5"]
`)

	cfg, err := LoadFromBytes(yamlContent, FormatYAML)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Extensions == nil {
		t.Fatal("Extensions map should not be nil")
	}
	if _, ok := cfg.Extensions["logging"]; !ok {
		t.Fatal("Expected 'logging' extension to be present")
	}

	var tuiCfg TUIConfig
	if err := cfg.UnmarshalExtension("tui", &tuiCfg); err != nil {
		t.Fatalf("Failed to unmarshal tui extension: %v", err)
	}

	if tuiCfg.Theme != "terminal" {
		t.Errorf("Expected theme to be 'terminal', got '%s'", tuiCfg.Theme)
	}
	if tuiCfg.Icons != "ascii" {
		t.Errorf("Expected icons to be 'ascii', got '%s'", tuiCfg.Icons)
	}
	if got := tuiCfg.Keybindings["refresh"]; len(got) != 2 || got[1] != "f5" {
		t.Errorf("Expected refresh keybindings [r f5], got %v", got)
	}

	// Missing extensions leave the target untouched.
	var missing TUIConfig
	if err := cfg.UnmarshalExtension("absent", &missing); err != nil {
		t.Fatalf("Missing extension should not error: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(``), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultLocale, cfg.Locale)
	assert.True(t, cfg.SingleFlightEnabled())

	interval, err := cfg.PollInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Second, interval)

	timeout, err := cfg.PollTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestEnvOverridesAndExpansion(t *testing.T) {
	t.Setenv(EnvEndpoint, "unix:///run/monitor.sock")
	t.Setenv(EnvLocale, "zh-CN")
	t.Setenv("POLL_EVERY", "")

	cfg, err := LoadFromBytes([]byte(`
endpoint: http://ignored:8080
interval: ${POLL_EVERY:-2s}
single_flight: false
`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "unix:///run/monitor.sock", cfg.Endpoint)
	assert.Equal(t, "zh-CN", cfg.Locale)
	assert.Equal(t, "2s", cfg.Interval)
	assert.False(t, cfg.SingleFlightEnabled())
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamwatch.toml")
	content := `
endpoint = "https://monitor.internal"
timeout = "3s"

[teams]
include = ["store*"]

[tui]
theme = "gruvbox"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://monitor.internal", cfg.Endpoint)
	assert.Equal(t, "3s", cfg.Timeout)
	assert.Equal(t, []string{"store*"}, cfg.Teams.Include)

	var tuiCfg TUIConfig
	require.NoError(t, cfg.UnmarshalExtension("tui", &tuiCfg))
	assert.Equal(t, "gruvbox", tuiCfg.Theme)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{"bad scheme", "endpoint: ftp://host", errors.ErrCodeConfigInvalid},
		{"missing host", "endpoint: http://", errors.ErrCodeConfigInvalid},
		{"bad interval", "interval: soon", errors.ErrCodeConfigInvalid},
		{"negative timeout", "timeout: -1s", errors.ErrCodeConfigInvalid},
		{"unknown locale", "locale: fr", errors.ErrCodeLocaleNotFound},
		{"bad team pattern", "teams:\n  include: ['[']", errors.ErrCodeConfigInvalid},
		{"malformed yaml", "endpoint: [", errors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml), FormatYAML)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLocaleFileSkipsLocaleCheck(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("locale: custom\nlocale_file: /etc/teamwatch/ops.yaml\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "/etc/teamwatch/ops.yaml", cfg.LocaleFile)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	t.Setenv("TEAMWATCH_HOME", t.TempDir())

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "teamwatch.yml"), []byte("listen: :9000\n"), 0644))

	path, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "teamwatch.yml"), path)

	cfg, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
}

func TestLoadFromWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("TEAMWATCH_HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"endpoint"`)
	assert.Contains(t, string(data), `"single_flight"`)
}
