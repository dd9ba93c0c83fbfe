package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "updated_at": "2026-02-10T10:00:00Z",
  "processes": [{"pid": 4242, "started_at": "2026-02-10T09:00:00Z", "command": "claude"}],
  "teams": [
    {
      "name": "checkout-squad",
      "created_at": "2026-02-10T08:00:00Z",
      "members": [{"name": "lead", "agent_type": "team-lead", "status": "working"}],
      "tasks": [{"id": "1", "subject": "Checkout page", "status": "in_progress", "owner": "lead"}]
    },
    {"name": "scratch", "members": [], "tasks": []}
  ]
}`

// setup writes a snapshot file and a config pointing at it.
func setup(t *testing.T, extraConfig string) string {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	dir := t.TempDir()
	snapPath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(snapPath, []byte(sampleSnapshot), 0644))

	cfgPath := filepath.Join(dir, "teamwatch.yml")
	cfg := "endpoint: file://" + snapPath + "\n" + extraConfig
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSnapshotJSON(t *testing.T) {
	cfgPath := setup(t, "")

	out, err := execute(t, "snapshot", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "checkout-squad"`)
	assert.Contains(t, out, `"pid": 4242`)
}

func TestSnapshotText(t *testing.T) {
	cfgPath := setup(t, "")

	out, err := execute(t, "snapshot", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Agent processes (1 running)")
	assert.Contains(t, out, "Active teams (2)")
	assert.Contains(t, out, "checkout-squad")
	assert.Contains(t, out, "2 teams, 1 agent, and 1 process")
}

func TestSnapshotTeamFilter(t *testing.T) {
	cfgPath := setup(t, "teams:\n  exclude: [\"scratch\"]\n")

	out, err := execute(t, "snapshot", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Active teams (1)")
	assert.NotContains(t, out, "scratch")
}

func TestSnapshotEndpointFlag(t *testing.T) {
	cfgPath := setup(t, "")
	missing := filepath.Join(filepath.Dir(cfgPath), "missing.json")

	_, err := execute(t, "snapshot", "-c", cfgPath, "--endpoint", "file://"+missing)
	require.Error(t, err)
	assert.True(t, errors.IsPollFailure(err), "got %v", err)
}

func TestSnapshotBadTUIConfig(t *testing.T) {
	cfgPath := setup(t, "tui:\n  keybindings: oops\n")

	_, err := execute(t, "snapshot", "-c", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension config for 'tui'")

	// --json never reads the tui section.
	_, err = execute(t, "snapshot", "--json", "-c", cfgPath)
	assert.NoError(t, err)
}

func TestSnapshotUserLocale(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TEAMWATCH_HOME", home)
	dir := filepath.Join(home, "config", "locales")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ops.yaml"),
		[]byte("labels:\n  teams_title: \"Squads on duty (%d)\"\n"), 0644))

	cfgPath := setup(t, "locale: ops\n")
	out, err := execute(t, "snapshot", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Squads on duty (2)")

	table, path, err := loadLocale(&config.Config{Locale: "ops"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ops.yaml"), path)
	assert.Equal(t, "ops", table.Name)

	_, path, err = loadLocale(&config.Config{Locale: "en"})
	require.NoError(t, err)
	assert.Empty(t, path, "embedded locales are not watched")
}

func TestSummary(t *testing.T) {
	now := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	snap := &models.Snapshot{
		UpdatedAt: now.Add(-4 * time.Second),
		Processes: []models.ProcessInfo{{PID: 1}},
		Teams: []models.Team{
			{Name: "a", Members: []models.Agent{{Name: "x"}, {Name: "y"}}},
			{Name: "b", Members: []models.Agent{{Name: "z"}}},
		},
	}
	assert.Equal(t, "2 teams, 3 agents, and 1 process, updated 4 seconds ago", summary(snap, now))

	snap.UpdatedAt = time.Time{}
	assert.Equal(t, "2 teams, 3 agents, and 1 process", summary(snap, now))
}

func TestValidateConfig(t *testing.T) {
	cfgPath := setup(t, "")

	out, err := execute(t, "validate", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ configuration is valid")
	assert.Contains(t, out, "endpoint: file://")
	assert.Contains(t, out, "locale: en")

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("interval: -1s\n"), 0644))
	_, err = execute(t, "validate", "-c", bad)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid), "got %v", err)
}

func TestValidateSnapshotDocument(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(sampleSnapshot), 0644))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is a valid snapshot")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"teams": [{"members": []}]}`), 0644))
	_, err = execute(t, "validate", bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestValidateStdin(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(sampleSnapshot))
	root.SetArgs([]string{"validate", "-"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "- is a valid snapshot")
}

func TestSchemaCommands(t *testing.T) {
	out, err := execute(t, "schema", "snapshot")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "teamwatch snapshot"`)

	out, err = execute(t, "schema", "config")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "teamwatch configuration"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "teamwatch "), out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"go_version"`)
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, LoadDotEnv(), "missing .env is fine")

	require.NoError(t, os.WriteFile(".env", []byte("TEAMWATCH_DOTENV_CHECK=loaded\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TEAMWATCH_DOTENV_CHECK") })

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "loaded", os.Getenv("TEAMWATCH_DOTENV_CHECK"))
}
