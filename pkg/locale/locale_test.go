package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailable(t *testing.T) {
	t.Setenv("TEAMWATCH_HOME", t.TempDir())
	assert.Equal(t, []string{"en", "zh-CN"}, Available())
}

func TestUserLocaleDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TEAMWATCH_HOME", home)
	dir := filepath.Join(home, "config", "locales")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ops.yaml"), []byte("labels:\n  connected: UP\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("labels:\n  connected: SHADOWED\n"), 0644))

	assert.Equal(t, []string{"en", "ops", "zh-CN"}, Available())
	assert.Equal(t, filepath.Join(dir, "ops.yaml"), Path("ops"))
	assert.Empty(t, Path("en"), "embedded locales win")
	assert.Empty(t, Path("../ops"))
	assert.Empty(t, Path("fr"))

	table, err := Load("ops")
	require.NoError(t, err)
	assert.Equal(t, "ops", table.Name)
	assert.Equal(t, "UP", table.Labels.Connected)
	assert.Equal(t, "Idle", table.AgentStatusLabel(models.AgentIdle))

	en, err := Load("en")
	require.NoError(t, err)
	assert.NotEqual(t, "SHADOWED", en.Labels.Connected)
}

func TestStatusLabels(t *testing.T) {
	en := Default()
	zh, err := Load("zh-CN")
	require.NoError(t, err)

	tests := []struct {
		name  string
		table *Table
		agent models.AgentStatus
		task  models.TaskStatus
		wantA string
		wantT string
	}{
		{"en known", en, models.AgentWorking, models.TaskInProgress, "Working", "In progress"},
		{"zh known", zh, models.AgentIdle, models.TaskPending, "空闲", "待处理"},
		{"unknown falls back to upper case", en, "blocked", "deleted", "BLOCKED", "DELETED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantA, tt.table.AgentStatusLabel(tt.agent))
			assert.Equal(t, tt.wantT, tt.table.TaskStatusLabel(tt.task))
		})
	}
}

func TestLoadUnknownLocale(t *testing.T) {
	t.Setenv("TEAMWATCH_HOME", t.TempDir())
	_, err := Load("fr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeLocaleNotFound))
}

func TestLoadFileOverlaysDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.yaml")
	content := `name: ops
agent_status:
  working: BUSY
labels:
  connected: "UP"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ops", table.Name)
	assert.Equal(t, "BUSY", table.AgentStatusLabel(models.AgentWorking))
	// Untouched keys come from the default table.
	assert.Equal(t, "Idle", table.AgentStatusLabel(models.AgentIdle))
	assert.Equal(t, "UP", table.Labels.Connected)
	assert.Equal(t, "● Disconnected", table.Labels.Disconnected)
	assert.Equal(t, "%ds ago", table.Units.SecondsAgo)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, errors.ErrCodeLocaleNotFound))
}
