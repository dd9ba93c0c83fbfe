package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXDGResolution(t *testing.T) {
	t.Setenv("TEAMWATCH_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	assert.Equal(t, "/tmp/cfg/teamwatch", ConfigDir())
	assert.Equal(t, "/tmp/state/teamwatch", StateDir())
	assert.Equal(t, "/tmp/cfg/teamwatch/locales", LocaleDir())
	assert.Equal(t, "/tmp/state/teamwatch/teamwatch.log", LogFilePath())
}

func TestPortableHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TEAMWATCH_HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "/ignored")

	assert.Equal(t, filepath.Join(home, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(home, "state"), StateDir())
	assert.Equal(t, filepath.Join(home, "config", "locales"), LocaleDir())
}
