package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocale(t *testing.T, path, connected string) {
	t.Helper()
	content := "labels:\n  connected: \"" + connected + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func startWatcher(t *testing.T, path string) (*render.Localizer, *atomic.Int32) {
	t.Helper()
	loc := render.NewLocalizer(nil)
	var reloads atomic.Int32

	w, err := NewLocaleWatcher(path, loc, 20*time.Millisecond, func() { reloads.Add(1) })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loc, &reloads
}

func TestLocaleWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeLocale(t, path, "UP")

	loc, reloads := startWatcher(t, path)

	writeLocale(t, path, "ONLINE")
	assert.Eventually(t, func() bool {
		return loc.Table().Labels.Connected == "ONLINE"
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))

	// Keys absent from the file come from the default table.
	assert.NotEmpty(t, loc.Table().Labels.Disconnected)
}

func TestLocaleWatcherReplacedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeLocale(t, path, "UP")

	loc, _ := startWatcher(t, path)

	tmp := filepath.Join(dir, "custom.yaml.tmp")
	writeLocale(t, tmp, "SWAPPED")
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool {
		return loc.Table().Labels.Connected == "SWAPPED"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLocaleWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeLocale(t, path, "UP")

	loc, reloads := startWatcher(t, path)
	before := loc.Table()

	writeLocale(t, filepath.Join(dir, "other.yaml"), "NOPE")
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(0), reloads.Load())
	assert.Same(t, before, loc.Table())
}

func TestLocaleWatcherKeepsTableOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeLocale(t, path, "UP")

	loc := render.NewLocalizer(nil)
	calls := 0
	w, err := NewLocaleWatcher(path, loc, 0, func() { calls++ })
	require.NoError(t, err)
	defer w.Close()

	w.Reload()
	require.Equal(t, "UP", loc.Table().Labels.Connected)
	require.Equal(t, 1, calls)

	require.NoError(t, os.WriteFile(path, []byte("labels: [not, a, map"), 0644))
	w.Reload()
	assert.Equal(t, "UP", loc.Table().Labels.Connected)
	assert.Equal(t, 1, calls)
}

func TestNewLocaleWatcherMissingDir(t *testing.T) {
	_, err := NewLocaleWatcher(filepath.Join(t.TempDir(), "missing", "x.yaml"), render.NewLocalizer(nil), 0, nil)
	assert.Error(t, err)
}
