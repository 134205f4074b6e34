package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	path    string
	content []byte
}

func startWatcher(t *testing.T, path string) chan delivery {
	t.Helper()
	ch := make(chan delivery, 8)
	w, err := New(path, func(p string, content []byte) {
		ch <- delivery{path: p, content: content}
	}, Options{Debounce: 30 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)
	return ch
}

func TestWatcherDeliversLatestContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.bas")
	require.NoError(t, os.WriteFile(path, []byte("Dim a As Integer\n"), 0o644))

	ch := startWatcher(t, path)

	// шквал правок внутри окна
	require.NoError(t, os.WriteFile(path, []byte("Dim b As Integer\n"), 0o644))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("Dim c As Integer\n"), 0o644))

	select {
	case d := <-ch:
		assert.Equal(t, path, d.path)
		assert.Equal(t, "Dim c As Integer\n", string(d.content))
	case <-time.After(2 * time.Second):
		t.Fatal("change never delivered")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.bas")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	ch := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.bas"), []byte("x"), 0o644))

	select {
	case d := <-ch:
		t.Fatalf("unexpected delivery for %s", d.path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherSurvivesRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.bas")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	ch := startWatcher(t, path)

	// сохранение в стиле редактора: временный файл + rename поверх
	tmp := filepath.Join(dir, "app.bas.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("new content"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case d := <-ch:
		assert.Equal(t, "new content", string(d.content))
	case <-time.After(2 * time.Second):
		t.Fatal("rename-replace not delivered")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.bas")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	w, err := New(path, func(string, []byte) {}, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
