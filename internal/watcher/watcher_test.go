package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSSourceReportsNewFiles(t *testing.T) {
	root := t.TempDir()

	s, err := NewFSSource([]string{root})
	require.NoError(t, err)
	defer s.Close()

	path := filepath.Join(root, "marzo.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	select {
	case ev := <-s.Events():
		assert.Equal(t, root, ev.Root)
		assert.Equal(t, path, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for created file")
	}
}

func TestFSSourceIgnoresOtherRoots(t *testing.T) {
	watched := t.TempDir()
	unwatched := t.TempDir()

	s, err := NewFSSource([]string{watched})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, os.WriteFile(filepath.Join(unwatched, "abril.xlsx"), []byte("x"), 0o644))

	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFSSourceMissingRoot(t *testing.T) {
	_, err := NewFSSource([]string{filepath.Join(t.TempDir(), "no-existe")})
	assert.Error(t, err)
}

func TestFSSourceCloseEndsStream(t *testing.T) {
	s, err := NewFSSource([]string{t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	select {
	case _, ok := <-s.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}
