package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/budgetview/internal/testutil"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	path := "/data/budget.db"
	assert.True(t, matches(path, fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.True(t, matches(path, fsnotify.Event{Name: "/data/budget.db-wal", Op: fsnotify.Write}))
	assert.False(t, matches(path, fsnotify.Event{Name: "/data/other.db", Op: fsnotify.Write}))
	assert.False(t, matches(path, fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
}

func TestFileDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "budget.db")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, 100*time.Millisecond, testutil.NewTestLogger(t), func() {
			changes <- struct{}{}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-changes:
		t.Fatal("burst of writes reported more than once")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestFileMissingDirectory(t *testing.T) {
	err := File(context.Background(), filepath.Join(t.TempDir(), "nope", "budget.db"), 0, nil, func() {})
	assert.Error(t, err)
}
