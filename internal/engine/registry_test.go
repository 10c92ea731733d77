package engine

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tovald/linkdrop/internal/logging"
)

func TestMain(m *testing.M) {
	// Initialize logging for tests
	logging.Init(false, os.Stderr)
	os.Exit(m.Run())
}

func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := NewRegistry()

	first := r.Add("/tmp/photo.png")
	second := r.Add("/tmp/photo.png")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, r.Len())

	assert.Equal(t, StateIdle, first.State)
	assert.Equal(t, 0, first.Progress)
	assert.Equal(t, "photo.png", first.DisplayName)
}

func TestRegistry_AddBlockedUntilRemoved(t *testing.T) {
	r := NewRegistry()

	old := r.Add("/tmp/file.txt")
	require.NoError(t, r.beginUploading(old.ID))
	_, live := r.resolve(old.ID, "https://host.example/u")
	require.True(t, live)

	// A terminal entry still blocks its path
	again := r.Add("/tmp/file.txt")
	assert.Equal(t, old.ID, again.ID)
	assert.Equal(t, StateSuccess, again.State)

	// Removing frees the path for a fresh attempt with a new identity
	r.Remove(old.ID)
	fresh := r.Add("/tmp/file.txt")
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, StateIdle, fresh.State)
}

func TestRegistry_ListInsertionOrder(t *testing.T) {
	r := NewRegistry()

	r.Add("/a")
	r.Add("/b")
	r.Add("/c")
	r.Remove(r.List()[1].ID)
	r.Add("/d")

	var paths []string
	for _, s := range r.List() {
		paths = append(paths, s.Path)
	}
	assert.Equal(t, []string{"/a", "/c", "/d"}, paths)
}

func TestRegistry_RemoveUnconditional(t *testing.T) {
	r := NewRegistry()

	uploading := r.Add("/uploading")
	require.NoError(t, r.beginUploading(uploading.ID))

	r.Remove(uploading.ID)
	assert.Equal(t, 0, r.Len())

	// Removing an unknown id is a no-op
	r.Remove("not-an-id")
}

func TestRegistry_TransitionsAreOneDirectional(t *testing.T) {
	r := NewRegistry()

	s := r.Add("/file")

	// Only Idle entries can begin
	require.NoError(t, r.beginUploading(s.ID))
	assert.Error(t, r.beginUploading(s.ID))

	_, live := r.resolve(s.ID, "https://host.example/u")
	require.True(t, live)

	// Terminal entries never move again
	assert.Error(t, r.beginUploading(s.ID))
	_, live = r.resolve(s.ID, "https://host.example/other")
	assert.False(t, live)
	_, live = r.reject(s.ID, "boom")
	assert.False(t, live)

	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, StateSuccess, got.State)
	assert.Equal(t, "https://host.example/u", got.ResultURL)
	assert.Empty(t, got.ErrorMessage)
}

func TestRegistry_RejectResetsProgress(t *testing.T) {
	r := NewRegistry()

	s := r.Add("/file")
	require.NoError(t, r.beginUploading(s.ID))

	r.advanceProgress(s.ID, ProgressStep, ProgressCeiling)
	r.advanceProgress(s.ID, ProgressStep, ProgressCeiling)

	got, _ := r.Get(s.ID)
	assert.Equal(t, 20, got.Progress)

	rejected, live := r.reject(s.ID, "network: it broke")
	require.True(t, live)
	assert.Equal(t, StateError, rejected.State)
	assert.Equal(t, 0, rejected.Progress)
	assert.Equal(t, "network: it broke", rejected.ErrorMessage)
	assert.Empty(t, rejected.ResultURL)
}

func TestRegistry_ProgressCapsAtCeiling(t *testing.T) {
	r := NewRegistry()

	s := r.Add("/file")
	require.NoError(t, r.beginUploading(s.ID))

	for i := 0; i < 20; i++ {
		r.advanceProgress(s.ID, ProgressStep, ProgressCeiling)
	}

	got, _ := r.Get(s.ID)
	assert.Equal(t, ProgressCeiling, got.Progress)
}

func TestRegistry_ProgressIgnoredOutsideUploading(t *testing.T) {
	r := NewRegistry()

	s := r.Add("/file")

	// Idle: no ticks apply
	r.advanceProgress(s.ID, ProgressStep, ProgressCeiling)
	got, _ := r.Get(s.ID)
	assert.Equal(t, 0, got.Progress)

	require.NoError(t, r.beginUploading(s.ID))
	_, live := r.resolve(s.ID, "https://host.example/u")
	require.True(t, live)

	// Terminal: a stale tick must not disturb the snapped value
	r.advanceProgress(s.ID, ProgressStep, ProgressCeiling)
	got, _ = r.Get(s.ID)
	assert.Equal(t, 100, got.Progress)

	// Removed: nothing to tick
	r.Remove(s.ID)
	r.advanceProgress(s.ID, ProgressStep, ProgressCeiling)
}
