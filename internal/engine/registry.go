package engine

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/tovald/linkdrop/internal/logging"
)

// Registry exclusively owns the session's upload entries. All access
// goes through its mutex, which makes concurrent completion callbacks
// from independent uploads safe. Entry IDs are fresh UUIDs, never
// reused, so an ID doubles as a generation token: a completion for a
// removed entry simply finds nothing to write to.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
	byPath  map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		byPath:  make(map[string]string),
	}
}

// Add creates an Idle entry for the path, or returns the existing one.
// Re-adding a tracked path is a no-op regardless of the entry's state;
// a retry requires removing the old entry first.
func (r *Registry) Add(path string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPath[path]; ok {
		return r.entries[id].snapshot()
	}

	e := &entry{
		id:          uuid.NewString(),
		path:        path,
		displayName: filepath.Base(path),
		state:       StateIdle,
	}
	r.entries[e.id] = e
	r.order = append(r.order, e.id)
	r.byPath[path] = e.id

	logging.EntryAdded(e.id, path)
	return e.snapshot()
}

// Remove deletes the entry unconditionally, in any state. It does not
// cancel an in-flight upload; the late completion is dropped when it
// finds no live entry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}

	delete(r.entries, id)
	delete(r.byPath, e.path)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	logging.EntryRemoved(id)
}

// Get returns a snapshot of the entry, if it is still tracked
func (r *Registry) Get(id string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// List returns snapshots in insertion order. The order is for display
// only and carries no scheduling meaning.
func (r *Registry) List() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Snapshot, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].snapshot())
	}
	return out
}

// Len returns the number of tracked entries
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// beginUploading moves an entry from Idle to Uploading. Any other
// starting state is rejected; terminal entries never move again.
func (r *Registry) beginUploading(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("no entry with id %s", id)
	}
	if e.state != StateIdle {
		return fmt.Errorf("entry %s is %s, upload can only begin from idle", id, e.state)
	}

	e.state = StateUploading
	logging.EntryTransition(id, StateIdle.String(), StateUploading.String())
	return nil
}

// advanceProgress applies one synthetic tick: +step while Uploading,
// capped at ceiling. Ticks arriving after a terminal transition or a
// removal fall through without touching anything.
func (r *Registry) advanceProgress(id string, step, ceiling int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.state != StateUploading {
		return
	}

	e.progress += step
	if e.progress > ceiling {
		e.progress = ceiling
	}
}

// resolve completes an entry as Success, snapping progress to 100
// atomically with the transition. Returns false when the entry was
// removed while the upload ran; the caller must then skip all side
// effects.
func (r *Registry) resolve(id, url string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.state != StateUploading {
		return Snapshot{}, false
	}

	e.state = StateSuccess
	e.progress = 100
	e.resultURL = url
	logging.EntryTransition(id, StateUploading.String(), StateSuccess.String())
	return e.snapshot(), true
}

// reject completes an entry as Error, resetting progress to 0
// atomically with the transition. Returns false when the entry was
// removed while the upload ran.
func (r *Registry) reject(id, message string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.state != StateUploading {
		return Snapshot{}, false
	}

	e.state = StateError
	e.progress = 0
	e.errorMessage = message
	logging.EntryTransition(id, StateUploading.String(), StateError.String())
	return e.snapshot(), true
}
