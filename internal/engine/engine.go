// Package engine implements the upload orchestration core: the
// per-entry state machine, the registry of tracked uploads, the
// synthetic progress estimator, and the completion side effects.
package engine

import (
	"context"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/notify"
)

// Engine is the boundary the presentation layer talks to. It wires
// the registry, the orchestrator, the settings store, and the
// notification dispatcher into one facade.
type Engine struct {
	registry     *Registry
	orchestrator *Orchestrator
	store        *config.Store
	dispatcher   *notify.Dispatcher
}

// New creates an engine. A nil dispatcher gets the real system
// clipboard and notifier.
func New(store *config.Store, factory ProviderFactory, dispatcher *notify.Dispatcher) *Engine {
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher(nil, nil)
	}

	registry := NewRegistry()
	return &Engine{
		registry:     registry,
		orchestrator: NewOrchestrator(registry, factory, store, dispatcher),
		store:        store,
		dispatcher:   dispatcher,
	}
}

// SubmitPath enqueues a file for upload consideration. Submitting a
// path that is already tracked returns the existing entry unchanged.
func (e *Engine) SubmitPath(path string) Snapshot {
	return e.registry.Add(path)
}

// BeginUpload drives the entry's state machine; the returned channel
// delivers the terminal outcome.
func (e *Engine) BeginUpload(ctx context.Context, entryID string) (<-chan Outcome, error) {
	return e.orchestrator.Begin(ctx, entryID)
}

// RemoveEntry drops the entry regardless of state. An upload already
// in flight keeps running; its completion is discarded.
func (e *Engine) RemoveEntry(entryID string) {
	e.registry.Remove(entryID)
}

// Entry returns a snapshot of one entry
func (e *Engine) Entry(entryID string) (Snapshot, bool) {
	return e.registry.Get(entryID)
}

// List returns all tracked entries in insertion order
func (e *Engine) List() []Snapshot {
	return e.registry.List()
}

// SaveCredentials persists cloud credentials, overwriting any previous
// pair
func (e *Engine) SaveCredentials(clientID, clientSecret string) error {
	return e.store.SaveCredentials(clientID, clientSecret)
}

// GetCredentials resolves credentials: persisted first, then the
// process environment
func (e *Engine) GetCredentials() (config.Credentials, bool) {
	return e.store.Credentials()
}

// SetAutoCopy persists the auto-copy flag and returns its new value
func (e *Engine) SetAutoCopy(enabled bool) (bool, error) {
	return e.store.SetAutoCopy(enabled)
}

// GetAutoCopy reports the persisted auto-copy flag
func (e *Engine) GetAutoCopy() bool {
	return e.store.AutoCopy()
}

// SetAutoStart persists the launch-at-login flag and returns its new
// value
func (e *Engine) SetAutoStart(enabled bool) (bool, error) {
	return e.store.SetAutoStart(enabled)
}

// GetAutoStart reports the persisted launch-at-login flag
func (e *Engine) GetAutoStart() bool {
	return e.store.AutoStart()
}

// Notify delivers an OS notification through the dispatcher
func (e *Engine) Notify(title, body string) bool {
	return e.dispatcher.Notify(title, body)
}
