package engine

import (
	"context"
	"os"
	"time"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/logging"
	"github.com/tovald/linkdrop/internal/notify"
	"github.com/tovald/linkdrop/internal/providers"
)

// ProviderFactory builds a provider for a backend ID.
// *pkg/providers.Factory satisfies it.
type ProviderFactory interface {
	Create(id providers.ID) (providers.Provider, error)
}

// Outcome is the terminal result of one upload operation
type Outcome struct {
	URL string
	Err error
}

// Orchestrator drives a single entry's state machine: Idle to
// Uploading on begin, then to exactly one of Success or Error when the
// provider call resolves. There is no concurrency limit and no
// cancellation; every started upload runs to its terminal outcome even
// if its entry is removed underneath it.
type Orchestrator struct {
	registry   *Registry
	factory    ProviderFactory
	store      *config.Store
	dispatcher *notify.Dispatcher

	// tick is the estimator interval, injectable for tests
	tick time.Duration
}

// NewOrchestrator creates an orchestrator over the given registry
func NewOrchestrator(registry *Registry, factory ProviderFactory, store *config.Store, dispatcher *notify.Dispatcher) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		factory:    factory,
		store:      store,
		dispatcher: dispatcher,
		tick:       DefaultTickInterval,
	}
}

// Begin starts the upload for an Idle entry. It returns a channel that
// delivers the single terminal outcome; the entry itself is updated
// through the registry as the operation progresses. Begin fails
// synchronously when the entry is unknown or not Idle.
func (o *Orchestrator) Begin(ctx context.Context, entryID string) (<-chan Outcome, error) {
	snap, ok := o.registry.Get(entryID)
	if !ok {
		return nil, providers.NewUnknownError("no such entry", nil)
	}

	if err := o.registry.beginUploading(entryID); err != nil {
		return nil, err
	}

	outcome := make(chan Outcome, 1)
	stop := startEstimator(o.registry, entryID, o.tick)

	go func() {
		defer close(outcome)

		url, err := o.upload(ctx, snap)

		// The estimator must be dead before the terminal transition
		stop()

		if err != nil {
			msg := providers.UserMessage(err)
			if _, live := o.registry.reject(entryID, msg); !live {
				logging.StaleCompletion(entryID)
			}
			outcome <- Outcome{Err: err}
			return
		}

		final, live := o.registry.resolve(entryID, url)
		if live {
			o.dispatcher.UploadSucceeded(final.DisplayName, url, o.store.AutoCopy())
		} else {
			// Entry was removed mid-flight; drop the result on the
			// floor, no resurrection and no side effects
			logging.StaleCompletion(entryID)
		}
		outcome <- Outcome{URL: url}
	}()

	return outcome, nil
}

// upload reads the file and runs the selected provider call
func (o *Orchestrator) upload(ctx context.Context, snap Snapshot) (string, error) {
	provider, err := o.factory.Create(o.store.Provider())
	if err != nil {
		return "", providers.NewConfigurationError("failed to create provider", err)
	}

	file, err := os.Open(snap.Path)
	if err != nil {
		return "", providers.NewUnknownError("failed to open file", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", providers.NewUnknownError("failed to stat file", err)
	}

	logging.UploadStart(snap.DisplayName, info.Size())

	start := time.Now()
	url, err := provider.Upload(ctx, snap.DisplayName, file, info.Size())
	if err != nil {
		logging.UploadError(snap.DisplayName, provider.Name(), err)
		return "", err
	}

	logging.UploadComplete(snap.DisplayName, url, time.Since(start))
	return url, nil
}
