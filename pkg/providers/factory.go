package providers

import (
	"fmt"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/logging"
	core "github.com/tovald/linkdrop/internal/providers"
	"github.com/tovald/linkdrop/pkg/providers/anonhost"
	"github.com/tovald/linkdrop/pkg/providers/cloudstore"
)

// Factory creates provider instances for the closed backend set
type Factory struct {
	store *config.Store
}

// NewFactory creates a new provider factory backed by the given
// settings store
func NewFactory(store *config.Store) *Factory {
	return &Factory{store: store}
}

// Create builds the provider for the given backend ID. The set is
// closed; anything outside the enum is an error.
func (f *Factory) Create(id core.ID) (core.Provider, error) {
	switch id {
	case core.AnonymousHost:
		provider, err := anonhost.New(map[string]interface{}{})
		if err != nil {
			logging.ErrorContext("provider_creation", err, map[string]interface{}{
				"provider": id.String(),
			})
			return nil, fmt.Errorf("failed to create provider %q: %w", id, err)
		}
		return provider, nil

	case core.CloudStore:
		return cloudstore.New(f.store, f.store.Config().Cloud), nil

	default:
		err := fmt.Errorf("unknown provider id: %d", id)
		logging.ErrorContext("provider_creation", err, nil)
		return nil, err
	}
}

// Selected builds the provider currently chosen in the settings store
func (f *Factory) Selected() (core.Provider, error) {
	return f.Create(f.store.Provider())
}
