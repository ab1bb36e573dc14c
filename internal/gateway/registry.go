package gateway

import (
	"sync"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
)

// AdapterConstructor builds a ProviderAdapter from its resolved configuration
// and key pool. Wire-level adapters register themselves here; providers with
// no registered constructor fall back to the offline catalog adapter.
type AdapterConstructor func(cfg domain.ProviderConfig, keys *KeyPool) (ports.ProviderAdapter, error)

var (
	constructorsMu sync.RWMutex
	constructors   = make(map[domain.Provider]AdapterConstructor)
)

// RegisterAdapter installs a constructor for a provider, replacing any prior
// registration.
func RegisterAdapter(provider domain.Provider, ctor AdapterConstructor) {
	constructorsMu.Lock()
	constructors[provider] = ctor
	constructorsMu.Unlock()
}

func adapterConstructor(provider domain.Provider) (AdapterConstructor, bool) {
	constructorsMu.RLock()
	ctor, ok := constructors[provider]
	constructorsMu.RUnlock()
	return ctor, ok
}
