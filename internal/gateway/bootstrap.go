package gateway

import (
	"go.uber.org/zap"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
)

// ProviderSet is the bootstrapped view of the configured providers: one
// long-lived adapter per provider plus a factory for per-call construction.
type ProviderSet struct {
	logger  *zap.Logger
	configs map[domain.Provider]domain.ProviderConfig
	pools   map[domain.Provider]*KeyPool
}

// Bootstrap indexes the enabled provider configurations and builds their key
// pools. Disabled entries are skipped; nothing fails here, a provider with no
// wire adapter simply serves its curated catalog.
func Bootstrap(cfgs []domain.ProviderConfig, logger *zap.Logger) *ProviderSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	ps := &ProviderSet{
		logger:  logger,
		configs: make(map[domain.Provider]domain.ProviderConfig),
		pools:   make(map[domain.Provider]*KeyPool),
	}
	for _, cfg := range cfgs {
		if !cfg.Enabled || cfg.Provider == "" {
			continue
		}
		keys := cfg.APIKeys
		if cfg.APIKey != "" {
			keys = append([]string{cfg.APIKey}, keys...)
		}
		ps.configs[cfg.Provider] = cfg
		ps.pools[cfg.Provider] = NewKeyPool(keys)

		if _, ok := adapterConstructor(cfg.Provider); !ok {
			logger.Info("no wire adapter registered, provider serves curated catalog only",
				zap.String("provider", string(cfg.Provider)),
			)
		}
	}
	return ps
}

// Adapters builds one adapter per configured provider for registry use.
func (ps *ProviderSet) Adapters() map[domain.Provider]ports.ProviderAdapter {
	out := make(map[domain.Provider]ports.ProviderAdapter, len(ps.configs))
	for provider := range ps.configs {
		adapter, err := ps.build(provider, nil)
		if err != nil {
			ps.logger.Error("failed to build provider adapter",
				zap.String("provider", string(provider)),
				zap.Error(err),
			)
			continue
		}
		out[provider] = adapter
	}
	return out
}

// Factory returns the per-fetch adapter factory. A caller-supplied key in the
// entitlement overrides the configured pool for that one construction.
func (ps *ProviderSet) Factory() ports.AdapterFactory {
	return func(provider domain.Provider, entitlement *domain.EntitlementContext) (ports.ProviderAdapter, error) {
		return ps.build(provider, entitlement)
	}
}

func (ps *ProviderSet) build(provider domain.Provider, entitlement *domain.EntitlementContext) (ports.ProviderAdapter, error) {
	cfg, configured := ps.configs[provider]
	if !configured {
		return nil, domain.NewValidationError(provider, "provider not configured")
	}

	ctor, ok := adapterConstructor(provider)
	if !ok {
		return NewCatalogAdapter(provider), nil
	}

	pool := ps.pools[provider]
	if entitlement != nil && entitlement.APIKey != "" {
		cfg.APIKey = entitlement.APIKey
		pool = NewKeyPool([]string{entitlement.APIKey})
	}
	return ctor(cfg, pool)
}
