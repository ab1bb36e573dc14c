package ports

import (
	"context"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

// ProviderAdapter is the contract every upstream vendor adapter implements.
// Implementations live outside this repository; the core depends only on
// this interface.
type ProviderAdapter interface {
	ListModels(ctx context.Context) ([]domain.ModelMetadata, error)
	Generate(ctx context.Context, in domain.GenerateInput) (domain.GenerateOutput, error)
	Stream(ctx context.Context, in domain.GenerateInput) (<-chan domain.StreamChunk, error)
}

// AdapterFactory maps (provider, entitlement) to an adapter instance, e.g. to
// back a provider with per-call credentials or a region-scoped client. The
// registry invokes the factory on every fetch, never caching its result, so
// swapping the concrete client between calls needs no invalidation.
type AdapterFactory func(provider domain.Provider, entitlement *domain.EntitlementContext) (ProviderAdapter, error)
