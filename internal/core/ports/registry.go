package ports

import (
	"context"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

// ListModelsOptions scopes a registry read. A nil options value means "all
// configured providers, default partition, cached data allowed".
type ListModelsOptions struct {
	Providers   []domain.Provider
	Refresh     bool
	Entitlement *domain.EntitlementContext
}

// ModelRegistry owns the per-(provider, entitlement) metadata caches and the
// learned-unavailable state.
type ModelRegistry interface {
	// List returns provider-reported metadata, curated-overlay applied,
	// sorted by (provider, display name).
	List(ctx context.Context, opts *ListModelsOptions) ([]domain.ModelMetadata, error)

	// ListRecords synthesizes the per-scope ModelRecord view for the same
	// provider resolution and caching rules as List.
	ListRecords(ctx context.Context, opts *ListModelsOptions) ([]domain.ModelRecord, error)

	// LearnModelUnavailable records a time-boxed negative availability marker
	// when err identifies the model itself as the problem; otherwise a no-op.
	LearnModelUnavailable(entitlement *domain.EntitlementContext, provider domain.Provider, modelID string, err error)
}
