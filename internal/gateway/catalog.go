package gateway

import (
	"context"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/modeldata"
)

// CatalogAdapter serves the embedded curated table for one provider without
// touching the network. It stands in for providers that have no wire adapter
// registered, keeping the registry and router fully exercisable offline.
type CatalogAdapter struct {
	provider domain.Provider
	models   []modeldata.CuratedModel
}

var _ ports.ProviderAdapter = (*CatalogAdapter)(nil)

func NewCatalogAdapter(provider domain.Provider) *CatalogAdapter {
	var models []modeldata.CuratedModel
	for _, m := range modeldata.Curated() {
		if m.Provider == provider {
			models = append(models, m)
		}
	}
	return &CatalogAdapter{provider: provider, models: models}
}

func (a *CatalogAdapter) ListModels(ctx context.Context) ([]domain.ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.ModelMetadata, 0, len(a.models))
	for _, m := range a.models {
		meta := domain.ModelMetadata{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			Provider:      m.Provider,
			Family:        m.Family,
			Capabilities:  m.Capabilities,
			ContextWindow: m.ContextWindow,
			TokenPrices:   m.TokenPrices,
		}
		if m.Deprecated != nil {
			meta.Deprecated = *m.Deprecated
		}
		if m.InPreview != nil {
			meta.InPreview = *m.InPreview
		}
		if meta.DisplayName == "" {
			meta.DisplayName = m.ID
		}
		out = append(out, meta)
	}
	return out, nil
}

func (a *CatalogAdapter) Generate(ctx context.Context, in domain.GenerateInput) (domain.GenerateOutput, error) {
	return domain.GenerateOutput{}, domain.NewUnsupportedError(a.provider, "catalog adapter cannot generate")
}

func (a *CatalogAdapter) Stream(ctx context.Context, in domain.GenerateInput) (<-chan domain.StreamChunk, error) {
	return nil, domain.NewUnsupportedError(a.provider, "catalog adapter cannot stream")
}
