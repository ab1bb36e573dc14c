package services

import (
	"strings"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/modeldata"
)

// CuratedOverlay layers static capability/pricing facts onto provider-reported
// metadata. Lookup is exact-match first, then the longest curated id that is a
// prefix of the reported id, so dated variants like "gpt-4o-2024-08-06" pick up
// the "gpt-4o" entry and "gpt-4o-mini-2024-07-18" the more specific
// "gpt-4o-mini" one.
type CuratedOverlay struct {
	byProvider map[domain.Provider][]modeldata.CuratedModel
}

func NewCuratedOverlay(models []modeldata.CuratedModel) *CuratedOverlay {
	byProvider := make(map[domain.Provider][]modeldata.CuratedModel)
	for _, m := range models {
		byProvider[m.Provider] = append(byProvider[m.Provider], m)
	}
	return &CuratedOverlay{byProvider: byProvider}
}

func (o *CuratedOverlay) find(provider domain.Provider, modelID string) *modeldata.CuratedModel {
	normalized := normalizeModelID(provider, modelID)
	entries := o.byProvider[provider]
	var best *modeldata.CuratedModel
	for i := range entries {
		entry := &entries[i]
		if entry.ID == normalized {
			return entry
		}
		if strings.HasPrefix(normalized, entry.ID) {
			if best == nil || len(entry.ID) > len(best.ID) {
				best = entry
			}
		}
	}
	return best
}

// Apply returns the metadata with curated facts merged in. Curated
// capabilities replace the reported ones wholesale; the remaining fields win
// only when the curated record provides them. No match is not an error.
func (o *CuratedOverlay) Apply(model domain.ModelMetadata) domain.ModelMetadata {
	curated := o.find(model.Provider, model.ID)
	if curated == nil {
		return model
	}
	model.Capabilities = curated.Capabilities
	if curated.DisplayName != "" {
		model.DisplayName = curated.DisplayName
	}
	if curated.Family != "" {
		model.Family = curated.Family
	}
	if curated.ContextWindow > 0 {
		model.ContextWindow = curated.ContextWindow
	}
	if curated.TokenPrices != nil {
		model.TokenPrices = curated.TokenPrices
	}
	if curated.Deprecated != nil {
		model.Deprecated = *curated.Deprecated
	}
	if curated.InPreview != nil {
		model.InPreview = *curated.InPreview
	}
	return model
}

// TokenPrices returns the curated per-million prices for a model, nil when the
// model is not curated or carries no pricing.
func (o *CuratedOverlay) TokenPrices(provider domain.Provider, modelID string) *domain.TokenPrices {
	curated := o.find(provider, modelID)
	if curated == nil {
		return nil
	}
	return curated.TokenPrices
}

// Providers sometimes report ids qualified with their own name
// ("openai/gpt-4o"); curated ids are stored unqualified.
func normalizeModelID(provider domain.Provider, modelID string) string {
	return strings.TrimPrefix(modelID, string(provider)+"/")
}
