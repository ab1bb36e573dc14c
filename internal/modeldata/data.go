package modeldata

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

//go:embed curated_models.json
var curatedRaw []byte

// CuratedModel is one hand-maintained (or scrape-maintained) entry of the
// static overlay table. Pointer fields distinguish "not curated" from a
// curated zero value.
type CuratedModel struct {
	ID            string                   `json:"id"`
	DisplayName   string                   `json:"display_name,omitempty"`
	Provider      domain.Provider          `json:"provider"`
	Family        string                   `json:"family,omitempty"`
	Capabilities  domain.ModelCapabilities `json:"capabilities"`
	ContextWindow int                      `json:"context_window,omitempty"`
	TokenPrices   *domain.TokenPrices      `json:"token_prices,omitempty"`
	Deprecated    *bool                    `json:"deprecated,omitempty"`
	InPreview     *bool                    `json:"in_preview,omitempty"`
}

var (
	curatedOnce   sync.Once
	curatedModels []CuratedModel
)

// Curated returns the embedded overlay table, decoded once per process and
// read-only thereafter. A table that fails to decode is a broken build, not a
// runtime condition, so it panics rather than silently serving an empty
// overlay.
func Curated() []CuratedModel {
	curatedOnce.Do(func() {
		var err error
		curatedModels, err = parseCurated(curatedRaw)
		if err != nil {
			panic("modeldata: embedded curated_models.json is invalid: " + err.Error())
		}
	})
	return curatedModels
}

func parseCurated(raw []byte) ([]CuratedModel, error) {
	var models []CuratedModel
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, err
	}
	return models, nil
}
