package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

// ErrNoMatch distinguishes "nothing satisfied the constraints" from transport
// failures; callers must never treat it as retriable.
var ErrNoMatch = errors.New("router: no models match constraints")

// ModelConstraints are the hard requirements of a resolution request.
type ModelConstraints struct {
	RequireTools  bool    `json:"require_tools,omitempty"`
	RequireJSON   bool    `json:"require_json,omitempty"`
	RequireVision bool    `json:"require_vision,omitempty"`
	RequireVideo  bool    `json:"require_video,omitempty"`
	MaxCostUSD    float64 `json:"max_cost_usd,omitempty"`
	AllowPreview  *bool   `json:"allow_preview,omitempty"`
}

// ResolutionRequest combines constraints with an optional preferred-model
// list. A non-empty preferred list is both an allow-list and an ordering.
type ResolutionRequest struct {
	Constraints     ModelConstraints `json:"constraints,omitempty"`
	PreferredModels []string         `json:"preferred_models,omitempty"`
}

// Resolution is a concrete ranked choice: one primary and ordered fallbacks.
type Resolution struct {
	Primary  domain.ModelRecord   `json:"primary"`
	Fallback []domain.ModelRecord `json:"fallback,omitempty"`
}

// ModelRouter filters and ranks records. It performs no I/O and holds no
// state; Resolve is a pure function over its inputs.
type ModelRouter struct{}

func NewModelRouter() *ModelRouter {
	return &ModelRouter{}
}

func (r *ModelRouter) Resolve(records []domain.ModelRecord, req ResolutionRequest) (Resolution, error) {
	candidates := filterAndRank(records, req)
	if len(candidates) == 0 {
		return Resolution{}, ErrNoMatch
	}
	res := Resolution{Primary: candidates[0]}
	if len(candidates) > 1 {
		res.Fallback = candidates[1:]
	}
	return res, nil
}

func filterAndRank(records []domain.ModelRecord, req ResolutionRequest) []domain.ModelRecord {
	allowPreview := true
	if req.Constraints.AllowPreview != nil {
		allowPreview = *req.Constraints.AllowPreview
	}
	preferred := normalizePreferred(req.PreferredModels)

	candidates := make([]domain.ModelRecord, 0, len(records))
	for _, record := range records {
		if !record.Availability.Entitled {
			continue
		}
		if req.Constraints.RequireTools && !record.Features.Tools {
			continue
		}
		if req.Constraints.RequireJSON && !(record.Features.JSONMode || record.Features.JSONSchema) {
			continue
		}
		if req.Constraints.RequireVision && !record.Modalities.Vision {
			continue
		}
		if req.Constraints.RequireVideo && !record.Modalities.VideoOut {
			continue
		}
		if !allowPreview && hasTag(record.Tags, "preview") {
			continue
		}
		if req.Constraints.MaxCostUSD > 0 && !withinCost(record, req.Constraints.MaxCostUSD) {
			continue
		}
		if len(preferred) > 0 && preferredIndex(record, preferred) < 0 {
			continue
		}
		candidates = append(candidates, record)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		iRank := preferredRank(candidates[i], preferred)
		jRank := preferredRank(candidates[j], preferred)
		if iRank != jRank {
			return iRank < jRank
		}
		iPrice := priceScore(candidates[i])
		jPrice := priceScore(candidates[j])
		if iPrice != jPrice {
			return iPrice < jPrice
		}
		return candidates[i].DisplayName < candidates[j].DisplayName
	})
	return candidates
}

func normalizePreferred(models []string) []string {
	out := make([]string, 0, len(models))
	for _, entry := range models {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// preferredIndex matches by composite id or raw provider model id.
func preferredIndex(record domain.ModelRecord, preferred []string) int {
	for idx, entry := range preferred {
		if entry == record.ID || entry == record.ProviderModelID {
			return idx
		}
	}
	return -1
}

func preferredRank(record domain.ModelRecord, preferred []string) int {
	if idx := preferredIndex(record, preferred); idx >= 0 {
		return idx
	}
	return len(preferred) + 1
}

// withinCost excludes a record when either per-million rate exceeds the
// ceiling. Absent pricing passes: unknown price is not infinite price.
func withinCost(record domain.ModelRecord, maxCost float64) bool {
	if record.Pricing == nil {
		return true
	}
	if record.Pricing.InputPer1M > 0 && record.Pricing.InputPer1M > maxCost {
		return false
	}
	if record.Pricing.OutputPer1M > 0 && record.Pricing.OutputPer1M > maxCost {
		return false
	}
	return true
}

// priceScore is the lower of the two per-million rates; records with no
// pricing score 0 and so rank cheapest.
func priceScore(record domain.ModelRecord) float64 {
	if record.Pricing == nil {
		return 0
	}
	score := 0.0
	if record.Pricing.InputPer1M > 0 {
		score = record.Pricing.InputPer1M
	}
	if record.Pricing.OutputPer1M > 0 && (score == 0 || record.Pricing.OutputPer1M < score) {
		score = record.Pricing.OutputPer1M
	}
	return score
}

func hasTag(tags []string, target string) bool {
	for _, tag := range tags {
		if tag == target {
			return true
		}
	}
	return false
}
