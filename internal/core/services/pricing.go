package services

import (
	"math"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

// CostEstimator computes USD cost breakdowns from usage counters and curated
// per-million token prices.
type CostEstimator struct {
	overlay *CuratedOverlay
}

func NewCostEstimator(overlay *CuratedOverlay) *CostEstimator {
	return &CostEstimator{overlay: overlay}
}

// EstimateCost returns nil when usage is absent, when no curated pricing
// exists for the model, or when both rates are zero. A zero-rate table is
// indistinguishable from "price unknown" here; see DESIGN.md.
func (e *CostEstimator) EstimateCost(provider domain.Provider, modelID string, usage *domain.Usage) *domain.CostBreakdown {
	if usage == nil {
		return nil
	}
	pricing := e.overlay.TokenPrices(provider, modelID)
	if pricing == nil {
		return nil
	}
	if pricing.Input == 0 && pricing.Output == 0 {
		return nil
	}
	inputCost := float64(usage.InputTokens) * pricing.Input / 1_000_000
	outputCost := float64(usage.OutputTokens) * pricing.Output / 1_000_000
	return &domain.CostBreakdown{
		InputCostUSD:      roundUSD(inputCost),
		OutputCostUSD:     roundUSD(outputCost),
		TotalCostUSD:      roundUSD(inputCost + outputCost),
		PricingPerMillion: pricing,
	}
}

// roundUSD rounds to 6 decimal places, keeping sub-cent precision while
// suppressing float noise.
func roundUSD(value float64) float64 {
	return math.Round(value*1_000_000) / 1_000_000
}
