package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/modeldata"
)

func pricingOverlay() *CuratedOverlay {
	return NewCuratedOverlay([]modeldata.CuratedModel{
		{
			ID:          "priced-model",
			Provider:    domain.ProviderOpenAI,
			TokenPrices: &domain.TokenPrices{Input: 5, Output: 15},
		},
		{
			ID:          "free-model",
			Provider:    domain.ProviderOllama,
			TokenPrices: &domain.TokenPrices{Input: 0, Output: 0},
		},
	})
}

func TestEstimateCost(t *testing.T) {
	estimator := NewCostEstimator(pricingOverlay())

	cost := estimator.EstimateCost(domain.ProviderOpenAI, "priced-model", &domain.Usage{
		InputTokens:  1000,
		OutputTokens: 2000,
	})
	require.NotNil(t, cost)
	assert.Equal(t, 0.005, cost.InputCostUSD)
	assert.Equal(t, 0.03, cost.OutputCostUSD)
	assert.Equal(t, 0.035, cost.TotalCostUSD)
	assert.Equal(t, 5.0, cost.PricingPerMillion.Input)
}

func TestEstimateCost_NilUsage(t *testing.T) {
	estimator := NewCostEstimator(pricingOverlay())
	assert.Nil(t, estimator.EstimateCost(domain.ProviderOpenAI, "priced-model", nil))
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	estimator := NewCostEstimator(pricingOverlay())
	assert.Nil(t, estimator.EstimateCost(domain.ProviderOpenAI, "mystery", &domain.Usage{InputTokens: 10}))
}

func TestEstimateCost_ZeroRatesYieldNoBreakdown(t *testing.T) {
	estimator := NewCostEstimator(pricingOverlay())
	assert.Nil(t, estimator.EstimateCost(domain.ProviderOllama, "free-model", &domain.Usage{InputTokens: 10}))
}

func TestEstimateCost_RoundsToSixDecimals(t *testing.T) {
	estimator := NewCostEstimator(pricingOverlay())

	cost := estimator.EstimateCost(domain.ProviderOpenAI, "priced-model", &domain.Usage{
		InputTokens:  1,
		OutputTokens: 1,
	})
	require.NotNil(t, cost)
	assert.Equal(t, 0.000005, cost.InputCostUSD)
	assert.Equal(t, 0.000015, cost.OutputCostUSD)
	assert.Equal(t, 0.00002, cost.TotalCostUSD)
}
