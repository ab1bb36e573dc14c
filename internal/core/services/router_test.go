package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

func record(id string, tools bool, price float64) domain.ModelRecord {
	rec := domain.ModelRecord{
		ID:              "openai:" + id,
		Provider:        domain.ProviderOpenAI,
		ProviderModelID: id,
		DisplayName:     id,
		Modalities:      domain.ModelModalities{Text: true},
		Features:        domain.ModelFeatures{Tools: tools, Streaming: true},
		Availability: domain.ModelAvailability{
			Entitled:   true,
			Confidence: domain.AvailabilityListed,
		},
	}
	if price > 0 {
		rec.Pricing = &domain.ModelPricing{Currency: "USD", InputPer1M: price, OutputPer1M: price}
	}
	return rec
}

func TestResolve_FiltersAndRanksByPrice(t *testing.T) {
	records := []domain.ModelRecord{
		record("a", false, 5),
		record("b", true, 10),
		record("c", true, 2),
	}

	router := NewModelRouter()
	res, err := router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{RequireTools: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "openai:c", res.Primary.ID)
	require.Len(t, res.Fallback, 1)
	assert.Equal(t, "openai:b", res.Fallback[0].ID)
}

func TestResolve_EmptyResultIsError(t *testing.T) {
	records := []domain.ModelRecord{record("a", false, 5)}

	router := NewModelRouter()
	_, err := router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{RequireTools: true},
	})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolve_ExcludesUnentitled(t *testing.T) {
	poisoned := record("a", true, 1)
	poisoned.Availability.Entitled = false
	poisoned.Availability.Confidence = domain.AvailabilityLearned

	records := []domain.ModelRecord{poisoned, record("b", true, 10)}

	router := NewModelRouter()
	res, err := router.Resolve(records, ResolutionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "openai:b", res.Primary.ID)
	assert.Empty(t, res.Fallback)
}

func TestResolve_PreferredListIsAllowListAndOrdering(t *testing.T) {
	records := []domain.ModelRecord{
		record("cheap", true, 1),
		record("first-choice", true, 20),
		record("second-choice", true, 5),
	}

	router := NewModelRouter()
	res, err := router.Resolve(records, ResolutionRequest{
		PreferredModels: []string{"first-choice", "openai:second-choice"},
	})
	require.NoError(t, err)

	// Preferred order wins over price, and unlisted records are excluded.
	assert.Equal(t, "openai:first-choice", res.Primary.ID)
	require.Len(t, res.Fallback, 1)
	assert.Equal(t, "openai:second-choice", res.Fallback[0].ID)
}

func TestResolve_PreviewExcludedOnRequest(t *testing.T) {
	preview := record("preview-model", true, 1)
	preview.Tags = []string{"preview"}

	records := []domain.ModelRecord{preview, record("stable", true, 5)}

	router := NewModelRouter()

	// Preview allowed by default.
	res, err := router.Resolve(records, ResolutionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "openai:preview-model", res.Primary.ID)

	allowPreview := false
	res, err = router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{AllowPreview: &allowPreview},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai:stable", res.Primary.ID)
	assert.Empty(t, res.Fallback)
}

func TestResolve_CostCeiling(t *testing.T) {
	unpriced := record("unpriced", true, 0)
	records := []domain.ModelRecord{
		record("expensive", true, 50),
		record("affordable", true, 3),
		unpriced,
	}

	router := NewModelRouter()
	res, err := router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{MaxCostUSD: 10},
	})
	require.NoError(t, err)

	// Unknown pricing passes the ceiling and ranks cheapest.
	assert.Equal(t, "openai:unpriced", res.Primary.ID)
	require.Len(t, res.Fallback, 1)
	assert.Equal(t, "openai:affordable", res.Fallback[0].ID)
}

func TestResolve_ModalityConstraints(t *testing.T) {
	vision := record("vision-model", true, 5)
	vision.Modalities.Vision = true
	video := record("video-model", true, 8)
	video.Modalities.VideoOut = true
	jsonless := record("plain", true, 1)
	jsonful := record("structured", true, 2)
	jsonful.Features.JSONSchema = true

	records := []domain.ModelRecord{vision, video, jsonless, jsonful}

	router := NewModelRouter()

	res, err := router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{RequireVision: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai:vision-model", res.Primary.ID)

	res, err = router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{RequireVideo: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai:video-model", res.Primary.ID)

	res, err = router.Resolve(records, ResolutionRequest{
		Constraints: ModelConstraints{RequireJSON: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai:structured", res.Primary.ID)
}

func TestResolve_DisplayNameTiebreak(t *testing.T) {
	records := []domain.ModelRecord{
		record("zeta", true, 5),
		record("alpha", true, 5),
	}

	router := NewModelRouter()
	res, err := router.Resolve(records, ResolutionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "openai:alpha", res.Primary.ID)
}
