package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
)

// MockAdapter implements ports.ProviderAdapter for testing.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) ListModels(ctx context.Context) ([]domain.ModelMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModelMetadata), args.Error(1)
}

func (m *MockAdapter) Generate(ctx context.Context, in domain.GenerateInput) (domain.GenerateOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.GenerateOutput), args.Error(1)
}

func (m *MockAdapter) Stream(ctx context.Context, in domain.GenerateInput) (<-chan domain.StreamChunk, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamChunk), args.Error(1)
}

func testModels() []domain.ModelMetadata {
	return []domain.ModelMetadata{
		{
			ID:          "m1",
			DisplayName: "Model One",
			Provider:    domain.ProviderOpenAI,
			Capabilities: domain.ModelCapabilities{
				Text:    true,
				ToolUse: true,
			},
		},
		{
			ID:          "m2",
			DisplayName: "Model Two",
			Provider:    domain.ProviderOpenAI,
			Capabilities: domain.ModelCapabilities{
				Text: true,
			},
		},
	}
}

func newTestRegistry(adapter ports.ProviderAdapter, cfg RegistryConfig) *ModelRegistry {
	adapters := map[domain.Provider]ports.ProviderAdapter{
		domain.ProviderOpenAI: adapter,
	}
	return NewModelRegistry(adapters, nil, NewCuratedOverlay(nil), cfg, nil)
}

func TestList_CacheFreshness(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil)

	registry := newTestRegistry(adapter, RegistryConfig{})

	ctx := context.Background()
	models, err := registry.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, models, 2)

	// Second read within the TTL must be served from cache.
	_, err = registry.List(ctx, nil)
	require.NoError(t, err)
	adapter.AssertNumberOfCalls(t, "ListModels", 1)

	// Refresh bypasses the cache.
	_, err = registry.List(ctx, &ports.ListModelsOptions{Refresh: true})
	require.NoError(t, err)
	adapter.AssertNumberOfCalls(t, "ListModels", 2)
}

func TestList_StaleFallback(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil).Once()
	adapter.On("ListModels", mock.Anything).Return(nil, &domain.ProviderError{
		Kind:     domain.ErrorProviderUnavailable,
		Message:  "upstream down",
		Provider: domain.ProviderOpenAI,
	})

	registry := newTestRegistry(adapter, RegistryConfig{MetadataTTL: 10 * time.Millisecond})

	ctx := context.Background()
	first, err := registry.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)

	time.Sleep(20 * time.Millisecond)

	// The refresh fails, but the expired entry is still served.
	second, err := registry.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	adapter.AssertNumberOfCalls(t, "ListModels", 2)
}

func TestList_ColdStartFailurePropagates(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(nil, &domain.ProviderError{
		Kind:     domain.ErrorProviderUnavailable,
		Message:  "upstream down",
		Provider: domain.ProviderOpenAI,
	})

	registry := newTestRegistry(adapter, RegistryConfig{})

	_, err := registry.List(context.Background(), nil)
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, domain.ErrorProviderUnavailable, provErr.Kind)
}

func TestList_CancellationDoesNotServeStale(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil).Once()
	adapter.On("ListModels", mock.Anything).Return(nil, context.Canceled)

	registry := newTestRegistry(adapter, RegistryConfig{MetadataTTL: 10 * time.Millisecond})

	ctx := context.Background()
	_, err := registry.List(ctx, nil)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = registry.List(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListRecords_LearnedPoisoningAndExpiry(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil)

	registry := newTestRegistry(adapter, RegistryConfig{LearnedTTL: 20 * time.Millisecond})

	ctx := context.Background()
	registry.LearnModelUnavailable(nil, domain.ProviderOpenAI, "m1", &domain.ProviderError{
		Kind:     domain.ErrorProviderNotFound,
		Message:  "model m1 does not exist",
		Provider: domain.ProviderOpenAI,
	})

	records, err := registry.ListRecords(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := make(map[string]domain.ModelRecord)
	for _, rec := range records {
		byID[rec.ProviderModelID] = rec
	}
	assert.False(t, byID["m1"].Availability.Entitled)
	assert.Equal(t, domain.AvailabilityLearned, byID["m1"].Availability.Confidence)
	assert.Equal(t, "model m1 does not exist", byID["m1"].Availability.Reason)
	assert.True(t, byID["m2"].Availability.Entitled)
	assert.Equal(t, domain.AvailabilityListed, byID["m2"].Availability.Confidence)

	// The marker expires on its own; no explicit clear exists.
	time.Sleep(30 * time.Millisecond)

	records, err = registry.ListRecords(ctx, nil)
	require.NoError(t, err)
	for _, rec := range records {
		assert.True(t, rec.Availability.Entitled, rec.ID)
		assert.Equal(t, domain.AvailabilityListed, rec.Availability.Confidence)
	}
}

func TestLearnModelUnavailable_ScopeIsolation(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil)

	registry := newTestRegistry(adapter, RegistryConfig{})

	scopeA := &domain.EntitlementContext{Provider: domain.ProviderOpenAI, APIKey: "sk-tenant-a"}
	scopeB := &domain.EntitlementContext{Provider: domain.ProviderOpenAI, APIKey: "sk-tenant-b"}

	registry.LearnModelUnavailable(scopeA, domain.ProviderOpenAI, "m1", &domain.ProviderError{
		Kind:     domain.ErrorValidation,
		Message:  "not entitled",
		Provider: domain.ProviderOpenAI,
	})

	ctx := context.Background()
	recordsA, err := registry.ListRecords(ctx, &ports.ListModelsOptions{Entitlement: scopeA})
	require.NoError(t, err)
	recordsB, err := registry.ListRecords(ctx, &ports.ListModelsOptions{Entitlement: scopeB})
	require.NoError(t, err)

	for _, rec := range recordsA {
		if rec.ProviderModelID == "m1" {
			assert.False(t, rec.Availability.Entitled)
		}
	}
	for _, rec := range recordsB {
		assert.True(t, rec.Availability.Entitled, rec.ID)
	}
}

func TestLearnModelUnavailable_IgnoresTransientErrors(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil)

	registry := newTestRegistry(adapter, RegistryConfig{})

	registry.LearnModelUnavailable(nil, domain.ProviderOpenAI, "m1", &domain.ProviderError{
		Kind:           domain.ErrorProviderRateLimit,
		Message:        "slow down",
		Provider:       domain.ProviderOpenAI,
		UpstreamStatus: 429,
	})

	records, err := registry.ListRecords(context.Background(), nil)
	require.NoError(t, err)
	for _, rec := range records {
		assert.True(t, rec.Availability.Entitled, rec.ID)
	}
}

func TestList_ResolvesProviderFromEntitlement(t *testing.T) {
	openai := new(MockAdapter)
	openai.On("ListModels", mock.Anything).Return(testModels(), nil)
	anthropic := new(MockAdapter)
	anthropic.On("ListModels", mock.Anything).Return([]domain.ModelMetadata{{
		ID:          "claude-sonnet-4",
		DisplayName: "Claude Sonnet 4",
		Provider:    domain.ProviderAnthropic,
	}}, nil)

	adapters := map[domain.Provider]ports.ProviderAdapter{
		domain.ProviderOpenAI:    openai,
		domain.ProviderAnthropic: anthropic,
	}
	registry := NewModelRegistry(adapters, nil, NewCuratedOverlay(nil), RegistryConfig{}, nil)

	models, err := registry.List(context.Background(), &ports.ListModelsOptions{
		Entitlement: &domain.EntitlementContext{Provider: domain.ProviderAnthropic},
	})
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, domain.ProviderAnthropic, models[0].Provider)
	openai.AssertNotCalled(t, "ListModels", mock.Anything)
}

func TestList_SortedByProviderThenDisplayName(t *testing.T) {
	openai := new(MockAdapter)
	openai.On("ListModels", mock.Anything).Return([]domain.ModelMetadata{
		{ID: "z", DisplayName: "Zulu", Provider: domain.ProviderOpenAI},
		{ID: "a", DisplayName: "Alpha", Provider: domain.ProviderOpenAI},
	}, nil)
	anthropic := new(MockAdapter)
	anthropic.On("ListModels", mock.Anything).Return([]domain.ModelMetadata{
		{ID: "c", DisplayName: "Charlie", Provider: domain.ProviderAnthropic},
	}, nil)

	adapters := map[domain.Provider]ports.ProviderAdapter{
		domain.ProviderOpenAI:    openai,
		domain.ProviderAnthropic: anthropic,
	}
	registry := NewModelRegistry(adapters, nil, NewCuratedOverlay(nil), RegistryConfig{}, nil)

	models, err := registry.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, "Charlie", models[0].DisplayName)
	assert.Equal(t, "Alpha", models[1].DisplayName)
	assert.Equal(t, "Zulu", models[2].DisplayName)
}

func TestList_AdapterFactoryInvokedPerFetch(t *testing.T) {
	adapter := new(MockAdapter)
	adapter.On("ListModels", mock.Anything).Return(testModels(), nil)

	factoryCalls := 0
	factory := func(provider domain.Provider, entitlement *domain.EntitlementContext) (ports.ProviderAdapter, error) {
		factoryCalls++
		return adapter, nil
	}

	adapters := map[domain.Provider]ports.ProviderAdapter{domain.ProviderOpenAI: adapter}
	registry := NewModelRegistry(adapters, factory, NewCuratedOverlay(nil), RegistryConfig{}, nil)

	ctx := context.Background()
	_, err := registry.List(ctx, &ports.ListModelsOptions{Refresh: true})
	require.NoError(t, err)
	_, err = registry.List(ctx, &ports.ListModelsOptions{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, 2, factoryCalls)
}
