package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/core/services"
	"github.com/kestrelhq/model-registry/internal/server/middleware"
	"github.com/kestrelhq/model-registry/pkg/api"
)

type stubRegistry struct {
	metadata []domain.ModelMetadata
	records  []domain.ModelRecord
	err      error
	lastOpts *ports.ListModelsOptions
}

func (s *stubRegistry) List(ctx context.Context, opts *ports.ListModelsOptions) ([]domain.ModelMetadata, error) {
	s.lastOpts = opts
	return s.metadata, s.err
}

func (s *stubRegistry) ListRecords(ctx context.Context, opts *ports.ListModelsOptions) ([]domain.ModelRecord, error) {
	s.lastOpts = opts
	return s.records, s.err
}

func (s *stubRegistry) LearnModelUnavailable(entitlement *domain.EntitlementContext, provider domain.Provider, modelID string, err error) {
}

func newModelRouter(registry *stubRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.Entitlement())

	handler := NewModelHandler(registry, services.NewModelRouter())
	engine.GET("/v1/models", handler.ListModels)
	engine.GET("/v1/models/records", handler.ListRecords)
	engine.POST("/v1/models/resolve", handler.Resolve)
	return engine
}

func entitledRecord(id string, tools bool) domain.ModelRecord {
	return domain.ModelRecord{
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
}

func TestListModels(t *testing.T) {
	registry := &stubRegistry{
		metadata: []domain.ModelMetadata{
			{ID: "gpt-4o", DisplayName: "GPT-4o", Provider: domain.ProviderOpenAI},
		},
	}
	engine := newModelRouter(registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/models?providers=openai,anthropic&refresh=true", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body api.ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "gpt-4o", body.Models[0].ID)

	require.NotNil(t, registry.lastOpts)
	assert.True(t, registry.lastOpts.Refresh)
	assert.Equal(t, []domain.Provider{domain.ProviderOpenAI, domain.ProviderAnthropic}, registry.lastOpts.Providers)
}

func TestListModels_ScopeFromHeaders(t *testing.T) {
	registry := &stubRegistry{}
	engine := newModelRouter(registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	req.Header.Set("X-Provider", "anthropic")
	req.Header.Set("X-Provider-Key", "sk-scope")
	req.Header.Set("X-Tenant-Id", "tenant-1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, registry.lastOpts)
	require.NotNil(t, registry.lastOpts.Entitlement)
	assert.Equal(t, domain.ProviderAnthropic, registry.lastOpts.Entitlement.Provider)
	assert.Equal(t, "tenant-1", registry.lastOpts.Entitlement.TenantID)
	assert.Equal(t, domain.FingerprintAPIKey("sk-scope"), registry.lastOpts.Entitlement.Fingerprint())
}

func TestListModels_ValidationErrorMapsTo400(t *testing.T) {
	registry := &stubRegistry{err: domain.NewValidationError("", "no providers configured")}
	engine := newModelRouter(registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolve(t *testing.T) {
	registry := &stubRegistry{
		records: []domain.ModelRecord{
			entitledRecord("a", false),
			entitledRecord("b", true),
		},
	}
	engine := newModelRouter(registry)

	payload, err := json.Marshal(api.ResolveRequest{
		Constraints: api.Constraints{RequireTools: true},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/models/resolve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body api.ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "openai:b", body.Primary.ID)
	assert.Empty(t, body.Fallback)
}

func TestResolve_NoMatchIs404(t *testing.T) {
	registry := &stubRegistry{
		records: []domain.ModelRecord{entitledRecord("a", false)},
	}
	engine := newModelRouter(registry)

	payload, err := json.Marshal(api.ResolveRequest{
		Constraints: api.Constraints{RequireTools: true},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/models/resolve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_match", body.Code)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", NewHealthHandler("1.2.3").Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
}
