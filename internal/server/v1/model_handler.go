package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/core/services"
	"github.com/kestrelhq/model-registry/internal/server/middleware"
	"github.com/kestrelhq/model-registry/internal/server/validator"
	"github.com/kestrelhq/model-registry/pkg/api"
)

// ModelHandler serves catalog reads and model resolution.
type ModelHandler struct {
	registry ports.ModelRegistry
	router   *services.ModelRouter
}

func NewModelHandler(registry ports.ModelRegistry, router *services.ModelRouter) *ModelHandler {
	return &ModelHandler{registry: registry, router: router}
}

// ListModels handles GET /v1/models. Query params: providers (comma
// separated), refresh.
func (h *ModelHandler) ListModels(c *gin.Context) {
	opts := h.listOptions(c)

	models, err := h.registry.List(c.Request.Context(), opts)
	if err != nil {
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, api.ModelsResponse{Models: models, Count: len(models)})
}

// ListRecords handles GET /v1/models/records.
func (h *ModelHandler) ListRecords(c *gin.Context) {
	opts := h.listOptions(c)

	records, err := h.registry.ListRecords(c.Request.Context(), opts)
	if err != nil {
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, api.RecordsResponse{Records: records, Count: len(records)})
}

// Resolve handles POST /v1/models/resolve: synthesize records for the scope,
// then rank them against the request's constraints.
func (h *ModelHandler) Resolve(c *gin.Context) {
	var req api.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":   "validation",
			"errors": validator.ParseValidationError(err),
		})
		return
	}

	opts := &ports.ListModelsOptions{
		Providers:   req.ProviderList(),
		Refresh:     req.Refresh,
		Entitlement: middleware.ScopeFrom(c),
	}
	records, err := h.registry.ListRecords(c.Request.Context(), opts)
	if err != nil {
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	resolution, err := h.router.Resolve(records, req.ToResolution())
	if err != nil {
		if errors.Is(err, services.ErrNoMatch) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Code: "no_match", Message: err.Error()})
			return
		}
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, api.ResolveResponse{
		Primary:  resolution.Primary,
		Fallback: resolution.Fallback,
	})
}

func (h *ModelHandler) listOptions(c *gin.Context) *ports.ListModelsOptions {
	opts := &ports.ListModelsOptions{
		Refresh:     c.Query("refresh") == "true",
		Entitlement: middleware.ScopeFrom(c),
	}
	if raw := c.Query("providers"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				opts.Providers = append(opts.Providers, domain.Provider(trimmed))
			}
		}
	}
	return opts
}
