package api

import (
	"errors"
	"net/http"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/services"
	"github.com/kestrelhq/model-registry/internal/store/model"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

type ModelsResponse struct {
	Models []domain.ModelMetadata `json:"models"`
	Count  int                    `json:"count"`
}

type RecordsResponse struct {
	Records []domain.ModelRecord `json:"records"`
	Count   int                  `json:"count"`
}

type ResolveResponse struct {
	Primary  domain.ModelRecord   `json:"primary"`
	Fallback []domain.ModelRecord `json:"fallback,omitempty"`
}

type ChatResponse struct {
	Text         string                `json:"text,omitempty"`
	ToolCalls    []domain.ToolCall     `json:"tool_calls,omitempty"`
	FinishReason string                `json:"finish_reason,omitempty"`
	Usage        *domain.Usage         `json:"usage,omitempty"`
	Cost         *domain.CostBreakdown `json:"cost,omitempty"`
}

type UsageOverviewResponse struct {
	Days  int                `json:"days"`
	Stats []model.DailyStats `json:"stats"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// FromError maps domain failures onto an HTTP status and wire error body.
func FromError(err error) (int, ErrorResponse) {
	if errors.Is(err, services.ErrNoMatch) {
		return http.StatusNotFound, ErrorResponse{Code: "no_match", Message: err.Error()}
	}

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) {
		return statusForKind(provErr.Kind), ErrorResponse{
			Code:    string(provErr.Kind),
			Message: provErr.Message,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    string(domain.ErrorUnknown),
		Message: err.Error(),
	}
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorValidation, domain.ErrorUnsupported:
		return http.StatusBadRequest
	case domain.ErrorProviderAuth:
		return http.StatusUnauthorized
	case domain.ErrorProviderNotFound:
		return http.StatusNotFound
	case domain.ErrorProviderRateLimit:
		return http.StatusTooManyRequests
	case domain.ErrorProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
