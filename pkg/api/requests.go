package api

import (
	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/services"
)

// ChatRequest is the transport shape of a generation call.
type ChatRequest struct {
	Provider string        `json:"provider" binding:"required"`
	Model    string        `json:"model" binding:"required"`
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	Stream      bool     `json:"stream,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	Tools          []ToolDefinition       `json:"tools,omitempty"`
	ToolChoice     *domain.ToolChoice     `json:"tool_choice,omitempty"`
	ResponseFormat *domain.ResponseFormat `json:"response_format,omitempty"`
	Metadata       map[string]string      `json:"metadata,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system tool"`
	Content string `json:"content" binding:"required"`
}

type ToolDefinition struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// ToDomain converts the transport request into the canonical input.
func (r *ChatRequest) ToDomain() domain.GenerateInput {
	messages := make([]domain.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, domain.Message{
			Role:    m.Role,
			Content: []domain.ContentPart{{Type: "text", Text: m.Content}},
		})
	}
	tools := make([]domain.ToolDefinition, 0, len(r.Tools))
	for _, t := range r.Tools {
		tools = append(tools, domain.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return domain.GenerateInput{
		Provider:       domain.Provider(r.Provider),
		Model:          r.Model,
		Messages:       messages,
		Tools:          tools,
		ToolChoice:     r.ToolChoice,
		ResponseFormat: r.ResponseFormat,
		Metadata:       r.Metadata,
		Temperature:    r.Temperature,
		TopP:           r.TopP,
		MaxTokens:      r.MaxTokens,
		Stream:         r.Stream,
	}
}

// ResolveRequest asks the router for a ranked model choice.
type ResolveRequest struct {
	Providers       []string    `json:"providers,omitempty"`
	Refresh         bool        `json:"refresh,omitempty"`
	Constraints     Constraints `json:"constraints,omitempty"`
	PreferredModels []string    `json:"preferred_models,omitempty"`
}

type Constraints struct {
	RequireTools  bool    `json:"require_tools,omitempty"`
	RequireJSON   bool    `json:"require_json,omitempty"`
	RequireVision bool    `json:"require_vision,omitempty"`
	RequireVideo  bool    `json:"require_video,omitempty"`
	MaxCostUSD    float64 `json:"max_cost_usd,omitempty"`
	AllowPreview  *bool   `json:"allow_preview,omitempty"`
}

func (r *ResolveRequest) ToResolution() services.ResolutionRequest {
	return services.ResolutionRequest{
		Constraints: services.ModelConstraints{
			RequireTools:  r.Constraints.RequireTools,
			RequireJSON:   r.Constraints.RequireJSON,
			RequireVision: r.Constraints.RequireVision,
			RequireVideo:  r.Constraints.RequireVideo,
			MaxCostUSD:    r.Constraints.MaxCostUSD,
			AllowPreview:  r.Constraints.AllowPreview,
		},
		PreferredModels: r.PreferredModels,
	}
}

func (r *ResolveRequest) ProviderList() []domain.Provider {
	out := make([]domain.Provider, 0, len(r.Providers))
	for _, p := range r.Providers {
		out = append(out, domain.Provider(p))
	}
	return out
}
