package domain

// ModelCapabilities is the raw capability fact sheet reported by a provider
// (or authoritatively replaced by a curated entry).
type ModelCapabilities struct {
	Text             bool `json:"text"`
	Vision           bool `json:"vision,omitempty"`
	Image            bool `json:"image,omitempty"`
	AudioIn          bool `json:"audio_in,omitempty"`
	AudioOut         bool `json:"audio_out,omitempty"`
	VideoIn          bool `json:"video_in,omitempty"`
	VideoOut         bool `json:"video_out,omitempty"`
	ToolUse          bool `json:"tool_use,omitempty"`
	StructuredOutput bool `json:"structured_output,omitempty"`
	Reasoning        bool `json:"reasoning,omitempty"`
}

// TokenPrices are USD per million tokens.
type TokenPrices struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// ModelMetadata is the provider-reported fact sheet for one model.
// Immutable once constructed; its lifetime is one registry cache entry.
type ModelMetadata struct {
	ID            string            `json:"id"`
	DisplayName   string            `json:"display_name"`
	Provider      Provider          `json:"provider"`
	Family        string            `json:"family,omitempty"`
	Capabilities  ModelCapabilities `json:"capabilities"`
	ContextWindow int               `json:"context_window,omitempty"`
	TokenPrices   *TokenPrices      `json:"token_prices,omitempty"`
	Deprecated    bool              `json:"deprecated,omitempty"`
	InPreview     bool              `json:"in_preview,omitempty"`
}

// ModelModalities are the input/output channels of a synthesized record.
type ModelModalities struct {
	Text     bool `json:"text"`
	Vision   bool `json:"vision,omitempty"`
	AudioIn  bool `json:"audio_in,omitempty"`
	AudioOut bool `json:"audio_out,omitempty"`
	ImageOut bool `json:"image_out,omitempty"`
	VideoIn  bool `json:"video_in,omitempty"`
	VideoOut bool `json:"video_out,omitempty"`
}

// ModelFeatures are the API-level features of a synthesized record.
type ModelFeatures struct {
	Tools      bool `json:"tools,omitempty"`
	JSONMode   bool `json:"json_mode,omitempty"`
	JSONSchema bool `json:"json_schema,omitempty"`
	Streaming  bool `json:"streaming,omitempty"`
	Batch      bool `json:"batch,omitempty"`
}

type ModelLimits struct {
	ContextTokens   int `json:"context_tokens,omitempty"`
	MaxOutputTokens int `json:"max_output_tokens,omitempty"`
}

type ModelPricing struct {
	Currency    string             `json:"currency"`
	InputPer1M  float64            `json:"input_per_1m,omitempty"`
	OutputPer1M float64            `json:"output_per_1m,omitempty"`
	Extras      map[string]float64 `json:"extras,omitempty"`
	Source      string             `json:"source,omitempty"`
}

// AvailabilityConfidence states where an availability claim came from.
type AvailabilityConfidence string

const (
	// AvailabilityListed means the provider's own catalog listed the model.
	AvailabilityListed AvailabilityConfidence = "listed"
	// AvailabilityInferred is reserved for derived availability claims.
	AvailabilityInferred AvailabilityConfidence = "inferred"
	// AvailabilityLearned means a failed live call marked the model unavailable.
	AvailabilityLearned AvailabilityConfidence = "learned"
)

type ModelAvailability struct {
	Entitled       bool                   `json:"entitled"`
	Confidence     AvailabilityConfidence `json:"confidence,omitempty"`
	LastVerifiedAt string                 `json:"last_verified_at,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
}

// ModelRecord is the fully synthesized, per-entitlement-scope view of a model.
// It is computed fresh on every registry read and never cached itself.
type ModelRecord struct {
	ID              string            `json:"id"`
	Provider        Provider          `json:"provider"`
	ProviderModelID string            `json:"provider_model_id"`
	DisplayName     string            `json:"display_name,omitempty"`
	Modalities      ModelModalities   `json:"modalities"`
	Features        ModelFeatures     `json:"features"`
	Limits          *ModelLimits      `json:"limits,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Pricing         *ModelPricing     `json:"pricing,omitempty"`
	Availability    ModelAvailability `json:"availability"`
}

// Usage holds cumulative token counters for one call or stream.
type Usage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`
}

// CostBreakdown is the USD cost computed from usage and curated pricing.
type CostBreakdown struct {
	InputCostUSD      float64      `json:"input_cost_usd,omitempty"`
	OutputCostUSD     float64      `json:"output_cost_usd,omitempty"`
	TotalCostUSD      float64      `json:"total_cost_usd,omitempty"`
	PricingPerMillion *TokenPrices `json:"pricing_per_million,omitempty"`
}
