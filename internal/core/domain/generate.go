package domain

// ContentPart is one piece of a message: text or an inline image reference.
type ContentPart struct {
	Type  string        `json:"type"`
	Text  string        `json:"text,omitempty"`
	Image *ImageContent `json:"image,omitempty"`
}

type ImageContent struct {
	URL       string `json:"url,omitempty"`
	Base64    string `json:"base64,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

type Message struct {
	Role       string        `json:"role"`
	Content    []ContentPart `json:"content"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
}

type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type ResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

type JSONSchemaFormat struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

// GenerateInput is the canonical, provider-agnostic text generation request.
type GenerateInput struct {
	Provider       Provider          `json:"provider"`
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	Tools          []ToolDefinition  `json:"tools,omitempty"`
	ToolChoice     *ToolChoice       `json:"tool_choice,omitempty"`
	ResponseFormat *ResponseFormat   `json:"response_format,omitempty"`
	Temperature    *float64          `json:"temperature,omitempty"`
	TopP           *float64          `json:"top_p,omitempty"`
	MaxTokens      *int              `json:"max_tokens,omitempty"`
	Stream         bool              `json:"stream,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type ToolCall struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ArgumentsJSON string `json:"arguments_json"`
}

// GenerateOutput is the canonical generation result. Cost is attached by the
// gateway from curated pricing, not by adapters.
type GenerateOutput struct {
	Text         string         `json:"text,omitempty"`
	ToolCalls    []ToolCall     `json:"tool_calls,omitempty"`
	Usage        *Usage         `json:"usage,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Cost         *CostBreakdown `json:"cost,omitempty"`
}

// StreamChunkType discriminates the events of a generation stream.
type StreamChunkType string

const (
	StreamChunkDelta      StreamChunkType = "delta"
	StreamChunkToolCall   StreamChunkType = "tool_call"
	StreamChunkMessageEnd StreamChunkType = "message_end"
	StreamChunkError      StreamChunkType = "error"
)

type ChunkError struct {
	Kind         string `json:"kind"`
	Message      string `json:"message"`
	UpstreamCode string `json:"upstream_code,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

// StreamChunk is one event of an ordered, append-only generation stream.
// Usage on the message_end chunk is cumulative for the whole stream.
type StreamChunk struct {
	Type         StreamChunkType `json:"type"`
	TextDelta    string          `json:"text_delta,omitempty"`
	Call         *ToolCall       `json:"call,omitempty"`
	Usage        *Usage          `json:"usage,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Cost         *CostBreakdown  `json:"cost,omitempty"`
	Error        *ChunkError     `json:"error,omitempty"`
}
