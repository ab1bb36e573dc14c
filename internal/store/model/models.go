package model

import (
	"time"
)

// RequestLog captures one completed generate or stream call.
// ScopeFingerprint is the sha256 credential fingerprint of the caller's
// entitlement scope, "default" when keyless. Never the key itself.
type RequestLog struct {
	ID               string    `db:"id" json:"id"`
	Provider         string    `db:"provider" json:"provider"`
	ModelID          string    `db:"model_id" json:"model_id"`
	ScopeFingerprint string    `db:"scope_fingerprint" json:"scope_fingerprint"`
	InputTokens      int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens     int       `db:"output_tokens" json:"output_tokens"`
	TotalCostUSD     float64   `db:"total_cost_usd" json:"total_cost_usd"`
	LatencyMS        int64     `db:"latency_ms" json:"latency_ms"`
	IsStreamed       bool      `db:"is_streamed" json:"is_streamed"`
	ErrorKind        string    `db:"error_kind" json:"error_kind,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// DailyStats is one day of aggregated usage.
type DailyStats struct {
	Date           string  `db:"date" json:"date"`
	TotalRequests  int     `db:"total_requests" json:"total_requests"`
	TotalTokens    int     `db:"total_tokens" json:"total_tokens"`
	TotalCostUSD   float64 `db:"total_cost_usd" json:"total_cost_usd"`
	AverageLatency float64 `db:"avg_latency" json:"avg_latency"`
}
