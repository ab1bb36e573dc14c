package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EntitlementContext identifies the calling scope for registry lookups.
// The raw APIKey is only ever hashed into a fingerprint for cache partitioning;
// it is never persisted and must not appear in logs.
type EntitlementContext struct {
	Provider          Provider `json:"provider,omitempty"`
	APIKey            string   `json:"-"`
	APIKeyFingerprint string   `json:"api_key_fingerprint,omitempty"`
	AccountID         string   `json:"account_id,omitempty"`
	Region            string   `json:"region,omitempty"`
	Environment       string   `json:"environment,omitempty"`
	TenantID          string   `json:"tenant_id,omitempty"`
	UserID            string   `json:"user_id,omitempty"`
}

// FingerprintAPIKey derives a deterministic one-way digest of an API key for
// use as a cache-partition key. An empty or whitespace-only key yields "",
// meaning "no fingerprint, use the default partition". The result must never
// be used for authentication decisions.
func FingerprintAPIKey(apiKey string) string {
	trimmed := strings.TrimSpace(apiKey)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns the precomputed fingerprint when present, deriving one
// from the raw key otherwise.
func (e *EntitlementContext) Fingerprint() string {
	if e == nil {
		return ""
	}
	if fp := strings.TrimSpace(e.APIKeyFingerprint); fp != "" {
		return fp
	}
	return FingerprintAPIKey(e.APIKey)
}
