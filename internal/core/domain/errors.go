package domain

import "fmt"

// ErrorKind classifies a failure well enough for retry and availability
// decisions without depending on any one vendor's error shape.
type ErrorKind string

const (
	ErrorUnknown             ErrorKind = "unknown"
	ErrorValidation          ErrorKind = "validation"
	ErrorProviderAuth        ErrorKind = "provider_auth"
	ErrorProviderRateLimit   ErrorKind = "provider_rate_limit"
	ErrorProviderNotFound    ErrorKind = "provider_not_found"
	ErrorProviderUnavailable ErrorKind = "provider_unavailable"
	ErrorUnsupported         ErrorKind = "unsupported"
)

// ProviderError is the error shape surfaced by adapters and the registry.
type ProviderError struct {
	Kind           ErrorKind
	Message        string
	Provider       Provider
	UpstreamStatus int
	UpstreamCode   string
	RequestID      string
	Cause          error
}

func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports bad caller input, e.g. an unconfigured provider.
func NewValidationError(provider Provider, msg string) *ProviderError {
	return &ProviderError{Kind: ErrorValidation, Message: msg, Provider: provider}
}

// NewUnsupportedError reports a capability an adapter does not implement.
func NewUnsupportedError(provider Provider, msg string) *ProviderError {
	return &ProviderError{Kind: ErrorUnsupported, Message: msg, Provider: provider}
}

// ClassifyStatus maps an upstream HTTP status onto an ErrorKind.
func ClassifyStatus(status int) ErrorKind {
	switch status {
	case 401, 403:
		return ErrorProviderAuth
	case 404:
		return ErrorProviderNotFound
	case 429:
		return ErrorProviderRateLimit
	}
	if status >= 500 {
		return ErrorProviderUnavailable
	}
	return ErrorUnknown
}

// LearnableReason reports whether err identifies the model itself as the
// problem (as opposed to rate limiting or a transient outage, which say
// nothing about the model's validity). It returns the reason to record when
// it does.
func LearnableReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	provErr, ok := err.(*ProviderError)
	if !ok {
		return "", false
	}
	if provErr.Kind == ErrorProviderNotFound || provErr.Kind == ErrorValidation {
		return provErr.Message, true
	}
	switch provErr.UpstreamStatus {
	case 400, 403, 404:
		return provErr.Message, true
	}
	return "", false
}
