package domain

// Provider identifies an upstream inference vendor.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderXAI       Provider = "xai"
	ProviderBedrock   Provider = "bedrock"
	ProviderReplicate Provider = "replicate"
	ProviderOllama    Provider = "ollama"
	ProviderCatalog   Provider = "catalog"
)

// ProviderConfig is the unified configuration shape for a single provider.
// API keys may use the "ENV:VAR_NAME" indirection resolved by the config loader.
type ProviderConfig struct {
	Provider Provider          `json:"provider" yaml:"provider" mapstructure:"provider"`
	Name     string            `json:"name" yaml:"name" mapstructure:"name"`
	APIKey   string            `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	APIKeys  []string          `json:"api_keys" yaml:"api_keys" mapstructure:"api_keys"`
	BaseURL  string            `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Region   string            `json:"region" yaml:"region" mapstructure:"region"`
	Config   map[string]string `json:"config" yaml:"config" mapstructure:"config"`
	Enabled  bool              `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}
