package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kestrelhq/model-registry/internal/core/domain"
)

type Config struct {
	Server    ServerConfig            `mapstructure:"server"`
	Registry  RegistryConfig          `mapstructure:"registry"`
	Storage   StorageConfig           `mapstructure:"storage"`
	Redis     RedisConfig             `mapstructure:"redis"`
	RateLimit RateLimitConfig         `mapstructure:"rate_limit"`
	Providers []domain.ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port    string   `mapstructure:"port"`
	Env     string   `mapstructure:"env"`
	APIKeys []string `mapstructure:"api_keys"`
}

// RegistryConfig carries the model-catalog cache TTLs. Zero durations mean
// "use the service defaults".
type RegistryConfig struct {
	MetadataTTL time.Duration `mapstructure:"metadata_ttl"`
	LearnedTTL  time.Duration `mapstructure:"learned_ttl"`
}

type StorageConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoadConfig reads configuration from config.yaml and environment variables.
func LoadConfig() (*Config, error) {
	// A local .env is optional.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("registry.metadata_ttl", "30m")
	v.SetDefault("registry.learned_ttl", "20m")
	v.SetDefault("storage.dsn", "file:model-registry.db?_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve "ENV:VAR_NAME" key indirections so secrets never sit in the
	// config file itself.
	for i, p := range cfg.Providers {
		cfg.Providers[i].APIKey = resolveSecret(v, p.APIKey)
		for j, key := range p.APIKeys {
			cfg.Providers[i].APIKeys[j] = resolveSecret(v, key)
		}
	}

	return &cfg, nil
}

func resolveSecret(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "ENV:") {
		return value
	}
	envVar := strings.TrimPrefix(value, "ENV:")
	// Process environment wins over viper's view of it.
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return v.GetString(envVar)
}

// EnabledProviders filters out disabled entries.
func (c *Config) EnabledProviders() []domain.ProviderConfig {
	out := make([]domain.ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}
