package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
)

const (
	// DefaultMetadataTTL bounds how long a fetched provider catalog is fresh.
	DefaultMetadataTTL = 30 * time.Minute
	// DefaultLearnedTTL bounds learned-unavailable markers. Kept shorter than
	// the metadata TTL so a transiently failing model self-heals before the
	// next full catalog refresh.
	DefaultLearnedTTL = 20 * time.Minute
)

// registryKey partitions the metadata cache. A composite struct key avoids the
// delimiter-collision hazards of concatenated strings.
type registryKey struct {
	Provider    domain.Provider
	Fingerprint string
	AccountID   string
	Region      string
	Environment string
	TenantID    string
	UserID      string
}

type learnedKey struct {
	registryKey
	ModelID string
}

type cacheEntry struct {
	models    []domain.ModelMetadata
	fetchedAt time.Time
	expiresAt time.Time
}

type learnedEntry struct {
	expiresAt time.Time
	reason    string
}

// RegistryConfig tunes a ModelRegistry instance. Zero values fall back to the
// package defaults.
type RegistryConfig struct {
	MetadataTTL time.Duration
	LearnedTTL  time.Duration
}

// ModelRegistry caches per-(provider, entitlement scope) model catalogs,
// tracks learned-unavailable state, and synthesizes ModelRecord views.
// Safe for concurrent use.
type ModelRegistry struct {
	adapters map[domain.Provider]ports.ProviderAdapter
	factory  ports.AdapterFactory
	overlay  *CuratedOverlay
	logger   *zap.Logger

	ttl        time.Duration
	learnedTTL time.Duration

	mu      sync.RWMutex
	cache   map[registryKey]cacheEntry
	learned map[learnedKey]learnedEntry
}

// NewModelRegistry builds a registry over a static adapter map and an optional
// factory. When the factory is non-nil it is consulted on every fetch.
func NewModelRegistry(adapters map[domain.Provider]ports.ProviderAdapter, factory ports.AdapterFactory, overlay *CuratedOverlay, cfg RegistryConfig, logger *zap.Logger) *ModelRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.MetadataTTL
	if ttl <= 0 {
		ttl = DefaultMetadataTTL
	}
	learnedTTL := cfg.LearnedTTL
	if learnedTTL <= 0 {
		learnedTTL = DefaultLearnedTTL
	}
	return &ModelRegistry{
		adapters:   adapters,
		factory:    factory,
		overlay:    overlay,
		logger:     logger,
		ttl:        ttl,
		learnedTTL: learnedTTL,
		cache:      make(map[registryKey]cacheEntry),
		learned:    make(map[learnedKey]learnedEntry),
	}
}

// List returns curated-overlay-enriched metadata for the resolved providers,
// sorted by (provider, display name) for deterministic output.
func (r *ModelRegistry) List(ctx context.Context, opts *ports.ListModelsOptions) ([]domain.ModelMetadata, error) {
	entries, err := r.entriesForProviders(ctx, opts)
	if err != nil {
		return nil, err
	}
	results := make([]domain.ModelMetadata, 0)
	for _, entry := range entries {
		results = append(results, entry.models...)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Provider != results[j].Provider {
			return results[i].Provider < results[j].Provider
		}
		return results[i].DisplayName < results[j].DisplayName
	})
	return results, nil
}

// ListRecords synthesizes the externally consumed record view for the same
// provider resolution and caching rules as List.
func (r *ModelRegistry) ListRecords(ctx context.Context, opts *ports.ListModelsOptions) ([]domain.ModelRecord, error) {
	entries, err := r.entriesForProviders(ctx, opts)
	if err != nil {
		return nil, err
	}
	var entitlement *domain.EntitlementContext
	if opts != nil {
		entitlement = opts.Entitlement
	}
	results := make([]domain.ModelRecord, 0)
	for provider, entry := range entries {
		for _, model := range entry.models {
			results = append(results, r.synthesizeRecord(model, provider, entry.fetchedAt, entitlement))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Provider != results[j].Provider {
			return results[i].Provider < results[j].Provider
		}
		return results[i].DisplayName < results[j].DisplayName
	})
	return results, nil
}

// LearnModelUnavailable records a time-boxed negative marker for the exact
// (scope, model) pair when err identifies the model itself as the problem.
// Rate limits and transient 5xx never poison availability.
func (r *ModelRegistry) LearnModelUnavailable(entitlement *domain.EntitlementContext, provider domain.Provider, modelID string, err error) {
	reason, ok := domain.LearnableReason(err)
	if !ok {
		return
	}
	key := learnedKey{registryKey: r.keyFor(provider, entitlement), ModelID: modelID}
	r.mu.Lock()
	r.learned[key] = learnedEntry{
		expiresAt: time.Now().Add(r.learnedTTL),
		reason:    reason,
	}
	r.mu.Unlock()
	r.logger.Info("learned model unavailable",
		zap.String("provider", string(provider)),
		zap.String("model", modelID),
		zap.String("reason", reason),
	)
}

func (r *ModelRegistry) entriesForProviders(ctx context.Context, opts *ports.ListModelsOptions) (map[domain.Provider]cacheEntry, error) {
	providers := r.resolveProviders(opts)
	if len(providers) == 0 {
		return nil, domain.NewValidationError("", "no providers configured")
	}
	results := make(map[domain.Provider]cacheEntry, len(providers))
	for _, provider := range providers {
		entry, err := r.entryForProvider(ctx, provider, opts)
		if err != nil {
			return nil, err
		}
		results[provider] = entry
	}
	return results, nil
}

// Provider resolution order: explicit option list, then the entitlement's own
// provider, then every configured provider.
func (r *ModelRegistry) resolveProviders(opts *ports.ListModelsOptions) []domain.Provider {
	if opts != nil && len(opts.Providers) > 0 {
		return opts.Providers
	}
	if opts != nil && opts.Entitlement != nil && opts.Entitlement.Provider != "" {
		return []domain.Provider{opts.Entitlement.Provider}
	}
	providers := make([]domain.Provider, 0, len(r.adapters))
	for provider := range r.adapters {
		providers = append(providers, provider)
	}
	return providers
}

func (r *ModelRegistry) entryForProvider(ctx context.Context, provider domain.Provider, opts *ports.ListModelsOptions) (cacheEntry, error) {
	refresh := opts != nil && opts.Refresh
	var entitlement *domain.EntitlementContext
	if opts != nil {
		entitlement = opts.Entitlement
	}
	key := r.keyFor(provider, entitlement)
	if !refresh {
		if entry, ok := r.fresh(key); ok {
			return entry, nil
		}
	}
	entry, err := r.fetchAndStore(ctx, provider, entitlement, key)
	if err != nil {
		// Caller cancellation propagates; only adapter failures fall back to
		// whatever is cached, however stale.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cacheEntry{}, err
		}
		if stale, ok := r.any(key); ok {
			r.logger.Warn("serving stale model catalog after refresh failure",
				zap.String("provider", string(provider)),
				zap.Time("fetched_at", stale.fetchedAt),
				zap.Error(err),
			)
			return stale, nil
		}
		return cacheEntry{}, err
	}
	return entry, nil
}

func (r *ModelRegistry) fresh(key registryKey) (cacheEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return cacheEntry{}, false
	}
	return entry, true
}

func (r *ModelRegistry) any(key registryKey) (cacheEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[key]
	return entry, ok
}

func (r *ModelRegistry) fetchAndStore(ctx context.Context, provider domain.Provider, entitlement *domain.EntitlementContext, key registryKey) (cacheEntry, error) {
	adapter, err := r.adapterFor(provider, entitlement)
	if err != nil {
		return cacheEntry{}, err
	}
	models, err := adapter.ListModels(ctx)
	if err != nil {
		return cacheEntry{}, err
	}
	for idx, model := range models {
		models[idx] = r.overlay.Apply(model)
	}
	now := time.Now()
	entry := cacheEntry{
		models:    models,
		fetchedAt: now,
		expiresAt: now.Add(r.ttl),
	}
	r.mu.Lock()
	r.cache[key] = entry
	r.mu.Unlock()
	return entry, nil
}

func (r *ModelRegistry) adapterFor(provider domain.Provider, entitlement *domain.EntitlementContext) (ports.ProviderAdapter, error) {
	if r.factory != nil {
		return r.factory(provider, entitlement)
	}
	if adapter, ok := r.adapters[provider]; ok {
		return adapter, nil
	}
	return nil, domain.NewValidationError(provider, "provider not configured")
}

func (r *ModelRegistry) keyFor(provider domain.Provider, entitlement *domain.EntitlementContext) registryKey {
	key := registryKey{Provider: provider, Fingerprint: "default"}
	if entitlement == nil {
		return key
	}
	key.AccountID = strings.TrimSpace(entitlement.AccountID)
	key.Region = strings.TrimSpace(entitlement.Region)
	key.Environment = strings.TrimSpace(entitlement.Environment)
	key.TenantID = strings.TrimSpace(entitlement.TenantID)
	key.UserID = strings.TrimSpace(entitlement.UserID)
	if fingerprint := entitlement.Fingerprint(); fingerprint != "" {
		key.Fingerprint = fingerprint
	}
	return key
}

// learnedStatus reads the learned marker for one (scope, model) pair, lazily
// deleting it once expired.
func (r *ModelRegistry) learnedStatus(provider domain.Provider, entitlement *domain.EntitlementContext, modelID string) (learnedEntry, bool) {
	key := learnedKey{registryKey: r.keyFor(provider, entitlement), ModelID: modelID}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.learned[key]
	if !ok {
		return learnedEntry{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(r.learned, key)
		return learnedEntry{}, false
	}
	return entry, true
}

// synthesizeRecord folds metadata, overlay output and learned state into the
// externally consumed view. The capability-to-modality/feature mapping is kept
// in one place so a new capability is a one-line change here.
func (r *ModelRegistry) synthesizeRecord(model domain.ModelMetadata, provider domain.Provider, fetchedAt time.Time, entitlement *domain.EntitlementContext) domain.ModelRecord {
	modalities := domain.ModelModalities{
		Text:     model.Capabilities.Text,
		Vision:   model.Capabilities.Vision,
		AudioIn:  model.Capabilities.AudioIn,
		AudioOut: model.Capabilities.AudioOut,
		ImageOut: model.Capabilities.Image,
		VideoIn:  model.Capabilities.VideoIn,
		VideoOut: model.Capabilities.VideoOut,
	}
	features := domain.ModelFeatures{
		Tools:      model.Capabilities.ToolUse,
		JSONMode:   model.Capabilities.StructuredOutput,
		JSONSchema: model.Capabilities.StructuredOutput,
		Streaming:  true,
	}
	var limits *domain.ModelLimits
	if model.ContextWindow > 0 {
		limits = &domain.ModelLimits{ContextTokens: model.ContextWindow}
	}
	var pricing *domain.ModelPricing
	if model.TokenPrices != nil {
		pricing = &domain.ModelPricing{
			Currency:    "USD",
			InputPer1M:  model.TokenPrices.Input,
			OutputPer1M: model.TokenPrices.Output,
			Source:      "curated",
		}
	}
	tags := []string{}
	if model.InPreview {
		tags = append(tags, "preview")
	}
	if model.Deprecated {
		tags = append(tags, "deprecated")
	}
	availability := domain.ModelAvailability{
		Entitled:   true,
		Confidence: domain.AvailabilityListed,
	}
	if !fetchedAt.IsZero() {
		availability.LastVerifiedAt = fetchedAt.UTC().Format(time.RFC3339)
	}
	if learned, ok := r.learnedStatus(provider, entitlement, model.ID); ok {
		availability.Entitled = false
		availability.Confidence = domain.AvailabilityLearned
		availability.Reason = learned.reason
	}
	return domain.ModelRecord{
		ID:              string(provider) + ":" + model.ID,
		Provider:        provider,
		ProviderModelID: model.ID,
		DisplayName:     model.DisplayName,
		Modalities:      modalities,
		Features:        features,
		Limits:          limits,
		Tags:            tags,
		Pricing:         pricing,
		Availability:    availability,
	}
}
