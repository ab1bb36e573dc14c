package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kestrelhq/model-registry/internal/analytics"
	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/core/services"
	"github.com/kestrelhq/model-registry/internal/store/model"
)

// Service is the generation facade: it dispatches to the right adapter,
// attaches curated cost to results, feeds availability failures back into the
// registry, and records every call for analytics.
type Service interface {
	Generate(ctx context.Context, entitlement *domain.EntitlementContext, in domain.GenerateInput) (domain.GenerateOutput, error)
	StreamGenerate(ctx context.Context, entitlement *domain.EntitlementContext, in domain.GenerateInput) (<-chan domain.StreamChunk, error)
}

type service struct {
	logger    *zap.Logger
	factory   ports.AdapterFactory
	registry  ports.ModelRegistry
	estimator *services.CostEstimator
	ingestor  analytics.Ingestor
}

func NewService(logger *zap.Logger, factory ports.AdapterFactory, registry ports.ModelRegistry, estimator *services.CostEstimator, ingestor analytics.Ingestor) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		logger:    logger,
		factory:   factory,
		registry:  registry,
		estimator: estimator,
		ingestor:  ingestor,
	}
}

func (s *service) Generate(ctx context.Context, entitlement *domain.EntitlementContext, in domain.GenerateInput) (domain.GenerateOutput, error) {
	adapter, err := s.factory(in.Provider, entitlement)
	if err != nil {
		return domain.GenerateOutput{}, err
	}

	start := time.Now()
	out, err := adapter.Generate(ctx, in)
	latency := time.Since(start)

	if err != nil {
		s.registry.LearnModelUnavailable(entitlement, in.Provider, in.Model, err)
		s.logCall(entitlement, in, nil, latency, false, err)
		return domain.GenerateOutput{}, err
	}

	out = s.attachCost(in, out)
	s.logCall(entitlement, in, &out, latency, false, nil)
	return out, nil
}

func (s *service) StreamGenerate(ctx context.Context, entitlement *domain.EntitlementContext, in domain.GenerateInput) (<-chan domain.StreamChunk, error) {
	adapter, err := s.factory(in.Provider, entitlement)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	upstream, err := adapter.Stream(ctx, in)
	if err != nil {
		s.registry.LearnModelUnavailable(entitlement, in.Provider, in.Model, err)
		s.logCall(entitlement, in, nil, time.Since(start), true, err)
		return nil, err
	}

	return s.attachCostToStream(ctx, entitlement, in, upstream, start), nil
}

// attachCost computes cost from the output's usage exactly once. Adapters
// never set cost themselves.
func (s *service) attachCost(in domain.GenerateInput, out domain.GenerateOutput) domain.GenerateOutput {
	if out.Cost == nil {
		out.Cost = s.estimator.EstimateCost(in.Provider, in.Model, out.Usage)
	}
	return out
}

// attachCostToStream forwards the upstream chunks, decorating the terminal
// message_end chunk with cost computed from its cumulative usage. The analytics
// entry for the stream is written once the upstream channel closes. A consumer
// that stops reading cancels ctx; the goroutine then drains upstream instead of
// blocking on the abandoned out channel, so the call is still recorded.
func (s *service) attachCostToStream(ctx context.Context, entitlement *domain.EntitlementContext, in domain.GenerateInput, upstream <-chan domain.StreamChunk, start time.Time) <-chan domain.StreamChunk {
	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)

		var usage *domain.Usage
		var cost *domain.CostBreakdown
		var streamErr *domain.ChunkError

		track := func(chunk domain.StreamChunk) domain.StreamChunk {
			switch chunk.Type {
			case domain.StreamChunkMessageEnd:
				if chunk.Cost == nil {
					chunk.Cost = s.estimator.EstimateCost(in.Provider, in.Model, chunk.Usage)
				}
				usage = chunk.Usage
				cost = chunk.Cost
			case domain.StreamChunkError:
				streamErr = chunk.Error
			}
			return chunk
		}

	forward:
		for chunk := range upstream {
			select {
			case out <- track(chunk):
			case <-ctx.Done():
				for rest := range upstream {
					track(rest)
				}
				break forward
			}
		}

		latency := time.Since(start)
		result := domain.GenerateOutput{Usage: usage, Cost: cost}
		var callErr error
		if streamErr != nil {
			callErr = &domain.ProviderError{
				Kind:     domain.ErrorKind(streamErr.Kind),
				Message:  streamErr.Message,
				Provider: in.Provider,
			}
			s.registry.LearnModelUnavailable(entitlement, in.Provider, in.Model, callErr)
		}
		s.logCall(entitlement, in, &result, latency, true, callErr)
	}()
	return out
}

func (s *service) logCall(entitlement *domain.EntitlementContext, in domain.GenerateInput, out *domain.GenerateOutput, latency time.Duration, streamed bool, callErr error) {
	if s.ingestor == nil {
		return
	}

	fingerprint := entitlement.Fingerprint()
	if fingerprint == "" {
		fingerprint = "default"
	}

	entry := &model.RequestLog{
		ID:               uuid.NewString(),
		Provider:         string(in.Provider),
		ModelID:          in.Model,
		ScopeFingerprint: fingerprint,
		LatencyMS:        latency.Milliseconds(),
		IsStreamed:       streamed,
		CreatedAt:        time.Now(),
	}
	if out != nil {
		if out.Usage != nil {
			entry.InputTokens = out.Usage.InputTokens
			entry.OutputTokens = out.Usage.OutputTokens
		}
		if out.Cost != nil {
			entry.TotalCostUSD = out.Cost.TotalCostUSD
		}
	}
	if callErr != nil {
		var provErr *domain.ProviderError
		if errors.As(callErr, &provErr) {
			entry.ErrorKind = string(provErr.Kind)
		} else {
			entry.ErrorKind = string(domain.ErrorUnknown)
		}
	}

	s.ingestor.Log(entry)
}
