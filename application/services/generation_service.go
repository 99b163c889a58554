package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pebblevault/application/ports"
	"pebblevault/domain/config"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
	"pebblevault/pkg/observability"
)

// GenerationService produces pebble content for a topic through the
// configured generator, with validation and instrumentation around it.
type GenerationService struct {
	generator ports.Generator
	domainCfg *config.DomainConfig
	cache     ports.Cache
	metrics   *observability.MetricsRecorder
	logger    *zap.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	generator ports.Generator,
	domainCfg *config.DomainConfig,
	cache ports.Cache,
	metrics *observability.MetricsRecorder,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		generator: generator,
		domainCfg: domainCfg,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate produces leveled content for a topic, grounded in the
// caller's context pebbles when given
func (s *GenerationService) Generate(ctx context.Context, topic string, contextPebbles []ports.ContextPebble) (valueobjects.PebbleContent, error) {
	if !s.domainCfg.EnableGeneration || s.generator == nil {
		return valueobjects.PebbleContent{}, pkgerrors.NewUnavailableError("content generation")
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return valueobjects.PebbleContent{}, pkgerrors.NewValidationError("topic cannot be empty")
	}
	if len(topic) > s.domainCfg.MaxTopicLength {
		return valueobjects.PebbleContent{}, pkgerrors.ErrPebbleTopicTooLong
	}

	// Repeat previews of the same topic reuse the cached result.
	// Context pebbles shape the output, so contextual requests bypass
	// the cache entirely.
	cacheKey := "generation:" + strings.ToLower(topic)
	if s.cache != nil && len(contextPebbles) == 0 {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			if content, ok := cached.(valueobjects.PebbleContent); ok {
				if s.metrics != nil {
					s.metrics.Count("generation_cache_hits", 1, nil)
				}
				return content, nil
			}
		}
	}

	start := time.Now()
	content, err := s.generator.Generate(ctx, topic, contextPebbles)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.Duration("generation_latency", elapsed, nil)
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.Count("generation_errors", 1, nil)
		}
		s.logger.Error("Content generation failed",
			zap.String("topic", topic),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return valueobjects.PebbleContent{}, pkgerrors.ErrGenerationFailed.WithCause(err)
	}

	if content.IsEmpty() {
		if s.metrics != nil {
			s.metrics.Count("generation_empty", 1, nil)
		}
		return valueobjects.PebbleContent{}, pkgerrors.ErrGenerationFailed
	}

	s.logger.Info("Content generated",
		zap.String("topic", topic),
		zap.Duration("elapsed", elapsed),
	)
	if s.metrics != nil {
		s.metrics.Count("generation_success", 1, nil)
	}
	if s.cache != nil && len(contextPebbles) == 0 {
		_ = s.cache.Set(ctx, cacheKey, content, 3600)
	}

	return content, nil
}
