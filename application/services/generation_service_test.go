package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pebblevault/application/ports"
	"pebblevault/domain/config"
	"pebblevault/domain/core/valueobjects"
	"pebblevault/pkg/observability"
)

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) Generate(ctx context.Context, topic string, contextPebbles []ports.ContextPebble) (valueobjects.PebbleContent, error) {
	g.calls++
	return valueobjects.NewPebbleContentWithConfig(map[valueobjects.CognitiveLevel]valueobjects.LevelContent{
		valueobjects.LevelELI5: {
			Title:       topic,
			Summary:     "short summary",
			MainContent: []valueobjects.MainBlock{{Type: valueobjects.BlockText, Body: "body"}},
		},
	}, nil, nil)
}

type mapCache struct {
	values map[string]interface{}
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{values: map[string]interface{}{}}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.values[key] = value
	c.sets++
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *mapCache) Clear(ctx context.Context) error {
	c.values = map[string]interface{}{}
	return nil
}

func newService(generator ports.Generator, cache ports.Cache) *GenerationService {
	return NewGenerationService(generator, config.DefaultDomainConfig(), cache, observability.NoopMetrics(), zap.NewNop())
}

func TestGenerateCachesByTopic(t *testing.T) {
	ctx := context.Background()
	generator := &countingGenerator{}
	cache := newMapCache()
	svc := newService(generator, cache)

	first, err := svc.Generate(ctx, "Gravity", nil)
	require.NoError(t, err)

	second, err := svc.Generate(ctx, "gravity", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, generator.calls)
	assert.Equal(t, first, second)
}

func TestGenerateWithContextBypassesCache(t *testing.T) {
	ctx := context.Background()
	generator := &countingGenerator{}
	cache := newMapCache()
	svc := newService(generator, cache)

	contextPebbles := []ports.ContextPebble{{Topic: "Light", Summary: "What the eye sees."}}

	_, err := svc.Generate(ctx, "Gravity", contextPebbles)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "Gravity", contextPebbles)
	require.NoError(t, err)

	// Contextual output is never written to or served from the cache
	assert.Equal(t, 2, generator.calls)
	assert.Equal(t, 0, cache.sets)

	_, err = svc.Generate(ctx, "Gravity", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, generator.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestGenerateRejectsBlankTopic(t *testing.T) {
	svc := newService(&countingGenerator{}, nil)

	_, err := svc.Generate(context.Background(), "   ", nil)
	assert.Error(t, err)
}
