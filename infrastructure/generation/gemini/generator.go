// Package gemini generates pebble content with Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"pebblevault/application/ports"
	"pebblevault/domain/core/valueobjects"
)

const defaultModel = "gemini-2.5-flash"

// Config holds the Gemini generator settings
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Generator implements ports.Generator on top of the genai SDK
type Generator struct {
	client  *genai.Client
	model   string
	temp    float32
	timeout time.Duration
	logger  *zap.Logger
}

var _ ports.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed content generator
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Generator{
		client:  client,
		model:   cfg.Model,
		temp:    cfg.Temperature,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Generate produces the full multi-level content for a topic
func (g *Generator) Generate(ctx context.Context, topic string, contextPebbles []ports.ContextPebble) (valueobjects.PebbleContent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(topic, contextPebbles), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(g.temp),
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return valueobjects.PebbleContent{}, fmt.Errorf("gemini: generate content: %w", err)
	}

	raw := result.Text()
	if raw == "" {
		return valueobjects.PebbleContent{}, fmt.Errorf("gemini: empty response for topic %q", topic)
	}

	content, err := ParseContent(raw)
	if err != nil {
		g.logger.Warn("gemini returned unparseable content",
			zap.String("topic", topic),
			zap.Error(err))
		return valueobjects.PebbleContent{}, err
	}

	g.logger.Debug("generated pebble content",
		zap.String("topic", topic),
		zap.String("model", g.model),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}
