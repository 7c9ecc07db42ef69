package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cashflow-insight/internal/redisclient"
	"cashflow-insight/internal/util"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when narrative generation is requested without
// a configured API key.
var ErrUnavailable = errors.New("narrative generation unavailable: configure OPENAI_API_KEY to enable AI insights")

// Generator turns structured analysis results into narrative HTML via a
// chat-completion API. The redis cache is optional; without it every
// request hits the API.
type Generator struct {
	client    *openai.Client
	model     string
	maxTokens int
	cache     *redisclient.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewGenerator creates a narrative generator. An empty apiKey produces a
// generator that reports unavailable instead of failing at request time.
func NewGenerator(apiKey, model string, maxTokens int, cache *redisclient.Client, cacheTTL time.Duration) *Generator {
	g := &Generator{
		model:     model,
		maxTokens: maxTokens,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    util.GetLogger(),
	}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
	} else {
		g.logger.Warn("No narrative API key configured, AI insights disabled")
	}
	return g
}

// Available reports whether the generator can reach the completion API.
func (g *Generator) Available() bool {
	return g.client != nil
}

// FlushCache drops all cached narratives. Stale narratives must not
// survive a dataset change.
func (g *Generator) FlushCache(ctx context.Context) error {
	if g.cache == nil {
		return nil
	}
	return g.cache.FlushInsights(ctx)
}

// Generate produces narrative HTML for one analysis kind from its
// structured payload, in the requested language. Identical requests within
// the cache TTL are served from redis.
func (g *Generator) Generate(ctx context.Context, kind string, payload interface{}, language string) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	cacheKey := g.cacheKey(kind, language, data)
	if g.cache != nil {
		if html, hit, err := g.cache.GetInsight(ctx, cacheKey); err != nil {
			g.logger.Warn("Insight cache read failed", zap.Error(err))
		} else if hit {
			util.InsightCacheHitsTotal.Inc()
			return html, nil
		}
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(kind, language)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(kind, string(data), language)},
		},
	})
	util.InsightLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.InsightRequestsTotal.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		util.InsightRequestsTotal.WithLabelValues(kind, "empty").Inc()
		return "", fmt.Errorf("completion returned no choices")
	}

	util.InsightRequestsTotal.WithLabelValues(kind, "ok").Inc()
	util.InsightTokensTotal.Add(float64(resp.Usage.TotalTokens))
	g.logger.Info("Narrative generated",
		zap.String("kind", kind),
		zap.String("language", language),
		zap.Int("tokens", resp.Usage.TotalTokens))

	html := RenderHTML(resp.Choices[0].Message.Content)
	if g.cache != nil {
		if err := g.cache.SetInsight(ctx, cacheKey, html, g.cacheTTL); err != nil {
			g.logger.Warn("Insight cache write failed", zap.Error(err))
		}
	}
	return html, nil
}

func (g *Generator) cacheKey(kind, language string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s:%s:%s", kind, language, hex.EncodeToString(sum[:8]))
}
