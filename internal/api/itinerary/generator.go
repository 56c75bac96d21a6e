package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Generator is the ItineraryGenerator collaborator: given a validated
// destination and place list it returns a day-by-day plan. The output
// is instructions-only best effort; reconciliation downstream does not
// trust it.
type Generator interface {
	GenerateItinerary(ctx context.Context, destination string, places []types.ResolvedPlace, days int, budget types.BudgetTier) (*types.GeneratedItinerary, error)
}

// GeneratorConfig carries the tunables from config.yml.
type GeneratorConfig struct {
	Model       string
	Timeout     time.Duration
	MinInterval time.Duration
	Temperature float32
}

// Ensure implementation satisfies the interface
var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator backs the Generator with the Gemini API. Calls are
// spaced at least MinInterval apart: a caller arriving too early waits
// out the remainder instead of being rejected.
type GeminiGenerator struct {
	client *genai.Client
	cfg    GeneratorConfig
	logger *slog.Logger

	mu       sync.Mutex
	lastCall time.Time
}

func NewGeminiGenerator(ctx context.Context, cfg GeneratorConfig, logger *slog.Logger) (*GeminiGenerator, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// throttle delays the caller until MinInterval has passed since the
// previous generator call. The lock is held across the wait so
// concurrent callers line up behind each other.
func (g *GeminiGenerator) throttle(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if wait := g.cfg.MinInterval - time.Since(g.lastCall); wait > 0 {
		g.logger.DebugContext(ctx, "Throttling generator call", slog.Duration("wait", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.lastCall = time.Now()
	return nil
}

func (g *GeminiGenerator) GenerateItinerary(ctx context.Context, destination string, places []types.ResolvedPlace, days int, budget types.BudgetTier) (*types.GeneratedItinerary, error) {
	if err := g.throttle(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := buildItineraryPrompt(destination, places, days, budget)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.cfg.Temperature),
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	metrics.Get().GeneratorRequestsTotal.Add(ctx, 1)
	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), config)
	metrics.Get().GeneratorDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("generator call failed: %w", err)
	}

	txt := result.Text()
	if txt == "" {
		return nil, fmt.Errorf("no valid itinerary content from AI")
	}
	return parseGeneratedItinerary(txt)
}
