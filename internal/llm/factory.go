package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/core"
)

// NewProvider builds the analysis provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (core.AnalysisProvider, error) {
	if cfg.Provider == config.ProviderCanned {
		logger.Info("using canned analysis provider", "fixture", cfg.CannedReportPath, "delay", cfg.CannedDelay)
		return NewCannedProvider(cfg.CannedReportPath, cfg.CannedDelay)
	}

	model, err := newModel(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}
	prompts, err := NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}
	logger.Info("using model analysis provider", "provider", cfg.Provider, "model", cfg.GeneratorModel)
	return NewLLMProvider(cfg.Provider, ModelGenerator(model), prompts, cfg.AnalysisTimeout, logger), nil
}

func newModel(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (llms.Model, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set for the gemini provider")
		}
		return gemini.New(ctx, gemini.WithModel(cfg.GeneratorModel), gemini.WithAPIKey(cfg.GeminiAPIKey))
	case config.ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithHTTPClient(newOllamaHTTPClient(cfg.AnalysisTimeout)),
			ollama.WithModel(cfg.GeneratorModel),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// newOllamaHTTPClient creates an HTTP client with generous timeouts; local
// models can take a long time before the first byte.
func newOllamaHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout + 30*time.Second,
	}
}
