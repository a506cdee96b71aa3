package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/goframe/llms"

	"github.com/sevigo/pullpilot/internal/core"
)

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ModelGenerator adapts a goframe model to Generator.
func ModelGenerator(model llms.Model) Generator {
	return GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, model, prompt)
	})
}

// LLMProvider is the core.AnalysisProvider backed by a language model.
type LLMProvider struct {
	name      string
	provider  ModelProvider
	generator Generator
	prompts   *PromptManager
	timeout   time.Duration
	logger    *slog.Logger
}

// NewLLMProvider creates an analysis provider around generator. name is the
// configured backend and selects the prompt variant when one exists.
func NewLLMProvider(name string, generator Generator, prompts *PromptManager, timeout time.Duration, logger *slog.Logger) *LLMProvider {
	return &LLMProvider{
		name:      name,
		provider:  ModelProvider(name),
		generator: generator,
		prompts:   prompts,
		timeout:   timeout,
		logger:    logger,
	}
}

func (p *LLMProvider) Name() string { return p.name }

// Analyze renders the review prompt, calls the model and parses its answer.
// It never retries.
func (p *LLMProvider) Analyze(ctx context.Context, diff, prTitle string) (*core.AnalysisReport, error) {
	prompt, err := p.prompts.Render(CodeReviewPrompt, p.provider, ReviewPromptData{Title: prTitle, Diff: diff})
	if err != nil {
		return nil, fmt.Errorf("failed to render review prompt: %w", err)
	}

	start := time.Now()
	response, err := p.generateWithTimeout(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", core.ErrProviderTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", core.ErrProviderUnavailable, err)
	}

	report, err := ParseReport(response)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("model analysis finished", "provider", p.name, "duration", time.Since(start), "result", describeFindings(report))
	return report, nil
}

// generateWithTimeout wraps generation with a hard timeout so a client that
// ignores cancellation cannot hold the worker.
func (p *LLMProvider) generateWithTimeout(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := p.generator.Generate(ctx, prompt)
		resultCh <- result{resp, err}
	}()

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
