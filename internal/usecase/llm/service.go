package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain"
	domllm "github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/logger"
)

// ModelInfo describes one model and whether its provider is configured.
type ModelInfo struct {
	ID        domllm.Model
	Provider  domllm.Provider
	WireName  string
	Available bool
	Default   bool
}

// Service dispatches completions through the static model table.
// A provider is available only once a Completer is registered for it.
type Service struct {
	table     *domllm.Table
	providers map[domllm.Provider]domllm.Completer
	maxTokens int
}

// New creates a dispatcher. maxTokens is the default response cap.
func New(table *domllm.Table, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = domllm.DefaultMaxTokens
	}
	return &Service{
		table:     table,
		providers: make(map[domllm.Provider]domllm.Completer),
		maxTokens: maxTokens,
	}
}

// WithProvider registers the completer for a provider family. nil is ignored.
func (s *Service) WithProvider(p domllm.Provider, c domllm.Completer) *Service {
	if c != nil {
		s.providers[p] = c
	}
	return s
}

// Resolve maps a model identifier to its Spec and checks provider availability.
// Nothing here touches the network.
func (s *Service) Resolve(model string) (domllm.Spec, error) {
	spec, err := s.table.Resolve(model)
	if err != nil {
		return domllm.Spec{}, fmt.Errorf("resolve model: %w", err)
	}
	if _, ok := s.providers[spec.Provider]; !ok {
		return domllm.Spec{}, &domain.ProviderUnavailableError{Provider: string(spec.Provider), Model: string(spec.ID)}
	}
	return spec, nil
}

// Complete sends system and user text to the provider behind spec.
func (s *Service) Complete(
	ctx context.Context, spec domllm.Spec, system, user string, opts domllm.Options,
) (string, error) {
	c, ok := s.providers[spec.Provider]
	if !ok {
		return "", &domain.ProviderUnavailableError{Provider: string(spec.Provider), Model: string(spec.ID)}
	}

	log := logger.FromContext(ctx)
	start := time.Now()

	text, err := c.Complete(ctx, domllm.Prompt{
		System:    system,
		User:      user,
		WireModel: spec.WireName,
		MaxTokens: opts.MaxTokensOr(s.maxTokens),
	})

	duration := time.Since(start)

	if err != nil {
		log.Error("Completion request failed",
			zap.String("provider", string(spec.Provider)),
			zap.String("model", string(spec.ID)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", fmt.Errorf("complete: %w", err)
	}

	log.Debug("Completion request completed",
		zap.String("provider", string(spec.Provider)),
		zap.String("model", string(spec.ID)),
		zap.Duration("duration", duration),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// Models lists the model table with availability.
func (s *Service) Models() []ModelInfo {
	specs := s.table.Specs()
	out := make([]ModelInfo, 0, len(specs))
	for _, spec := range specs {
		_, ok := s.providers[spec.Provider]
		out = append(out, ModelInfo{
			ID:        spec.ID,
			Provider:  spec.Provider,
			WireName:  spec.WireName,
			Available: ok,
			Default:   spec.ID == s.table.Default(),
		})
	}
	return out
}
