package llm

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docquery/internal/domain"
)

// Provider is an LLM vendor family with its own wire shape.
type Provider string

// Supported providers.
const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
)

// Model is a public model identifier accepted by the API.
type Model string

// Supported models.
const (
	GPT35Turbo16k    Model = "gpt-3.5-turbo-16k"
	GPT4TurboPreview Model = "gpt-4-turbo-preview"
	Claude3Sonnet    Model = "claude-3-sonnet"
	Claude3Opus      Model = "claude-3-opus"
)

// DefaultModel is used when a request names no model.
const DefaultModel = GPT35Turbo16k

// Spec binds a model identifier to its provider and wire model name.
type Spec struct {
	ID       Model
	Provider Provider
	WireName string
}

var table = []Spec{
	{ID: GPT35Turbo16k, Provider: OpenAI, WireName: "gpt-3.5-turbo-16k"},
	{ID: GPT4TurboPreview, Provider: OpenAI, WireName: "gpt-4-turbo-preview"},
	{ID: Claude3Sonnet, Provider: Anthropic, WireName: "claude-3-sonnet-20240229"},
	{ID: Claude3Opus, Provider: Anthropic, WireName: "claude-3-opus-20240229"},
}

// Table is the fixed model dispatch table. Wire names can be overridden per model.
type Table struct {
	specs    []Spec
	fallback Model
}

// NewTable creates the dispatch table. overrides maps model identifiers to
// wire names; defaultModel must be a known identifier (empty means DefaultModel).
func NewTable(defaultModel string, overrides map[string]string) (*Table, error) {
	specs := make([]Spec, len(table))
	copy(specs, table)

	for id, wire := range overrides {
		found := false
		for i := range specs {
			if string(specs[i].ID) == id {
				if strings.TrimSpace(wire) != "" {
					specs[i].WireName = wire
				}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("override for unknown model %q", id)
		}
	}

	t := &Table{specs: specs, fallback: DefaultModel}
	if defaultModel != "" {
		s, err := t.lookup(defaultModel)
		if err != nil {
			return nil, fmt.Errorf("default model: %w", err)
		}
		t.fallback = s.ID
	}
	return t, nil
}

// Resolve maps an identifier to its Spec. Empty selects the default model.
// Unknown identifiers are rejected with ErrUnknownModel and ErrInvalidInput.
func (t *Table) Resolve(id string) (Spec, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = string(t.fallback)
	}
	return t.lookup(id)
}

// Default returns the default model identifier.
func (t *Table) Default() Model { return t.fallback }

// Specs returns all models in table order.
func (t *Table) Specs() []Spec {
	out := make([]Spec, len(t.specs))
	copy(out, t.specs)
	return out
}

func (t *Table) lookup(id string) (Spec, error) {
	for _, s := range t.specs {
		if string(s.ID) == id {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %w", domain.ErrUnknownModel,
		domain.NewInvalidInput("model", id, "unknown model"))
}
