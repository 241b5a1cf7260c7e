package llm

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/docquery/internal/domain"
)

// Response token limits.
const (
	DefaultMaxTokens = 500
	MaxMaxTokens     = 4096
)

// Options are per-request completion settings.
type Options struct {
	MaxTokens int
}

// ParseOptions reads the provider options map. Only max_tokens is honored;
// other keys are ignored.
func ParseOptions(raw map[string]any) (Options, error) {
	var o Options
	v, ok := raw["max_tokens"]
	if !ok || v == nil {
		return o, nil
	}

	var n int
	switch x := v.(type) {
	case float64:
		if x != float64(int(x)) {
			return o, domain.NewInvalidInput("model_options.max_tokens", fmt.Sprint(x), "must be an integer")
		}
		n = int(x)
	case int:
		n = x
	case int64:
		n = int(x)
	case string:
		p, err := strconv.Atoi(x)
		if err != nil {
			return o, domain.NewInvalidInput("model_options.max_tokens", x, "must be an integer")
		}
		n = p
	default:
		return o, domain.NewInvalidInput("model_options.max_tokens", fmt.Sprint(x), "must be an integer")
	}

	if n < 1 || n > MaxMaxTokens {
		return o, domain.NewInvalidInput("model_options.max_tokens", strconv.Itoa(n),
			"must be between 1 and "+strconv.Itoa(MaxMaxTokens))
	}
	o.MaxTokens = n
	return o, nil
}

// MaxTokensOr returns MaxTokens or def when unset.
func (o Options) MaxTokensOr(def int) int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return def
}
