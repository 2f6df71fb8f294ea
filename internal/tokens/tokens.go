package tokens

import (
	"fmt"
	"sort"

	"github.com/docqa/docqa-mcp/pkg/types"
)

// DefaultModel is the estimation scheme used when callers do not care about
// a specific model.
const DefaultModel = "gpt-3.5-turbo"

// charsPerToken maps recognized model names to the approximate number of
// characters per token under that model's tokenization. The ratios are
// deliberately conservative: estimates round up, so the assembler never
// overestimates the headroom left in a token budget.
var charsPerToken = map[string]int{
	"gpt-3.5-turbo": 4,
	"gpt-4":         4,
	"claude-v1":     4,
}

// Estimator approximates model token counts from character counts. It is
// deterministic: the same (text, model) pair always yields the same count.
type Estimator struct{}

// New creates an Estimator.
func New() *Estimator {
	return &Estimator{}
}

// Estimate returns the approximate token count of text under the named
// model's tokenization scheme. Unknown model names fail with
// types.ErrUnknownModel; there is no silent fallback scheme.
func (e *Estimator) Estimate(text, model string) (int, error) {
	ratio, ok := charsPerToken[model]
	if !ok {
		return 0, fmt.Errorf("%w: %q (supported: %v)", types.ErrUnknownModel, model, Models())
	}
	if text == "" {
		return 0, nil
	}
	// Round up so a partial trailing token still counts.
	return (len(text) + ratio - 1) / ratio, nil
}

// Supported reports whether the estimator has a scheme for model.
func Supported(model string) bool {
	_, ok := charsPerToken[model]
	return ok
}

// Models returns the recognized model names in sorted order.
func Models() []string {
	names := make([]string, 0, len(charsPerToken))
	for name := range charsPerToken {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
