package assembler

import (
	"strings"

	"github.com/docqa/docqa-mcp/internal/tokens"
)

// DefaultMaxTokens is the default token budget for assembled context.
const DefaultMaxTokens = 2000

// Assembler concatenates text fragments under a model token budget. It is
// greedy and order-sensitive: callers control priority by ordering the
// fragments, and the first fragment that would overflow the budget stops
// assembly. Remaining fragments are dropped whole, never truncated
// mid-string.
type Assembler struct {
	estimator *tokens.Estimator
}

// New creates an Assembler using the given token estimator.
func New(estimator *tokens.Estimator) *Assembler {
	return &Assembler{estimator: estimator}
}

// Assemble joins fragments with newlines until appending the next fragment
// would push the estimated token count of the accumulated text over
// maxTokens. The returned string's estimated token count is always at most
// maxTokens. An unknown model name fails with types.ErrUnknownModel.
func (a *Assembler) Assemble(fragments []string, maxTokens int, model string) (string, error) {
	combined := ""
	for _, fragment := range fragments {
		proposed := combined + "\n" + fragment
		count, err := a.estimator.Estimate(proposed, model)
		if err != nil {
			return "", err
		}
		if count > maxTokens {
			break
		}
		combined = proposed
	}
	return strings.TrimSpace(combined), nil
}
