// Package completion generates answers from assembled context via a
// chat-completion backend.
package completion

import (
	"context"
	"fmt"
	"sort"

	"github.com/docqa/docqa-mcp/pkg/types"
)

// backendModels maps user-facing backend names to the chat model each one
// routes to. Resolution happens at configuration time so an unknown name
// fails before any document work starts.
var backendModels = map[string]string{
	"GPT 01pro":     "gpt-4",
	"Claude Sonnet": "claude-v1",
	"Gemini 1.5":    "gpt-3.5-turbo",
}

// DefaultBackend is used when a configuration leaves the backend unset.
const DefaultBackend = "Gemini 1.5"

// ResolveBackend returns the chat model for a backend name.
func ResolveBackend(name string) (string, error) {
	model, ok := backendModels[name]
	if !ok {
		return "", fmt.Errorf("%w: %q (known: %v)", types.ErrUnknownBackend, name, Backends())
	}
	return model, nil
}

// Backends lists the known backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backendModels))
	for name := range backendModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Completion produces a free-text answer for a fully built prompt.
type Completion interface {
	// Generate sends the prompt and returns the model's answer text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the chat model this client targets.
	Model() string

	// Close releases any held connections.
	Close() error
}
