package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider asks a model for a single JSON document.
type Provider interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

var ErrEmptyResponse = errors.New("model returned no content")

// CleanJSON strips markdown code fences some models wrap around JSON output.
func CleanJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
