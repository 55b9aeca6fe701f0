package llm

import "context"

type Message struct {
	Role    string
	Content string
}

// GenerateOptions carries sampling parameters. Zero values are omitted from the upstream request.
type GenerateOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int

	// JSONObject asks the upstream for response_format={"type":"json_object"}.
	JSONObject bool
}

type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}
