package mock

import (
	"context"
	"sync"

	"github.com/yungbote/neurobridge-roadmap/internal/llm"
)

// Response is one scripted upstream answer.
type Response struct {
	Text string
	Err  error
}

// Call records what the engine was asked.
type Call struct {
	Model    string
	Messages []llm.Message
	Opts     llm.GenerateOptions
}

// Engine replays scripted responses in order; the last response repeats once the script runs out.
type Engine struct {
	mu        sync.Mutex
	responses []Response
	calls     []Call
}

func New(responses ...Response) *Engine {
	return &Engine{responses: responses}
}

// Text is shorthand for an engine that always answers with text.
func Text(text string) *Engine {
	return New(Response{Text: text})
}

// Failing is shorthand for an engine that always fails with err.
func Failing(err error) *Engine {
	return New(Response{Err: err})
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []llm.Message, opts llm.GenerateOptions) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	msgs := make([]llm.Message, len(messages))
	copy(msgs, messages)
	e.calls = append(e.calls, Call{Model: model, Messages: msgs, Opts: opts})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(e.responses) == 0 {
		return "", nil
	}
	idx := len(e.calls) - 1
	if idx >= len(e.responses) {
		idx = len(e.responses) - 1
	}
	r := e.responses[idx]
	return r.Text, r.Err
}

func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}
