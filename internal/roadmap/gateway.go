package roadmap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/neurobridge-roadmap/internal/config"
	"github.com/yungbote/neurobridge-roadmap/internal/llm"
	"github.com/yungbote/neurobridge-roadmap/internal/llm/oaihttp"
	"github.com/yungbote/neurobridge-roadmap/internal/observability"
	"github.com/yungbote/neurobridge-roadmap/internal/platform/logger"
)

const (
	sampleTemperature = 0.7
	sampleTopP        = 0.9
	sampleMaxTokens   = 3500

	RequestTimeout = 30 * time.Second
)

// Gateway makes the single bounded model call for a roadmap. A Gateway without an engine is
// disabled and every call fails fast with ErrGatewayDisabled.
type Gateway struct {
	engine   llm.Engine
	model    string
	timeout  time.Duration
	log      *logger.Logger
	disabled *ConfigurationError
}

func NewGateway(engine llm.Engine, model string, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	g := &Gateway{
		engine:  engine,
		model:   strings.TrimSpace(model),
		timeout: RequestTimeout,
		log:     log.With("service", "RoadmapGateway"),
	}
	if engine == nil {
		g.disabled = &ConfigurationError{Reason: "no model engine configured"}
	}
	return g
}

// NewGatewayFromConfig builds the HTTP engine when a usable credential is configured and a
// disabled gateway otherwise. A missing key is a supported mode, not a failure.
func NewGatewayFromConfig(cfg config.ModelConfig, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	var reason string
	switch key := strings.TrimSpace(cfg.APIKey); {
	case key == "":
		reason = "no API key configured (set ROADMAP_API_KEY or GROQ_API_KEY)"
	case len(key) < config.MinAPIKeyLength:
		reason = "API key appears to be invalid (too short)"
	}
	if reason != "" {
		g := NewGateway(nil, cfg.Model, log)
		g.disabled = &ConfigurationError{Reason: reason}
		g.log.Warn("model gateway disabled; roadmaps will use the rule-based generator", "reason", reason)
		return g
	}

	engine, err := oaihttp.New(cfg)
	if err != nil {
		g := NewGateway(nil, cfg.Model, log)
		g.disabled = &ConfigurationError{Reason: err.Error()}
		g.log.Warn("model gateway disabled; roadmaps will use the rule-based generator", "reason", err.Error())
		return g
	}
	g := NewGateway(engine, cfg.Model, log)
	if cfg.Timeout.Duration > 0 {
		g.timeout = cfg.Timeout.Duration
	}
	g.log.Info("model gateway initialized", "model", g.model, "base_url", cfg.BaseURL, "timeout", g.timeout.String())
	return g
}

func (g *Gateway) Available() bool {
	return g != nil && g.engine != nil && g.disabled == nil
}

// DisabledReason is nil when the gateway can be used.
func (g *Gateway) DisabledReason() *ConfigurationError {
	if g == nil {
		return &ConfigurationError{Reason: "nil gateway"}
	}
	return g.disabled
}

// Complete sends the prompt once and returns the raw completion text.
func (g *Gateway) Complete(ctx context.Context, p Prompt) (string, error) {
	if !g.Available() {
		return "", g.DisabledReason()
	}

	ctx, span := tracer().Start(ctx, "roadmap.gateway.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("llm.prompt_chars", len(p.User)),
	)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := llmTimer(g.log, g.model, map[string]any{"prompt_chars": len(p.User)})
	text, err := g.engine.GenerateText(ctx, g.model, []llm.Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}, llm.GenerateOptions{
		Temperature: sampleTemperature,
		TopP:        sampleTopP,
		MaxTokens:   sampleMaxTokens,
		JSONObject:  true,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = oaihttp.ErrEmptyCompletion
	}
	if err != nil {
		gerr := classifyGatewayError(ctx, err)
		done(gerr)
		span.RecordError(gerr)
		span.SetStatus(codes.Error, string(gerr.Kind))
		return "", gerr
	}
	done(nil)
	span.SetAttributes(attribute.Int("llm.response_chars", len(text)))
	return text, nil
}

func classifyGatewayError(ctx context.Context, err error) *GatewayError {
	var gerr *GatewayError
	if errors.As(err, &gerr) {
		return gerr
	}

	var httpErr *oaihttp.HTTPError
	switch {
	case errors.Is(err, oaihttp.ErrEmptyCompletion):
		return &GatewayError{Kind: GatewayEmpty, Err: err}
	case errors.As(err, &httpErr):
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &GatewayError{Kind: GatewayAuth, Err: err}
		case http.StatusTooManyRequests:
			return &GatewayError{Kind: GatewayRateLimit, Err: err}
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return &GatewayError{Kind: GatewayTimeout, Err: err}
		default:
			return &GatewayError{Kind: GatewayUpstream, Err: err}
		}
	case errors.Is(err, context.DeadlineExceeded), ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &GatewayError{Kind: GatewayTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GatewayError{Kind: GatewayTimeout, Err: err}
	}
	return &GatewayError{Kind: GatewayConnection, Err: err}
}

// llmTimer logs and counts one gateway call; the returned func is called once with its outcome.
func llmTimer(log *logger.Logger, model string, fields map[string]any) func(*GatewayError) {
	start := time.Now()
	return func(err *GatewayError) {
		elapsed := time.Since(start)
		outcome := "ok"
		if err != nil {
			outcome = string(err.Kind)
		}
		observability.Current().ObserveLLMRequest(model, outcome, elapsed)

		kv := make([]any, 0, 8+len(fields)*2)
		kv = append(kv, "llm_call", "roadmap_generate", "model", model, "outcome", outcome, "elapsed_ms", elapsed.Milliseconds())
		for k, v := range fields {
			kv = append(kv, k, v)
		}
		if err != nil {
			kv = append(kv, "error", err.Error())
			log.Warn("llm call finished", kv...)
			return
		}
		log.Info("llm call finished", kv...)
	}
}
