package roadmap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-roadmap/internal/config"
	"github.com/yungbote/neurobridge-roadmap/internal/llm"
	"github.com/yungbote/neurobridge-roadmap/internal/llm/mock"
	"github.com/yungbote/neurobridge-roadmap/internal/llm/oaihttp"
)

// blockingEngine waits for the caller's deadline.
type blockingEngine struct{}

func (blockingEngine) GenerateText(ctx context.Context, _ string, _ []llm.Message, _ llm.GenerateOptions) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestGateway_SendsFixedSamplingParameters(t *testing.T) {
	engine := mock.Text(`{"tasks": []}`)
	gw := NewGateway(engine, "llama3-70b-8192", nil)

	out, err := gw.Complete(context.Background(), Prompt{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"tasks": []}`, out)

	calls := engine.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "llama3-70b-8192", calls[0].Model)
	assert.Equal(t, []llm.Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "usr"}}, calls[0].Messages)
	assert.Equal(t, llm.GenerateOptions{Temperature: 0.7, TopP: 0.9, MaxTokens: 3500, JSONObject: true}, calls[0].Opts)
}

func TestGateway_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind GatewayErrorKind
	}{
		{"unauthorized", &oaihttp.HTTPError{StatusCode: 401}, GatewayAuth},
		{"forbidden", &oaihttp.HTTPError{StatusCode: 403}, GatewayAuth},
		{"rate limited", &oaihttp.HTTPError{StatusCode: 429}, GatewayRateLimit},
		{"server error", &oaihttp.HTTPError{StatusCode: 503}, GatewayUpstream},
		{"gateway timeout", &oaihttp.HTTPError{StatusCode: 504}, GatewayTimeout},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), GatewayTimeout},
		{"net timeout", &net.OpError{Op: "dial", Err: timeoutErr{}}, GatewayTimeout},
		{"refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, GatewayConnection},
		{"empty", oaihttp.ErrEmptyCompletion, GatewayEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mock.Failing(tt.err)
			_, err := NewGateway(engine, "m", nil).Complete(context.Background(), Prompt{})

			var gerr *GatewayError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.kind, gerr.Kind)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, engine.CallCount(), "gateway must not retry")
		})
	}
}

func TestGateway_BlankCompletionIsEmpty(t *testing.T) {
	_, err := NewGateway(mock.Text("   "), "m", nil).Complete(context.Background(), Prompt{})
	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, GatewayEmpty, gerr.Kind)
}

func TestGateway_Timeout(t *testing.T) {
	gw := NewGateway(blockingEngine{}, "m", nil)
	gw.timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := gw.Complete(context.Background(), Prompt{})
	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, GatewayTimeout, gerr.Kind)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGateway_DefaultTimeoutIsThirtySeconds(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewGateway(mock.Text("{}"), "m", nil).timeout)
}

func TestNewGatewayFromConfig_Disabled(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"missing key", "", "no API key"},
		{"short key", "gsk_short", "too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewGatewayFromConfig(config.ModelConfig{BaseURL: "http://upstream", Model: "m", APIKey: tt.key}, nil)
			assert.False(t, gw.Available())
			require.NotNil(t, gw.DisabledReason())
			assert.Contains(t, gw.DisabledReason().Error(), tt.want)

			_, err := gw.Complete(context.Background(), Prompt{})
			assert.ErrorIs(t, err, ErrGatewayDisabled)
		})
	}
}

func TestNewGatewayFromConfig_Enabled(t *testing.T) {
	gw := NewGatewayFromConfig(config.ModelConfig{
		BaseURL: "http://upstream",
		Model:   "llama3-70b-8192",
		APIKey:  "gsk_0123456789abcdefghij",
		Timeout: config.Duration{Duration: 5 * time.Second},
	}, nil)
	assert.True(t, gw.Available())
	assert.Nil(t, gw.DisabledReason())
	assert.Equal(t, 5*time.Second, gw.timeout)
}
