package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}

// TraceData identifies one roadmap generation request across log lines and spans.
type TraceData struct {
	GenerationID string
	RequestID    string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// EnsureGeneration returns ctx carrying a TraceData with a GenerationID, minting one if absent.
func EnsureGeneration(ctx context.Context) (context.Context, string) {
	if td := GetTraceData(ctx); td != nil && td.GenerationID != "" {
		return ctx, td.GenerationID
	}
	td := &TraceData{GenerationID: uuid.NewString()}
	if prev := GetTraceData(ctx); prev != nil {
		td.RequestID = prev.RequestID
	}
	return WithTraceData(ctx, td), td.GenerationID
}
