package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-roadmap/internal/platform/ctxutil"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveGeneration("model", time.Second)
	m.ObserveLLMRequest("m", "ok", time.Second)
	m.AddTaskDrops("short_title", 2)
	m.IncDataQuality("decode", "unparseable")
	m.ObserveCacheLookup(true)
	m.SetCacheEntries(3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil metrics write: %v", err)
	}
}

func TestMetrics_WritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveGeneration("fallback", 3*time.Millisecond)
	m.ObserveGeneration("model", 1500*time.Millisecond)
	m.ObserveLLMRequest("llama3-70b-8192", "rate_limit", 200*time.Millisecond)
	m.AddTaskDrops("short_title", 2)
	m.AddTaskDrops("short_title", 1)
	m.ObserveCacheLookup(false)
	m.ObserveCacheLookup(true)
	m.SetCacheEntries(4)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE roadmap_generations_total counter",
		`roadmap_generations_total{path="fallback"} 1`,
		`roadmap_generations_total{path="model"} 1`,
		`roadmap_generation_seconds_bucket{path="model",le="2"} 1`,
		`roadmap_generation_seconds_bucket{path="model",le="1"} 0`,
		`roadmap_llm_requests_total{model="llama3-70b-8192",outcome="rate_limit"} 1`,
		`roadmap_task_drops_total{reason="short_title"} 3`,
		`roadmap_cache_lookups_total{result="hit"} 1`,
		`roadmap_cache_lookups_total{result="miss"} 1`,
		"roadmap_cache_entries 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, `path="fallback"`) > strings.Index(out, `path="model"`) {
		t.Fatalf("series are not sorted:\n%s", out)
	}
}

func TestLabelString_Escapes(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString=%s", got)
	}
}

func TestReportTaskDrops_AlertsOncePerInterval(t *testing.T) {
	var (
		hits atomic.Int32
		mu   sync.Mutex
		last map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&last)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	t.Setenv("DATA_QUALITY_ALERTS_ENABLED", "true")
	t.Setenv("DATA_QUALITY_ALERT_WEBHOOK_URL", srv.URL)
	t.Setenv("DATA_QUALITY_ALERT_MIN_INTERVAL_SECONDS", "3600")
	dqAlerts.mu.Lock()
	dqAlerts.last = nil
	dqAlerts.mu.Unlock()

	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{GenerationID: "gen-1"})
	ReportTaskDrops(ctx, nil, map[string]int{"short_title": 2}, nil)
	ReportTaskDrops(ctx, nil, map[string]int{"short_title": 1}, nil)
	ReportTaskDrops(ctx, nil, map[string]int{}, nil)

	if got := hits.Load(); got != 1 {
		t.Fatalf("webhook hits=%d want 1", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if last["stage"] != "validate" {
		t.Fatalf("stage=%v", last["stage"])
	}
	meta, _ := last["meta"].(map[string]any)
	if meta["generation_id"] != "gen-1" {
		t.Fatalf("meta=%v", meta)
	}
}

func TestReportParseFailure_NoWebhookConfigured(t *testing.T) {
	t.Setenv("DATA_QUALITY_ALERTS_ENABLED", "true")
	t.Setenv("DATA_QUALITY_ALERT_WEBHOOK_URL", "")
	ReportParseFailure(context.Background(), nil, "decode", errors.New("invalid character 't'"), nil)
}
