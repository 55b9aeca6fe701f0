package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/neurobridge-roadmap/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-roadmap/internal/platform/envutil"
	"github.com/yungbote/neurobridge-roadmap/internal/platform/logger"
)

type dqAlertState struct {
	mu   sync.Mutex
	last map[string]time.Time
}

var dqAlerts dqAlertState

// ReportTaskDrops records candidates the validator rejected, keyed by drop reason. Drops are
// expected noise from model output, so they are logged and counted, never returned.
func ReportTaskDrops(ctx context.Context, log *logger.Logger, drops map[string]int, meta map[string]any) {
	total := 0
	for reason, n := range drops {
		if n <= 0 {
			continue
		}
		total += n
		Current().AddTaskDrops(reason, n)
		Current().IncDataQuality("validate", reason)
	}
	if total == 0 {
		return
	}
	meta = withTrace(ctx, meta)
	if log != nil {
		log.Warn("model tasks dropped", "dropped", total, "reasons", drops, "meta", meta)
	}
	sendDataQualityAlert(ctx, "validate", drops, nil, meta, log)
}

// ReportParseFailure records model output that could not be used at all.
func ReportParseFailure(ctx context.Context, log *logger.Logger, stage string, err error, meta map[string]any) {
	stage = orUnknown(stage)
	Current().IncDataQuality(stage, "unparseable")
	meta = withTrace(ctx, meta)
	var sample []string
	if err != nil {
		sample = []string{err.Error()}
	}
	if log != nil {
		log.Warn("model output unusable", "stage", stage, "error", err, "meta", meta)
	}
	sendDataQualityAlert(ctx, stage, map[string]int{"unparseable": 1}, sample, meta, log)
}

func withTrace(ctx context.Context, meta map[string]any) map[string]any {
	if meta == nil {
		meta = map[string]any{}
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.GenerationID != "" {
			meta["generation_id"] = td.GenerationID
		}
		if td.RequestID != "" {
			meta["request_id"] = td.RequestID
		}
	}
	return meta
}

func dataQualityAlertMinInterval() time.Duration {
	seconds := envutil.Int("DATA_QUALITY_ALERT_MIN_INTERVAL_SECONDS", 300)
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

// sendDataQualityAlert posts at most one alert per stage per interval to the configured webhook.
func sendDataQualityAlert(ctx context.Context, stage string, issueCounts map[string]int, sampleErrors []string, meta map[string]any, log *logger.Logger) {
	if !envutil.Bool("DATA_QUALITY_ALERTS_ENABLED", false) {
		return
	}
	webhook := envutil.String("", "DATA_QUALITY_ALERT_WEBHOOK_URL")
	if webhook == "" || len(issueCounts) == 0 {
		return
	}
	dqAlerts.mu.Lock()
	if dqAlerts.last == nil {
		dqAlerts.last = map[string]time.Time{}
	}
	last := dqAlerts.last[stage]
	if !last.IsZero() && time.Since(last) < dataQualityAlertMinInterval() {
		dqAlerts.mu.Unlock()
		return
	}
	dqAlerts.last[stage] = time.Now()
	dqAlerts.mu.Unlock()

	body, _ := json.Marshal(map[string]any{
		"title":         "Roadmap model output quality issue",
		"stage":         stage,
		"issues":        issueCounts,
		"sample_errors": sampleErrors,
		"meta":          meta,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(webhook), bytes.NewReader(body))
	if err != nil {
		if log != nil {
			log.Warn("data quality alert request build failed", "error", err, "stage", stage)
		}
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if log != nil {
			log.Warn("data quality alert post failed", "error", err, "stage", stage)
		}
		return
	}
	_ = resp.Body.Close()
	if log != nil {
		log.Info("data quality alert sent", "stage", stage, "status", resp.StatusCode)
	}
}
