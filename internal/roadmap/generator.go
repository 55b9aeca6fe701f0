// Package roadmap turns a learner profile into an ordered list of learning tasks, using an
// external model when one is configured and a deterministic rule-based generator otherwise.
package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/neurobridge-roadmap/internal/observability"
	"github.com/yungbote/neurobridge-roadmap/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-roadmap/internal/platform/logger"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/cache"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

func tracer() trace.Tracer {
	return otel.Tracer("github.com/yungbote/neurobridge-roadmap/internal/roadmap")
}

// Path names where a roadmap came from.
type Path string

const (
	PathCache    Path = "cache"
	PathModel    Path = "model"
	PathFallback Path = "fallback"
)

type Generator struct {
	log     *logger.Logger
	gateway *Gateway
	cache   cache.Store
	catalog *catalog.Catalog
	now     func() time.Time
}

type Option func(*Generator)

func WithLogger(log *logger.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

func WithGateway(gw *Gateway) Option {
	return func(g *Generator) { g.gateway = gw }
}

func WithCache(s cache.Store) Option {
	return func(g *Generator) {
		if s != nil {
			g.cache = s
		}
	}
}

func WithCatalog(c *catalog.Catalog) Option {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithClock sets the time source used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator defaults to a disabled gateway, an in-memory cache and the embedded catalog.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		log:     logger.NewNop(),
		cache:   cache.NewMemoryStore(),
		catalog: catalog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.gateway == nil {
		g.gateway = NewGateway(nil, "", g.log)
	}
	g.log = g.log.With("service", "RoadmapGenerator")
	return g
}

// Generate returns the roadmap for p. Model failures of any kind degrade to the rule-based
// roadmap, so the only errors are an invalid profile or a cancelled context before any work.
func (g *Generator) Generate(ctx context.Context, p Profile, roadmapName string) ([]Task, error) {
	tasks, _, err := g.generate(ctx, p, roadmapName)
	return tasks, err
}

// GenerateWithPath is Generate that also reports which path produced the roadmap.
func (g *Generator) GenerateWithPath(ctx context.Context, p Profile, roadmapName string) ([]Task, Path, error) {
	return g.generate(ctx, p, roadmapName)
}

func (g *Generator) generate(ctx context.Context, p Profile, roadmapName string) (tasks []Task, path Path, err error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	ctx, genID := ctxutil.EnsureGeneration(ctx)
	ctx, span := tracer().Start(ctx, "roadmap.generate")
	defer span.End()
	start := time.Now()

	v, err := resolve(p, g.catalog)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	fp := fingerprint(v, roadmapName, p.LearningGoals())
	log := g.log.With("generation_id", genID)
	span.SetAttributes(attribute.String("roadmap.fingerprint", fp))
	defer func() {
		span.SetAttributes(attribute.String("roadmap.path", string(path)), attribute.Int("roadmap.tasks", len(tasks)))
		observability.Current().ObserveGeneration(string(path), time.Since(start))
		log.Info("roadmap generated", "path", string(path), "tasks", len(tasks), "elapsed_ms", time.Since(start).Milliseconds())
	}()

	log.Info("generating roadmap",
		"roadmap_name", roadmapName,
		"domain", v.domain,
		"language", v.language,
		"framework", v.framework,
		"skill_level", v.skill,
		"time_commitment", v.hours,
	)

	if cached, ok := g.lookup(ctx, log, fp); ok {
		return cached, PathCache, nil
	}

	if !g.gateway.Available() {
		log.Warn("using rule-based roadmap", "reason", g.gateway.DisabledReason().Error())
		return fallbackTasks(v, g.catalog, g.now()), PathFallback, nil
	}

	prompt := buildPrompt(v, roadmapName)
	raw, err := g.gateway.Complete(ctx, prompt)
	if err != nil {
		log.Warn("model call failed; using rule-based roadmap", "error", err)
		return fallbackTasks(v, g.catalog, g.now()), PathFallback, nil
	}
	log.Info("model response received", "response_chars", len(raw))

	now := g.now()
	admitted, err := g.parse(ctx, log, raw, v, now)
	if err != nil {
		var perr *ParseError
		stage := "unknown"
		if errors.As(err, &perr) {
			stage = string(perr.Stage)
		}
		observability.ReportParseFailure(ctx, log, stage, err, map[string]any{"fingerprint": fp})
		return fallbackTasks(v, g.catalog, now), PathFallback, nil
	}

	tasks = finalize(admitted, v, g.catalog, now)
	g.store(ctx, log, fp, tasks)
	return tasks, PathModel, nil
}

// parse runs normalize, decode, validate and enhance over raw model output.
func (g *Generator) parse(ctx context.Context, log *logger.Logger, raw string, v view, now time.Time) ([]Task, error) {
	n := Normalize(raw)
	if !n.Recovered {
		return nil, &ParseError{Stage: StageNormalize, Err: errors.New("no JSON object in model output")}
	}
	candidates, err := decodeCandidates(n.Text)
	if err != nil {
		return nil, err
	}

	drops := map[string]int{}
	tasks := make([]Task, 0, len(candidates))
	for _, c := range candidates {
		cand, reason, ok := admit(c)
		if !ok {
			drops[string(reason)]++
			continue
		}
		tasks = append(tasks, enhance(cand, v, g.catalog, now))
	}
	observability.ReportTaskDrops(ctx, log, drops, map[string]any{"candidates": len(candidates)})
	if len(tasks) == 0 {
		return nil, &ParseError{Stage: StageValidate, Err: fmt.Errorf("none of %d candidate tasks admitted", len(candidates))}
	}
	return tasks, nil
}

func (g *Generator) lookup(ctx context.Context, log *logger.Logger, fp string) ([]Task, bool) {
	raw, ok, err := g.cache.Get(ctx, fp)
	if err != nil {
		log.Warn("roadmap cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		observability.Current().ObserveCacheLookup(false)
		return nil, false
	}
	var tasks []Task
	if err := json.Unmarshal(raw, &tasks); err != nil || len(tasks) == 0 {
		log.Warn("roadmap cache entry unreadable", "error", err)
		return nil, false
	}
	observability.Current().ObserveCacheLookup(true)
	log.Info("returning cached roadmap", "tasks", len(tasks))
	return tasks, true
}

func (g *Generator) store(ctx context.Context, log *logger.Logger, fp string, tasks []Task) {
	raw, err := json.Marshal(tasks)
	if err != nil {
		log.Warn("roadmap cache encode failed", "error", err)
		return
	}
	if err := g.cache.Set(ctx, fp, raw); err != nil {
		log.Warn("roadmap cache write failed", "error", err)
		return
	}
	if n, err := g.cache.Len(ctx); err == nil {
		observability.Current().SetCacheEntries(n)
	}
}

func fingerprint(v view, roadmapName, goals string) string {
	return cache.Fingerprint(cache.Fields{
		RoadmapName: roadmapName,
		Domain:      v.domain,
		Language:    v.language,
		Framework:   v.framework,
		SkillLevel:  v.skill,
		Hours:       v.hours,
		Goals:       goals,
	})
}

// Fingerprint returns the cache key Generate would use for p and roadmapName.
func (g *Generator) Fingerprint(p Profile, roadmapName string) (string, error) {
	v, err := resolve(p, g.catalog)
	if err != nil {
		return "", err
	}
	return fingerprint(v, roadmapName, p.LearningGoals()), nil
}

type CacheInfo struct {
	Size           int      `json:"cache_size"`
	Keys           []string `json:"cache_keys"`
	ModelAvailable bool     `json:"api_available"`
}

func (g *Generator) CacheInfo(ctx context.Context) (CacheInfo, error) {
	n, err := g.cache.Len(ctx)
	if err != nil {
		return CacheInfo{}, err
	}
	keys, err := g.cache.Keys(ctx)
	if err != nil {
		return CacheInfo{}, err
	}
	return CacheInfo{Size: n, Keys: keys, ModelAvailable: g.gateway.Available()}, nil
}

func (g *Generator) ClearCache(ctx context.Context) error {
	if err := g.cache.Clear(ctx); err != nil {
		return err
	}
	g.log.Info("roadmap cache cleared")
	return nil
}
