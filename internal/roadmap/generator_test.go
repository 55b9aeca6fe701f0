package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-roadmap/internal/llm/mock"
	"github.com/yungbote/neurobridge-roadmap/internal/llm/oaihttp"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/cache"
)

func clock() time.Time { return fixedNow }

func modelResponse(n int) string {
	priorities := []string{"high", "medium", "low"}
	tasks := make([]map[string]any, 0, n)
	for i := range n {
		tasks = append(tasks, map[string]any{
			"title":           fmt.Sprintf("Step %02d: Django views", i),
			"description":     "Build and test class-based views in Django",
			"category":        "framework",
			"estimated_hours": 6,
			"priority":        priorities[i%3],
			"resources": []map[string]any{
				{"title": "Django docs", "url": "docs.djangoproject.com/en/5.0/topics/http/views/?utm_source=llm", "type": "free", "estimated_time": 40},
			},
		})
	}
	b, _ := json.Marshal(map[string]any{"tasks": tasks})
	return string(b)
}

func newTestGenerator(engine *mock.Engine, opts ...Option) *Generator {
	base := []Option{WithClock(clock)}
	if engine != nil {
		base = append(base, WithGateway(NewGateway(engine, "llama3-70b-8192", nil)))
	}
	return NewGenerator(append(base, opts...)...)
}

func TestGenerate_DisabledGatewayUsesFallback(t *testing.T) {
	gen := newTestGenerator(nil)
	p := webPythonDjango(SkillBeginner, 10)

	tasks, path, err := gen.GenerateWithPath(context.Background(), p, "Web Development with Python & Django")
	require.NoError(t, err)
	assert.Equal(t, PathFallback, path)

	want, err := Fallback(p, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, want, tasks)
	assert.LessOrEqual(t, len(tasks), 6)
	assert.Contains(t, titles(tasks), "Web Development Core Concepts Deep Dive")
	assert.Contains(t, titles(tasks), "Master Python Essentials")
	assert.Contains(t, titles(tasks), "Django Framework Mastery")

	info, err := gen.CacheInfo(context.Background())
	require.NoError(t, err)
	assert.Zero(t, info.Size, "fallback roadmaps are not cached")
	assert.False(t, info.ModelAvailable)
}

func TestGenerate_ModelPathAndCacheRoundTrip(t *testing.T) {
	engine := mock.Text(modelResponse(8))
	gen := newTestGenerator(engine)
	p := webPythonDjango(SkillIntermediate, 16)

	first, path, err := gen.GenerateWithPath(context.Background(), p, "Backend Path")
	require.NoError(t, err)
	assert.Equal(t, PathModel, path)
	require.Len(t, first, 8)
	for _, task := range first {
		assert.True(t, task.AIGenerated)
		assert.Equal(t, "https://docs.djangoproject.com/en/5.0/topics/http/views/", task.Resources[0].URL)
		assertAdmissible(t, task)
	}
	assert.Equal(t, PriorityHigh, first[0].Priority)
	assert.Equal(t, PriorityLow, first[7].Priority)

	second, path, err := gen.GenerateWithPath(context.Background(), p, "Backend Path")
	require.NoError(t, err)
	assert.Equal(t, PathCache, path)

	third, err := gen.Generate(context.Background(), p, "Backend Path")
	require.NoError(t, err)

	assert.Equal(t, 1, engine.CallCount())
	assert.JSONEq(t, mustJSON(t, first), mustJSON(t, second))
	assert.Equal(t, mustJSON(t, second), mustJSON(t, third))

	info, err := gen.CacheInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, info.Size)
	assert.True(t, info.ModelAvailable)
	fp, err := gen.Fingerprint(p, "Backend Path")
	require.NoError(t, err)
	assert.Equal(t, []string{fp}, info.Keys)
}

func TestGenerate_ClearCacheForcesNewCall(t *testing.T) {
	engine := mock.Text(modelResponse(7))
	gen := newTestGenerator(engine)
	p := webPythonDjango(SkillAdvanced, 12)

	_, err := gen.Generate(context.Background(), p, "Path")
	require.NoError(t, err)
	require.NoError(t, gen.ClearCache(context.Background()))

	info, err := gen.CacheInfo(context.Background())
	require.NoError(t, err)
	assert.Zero(t, info.Size)
	assert.Empty(t, info.Keys)

	_, err = gen.Generate(context.Background(), p, "Path")
	require.NoError(t, err)
	assert.Equal(t, 2, engine.CallCount())
}

func TestGenerate_MalformedOutputFallsBack(t *testing.T) {
	engine := mock.Text("```json\n{tasks:[{title:\"x\"}],}\n```")
	gen := newTestGenerator(engine)
	p := webPythonDjango(SkillBeginner, 10)

	var (
		tasks []Task
		path  Path
		err   error
	)
	require.NotPanics(t, func() {
		tasks, path, err = gen.GenerateWithPath(context.Background(), p, "Path")
	})
	require.NoError(t, err)
	assert.Equal(t, PathFallback, path)
	want, _ := Fallback(p, fixedNow)
	assert.Equal(t, want, tasks)
}

func TestGenerate_GatewayFailuresFallBack(t *testing.T) {
	failures := []error{
		&oaihttp.HTTPError{StatusCode: 429, Body: "rate limited"},
		&oaihttp.HTTPError{StatusCode: 401},
		context.DeadlineExceeded,
		oaihttp.ErrEmptyCompletion,
	}
	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			engine := mock.Failing(failure)
			gen := newTestGenerator(engine)

			tasks, path, err := gen.GenerateWithPath(context.Background(), webPythonDjango(SkillBeginner, 10), "Path")
			require.NoError(t, err)
			assert.Equal(t, PathFallback, path)
			assert.NotEmpty(t, tasks)
			assert.Equal(t, 1, engine.CallCount())

			info, err := gen.CacheInfo(context.Background())
			require.NoError(t, err)
			assert.Zero(t, info.Size)
		})
	}
}

func TestGenerate_UnusableOutputFallsBack(t *testing.T) {
	outputs := map[string]string{
		"blank":         "   ",
		"prose":         "Sorry, I can't produce a roadmap today.",
		"no tasks":      `{"tasks": []}`,
		"all dropped":   `{"tasks": [{"title": "Go", "description": "short", "category": "language", "estimated_hours": 500}]}`,
		"tasks objects": `{"tasks": {"title": "Learn Go"}}`,
	}
	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			gen := newTestGenerator(mock.Text(out))
			_, path, err := gen.GenerateWithPath(context.Background(), webPythonDjango(SkillBeginner, 10), "Path")
			require.NoError(t, err)
			assert.Equal(t, PathFallback, path)
		})
	}
}

func TestGenerate_DropsInvalidCandidatesAndSupplements(t *testing.T) {
	raw := `Here you go:
<json>
{"tasks": [
  {"title": "Python data model", "description": "Dunder methods and protocols", "category": "language", "estimated_hours": "9", "priority": "high",},
  {"title": "Tiny", "description": "This title is too short", "category": "concept", "estimated_hours": 3},
  {"title": "Django ORM queries", "description": "Querysets, lookups and aggregation", "category": "orm", "estimated_hours": 12},
  "not a task",
]}
</json>`
	gen := newTestGenerator(mock.Text(raw))
	p := webPythonDjango(SkillBeginner, 14)

	tasks, path, err := gen.GenerateWithPath(context.Background(), p, "Path")
	require.NoError(t, err)
	assert.Equal(t, PathModel, path)

	// ideal = clamp(14/2, 6, 12) = 7; two admitted plus five fallback tasks.
	require.Len(t, tasks, 7)
	assert.Equal(t, "Python data model", tasks[0].Title)
	assert.Equal(t, "Python Official Docs", tasks[0].Resources[0].Title)
	assert.Equal(t, "Django ORM queries", tasks[1].Title)
	assert.Equal(t, CategoryPractice, tasks[1].Category)
	assert.Equal(t, "Web Development Core Concepts Deep Dive", tasks[2].Title)
	for _, task := range tasks {
		assertAdmissible(t, task)
	}
}

func TestGenerate_TaskCountAndBounds(t *testing.T) {
	profiles := []StaticProfile{
		webPythonDjango(SkillAbsoluteBeginner, 2),
		webPythonDjango(SkillBeginner, 10),
		webPythonDjango(SkillAdvanced, 40),
		{DomainCode: "mobile", LanguageCode: "kotlin", Skill: SkillIntermediate, HoursPerWeek: 24},
		{DomainCode: "cloud", Skill: SkillAdvanced},
	}
	for _, n := range []int{1, 5, 9, 20} {
		for _, p := range profiles {
			name := fmt.Sprintf("%d/%s/%s/%d", n, p.DomainCode, p.Skill, p.HoursPerWeek)
			t.Run(name, func(t *testing.T) {
				gen := newTestGenerator(mock.Text(modelResponse(n)))
				tasks, err := gen.Generate(context.Background(), p, "Path")
				require.NoError(t, err)
				assert.GreaterOrEqual(t, len(tasks), 1)
				assert.LessOrEqual(t, len(tasks), 12)
				for _, task := range tasks {
					assertAdmissible(t, task)
				}
			})
		}
	}
}

func TestGenerate_CallerErrors(t *testing.T) {
	gen := newTestGenerator(mock.Text(modelResponse(8)))

	_, err := gen.Generate(context.Background(), StaticProfile{DomainCode: "web"}, "Path")
	require.ErrorIs(t, err, ErrIncompleteProfile)

	_, err = gen.Generate(context.Background(), nil, "Path")
	require.ErrorIs(t, err, ErrNilProfile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, webPythonDjango(SkillBeginner, 10), "Path")
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_FingerprintSeparatesProfiles(t *testing.T) {
	engine := mock.Text(modelResponse(6))
	store := cache.NewMemoryStore()
	gen := newTestGenerator(engine, WithCache(store))
	ctx := context.Background()

	a := webPythonDjango(SkillBeginner, 10)
	a.Goals = strings.Repeat("x", 30) + " and then some"
	b := a
	b.Goals = strings.Repeat("x", 30) + " something else"
	c := a
	c.HoursPerWeek = 11

	for _, p := range []StaticProfile{a, b, c} {
		_, err := gen.Generate(ctx, p, "Path")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, engine.CallCount(), "goals past the first 30 characters share a cache entry")

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"path|web|python|django|beginner|10|" + strings.Repeat("x", 30),
		"path|web|python|django|beginner|11|" + strings.Repeat("x", 30),
	}, keys)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
