package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-roadmap/internal/roadmap"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ROADMAP_CONFIG_PATH", "ROADMAP_API_KEY", "GROQ_API_KEY", "ROADMAP_CACHE_BACKEND",
		"REDIS_ADDR", "ROADMAP_MODEL", "ROADMAP_MODEL_BASE_URL", "OTEL_ENABLED",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("ROADMAP_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("LOG_MODE", "production")
	t.Setenv("LOG_LEVEL", "error")
}

func TestNew_MemoryCacheWithoutCredential(t *testing.T) {
	isolateEnv(t)
	ctx := context.Background()

	a, err := New(ctx, Options{})
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close(ctx)) }()

	assert.Equal(t, "memory", a.Cfg.Cache.Backend)
	assert.NotNil(t, a.Catalog)

	p := roadmap.StaticProfile{DomainCode: "web", LanguageCode: "python", FrameworkCode: "django", Skill: "beginner", HoursPerWeek: 10}
	tasks, path, err := a.Generator.GenerateWithPath(ctx, p, roadmap.RoadmapName(p, 0))
	require.NoError(t, err)
	assert.Equal(t, roadmap.PathFallback, path)
	assert.NotEmpty(t, tasks)

	info, err := a.Generator.CacheInfo(ctx)
	require.NoError(t, err)
	assert.False(t, info.ModelAvailable)
}

func TestNew_ConfigFileAndMetrics(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "roadmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: production\nmodel:\n  base_url: http://127.0.0.1:1\n  model: test-model\n"), 0o600))

	a, err := New(context.Background(), Options{ConfigPath: path, Metrics: true})
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	assert.Equal(t, "test-model", a.Cfg.Model.Model)
	require.NotNil(t, a.Metrics)
}

func TestNew_UnreachableRedisFails(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ROADMAP_CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	_, err := New(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestNew_BadConfigFile(t *testing.T) {
	isolateEnv(t)
	_, err := New(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}
