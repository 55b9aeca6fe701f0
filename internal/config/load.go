package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-roadmap/internal/platform/envutil"
)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Bare integers are seconds in YAML config files.
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "duration must look like \"30s\" or an integer number of seconds"), "value", s)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		Model: ModelConfig{
			BaseURL:             "https://api.groq.com/openai",
			ChatCompletionsPath: "/v1/chat/completions",
			Model:               "llama3-70b-8192",
			Timeout:             Duration{Duration: 30 * time.Second},
		},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
			Prefix:  "roadmap:",
		},
	}
}

// Load resolves configuration from defaults, an optional YAML file, an optional .env file and
// the process environment, in that order of increasing precedence.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ROADMAP_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "roadmap.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		if err := loadFile(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile is Load with an explicit YAML path; env still overrides file values.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}
	return nil
}

// loadDotEnv reads ROADMAP_ENV_FILE (default ".env") without overriding variables that are
// already set. A missing file is not an error.
func loadDotEnv() error {
	path := envutil.String(".env", "ROADMAP_ENV_FILE")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to load env file"), "path", path)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.Env = v
	}
	cfg.Model.BaseURL = envutil.String(cfg.Model.BaseURL, "ROADMAP_MODEL_BASE_URL")
	cfg.Model.Model = envutil.String(cfg.Model.Model, "ROADMAP_MODEL")
	cfg.Model.APIKey = envutil.String(cfg.Model.APIKey, "ROADMAP_API_KEY", "GROQ_API_KEY")
	if secs := envutil.Int("ROADMAP_MODEL_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.Model.Timeout = Duration{Duration: time.Duration(secs) * time.Second}
	}

	cfg.Cache.Backend = envutil.String(cfg.Cache.Backend, "ROADMAP_CACHE_BACKEND")
	cfg.Cache.RedisAddr = envutil.String(cfg.Cache.RedisAddr, "REDIS_ADDR")
	cfg.Cache.RedisDB = envutil.Int("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.Prefix = envutil.String(cfg.Cache.Prefix, "ROADMAP_CACHE_PREFIX")
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}

	m := &cfg.Model
	m.BaseURL = strings.TrimRight(strings.TrimSpace(m.BaseURL), "/")
	m.ChatCompletionsPath = strings.TrimSpace(m.ChatCompletionsPath)
	m.Model = strings.TrimSpace(m.Model)
	m.APIKey = strings.TrimSpace(m.APIKey)
	if m.BaseURL == "" {
		return zerr.With(zerr.New("model base_url is required"), "key", "model.base_url")
	}
	if m.ChatCompletionsPath == "" {
		m.ChatCompletionsPath = "/v1/chat/completions"
	}
	if !strings.HasPrefix(m.ChatCompletionsPath, "/") {
		m.ChatCompletionsPath = "/" + m.ChatCompletionsPath
	}
	if m.Model == "" {
		return zerr.With(zerr.New("model name is required"), "key", "model.model")
	}
	if m.Timeout.Duration < 0 {
		return zerr.With(zerr.New("model timeout must not be negative"), "key", "model.timeout")
	}
	if m.Timeout.Duration == 0 {
		m.Timeout = Duration{Duration: 30 * time.Second}
	}

	c := &cfg.Cache
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "", CacheBackendMemory:
		c.Backend = CacheBackendMemory
	case CacheBackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return zerr.With(zerr.New("redis cache backend requires redis_addr"), "key", "cache.redis_addr")
		}
	default:
		return zerr.With(zerr.New("unknown cache backend"), "backend", c.Backend)
	}
	if c.RedisDB < 0 {
		return zerr.With(zerr.New("redis_db must not be negative"), "key", "cache.redis_db")
	}
	if strings.TrimSpace(c.Prefix) == "" {
		c.Prefix = "roadmap:"
	}
	return nil
}

// HasUsableKey reports whether the configured credential is plausible enough to call the model.
func (m ModelConfig) HasUsableKey() bool {
	return len(strings.TrimSpace(m.APIKey)) >= MinAPIKeyLength
}
