package config

import "time"

type Duration struct {
	Duration time.Duration
}

// ModelConfig describes the OpenAI-compatible chat-completions endpoint used for roadmap generation.
type ModelConfig struct {
	BaseURL             string `yaml:"base_url"`
	ChatCompletionsPath string `yaml:"chat_completions_path,omitempty"`
	Model               string `yaml:"model"`

	// APIKey is normally supplied through ROADMAP_API_KEY / GROQ_API_KEY rather than the file.
	// An empty or implausibly short key disables the gateway; generation then uses the rule-based fallback.
	APIKey string `yaml:"api_key,omitempty"`

	// Timeout bounds the single upstream call.
	Timeout Duration `yaml:"timeout,omitempty"`
}

type CacheConfig struct {
	// Backend is "memory" (per process) or "redis" (shared between instances).
	Backend   string `yaml:"backend"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	RedisDB   int    `yaml:"redis_db,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

type Config struct {
	Env   string      `yaml:"env"`
	Model ModelConfig `yaml:"model"`
	Cache CacheConfig `yaml:"cache"`
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	MinAPIKeyLength = 20
)
