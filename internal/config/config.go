package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Auth    AuthConfig
	LLM     LLMConfig
	Speech  SpeechConfig
	Images  ImagesConfig
	Session SessionConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// JWTSecret enables bearer-token auth when set; empty leaves the API
	// open.
	JWTSecret string
}

type LLMConfig struct {
	OpenAIKey        string
	AnthropicKey     string
	OllamaURL        string
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
}

type SpeechConfig struct {
	// ElevenLabsKey selects the remote synthesis strategy when set; without
	// it the local engine is the fallback.
	ElevenLabsKey     string
	ElevenLabsBaseURL string
	ModelID           string
	LocalBinPath      string // default: "espeak-ng"
}

type ImagesConfig struct {
	PexelsKey     string
	PexelsBaseURL string
}

type SessionConfig struct {
	TTL time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttlMinutes, err := getEnvInt("SESSION_TTL_MINUTES", 120)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		LLM: LLMConfig{
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", ""),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			DefaultModel:     getEnv("LLM_DEFAULT_MODEL", "gpt-4o-mini"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
		},
		Speech: SpeechConfig{
			ElevenLabsKey:     getEnv("ELEVENLABS_API_KEY", ""),
			ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", ""),
			ModelID:           getEnv("ELEVENLABS_MODEL_ID", ""),
			LocalBinPath:      getEnv("SPEECH_LOCAL_BIN", "espeak-ng"),
		},
		Images: ImagesConfig{
			PexelsKey:     getEnv("PEXELS_API_KEY", ""),
			PexelsBaseURL: getEnv("PEXELS_BASE_URL", ""),
		},
		Session: SessionConfig{
			TTL: time.Duration(ttlMinutes) * time.Minute,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate collects configuration values that cannot work. Every external
// credential is optional (each one just disables its feature), so the check
// covers the values with hard ranges.
func (c *Config) Validate() error {
	var bad []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		bad = append(bad, fmt.Sprintf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	if !knownProvider(c.LLM.DefaultProvider) {
		bad = append(bad, fmt.Sprintf("unknown LLM_DEFAULT_PROVIDER: %q", c.LLM.DefaultProvider))
	}
	if c.LLM.FallbackProvider != "" && !knownProvider(c.LLM.FallbackProvider) {
		bad = append(bad, fmt.Sprintf("unknown LLM_FALLBACK_PROVIDER: %q", c.LLM.FallbackProvider))
	}
	if c.Session.TTL <= 0 {
		bad = append(bad, fmt.Sprintf("SESSION_TTL_MINUTES must be positive, got %s", c.Session.TTL))
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(bad, "; "))
	}
	return nil
}

func knownProvider(name string) bool {
	switch name {
	case "openai", "anthropic", "ollama":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
