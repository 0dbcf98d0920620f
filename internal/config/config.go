package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config is built once at startup and handed to constructors by value.
type Config struct {
	Server    ServerConfig
	Retrieval RetrievalConfig
	Cache     CacheConfig
	LLM       LLMConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
}

type RetrievalConfig struct {
	BaseURL       string
	TopK          int
	Timeout       time.Duration
	IngestTimeout time.Duration
}

// CacheConfig configures the optional redis-backed retrieval cache.
// An empty Addr disables caching.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c CacheConfig) Enabled() bool {
	return c.Addr != ""
}

type LLMConfig struct {
	Provider  string
	APIKey    string
	Model     string
	OllamaURL string
	Timeout   time.Duration
}

type LogConfig struct {
	Level       string
	File        string
	Environment string
}

func (c LogConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 0),
			RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 10),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Retrieval: RetrievalConfig{
			BaseURL:       strings.TrimRight(getEnv("RAG_API_URL", "http://localhost:8000"), "/"),
			TopK:          getEnvAsInt("RAG_TOP_K", 5),
			Timeout:       getEnvAsDuration("RAG_TIMEOUT", 10*time.Second),
			IngestTimeout: getEnvAsDuration("RAG_INGEST_TIMEOUT", 11*time.Minute),
		},
		Cache: CacheConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("RETRIEVAL_CACHE_TTL", 5*time.Minute),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			Model:     getEnv("LLM_MODEL", ""),
			OllamaURL: strings.TrimRight(getEnv("OLLAMA_URL", ""), "/"),
			Timeout:   getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			File:        getEnv("LOG_FILE", ""),
			Environment: getEnv("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects structurally broken configuration. A missing LLM
// credential is not an error here: the server starts and reports it per
// question.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Retrieval.BaseURL == "" {
		return fmt.Errorf("RAG_API_URL is required")
	}
	u, err := url.Parse(c.Retrieval.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("RAG_API_URL %q is not an absolute URL", c.Retrieval.BaseURL)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("RAG_TOP_K must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.Timeout <= 0 {
		return fmt.Errorf("RAG_TIMEOUT must be positive")
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want %s or %s)", c.LLM.Provider, ProviderGemini, ProviderOllama)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
