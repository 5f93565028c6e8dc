package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	QueueURL          string
	WorkerConcurrency int

	GeneratorProvider string
	GeneratorModel    string
	OllamaURL         string
	OllamaTimeout     time.Duration
	OpenAIAPIKey      string

	RendererKind  string
	RenderTimeout time.Duration

	TopKeywords     int
	UsageDailyLimit int

	RateLimitRPS   float64
	RateLimitBurst int
}

// IsDevLike reports whether the environment tolerates missing backing
// services (in-memory repositories, dev-only routes).
func (c Config) IsDevLike() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "dev", "local", "":
		return true
	default:
		return false
	}
}

// Load reads configuration from environment variables with sensible defaults.
// cmd mains load .env files first, so plain env always wins here.
func Load() Config {
	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		DatabaseURL: dbURL,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),

		QueueURL:          getEnv("QUEUE_URL", ""),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),

		GeneratorProvider: normalizeProvider(getEnv("GENERATOR_PROVIDER", "ollama")),
		GeneratorModel:    getEnv("GENERATOR_MODEL", ""),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaTimeout:     time.Duration(getEnvInt("OLLAMA_TIMEOUT_SECONDS", 60)) * time.Second,
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),

		RendererKind:  normalizeRenderer(getEnv("RENDERER", "text")),
		RenderTimeout: time.Duration(getEnvInt("RENDER_TIMEOUT_SECONDS", 45)) * time.Second,

		TopKeywords:     getEnvInt("TOP_KEYWORDS", 10),
		UsageDailyLimit: getEnvInt("USAGE_DAILY_LIMIT", 20),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		log.Printf("invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "placeholder", "none":
		return "placeholder"
	default:
		return "ollama"
	}
}

func normalizeRenderer(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "chromedp", "chrome", "pdf":
		return "chromedp"
	default:
		return "text"
	}
}
