package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	SessionSecret string

	// AI assistant provider selection. "auto" picks gemini or openai by
	// which API key is configured and falls back to offline mode when
	// neither is present.
	AIProvider       string
	GeminiAPIKey     string
	GeminiModelID    string
	OpenAIAPIKey     string
	OpenAIModelID    string
	AssistantTimeout time.Duration
	OfflineDelay     time.Duration

	// Static catalog overrides. Empty means the embedded seed data.
	ProductCatalogPath string
	DoctorCatalogPath  string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SessionSecret: getEnv("SESSION_SECRET", ""),

		AIProvider:       strings.ToLower(strings.TrimSpace(getEnv("AI_PROVIDER", "auto"))),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:    getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModelID:    getEnv("OPENAI_MODEL_ID", "gpt-4o-mini"),
		AssistantTimeout: getEnvAsDuration("ASSISTANT_TIMEOUT", 30*time.Second),
		OfflineDelay:     getEnvAsDuration("ASSISTANT_OFFLINE_DELAY", 0),

		ProductCatalogPath: getEnv("PRODUCT_CATALOG_PATH", ""),
		DoctorCatalogPath:  getEnv("DOCTOR_CATALOG_PATH", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable as a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
