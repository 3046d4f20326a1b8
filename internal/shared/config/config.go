package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	AppName         string
	Port            string
	Env             string
	CORSAllowOrigin []string
	DataDir         string
	DatabaseURL     string
	JWTSecret       string
	DemoUsername    string
	DemoPassword    string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	CronToken       string
	MaxUploadBytes  int64
}

// PushConfigured reports whether VAPID credentials are present.
func (c Config) PushConfigured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	jwtSecret := getEnv("JWT_SECRET", "change-me-in-production-please")
	cronToken := os.Getenv("CRON_TOKEN")

	if env == "production" {
		if os.Getenv("JWT_SECRET") == "" {
			log.Printf("JWT_SECRET is required in production")
		}
		if cronToken == "" {
			log.Printf("CRON_TOKEN is empty; /cron/daily is disabled")
		}
	}

	return Config{
		AppName:         getEnv("APP_NAME", "M&N Driver Portal"),
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DataDir:         getEnv("DATA_DIR", "./data"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       jwtSecret,
		DemoUsername:    getEnv("DEMO_USERNAME", "driver"),
		DemoPassword:    getEnv("DEMO_PASSWORD", "driver"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:dispatch@mnauto.us"),
		CronToken:       cronToken,
		MaxUploadBytes:  25 << 20,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
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
