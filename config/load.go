package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is a convenience for local runs; missing file is not an error.
	_ = godotenv.Load()

	cfg := App{
		Port:          getenv("APP_PORT", "8080"),
		DatabaseURL:   must("DATABASE_URL"),
		JWTSecret:     getenv("JWT_SECRET", "local_dev_secret"),
		Env:           getenv("APP_ENV", "dev"),
		AdminEmail:    must("ADMIN_EMAIL"),
		AdminPassword: must("ADMIN_PASSWORD"),
		CORSOrigins:   parseCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

func parseCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
