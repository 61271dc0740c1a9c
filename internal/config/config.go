package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string
}

func Load() *Config {
	// .env is optional; deployments usually set real env vars
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=pos port=5432 sslmode=disable"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=pos port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own frontend origin for production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
