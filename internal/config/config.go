package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings shared by the CLI and the
// server binary.
type Config struct {
	ListenAddr  string
	OutputDir   string
	MaxUploadMB int
	CORSOrigins []string

	// DeltaTolerance is the goal-sheet "no change" band in dollars.
	DeltaTolerance float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     getEnv("ADDR", ":8080"),
		OutputDir:      getEnv("OUTPUT_DIR", "./out"),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 64),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		DeltaTolerance: getEnvFloat("DELTA_TOLERANCE", 0.005),
	}
	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
