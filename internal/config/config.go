package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath      string
	CatalogPath string
	ServerAddr  string
	PageSize    int
	LogJSON     bool

	IndexTTL      time.Duration
	QueryCacheTTL time.Duration

	// Ranking-policy knobs: business rules that change independently of the
	// search algorithm.
	VarietyBonus    float64
	InactiveMarker  string
	InactivePenalty float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:      getEnv("ANIPET_DB_PATH", filepath.Join(cwd, "data", "anipet.db")),
		CatalogPath: getEnv("ANIPET_CATALOG_PATH", filepath.Join(cwd, "data", "catalog.json.gz")),
		ServerAddr:  getEnv("ANIPET_SERVER_ADDR", ":8080"),
		PageSize:    getEnvInt("ANIPET_PAGE_SIZE", 50),
		LogJSON:     getEnvBool("ANIPET_LOG_JSON", false),

		IndexTTL:      time.Duration(getEnvInt("ANIPET_INDEX_TTL_HOURS", 24)) * time.Hour,
		QueryCacheTTL: time.Duration(getEnvInt("ANIPET_QUERY_CACHE_TTL_SEC", 300)) * time.Second,

		VarietyBonus:    getEnvFloat("ANIPET_VARIETY_BONUS", 15),
		InactiveMarker:  getEnv("ANIPET_INACTIVE_MARKER", "לא פעיל"),
		InactivePenalty: getEnvFloat("ANIPET_INACTIVE_PENALTY", 200),
	}

	return cfg, nil
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

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	switch value {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
