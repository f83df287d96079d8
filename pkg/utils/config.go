package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("EVENTSORT_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("EVENTSORT_JWT_ISSUER")
	if issuer == "" {
		issuer = "eventsort"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("EVENTSORT_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			duration = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type BotConfig struct {
	TelegramToken string
	ReviewBaseURL string
}

func LoadBotConfig() BotConfig {
	base := os.Getenv("EVENTSORT_REVIEW_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return BotConfig{
		TelegramToken: os.Getenv("EVENTSORT_TELEGRAM_TOKEN"),
		ReviewBaseURL: base,
	}
}

type OracleConfig struct {
	APIKey string
	Model  string
}

func LoadOracleConfig() OracleConfig {
	model := os.Getenv("EVENTSORT_ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-3-5-sonnet-20241022" // haiku is cheaper
	}
	return OracleConfig{
		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:  model,
	}
}

type StorageConfig struct {
	Path string
}

func LoadStorageConfig() StorageConfig {
	// Docker Compose / env override
	if p := os.Getenv("EVENTSORT_DB_PATH"); p != "" {
		return StorageConfig{Path: p}
	}

	// local default: ~/.eventsort/events.db
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return StorageConfig{Path: filepath.Join(home, ".eventsort", "events.db")}
}

type APIConfig struct {
	Addr string
	// events in the original deployment are Singapore-local; the recency
	// windows need a wall clock in that zone
	TZOffsetHours int
}

func LoadAPIConfig() APIConfig {
	addr := os.Getenv("EVENTSORT_API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	offset := 8
	if s := os.Getenv("EVENTSORT_TZ_OFFSET_HOURS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			offset = n
		}
	}

	return APIConfig{Addr: addr, TZOffsetHours: offset}
}
