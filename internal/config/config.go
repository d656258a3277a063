package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	TickRateHz   int
	CanvasWidth  float64
	CanvasHeight float64
	LevelsFile   string

	// Sessions
	SessionIdleMinutes    int
	IdleWorkerPollSeconds int

	// Security
	JWTSecret           string
	PlayerTokenTTLHours int
	AdminKeyHash        string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/minigolf?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		TickRateHz:   getEnvInt("TICK_RATE_HZ", 60),
		CanvasWidth:  getEnvFloat("CANVAS_WIDTH", 1280),
		CanvasHeight: getEnvFloat("CANVAS_HEIGHT", 800),
		LevelsFile:   getEnv("LEVELS_FILE", ""),

		// Sessions
		SessionIdleMinutes:    getEnvInt("SESSION_IDLE_MINUTES", 30),
		IdleWorkerPollSeconds: getEnvInt("IDLE_WORKER_POLL_SECONDS", 15),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		PlayerTokenTTLHours: getEnvInt("PLAYER_TOKEN_TTL_HOURS", 12),
		AdminKeyHash:        getEnv("ADMIN_KEY_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
