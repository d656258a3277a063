package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "TICK_RATE_HZ", "CANVAS_WIDTH", "MIGRATE_ON_START", "SESSION_IDLE_MINUTES"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60, cfg.TickRateHz)
	assert.Equal(t, 1280.0, cfg.CanvasWidth)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 30, cfg.SessionIdleMinutes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TICK_RATE_HZ", "30")
	t.Setenv("CANVAS_HEIGHT", "720.5")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("LEVELS_FILE", "levels.yaml")

	cfg := Load()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 30, cfg.TickRateHz)
	assert.Equal(t, 720.5, cfg.CanvasHeight)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "levels.yaml", cfg.LevelsFile)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("TICK_RATE_HZ", "fast")
	t.Setenv("CANVAS_WIDTH", "wide")
	t.Setenv("MIGRATE_ON_START", "maybe")

	assert.Equal(t, 60, getEnvInt("TICK_RATE_HZ", 60))
	assert.Equal(t, 1280.0, getEnvFloat("CANVAS_WIDTH", 1280))
	assert.True(t, getEnvBool("MIGRATE_ON_START", true))
}
