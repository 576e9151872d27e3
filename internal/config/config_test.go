package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slidecast/slidecast-go/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	// No config.yml in the test directory, so Load falls back to the
	// built-in defaults.
	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60, cfg.JobTTLMinutes)
	assert.Equal(t, "./narrations", cfg.Output.Path)
	assert.Equal(t, []string{"mockvoice"}, cfg.Synthesis.Chain)
	assert.Equal(t, 150, cfg.Subtitles.SpeakingRateWPM)
	assert.InDelta(t, 0.1, cfg.Subtitles.MinGap, 1e-9)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SLIDECAST_PORT", "9191")
	t.Setenv("SLIDECAST_JOB_TTL_MINUTES", "5")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, 5, cfg.JobTTLMinutes)
}
