// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"testing"

	"github.com/slidecast/slidecast-go/internal/api"
	"github.com/slidecast/slidecast-go/internal/config"
	"github.com/slidecast/slidecast-go/internal/core"
)

// TestConfig returns a config suitable for tests: mockvoice-only
// synthesis chain, artifacts in a temp directory, scheduler disabled.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Port:          0,
		JobTTLMinutes: 60,
	}
	cfg.Output.Path = t.TempDir()
	cfg.Voice.Name = "en-US-Standard-A"
	cfg.Voice.Speed = 1.0
	cfg.Voice.Format = "mp3"
	cfg.Synthesis.Chain = []string{"mockvoice"}
	cfg.Subtitles.SpeakingRateWPM = 150
	cfg.Subtitles.MinDuration = 1.0
	cfg.Subtitles.MaxDuration = 7.0
	cfg.Subtitles.MaxCharsPerLine = 42
	cfg.Subtitles.MaxCharsPerSubtitle = 84
	cfg.Subtitles.MinGap = 0.1
	return cfg
}

func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	return core.NewWithConfig(TestConfig(t), "test")
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *core.App) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app
}
