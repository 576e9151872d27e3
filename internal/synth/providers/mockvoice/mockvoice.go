// An in-process provider for development and testing purposes. It
// estimates a realistic audio duration from the text without making
// network calls, so the whole pipeline can run with no external TTS
// configured.
package mockvoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/util"
)

const speakingRateWPM = 150.0

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mockvoice"
}

func (p *Provider) Synthesize(_ context.Context, req models.SynthesisRequest) (*models.AudioResult, error) {
	start := time.Now()

	words := util.WordCount(req.Text)
	if words == 0 {
		return nil, fmt.Errorf("mockvoice: empty text")
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}
	duration := float64(words) / speakingRateWPM * 60.0 / speed

	format := req.Format
	if format == "" {
		format = "mp3"
	}
	voice := req.Voice
	if voice == "" {
		voice = "mock-standard"
	}

	return &models.AudioResult{
		AudioURL:       fmt.Sprintf("mock://audio/%s.%s", uuid.NewString(), format),
		Duration:       duration,
		FileSize:       int64(duration * 16000), // ~128 kbit/s
		VoiceUsed:      voice,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}
