// Synthesis provider contracts and the fallback router that sequences
// them. Providers are a closed set of Go implementations registered at
// startup; there is no dynamic dispatch over provider names beyond the
// registry lookup.
package synth

import (
	"context"

	"github.com/slidecast/slidecast-go/internal/models"
)

// Provider is a pluggable speech synthesis backend.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, req models.SynthesisRequest) (*models.AudioResult, error)
}

// MarkupSynthesizer is the optional capability of accepting SSML-like
// markup directly. Providers without it receive a plain-text
// extraction of the markup instead.
type MarkupSynthesizer interface {
	SynthesizeMarkup(ctx context.Context, markup, format string) (*models.AudioResult, error)
}
