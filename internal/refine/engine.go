// Contracts for the external AI collaborators the pipeline calls per
// slide. The actual model integrations live outside this repository;
// everything here is injected at construction time.
package refine

import (
	"context"

	"github.com/slidecast/slidecast-go/internal/models"
)

// RefinementType selects the rewriting goal for the base refinement
// pass.
type RefinementType string

const (
	TypeClarity      RefinementType = "clarity"
	TypeConciseness  RefinementType = "conciseness"
	TypeEngagement   RefinementType = "engagement"
	TypeNarrationFit RefinementType = "narration_fit"
)

// Options carries the audience parameters for a refinement call.
type Options struct {
	Type     RefinementType
	Audience string
	Tone     string
	Language string
}

// Engine turns raw slide text into narratable prose.
type Engine interface {
	Refine(ctx context.Context, text string, opts Options) (string, error)
}

// ContextualRequest is the input to the context-aware second pass.
type ContextualRequest struct {
	Text    string
	Title   string
	Layout  string
	Notes   string
	Images  []models.SlideImage
	Context PresentationContext
}

// ContextualResult is what the context-aware pass returns beyond the
// rewritten text.
type ContextualResult struct {
	Text            string
	Highlights      []string
	ImageReferences []string
	Transitions     map[string]string
	Confidence      float64
}

// ContextualEngine rewrites refined text using the surrounding
// presentation as context.
type ContextualEngine interface {
	RefineInContext(ctx context.Context, req ContextualRequest) (*ContextualResult, error)
}

// ImageAnalyzer describes slide images so the contextual pass can
// reference them. Returns a map keyed by image id.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, images []models.SlideImage, metadata map[string]string) (map[string]string, error)
}

// SpeechAligner produces word-level timestamps for synthesized audio.
// An empty result is a valid answer and triggers the text-only
// subtitle fallback.
type SpeechAligner interface {
	Align(ctx context.Context, audioURL string, language string) ([]models.WordTimestamp, error)
}
