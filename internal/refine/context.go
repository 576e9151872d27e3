package refine

import (
	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/util"
)

// summaryWords is how much of a neighboring slide survives into its
// one-line summary.
const summaryWords = 40

// PresentationContext situates one slide within the whole deck for the
// contextual refinement pass.
type PresentationContext struct {
	CurrentSlide    int      `json:"current_slide"`
	TotalSlides     int      `json:"total_slides"`
	PreviousSummary string   `json:"previous_summary,omitempty"`
	NextSummary     string   `json:"next_summary,omitempty"`
	TopicKeywords   []string `json:"topic_keywords,omitempty"`
}

// BuildPresentationContext derives the context for the slide at
// slideIndex (0-based). Neighbor summaries prefer speaker notes over
// slide content and are truncated to their first words.
func BuildPresentationContext(p *models.Presentation, slideIndex int) PresentationContext {
	pc := PresentationContext{
		CurrentSlide:  slideIndex + 1,
		TotalSlides:   len(p.Slides),
		TopicKeywords: p.TopicKeywords,
	}
	if slideIndex > 0 {
		pc.PreviousSummary = summarizeSlide(p.Slides[slideIndex-1])
	}
	if slideIndex+1 < len(p.Slides) {
		pc.NextSummary = summarizeSlide(p.Slides[slideIndex+1])
	}
	return pc
}

func summarizeSlide(s models.Slide) string {
	text := s.Notes
	if util.WordCount(text) == 0 {
		text = s.Content
	}
	return util.TruncateWords(util.CollapseWhitespace(text), summaryWords)
}
