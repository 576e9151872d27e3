package subtitle

import (
	"log"

	"github.com/slidecast/slidecast-go/internal/models"
)

// SyncWithSlides fits entries into a slide's audio window. When the
// last entry runs past slideDuration every timestamp is scaled
// uniformly; entries that already fit are left alone. Afterwards a
// minimum gap between consecutive entries is enforced by shifting
// later entries forward.
func (e *Engine) SyncWithSlides(entries []models.SubtitleEntry, slideDuration float64, slideNumber int) []models.SubtitleEntry {
	if len(entries) == 0 {
		return entries
	}

	out := make([]models.SubtitleEntry, len(entries))
	copy(out, entries)

	span := out[len(out)-1].End
	if slideDuration > 0 && span > slideDuration {
		scale := slideDuration / span
		log.Printf("Slide %d: scaling %d subtitles by %.3f to fit %.2fs", slideNumber, len(out), scale, slideDuration)
		for i := range out {
			out[i].Start *= scale
			out[i].End *= scale
		}
	}

	for i := 1; i < len(out); i++ {
		gap := out[i].Start - out[i-1].End
		if gap < e.opts.MinGap {
			shift := e.opts.MinGap - gap
			out[i].Start += shift
			out[i].End += shift
		}
	}
	return out
}
