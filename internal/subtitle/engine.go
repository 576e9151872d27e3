// The subtitle timing engine: generates timed text spans from text and
// synthesized audio, scales them onto slide timelines, validates them,
// and renders the SRT/VTT wire formats.
package subtitle

import (
	"context"
	"log"
	"strings"
	"unicode"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/refine"
	"github.com/slidecast/slidecast-go/internal/util"
)

// Options bound every subtitle the engine emits.
type Options struct {
	SpeakingRateWPM     int
	MinDuration         float64 // seconds
	MaxDuration         float64 // seconds
	MaxCharsPerLine     int
	MaxCharsPerSubtitle int
	MinGap              float64 // seconds
}

// DefaultOptions are tuned for presentation narration.
func DefaultOptions() Options {
	return Options{
		SpeakingRateWPM:     150,
		MinDuration:         1.0,
		MaxDuration:         7.0,
		MaxCharsPerLine:     42,
		MaxCharsPerSubtitle: 84,
		MinGap:              0.1,
	}
}

// Engine generates and repairs subtitle entry lists. The aligner is
// optional; without one (or when it has nothing usable) generation
// falls back to proportional text-only timing.
type Engine struct {
	opts    Options
	aligner refine.SpeechAligner
}

// NewEngine creates an engine. aligner may be nil.
func NewEngine(opts Options, aligner refine.SpeechAligner) *Engine {
	if opts.SpeakingRateWPM <= 0 {
		opts.SpeakingRateWPM = 150
	}
	return &Engine{opts: opts, aligner: aligner}
}

// GenerateFromAudio asks the alignment engine for word-level
// timestamps and groups them into subtitle entries. When alignment is
// unavailable or empty it falls back to text-only estimation against
// the audio duration.
func (e *Engine) GenerateFromAudio(ctx context.Context, audioURL, text, language string, audioDuration float64) []models.SubtitleEntry {
	if e.aligner != nil {
		stamps, err := e.aligner.Align(ctx, audioURL, language)
		if err != nil {
			log.Printf("Speech alignment failed, using text-only timing: %v", err)
		} else if len(stamps) > 0 {
			return e.fromWordTimestamps(text, stamps)
		}
	}
	return e.GenerateFromTextOnly(text, audioDuration, language)
}

// GenerateFromTextOnly splits the text on sentence boundaries and
// allocates each sentence a share of the total duration proportional
// to its word count, floored at the minimum subtitle duration.
func (e *Engine) GenerateFromTextOnly(text string, estimatedDuration float64, _ string) []models.SubtitleEntry {
	words := util.WordCount(text)
	if words == 0 {
		return nil
	}

	spoken := float64(words) / float64(e.opts.SpeakingRateWPM) * 60.0
	duration := estimatedDuration
	if spoken > duration {
		duration = spoken
	}

	sentences := util.SplitSentences(text)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	var entries []models.SubtitleEntry
	cursor := 0.0
	for i, sentence := range sentences {
		share := float64(util.WordCount(sentence)) / float64(words)
		d := duration * share
		if d < e.opts.MinDuration {
			d = e.opts.MinDuration
		}
		entries = append(entries, models.SubtitleEntry{
			Index: i + 1,
			Start: cursor,
			End:   cursor + d,
			Text:  cleanText(sentence),
		})
		cursor += d
	}
	return entries
}

// cleanText normalizes a subtitle's text: collapsed whitespace, a
// capitalized standalone "i", and an uppercase letter following
// sentence-ending punctuation.
func cleanText(text string) string {
	text = util.CollapseWhitespace(text)

	words := strings.Split(text, " ")
	for i, w := range words {
		if w == "i" {
			words[i] = "I"
		}
	}
	text = strings.Join(words, " ")

	runes := []rune(text)
	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			capitalizeNext = false
		}
		if r == '.' || r == '!' || r == '?' {
			capitalizeNext = true
		}
	}
	return string(runes)
}
