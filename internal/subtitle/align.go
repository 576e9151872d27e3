package subtitle

import (
	"strings"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/util"
)

const (
	// How many untaken timing tokens ahead of the cursor a source word
	// may match.
	alignSearchWindow = 5
	// Maximum normalized edit distance for a fuzzy match.
	alignScoreThreshold = 0.3
	// Fallback span for words the aligner never heard.
	unmatchedWordSpan = 0.3
	// A grouped subtitle never exceeds this many words.
	maxWordsPerSubtitle = 8
)

// timedWord is a source word after alignment against the STT output.
type timedWord struct {
	word  string
	start float64
	end   float64
}

// fromWordTimestamps aligns the source text against the recognizer's
// word timings and groups the result into subtitle entries.
func (e *Engine) fromWordTimestamps(text string, stamps []models.WordTimestamp) []models.SubtitleEntry {
	timed := alignWords(util.Words(text), stamps)
	return e.groupWords(timed)
}

// alignWords matches each source word to a timing token. The search
// runs over a forward window of untaken tokens: exact normalized match
// first, then the closest fuzzy match under the threshold. Words with
// no acceptable match get a short span after the previous word.
func alignWords(words []string, stamps []models.WordTimestamp) []timedWord {
	taken := make([]bool, len(stamps))
	cursor := 0
	prevEnd := 0.0

	out := make([]timedWord, 0, len(words))
	for _, word := range words {
		norm := util.NormalizeToken(word)

		bestIdx := -1
		bestScore := alignScoreThreshold + 1
		seen := 0
		for i := cursor; i < len(stamps) && seen < alignSearchWindow; i++ {
			if taken[i] {
				continue
			}
			seen++
			candidate := util.NormalizeToken(stamps[i].Word)
			if candidate == norm {
				bestIdx = i
				bestScore = 0
				break
			}
			if score := editScore(norm, candidate); score <= alignScoreThreshold && score < bestScore {
				bestIdx = i
				bestScore = score
			}
		}

		if bestIdx >= 0 {
			taken[bestIdx] = true
			out = append(out, timedWord{word: word, start: stamps[bestIdx].Start, end: stamps[bestIdx].End})
			prevEnd = stamps[bestIdx].End
			for cursor < len(stamps) && taken[cursor] {
				cursor++
			}
		} else {
			out = append(out, timedWord{word: word, start: prevEnd, end: prevEnd + unmatchedWordSpan})
			prevEnd += unmatchedWordSpan
		}
	}
	return out
}

// groupWords greedily accumulates timed words into subtitle units,
// flushing when the unit would exceed the line length, the word cap,
// or the maximum duration.
func (e *Engine) groupWords(words []timedWord) []models.SubtitleEntry {
	var entries []models.SubtitleEntry
	var group []timedWord
	var length int

	flush := func() {
		if len(group) == 0 {
			return
		}
		parts := make([]string, len(group))
		for i, w := range group {
			parts[i] = w.word
		}
		entry := models.SubtitleEntry{
			Index: len(entries) + 1,
			Start: group[0].start,
			End:   group[len(group)-1].end,
			Text:  cleanText(strings.Join(parts, " ")),
		}
		if entry.Duration() < e.opts.MinDuration {
			entry.End = entry.Start + e.opts.MinDuration
		}
		entries = append(entries, entry)
		group = group[:0]
		length = 0
	}

	for _, w := range words {
		wouldBe := length + len(w.word)
		if length > 0 {
			wouldBe++ // joining space
		}
		if len(group) > 0 {
			tooLong := wouldBe > e.opts.MaxCharsPerLine
			tooMany := len(group) >= maxWordsPerSubtitle
			tooSlow := w.end-group[0].start > e.opts.MaxDuration
			if tooLong || tooMany || tooSlow {
				flush()
				wouldBe = len(w.word)
			}
		}
		group = append(group, w)
		length = wouldBe
	}
	flush()
	return entries
}

// editScore is the Levenshtein distance normalized by the longer
// token's length. 0 means identical; 1 means nothing in common.
func editScore(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein(a, b)) / float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
