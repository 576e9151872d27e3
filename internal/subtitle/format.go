package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/slidecast/slidecast-go/internal/models"
)

// FormatSRT renders entries in SubRip format: index, comma-millisecond
// timestamp range, text, blank-line separated.
func FormatSRT(entries []models.SubtitleEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			e.Index, formatTimestamp(e.Start, ','), formatTimestamp(e.End, ','), e.Text)
	}
	return b.String()
}

// FormatVTT renders entries as WebVTT: a header line, then cues with
// dot-millisecond timestamps.
func FormatVTT(entries []models.SubtitleEntry) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			e.Index, formatTimestamp(e.Start, '.'), formatTimestamp(e.End, '.'), e.Text)
	}
	return b.String()
}

// formatTimestamp renders seconds as HH:MM:SS<sep>mmm with the seconds
// floored and the milliseconds zero-padded to three digits.
func formatTimestamp(seconds float64, sep rune) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	h := totalMillis / 3600000
	m := totalMillis % 3600000 / 60000
	s := totalMillis % 60000 / 1000
	ms := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms)
}

// ParseSRT parses SubRip content back into entries. The inverse of
// FormatSRT up to millisecond precision.
func ParseSRT(content string) ([]models.SubtitleEntry, error) {
	return parseCues(content, false)
}

// ParseVTT parses WebVTT content produced by FormatVTT.
func ParseVTT(content string) ([]models.SubtitleEntry, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "WEBVTT") {
		return nil, fmt.Errorf("missing WEBVTT header")
	}
	body := strings.TrimPrefix(trimmed, "WEBVTT")
	return parseCues(body, true)
}

func parseCues(content string, allowMissingIndex bool) ([]models.SubtitleEntry, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var entries []models.SubtitleEntry

	for _, block := range strings.Split(strings.TrimSpace(content), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 || lines[0] == "" {
			continue
		}

		idx := len(entries) + 1
		cueLine := 0
		if !strings.Contains(lines[0], "-->") {
			parsed, err := strconv.Atoi(strings.TrimSpace(lines[0]))
			if err != nil {
				if !allowMissingIndex {
					return nil, fmt.Errorf("invalid cue index %q", lines[0])
				}
			} else {
				idx = parsed
			}
			cueLine = 1
		}
		if cueLine >= len(lines) || !strings.Contains(lines[cueLine], "-->") {
			return nil, fmt.Errorf("cue %d: missing timestamp line", idx)
		}

		parts := strings.SplitN(lines[cueLine], "-->", 2)
		start, err := parseTimestamp(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", idx, err)
		}
		end, err := parseTimestamp(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", idx, err)
		}

		entries = append(entries, models.SubtitleEntry{
			Index: idx,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[cueLine+1:], "\n"),
		})
	}
	return entries, nil
}

// parseTimestamp accepts HH:MM:SS,mmm and HH:MM:SS.mmm.
func parseTimestamp(value string) (float64, error) {
	normalized := strings.ReplaceAll(value, ",", ".")
	hms := strings.Split(normalized, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	secParts := strings.Split(hms[2], ".")
	if len(secParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	h, errH := strconv.Atoi(hms[0])
	m, errM := strconv.Atoi(hms[1])
	s, errS := strconv.Atoi(secParts[0])
	ms, errMS := strconv.Atoi(secParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(h*3600+m*60+s) + float64(ms)/1000, nil
}
