package models

// SubtitleEntry is one timed text span. Index is 1-based and unique
// within a list; End is always after Start once a list has been
// validated. Times are seconds from the start of the slide's audio.
type SubtitleEntry struct {
	Index int     `json:"index"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
	Text  string  `json:"text"`
}

// Duration returns the span length in seconds.
func (e SubtitleEntry) Duration() float64 {
	return e.End - e.Start
}

// WordTimestamp is a single word with its spoken interval, as reported
// by a speech alignment engine.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
