package subtitle

import (
	"fmt"
	"sort"

	"github.com/slidecast/slidecast-go/internal/models"
)

// Fix records one repair AutoFix applied.
type Fix struct {
	Type     string  `json:"type"` // "reindex", "overlap", "short_duration"
	Index    int     `json:"index"`
	Field    string  `json:"field"`
	OldValue float64 `json:"old_value"`
	NewValue float64 `json:"new_value"`
}

func (f Fix) String() string {
	return fmt.Sprintf("%s on entry %d: %s %.3f -> %.3f", f.Type, f.Index, f.Field, f.OldValue, f.NewValue)
}

// AutoFix repairs an entry list so it passes non-strict validation:
// entries are sorted by start time, reindexed from 1, too-short entries
// are extended to the minimum duration, and overlaps are resolved by
// clamping the earlier entry's end where the minimum duration allows,
// otherwise by shifting the later entry forward. Extensions run before
// the overlap pass so they cannot reintroduce an overlap, and shifts
// only move entries forward, so one pass leaves the list ordered and
// overlap-free. The returned report lists every change made.
func (e *Engine) AutoFix(entries []models.SubtitleEntry) ([]models.SubtitleEntry, []Fix) {
	out := make([]models.SubtitleEntry, len(entries))
	copy(out, entries)
	var fixes []Fix

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	for i := range out {
		if out[i].Index != i+1 {
			fixes = append(fixes, Fix{
				Type: "reindex", Index: i + 1, Field: "index",
				OldValue: float64(out[i].Index), NewValue: float64(i + 1),
			})
			out[i].Index = i + 1
		}
	}

	for i := range out {
		if out[i].Duration() < e.opts.MinDuration {
			newEnd := out[i].Start + e.opts.MinDuration
			fixes = append(fixes, Fix{
				Type: "short_duration", Index: out[i].Index, Field: "end_time",
				OldValue: out[i].End, NewValue: newEnd,
			})
			out[i].End = newEnd
		}
	}

	for i := 0; i+1 < len(out); i++ {
		if out[i].End <= out[i+1].Start {
			continue
		}
		newEnd := out[i+1].Start - e.opts.MinGap
		if newEnd >= out[i].Start+e.opts.MinDuration {
			fixes = append(fixes, Fix{
				Type: "overlap", Index: out[i].Index, Field: "end_time",
				OldValue: out[i].End, NewValue: newEnd,
			})
			out[i].End = newEnd
			continue
		}
		// The earlier entry cannot shrink without going below the
		// minimum duration; move the later entry past it instead,
		// keeping its duration.
		delta := out[i].End + e.opts.MinGap - out[i+1].Start
		fixes = append(fixes, Fix{
			Type: "overlap", Index: out[i+1].Index, Field: "start_time",
			OldValue: out[i+1].Start, NewValue: out[i+1].Start + delta,
		})
		out[i+1].Start += delta
		out[i+1].End += delta
	}

	return out, fixes
}
