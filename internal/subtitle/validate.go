package subtitle

import (
	"fmt"

	"github.com/slidecast/slidecast-go/internal/models"
)

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Violation is one finding against one subtitle entry.
type Violation struct {
	Type     string   `json:"type"`
	Index    int      `json:"index"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Report is the outcome of validating an entry list. Violations holds
// errors; Warnings holds warning- and info-level findings.
type Report struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
	Warnings   []Violation `json:"warnings"`
}

// ValidationError carries the full violation list when strict
// validation fails.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("subtitle validation failed with %d violation(s)", len(e.Violations))
}

// maxReportableGap is the silence length above which a gap is worth an
// informational note.
const maxReportableGap = 3.0

// Validate checks ordering, overlap, duration bounds, text length and
// gaps. In strict mode any error-level violation is returned as a
// ValidationError; otherwise the full report is returned.
func (e *Engine) Validate(entries []models.SubtitleEntry, strict bool) (*Report, error) {
	report := &Report{}

	for i, entry := range entries {
		if i+1 < len(entries) {
			next := entries[i+1]

			if entry.Index >= next.Index {
				report.add(Violation{
					Type: "index_order", Index: entry.Index, Severity: SeverityError,
					Message: fmt.Sprintf("index %d is not below following index %d", entry.Index, next.Index),
				})
			}
			if entry.Start > next.Start {
				report.add(Violation{
					Type: "time_order", Index: entry.Index, Severity: SeverityError,
					Message: fmt.Sprintf("starts at %.3f after following entry at %.3f", entry.Start, next.Start),
				})
			}
			if entry.End > next.Start {
				report.add(Violation{
					Type: "overlap", Index: entry.Index, Severity: SeverityError,
					Message: fmt.Sprintf("overlaps following entry by %.3fs", entry.End-next.Start),
				})
			}
		}

		d := entry.Duration()
		if d > 0 && d < e.opts.MinDuration {
			report.add(Violation{
				Type: "short_duration", Index: entry.Index, Severity: SeverityError,
				Message: fmt.Sprintf("duration %.3fs is below the minimum %.3fs", d, e.opts.MinDuration),
			})
		}
		if d > e.opts.MaxDuration {
			report.add(Violation{
				Type: "long_duration", Index: entry.Index, Severity: SeverityWarning,
				Message: fmt.Sprintf("duration %.3fs exceeds the maximum %.3fs", d, e.opts.MaxDuration),
			})
		}
		if len(entry.Text) > e.opts.MaxCharsPerSubtitle {
			report.add(Violation{
				Type: "long_text", Index: entry.Index, Severity: SeverityWarning,
				Message: fmt.Sprintf("text length %d exceeds %d characters", len(entry.Text), e.opts.MaxCharsPerSubtitle),
			})
		}

		if i+1 < len(entries) {
			gap := entries[i+1].Start - entry.End
			if gap >= 0 && gap < e.opts.MinGap {
				report.add(Violation{
					Type: "small_gap", Index: entry.Index, Severity: SeverityWarning,
					Message: fmt.Sprintf("gap %.3fs to the following entry is below %.3fs", gap, e.opts.MinGap),
				})
			}
			if gap > maxReportableGap {
				report.add(Violation{
					Type: "large_gap", Index: entry.Index, Severity: SeverityInfo,
					Message: fmt.Sprintf("gap %.3fs of silence before the following entry", gap),
				})
			}
		}

		if d <= 0 {
			report.add(Violation{
				Type: "non_positive_duration", Index: entry.Index, Severity: SeverityError,
				Message: fmt.Sprintf("end %.3f is not after start %.3f", entry.End, entry.Start),
			})
		}
	}

	report.Valid = len(report.Violations) == 0
	if strict && !report.Valid {
		return nil, &ValidationError{Violations: report.Violations}
	}
	return report, nil
}

func (r *Report) add(v Violation) {
	if v.Severity == SeverityError {
		r.Violations = append(r.Violations, v)
	} else {
		r.Warnings = append(r.Warnings, v)
	}
}
