package subtitle_test

import (
	"errors"
	"math"
	"testing"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/subtitle"
)

func TestValidateCleanList(t *testing.T) {
	e := newEngine()
	report, err := e.Validate([]models.SubtitleEntry{
		{Index: 1, Start: 0, End: 2, Text: "A"},
		{Index: 2, Start: 2.5, End: 4.5, Text: "B"},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Valid || len(report.Violations) != 0 {
		t.Errorf("expected a clean report, got %+v", report)
	}
}

func TestValidateOverlap(t *testing.T) {
	e := newEngine()
	report, err := e.Validate([]models.SubtitleEntry{
		{Index: 1, Start: 0.0, End: 2.0, Text: "A"},
		{Index: 2, Start: 1.5, End: 3.0, Text: "B"},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Fatal("expected the overlap to invalidate the list")
	}

	var overlaps []subtitle.Violation
	for _, v := range report.Violations {
		if v.Type == "overlap" {
			overlaps = append(overlaps, v)
		}
	}
	if len(overlaps) != 1 {
		t.Fatalf("expected exactly one overlap violation, got %d", len(overlaps))
	}
	if want := "overlaps following entry by 0.500s"; overlaps[0].Message != want {
		t.Errorf("message = %q, want %q", overlaps[0].Message, want)
	}
}

func TestValidateDurationBounds(t *testing.T) {
	e := newEngine()
	report, _ := e.Validate([]models.SubtitleEntry{
		{Index: 1, Start: 0, End: 0.5, Text: "too short"},
		{Index: 2, Start: 1, End: 10, Text: "too long"},
	}, false)

	if report.Valid {
		t.Error("short duration should be an error")
	}
	foundShort, foundLong := false, false
	for _, v := range report.Violations {
		if v.Type == "short_duration" {
			foundShort = true
		}
	}
	for _, v := range report.Warnings {
		if v.Type == "long_duration" {
			foundLong = true
		}
	}
	if !foundShort || !foundLong {
		t.Errorf("missing findings: short=%v long=%v", foundShort, foundLong)
	}
}

func TestValidateOrderingAndNonPositive(t *testing.T) {
	e := newEngine()
	report, _ := e.Validate([]models.SubtitleEntry{
		{Index: 2, Start: 5, End: 6.5, Text: "B"},
		{Index: 1, Start: 0, End: 0, Text: "A"},
	}, false)
	if report.Valid {
		t.Fatal("expected violations")
	}
	types := map[string]bool{}
	for _, v := range report.Violations {
		types[v.Type] = true
	}
	for _, want := range []string{"index_order", "time_order", "non_positive_duration"} {
		if !types[want] {
			t.Errorf("missing %s violation in %v", want, types)
		}
	}
}

func TestValidateGapFindings(t *testing.T) {
	e := newEngine()
	report, _ := e.Validate([]models.SubtitleEntry{
		{Index: 1, Start: 0, End: 2, Text: "A"},
		{Index: 2, Start: 2.05, End: 4, Text: "B"}, // gap below minimum
		{Index: 3, Start: 9, End: 11, Text: "C"},   // long silence
	}, false)
	if !report.Valid {
		t.Errorf("gap findings must not invalidate: %+v", report.Violations)
	}
	var small, large bool
	for _, v := range report.Warnings {
		switch v.Type {
		case "small_gap":
			small = true
			if v.Severity != subtitle.SeverityWarning {
				t.Errorf("small_gap severity = %s", v.Severity)
			}
		case "large_gap":
			large = true
			if v.Severity != subtitle.SeverityInfo {
				t.Errorf("large_gap severity = %s", v.Severity)
			}
		}
	}
	if !small || !large {
		t.Errorf("missing gap findings: small=%v large=%v", small, large)
	}
}

func TestValidateStrictRaises(t *testing.T) {
	e := newEngine()
	_, err := e.Validate([]models.SubtitleEntry{
		{Index: 1, Start: 0, End: 2, Text: "A"},
		{Index: 2, Start: 1.5, End: 3, Text: "B"},
	}, true)
	var verr *subtitle.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) == 0 {
		t.Error("strict error carries no violations")
	}
}

func TestAutoFixOverlapScenario(t *testing.T) {
	e := newEngine()
	fixed, fixes := e.AutoFix([]models.SubtitleEntry{
		{Index: 1, Start: 0.0, End: 2.0, Text: "A"},
		{Index: 2, Start: 1.5, End: 3.0, Text: "B"},
	})

	if fixed[0].End > fixed[1].Start {
		t.Errorf("overlap survived: end %f > start %f", fixed[0].End, fixed[1].Start)
	}
	if math.Abs(fixed[0].End-1.4) > 1e-9 {
		t.Errorf("expected end clamped to 1.4, got %f", fixed[0].End)
	}
	if len(fixes) == 0 {
		t.Fatal("expected a fix report")
	}
	if fixes[0].Type != "overlap" || fixes[0].OldValue != 2.0 {
		t.Errorf("unexpected fix: %+v", fixes[0])
	}
}

func TestAutoFixReindexesAndSorts(t *testing.T) {
	e := newEngine()
	fixed, fixes := e.AutoFix([]models.SubtitleEntry{
		{Index: 7, Start: 5.0, End: 7.0, Text: "B"},
		{Index: 3, Start: 0.0, End: 2.0, Text: "A"},
	})
	if fixed[0].Text != "A" || fixed[1].Text != "B" {
		t.Errorf("not sorted by start: %+v", fixed)
	}
	if fixed[0].Index != 1 || fixed[1].Index != 2 {
		t.Errorf("not reindexed: %+v", fixed)
	}
	var reindexes int
	for _, f := range fixes {
		if f.Type == "reindex" {
			reindexes++
		}
	}
	if reindexes != 2 {
		t.Errorf("expected 2 reindex fixes, got %d", reindexes)
	}
}

func TestAutoFixExtendsShortEntries(t *testing.T) {
	e := newEngine()
	fixed, fixes := e.AutoFix([]models.SubtitleEntry{
		{Index: 1, Start: 0.0, End: 0.2, Text: "blip"},
	})
	if fixed[0].Duration() < 1.0-1e-9 {
		t.Errorf("entry still short: %f", fixed[0].Duration())
	}
	if len(fixes) != 1 || fixes[0].Type != "short_duration" {
		t.Errorf("unexpected fixes: %+v", fixes)
	}
}

func TestAutoFixShiftsDenseOverlaps(t *testing.T) {
	e := newEngine()

	// The earlier entry cannot be clamped below its minimum duration,
	// so the later entry has to move instead.
	fixed, fixes := e.AutoFix([]models.SubtitleEntry{
		{Index: 1, Start: 0.0, End: 2.0, Text: "A"},
		{Index: 2, Start: 0.5, End: 3.0, Text: "B"},
	})
	if fixed[0].End > fixed[1].Start {
		t.Errorf("overlap survived: end %f > start %f", fixed[0].End, fixed[1].Start)
	}
	if math.Abs(fixed[1].Start-2.1) > 1e-9 || math.Abs(fixed[1].End-4.6) > 1e-9 {
		t.Errorf("later entry not shifted past the earlier one: %+v", fixed[1])
	}
	if math.Abs(fixed[1].Duration()-2.5) > 1e-9 {
		t.Errorf("shift changed the entry's duration: %f", fixed[1].Duration())
	}
	var shifted bool
	for _, f := range fixes {
		if f.Type == "overlap" && f.Field == "start_time" {
			shifted = true
		}
	}
	if !shifted {
		t.Errorf("no start_time overlap fix recorded: %+v", fixes)
	}
}

func TestAutoFixExtensionCannotReintroduceOverlap(t *testing.T) {
	e := newEngine()

	// Extending the first entry to the minimum duration pushes its end
	// past the second entry's start; the overlap pass must still leave
	// a valid list.
	fixed, _ := e.AutoFix([]models.SubtitleEntry{
		{Index: 1, Start: 0.0, End: 0.5, Text: "A"},
		{Index: 2, Start: 0.6, End: 2.0, Text: "B"},
	})
	if math.Abs(fixed[0].End-1.0) > 1e-9 {
		t.Errorf("first entry not extended to minimum duration: %+v", fixed[0])
	}
	if fixed[0].End > fixed[1].Start {
		t.Errorf("overlap survived: end %f > start %f", fixed[0].End, fixed[1].Start)
	}
	report, err := e.Validate(fixed, false)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Valid {
		t.Errorf("autofix output invalid: %+v", report.Violations)
	}
}

// AutoFix output always passes non-strict validation.
func TestAutoFixOutputIsValid(t *testing.T) {
	e := newEngine()
	inputs := [][]models.SubtitleEntry{
		{
			{Index: 1, Start: 0.0, End: 2.0, Text: "A"},
			{Index: 2, Start: 1.5, End: 3.0, Text: "B"},
		},
		{
			{Index: 9, Start: 4.0, End: 4.1, Text: "short"},
			{Index: 1, Start: 0.0, End: 6.0, Text: "sprawling"},
		},
		{
			{Index: 1, Start: 0.0, End: 0.0, Text: "degenerate"},
		},
		{
			{Index: 1, Start: 0.0, End: 0.5, Text: "A"},
			{Index: 2, Start: 0.6, End: 2.0, Text: "B"},
		},
		{
			{Index: 1, Start: 0.0, End: 2.0, Text: "A"},
			{Index: 2, Start: 0.5, End: 3.0, Text: "B"},
		},
		{
			{Index: 1, Start: 0.0, End: 2.0, Text: "A"},
			{Index: 2, Start: 0.2, End: 2.2, Text: "B"},
			{Index: 3, Start: 0.4, End: 2.4, Text: "C"},
		},
		nil,
	}
	for i, in := range inputs {
		fixed, _ := e.AutoFix(in)
		report, err := e.Validate(fixed, false)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if !report.Valid {
			t.Errorf("case %d: autofix output invalid: %+v", i, report.Violations)
		}
	}
}
