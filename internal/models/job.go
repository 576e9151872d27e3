package models

import "time"

// JobStatus tracks a narration job through its lifecycle.
type JobStatus string

const (
	JobStatusQueued              JobStatus = "queued"
	JobStatusProcessing          JobStatus = "processing"
	JobStatusRefining            JobStatus = "refining"
	JobStatusSynthesizing        JobStatus = "synthesizing"
	JobStatusGeneratingSubtitles JobStatus = "generating_subtitles"
	JobStatusExporting           JobStatus = "exporting"
	JobStatusCompleted           JobStatus = "completed"
	JobStatusFailed              JobStatus = "failed"
)

// Terminal reports whether a job in this status will never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one narration-generation request for a full presentation.
// It is created on submission and mutated only by the job's own
// background goroutine until it reaches a terminal status.
type Job struct {
	ID           string        `json:"id"`
	Status       JobStatus     `json:"status"`
	TotalSlides  int           `json:"total_slides"`
	CurrentSlide int           `json:"current_slide"`
	Progress     float64       `json:"progress"` // 0..1
	StartedAt    time.Time     `json:"started_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	SlideResults []SlideResult `json:"slide_results"`
	ManifestRef  string        `json:"manifest_ref,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// SlideResult holds everything produced for a single slide. A failed
// slide keeps its Error set while sibling slides still process.
type SlideResult struct {
	SlideNumber        int                 `json:"slide_number"`
	SlideID            string              `json:"slide_id"`
	OriginalContent    string              `json:"original_content"`
	RefinedContent     string              `json:"refined_content"`
	ContextualMetadata *ContextualMetadata `json:"contextual_metadata,omitempty"`
	Audio              *AudioResult        `json:"audio_result,omitempty"`
	Subtitles          []SubtitleEntry     `json:"subtitles,omitempty"`
	ProcessingTime     float64             `json:"processing_time"` // seconds
	Status             string              `json:"status"`          // "completed" or "failed"
	Error              string              `json:"error,omitempty"`
}

const (
	SlideStatusCompleted = "completed"
	SlideStatusFailed    = "failed"
)

// ContextualMetadata is what the contextual refinement stage learned
// about a slide beyond the refined text itself.
type ContextualMetadata struct {
	Highlights      []string          `json:"highlights,omitempty"`
	ImageReferences []string          `json:"image_references,omitempty"`
	Transitions     map[string]string `json:"transitions,omitempty"`
	Confidence      float64           `json:"confidence"`
}
