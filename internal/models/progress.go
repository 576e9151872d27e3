package models

// ProcessingStep names the pipeline phase a progress update refers to.
type ProcessingStep string

const (
	StepExtraction         ProcessingStep = "extraction"
	StepRefinement         ProcessingStep = "refinement"
	StepSynthesis          ProcessingStep = "synthesis"
	StepSubtitleGeneration ProcessingStep = "subtitle_generation"
	StepExport             ProcessingStep = "export"
)

// ProgressUpdate is pushed to subscribed websocket clients after every
// state change of a job. Only the latest one per job is retained.
type ProgressUpdate struct {
	JobID                  string         `json:"job_id"`
	Status                 JobStatus      `json:"status"`
	CurrentStep            ProcessingStep `json:"current_step,omitempty"`
	CurrentSlide           int            `json:"current_slide"`
	TotalSlides            int            `json:"total_slides"`
	Progress               float64        `json:"progress"`
	EstimatedTimeRemaining float64        `json:"estimated_time_remaining,omitempty"` // seconds
	Message                string         `json:"message,omitempty"`
	Error                  string         `json:"error,omitempty"`
	SlideResult            *SlideResult   `json:"slide_result,omitempty"`
}

// JobSnapshot merges the persisted job with its latest progress update
// for richer current-step detail on the status endpoint.
type JobSnapshot struct {
	Job
	CurrentStep            ProcessingStep `json:"current_step,omitempty"`
	EstimatedTimeRemaining float64        `json:"estimated_time_remaining,omitempty"`
	Message                string         `json:"message,omitempty"`
}
