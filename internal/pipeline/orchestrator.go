// The stage orchestrator: owns the job lifecycle and drives every
// slide through the refine, synthesize and subtitle stages, publishing
// progress to the hub and persisting state in the job store along the
// way.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slidecast/slidecast-go/internal/export"
	"github.com/slidecast/slidecast-go/internal/jobstore"
	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/refine"
	"github.com/slidecast/slidecast-go/internal/subtitle"
	"github.com/slidecast/slidecast-go/internal/synth"
	"github.com/slidecast/slidecast-go/internal/websocket"
)

// Deps are the orchestrator's constructor-time dependencies. Contextual
// and ImageAnalyzer are optional; the contextual stage is skipped when
// they are absent.
type Deps struct {
	Store         *jobstore.Store
	Hub           *websocket.Hub
	Router        *synth.Router
	Subtitles     *subtitle.Engine
	Refiner       refine.Engine
	Contextual    refine.ContextualEngine
	ImageAnalyzer refine.ImageAnalyzer
	Exporter      export.Collaborator
	DefaultVoice  models.VoiceSettings
}

// Orchestrator sequences narration jobs. One goroutine runs per job;
// slides within a job process strictly sequentially so provider
// pressure stays bounded and slide_results keeps submission order.
type Orchestrator struct {
	deps Deps

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New creates an orchestrator.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		deps:    deps,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Submit validates the presentation, creates a queued job and starts
// its background goroutine. It never blocks on any stage.
func (o *Orchestrator) Submit(p *models.Presentation) (string, error) {
	if len(p.Slides) == 0 {
		return "", &ValidationError{Message: "presentation contains no slides"}
	}

	jobID := uuid.NewString()
	now := time.Now()
	job := &models.Job{
		ID:           jobID,
		Status:       models.JobStatusQueued,
		TotalSlides:  len(p.Slides),
		Progress:     0,
		StartedAt:    now,
		UpdatedAt:    now,
		SlideResults: []models.SlideResult{},
	}
	o.deps.Store.SaveJob(job)

	ctx, cancel := context.WithCancel(context.Background())
	o.mu.Lock()
	o.cancels[jobID] = cancel
	o.mu.Unlock()

	o.publish(&models.ProgressUpdate{
		JobID:       jobID,
		Status:      models.JobStatusQueued,
		TotalSlides: len(p.Slides),
		Message:     "Job queued",
	})

	go o.run(ctx, jobID, p)
	log.Printf("Submitted narration job %s with %d slides", jobID, len(p.Slides))
	return jobID, nil
}

// run is the per-job background task.
func (o *Orchestrator) run(ctx context.Context, jobID string, p *models.Presentation) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Job %s panicked: %v", jobID, r)
			o.failJob(jobID, fmt.Sprintf("internal error: %v", r))
		}
		o.mu.Lock()
		if cancel, ok := o.cancels[jobID]; ok {
			cancel()
			delete(o.cancels, jobID)
		}
		o.mu.Unlock()
	}()

	total := len(p.Slides)
	if _, err := o.deps.Store.UpdateJob(jobID, func(j *models.Job) error {
		j.Status = models.JobStatusProcessing
		return nil
	}); err != nil {
		return
	}

	start := time.Now()
	for i, slide := range p.Slides {
		if ctx.Err() != nil {
			log.Printf("Job %s cancelled before slide %d", jobID, i+1)
			return
		}

		result := o.processSlide(ctx, jobID, slide, i+1, p)

		progress := float64(i+1) / float64(total)
		updated, err := o.deps.Store.UpdateJob(jobID, func(j *models.Job) error {
			j.Status = models.JobStatusProcessing
			j.CurrentSlide = i + 1
			j.SlideResults = append(j.SlideResults, result)
			j.Progress = progress
			return nil
		})
		if err != nil {
			// Terminal means the job was cancelled while the slide was
			// in flight; the late result is discarded.
			if errors.Is(err, jobstore.ErrTerminal) {
				log.Printf("Job %s: discarding slide %d result, job already terminal", jobID, i+1)
			}
			return
		}

		avg := time.Since(start).Seconds() / float64(i+1)
		o.publish(&models.ProgressUpdate{
			JobID:                  jobID,
			Status:                 updated.Status,
			CurrentStep:            models.StepSubtitleGeneration,
			CurrentSlide:           i + 1,
			TotalSlides:            total,
			Progress:               progress,
			EstimatedTimeRemaining: avg * float64(total-i-1),
			Message:                fmt.Sprintf("Processed slide %d of %d", i+1, total),
			SlideResult:            &result,
		})
	}

	if ctx.Err() != nil {
		return
	}

	updated, err := o.deps.Store.UpdateJob(jobID, func(j *models.Job) error {
		j.Status = models.JobStatusExporting
		return nil
	})
	if err != nil {
		return
	}
	o.publish(&models.ProgressUpdate{
		JobID:        jobID,
		Status:       models.JobStatusExporting,
		CurrentStep:  models.StepExport,
		CurrentSlide: total,
		TotalSlides:  total,
		Progress:     updated.Progress,
		Message:      "Building manifest",
	})

	manifestRef, err := o.deps.Exporter.BuildManifest(jobID, updated.SlideResults)
	if err != nil {
		// A failure outside the per-slide loop is fatal for the job.
		log.Printf("Job %s: manifest export failed: %v", jobID, err)
		o.failJob(jobID, fmt.Sprintf("manifest export failed: %v", err))
		return
	}

	final, err := o.deps.Store.UpdateJob(jobID, func(j *models.Job) error {
		j.Status = models.JobStatusCompleted
		j.Progress = 1
		j.ManifestRef = manifestRef
		return nil
	})
	if err != nil {
		return
	}
	o.publish(&models.ProgressUpdate{
		JobID:        jobID,
		Status:       models.JobStatusCompleted,
		CurrentStep:  models.StepExport,
		CurrentSlide: total,
		TotalSlides:  total,
		Progress:     1,
		Message:      "Narration complete",
	})
	log.Printf("Job %s completed with %d slide results", jobID, len(final.SlideResults))
}

// failJob marks the job failed unless it is already terminal.
func (o *Orchestrator) failJob(jobID, message string) {
	job, err := o.deps.Store.UpdateJob(jobID, func(j *models.Job) error {
		j.Status = models.JobStatusFailed
		j.Error = message
		return nil
	})
	if err != nil {
		return
	}
	o.publish(&models.ProgressUpdate{
		JobID:        jobID,
		Status:       models.JobStatusFailed,
		CurrentSlide: job.CurrentSlide,
		TotalSlides:  job.TotalSlides,
		Progress:     job.Progress,
		Error:        message,
	})
}

// publish records the latest progress snapshot and fans it out.
func (o *Orchestrator) publish(update *models.ProgressUpdate) {
	o.deps.Store.SaveProgress(update)
	if err := o.deps.Hub.PublishJSON(update.JobID, update); err != nil {
		log.Printf("Failed to publish progress for job %s: %v", update.JobID, err)
	}
}

// GetStatus merges the persisted job with its latest progress snapshot.
func (o *Orchestrator) GetStatus(jobID string) (*models.JobSnapshot, error) {
	job, err := o.deps.Store.GetJob(jobID)
	if err != nil {
		return nil, ErrJobNotFound
	}
	snap := &models.JobSnapshot{Job: *job}
	if p, ok := o.deps.Store.GetProgress(jobID); ok {
		snap.CurrentStep = p.CurrentStep
		snap.EstimatedTimeRemaining = p.EstimatedTimeRemaining
		snap.Message = p.Message
	}
	return snap, nil
}

// Cancel requests cooperative cancellation. It returns false when the
// job is unknown or already terminal. A stage already in flight is not
// interrupted; its result is discarded by the sticky terminal state.
func (o *Orchestrator) Cancel(jobID string) bool {
	o.mu.Lock()
	cancel, hasToken := o.cancels[jobID]
	o.mu.Unlock()

	job, err := o.deps.Store.UpdateJob(jobID, func(j *models.Job) error {
		j.Status = models.JobStatusFailed
		j.Error = "cancelled by user"
		return nil
	})
	if err != nil {
		return false
	}
	if hasToken {
		cancel()
	}
	o.publish(&models.ProgressUpdate{
		JobID:        jobID,
		Status:       models.JobStatusFailed,
		CurrentSlide: job.CurrentSlide,
		TotalSlides:  job.TotalSlides,
		Progress:     job.Progress,
		Error:        "cancelled by user",
	})
	log.Printf("Job %s cancelled by user", jobID)
	return true
}
