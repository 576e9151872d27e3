package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/refine"
)

// processSlide drives one slide through refinement, optional
// contextual refinement, synthesis and subtitle generation. It never
// returns an error: any stage failure marks this slide's result failed
// and the caller moves on to the next slide.
func (o *Orchestrator) processSlide(ctx context.Context, jobID string, slide models.Slide, slideNumber int, p *models.Presentation) models.SlideResult {
	start := time.Now()
	result := models.SlideResult{
		SlideNumber:     slideNumber,
		SlideID:         slide.ID,
		OriginalContent: slide.Content,
		Status:          models.SlideStatusCompleted,
	}
	fail := func(stage string, err error) models.SlideResult {
		serr := &StageError{Stage: stage, Err: err}
		log.Printf("Job %s slide %d: %v", jobID, slideNumber, serr)
		result.Status = models.SlideStatusFailed
		result.Error = serr.Error()
		result.ProcessingTime = time.Since(start).Seconds()
		return result
	}

	// Refinement stage.
	o.publishStep(jobID, models.JobStatusRefining, models.StepRefinement, slideNumber, p)
	refined, err := o.deps.Refiner.Refine(ctx, slide.Content, refine.Options{
		Type:     refine.TypeClarity,
		Audience: p.Audience,
		Tone:     p.Tone,
		Language: p.Language,
	})
	if err != nil {
		return fail("refinement", err)
	}
	result.RefinedContent = refined

	// Contextual stage, only when there is context to use.
	if o.deps.Contextual != nil && hasSlideContext(slide, p) {
		if err := ctx.Err(); err != nil {
			return fail("contextual", err)
		}
		images := slide.Images
		if missing := imagesWithoutAnalysis(images); len(missing) > 0 && o.deps.ImageAnalyzer != nil {
			analyses, err := o.deps.ImageAnalyzer.Analyze(ctx, missing, map[string]string{
				"slide_title": slide.Title,
				"layout":      slide.Layout,
			})
			if err != nil {
				return fail("image analysis", err)
			}
			images = applyAnalyses(images, analyses)
		}

		contextual, err := o.deps.Contextual.RefineInContext(ctx, refine.ContextualRequest{
			Text:    refined,
			Title:   slide.Title,
			Layout:  slide.Layout,
			Notes:   slide.Notes,
			Images:  images,
			Context: refine.BuildPresentationContext(p, slideNumber-1),
		})
		if err != nil {
			return fail("contextual refinement", err)
		}
		result.RefinedContent = contextual.Text
		result.ContextualMetadata = &models.ContextualMetadata{
			Highlights:      contextual.Highlights,
			ImageReferences: contextual.ImageReferences,
			Transitions:     contextual.Transitions,
			Confidence:      contextual.Confidence,
		}
	}

	// Synthesis stage.
	if err := ctx.Err(); err != nil {
		return fail("synthesis", err)
	}
	o.publishStep(jobID, models.JobStatusSynthesizing, models.StepSynthesis, slideNumber, p)
	audio, err := o.deps.Router.Synthesize(ctx, o.synthesisRequest(result.RefinedContent, p), p.PreferredProvider)
	if err != nil {
		return fail("synthesis", err)
	}
	result.Audio = audio

	// Subtitle stage.
	if err := ctx.Err(); err != nil {
		return fail("subtitles", err)
	}
	o.publishStep(jobID, models.JobStatusGeneratingSubtitles, models.StepSubtitleGeneration, slideNumber, p)
	entries := o.deps.Subtitles.GenerateFromAudio(ctx, audio.AudioURL, result.RefinedContent, p.Language, audio.Duration)
	result.Subtitles = o.deps.Subtitles.SyncWithSlides(entries, audio.Duration, slideNumber)

	result.ProcessingTime = time.Since(start).Seconds()
	return result
}

// publishStep pushes a stage-level progress update. Stage updates keep
// the job's last committed progress value so progress stays
// monotonic; only the completed-slide update advances it.
func (o *Orchestrator) publishStep(jobID string, status models.JobStatus, step models.ProcessingStep, slideNumber int, p *models.Presentation) {
	progress := 0.0
	if job, err := o.deps.Store.GetJob(jobID); err == nil {
		progress = job.Progress
	}
	o.publish(&models.ProgressUpdate{
		JobID:        jobID,
		Status:       status,
		CurrentStep:  step,
		CurrentSlide: slideNumber,
		TotalSlides:  len(p.Slides),
		Progress:     progress,
	})
}

// hasSlideContext reports whether the contextual stage has anything to
// work with: surrounding slides, images, or speaker notes.
func hasSlideContext(slide models.Slide, p *models.Presentation) bool {
	return len(p.Slides) > 1 || len(slide.Images) > 0 || slide.Notes != "" || len(p.TopicKeywords) > 0
}

func imagesWithoutAnalysis(images []models.SlideImage) []models.SlideImage {
	var missing []models.SlideImage
	for _, img := range images {
		if img.Analysis == "" {
			missing = append(missing, img)
		}
	}
	return missing
}

func applyAnalyses(images []models.SlideImage, analyses map[string]string) []models.SlideImage {
	out := make([]models.SlideImage, len(images))
	copy(out, images)
	for i := range out {
		if out[i].Analysis == "" {
			if a, ok := analyses[out[i].ID]; ok {
				out[i].Analysis = a
			}
		}
	}
	return out
}

// synthesisRequest merges the presentation's voice settings over the
// configured defaults.
func (o *Orchestrator) synthesisRequest(text string, p *models.Presentation) models.SynthesisRequest {
	voice := o.deps.DefaultVoice
	if p.Voice.Voice != "" {
		voice.Voice = p.Voice.Voice
	}
	if p.Voice.Speed > 0 {
		voice.Speed = p.Voice.Speed
	}
	if p.Voice.Pitch != 0 {
		voice.Pitch = p.Voice.Pitch
	}
	if p.Voice.Format != "" {
		voice.Format = p.Voice.Format
	}
	return models.SynthesisRequest{
		Text:     text,
		Voice:    voice.Voice,
		Speed:    voice.Speed,
		Pitch:    voice.Pitch,
		Format:   voice.Format,
		Language: p.Language,
	}
}
