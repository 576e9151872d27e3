package jobstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/slidecast/slidecast-go/internal/jobstore"
	"github.com/slidecast/slidecast-go/internal/models"
)

func newJob(id string) *models.Job {
	return &models.Job{
		ID:        id,
		Status:    models.JobStatusQueued,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestSaveAndGetJob(t *testing.T) {
	st := jobstore.New(time.Hour)
	st.SaveJob(newJob("j1"))

	job, err := st.GetJob("j1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != models.JobStatusQueued {
		t.Errorf("expected queued, got %s", job.Status)
	}
}

func TestGetJobNotFound(t *testing.T) {
	st := jobstore.New(time.Hour)
	_, err := st.GetJob("missing")
	if !errors.Is(err, jobstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestJobExpiry(t *testing.T) {
	st := jobstore.New(20 * time.Millisecond)
	st.SaveJob(newJob("j1"))
	time.Sleep(40 * time.Millisecond)
	if _, err := st.GetJob("j1"); !errors.Is(err, jobstore.ErrNotFound) {
		t.Errorf("expected job to expire, got %v", err)
	}
}

func TestUpdateJob(t *testing.T) {
	st := jobstore.New(time.Hour)
	st.SaveJob(newJob("j1"))

	updated, err := st.UpdateJob("j1", func(j *models.Job) error {
		j.Status = models.JobStatusProcessing
		j.Progress = 0.5
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}
	if updated.Progress != 0.5 {
		t.Errorf("expected progress 0.5, got %f", updated.Progress)
	}

	job, _ := st.GetJob("j1")
	if job.Status != models.JobStatusProcessing {
		t.Errorf("update not persisted: %s", job.Status)
	}
}

func TestUpdateJobTerminalIsSticky(t *testing.T) {
	st := jobstore.New(time.Hour)
	j := newJob("j1")
	j.Status = models.JobStatusFailed
	j.Error = "cancelled by user"
	st.SaveJob(j)

	_, err := st.UpdateJob("j1", func(j *models.Job) error {
		j.Status = models.JobStatusCompleted
		return nil
	})
	if !errors.Is(err, jobstore.ErrTerminal) {
		t.Fatalf("expected ErrTerminal, got %v", err)
	}

	job, _ := st.GetJob("j1")
	if job.Status != models.JobStatusFailed || job.Error != "cancelled by user" {
		t.Errorf("terminal job was mutated: %+v", job)
	}
}

func TestGetJobReturnsCopy(t *testing.T) {
	st := jobstore.New(time.Hour)
	st.SaveJob(newJob("j1"))

	a, _ := st.GetJob("j1")
	a.Status = models.JobStatusFailed
	a.SlideResults = append(a.SlideResults, models.SlideResult{SlideNumber: 1})

	b, _ := st.GetJob("j1")
	if b.Status != models.JobStatusQueued || len(b.SlideResults) != 0 {
		t.Error("mutating a returned job leaked into the store")
	}
}

func TestProgressRoundTrip(t *testing.T) {
	st := jobstore.New(time.Hour)

	if _, ok := st.GetProgress("j1"); ok {
		t.Fatal("expected no progress for unknown job")
	}

	st.SaveProgress(&models.ProgressUpdate{JobID: "j1", Progress: 0.25, CurrentStep: models.StepSynthesis})
	p, ok := st.GetProgress("j1")
	if !ok {
		t.Fatal("expected progress snapshot")
	}
	if p.Progress != 0.25 || p.CurrentStep != models.StepSynthesis {
		t.Errorf("unexpected snapshot: %+v", p)
	}
}

func TestDelete(t *testing.T) {
	st := jobstore.New(time.Hour)
	st.SaveJob(newJob("j1"))
	st.SaveProgress(&models.ProgressUpdate{JobID: "j1"})

	st.Delete("j1")
	if _, err := st.GetJob("j1"); err == nil {
		t.Error("job survived delete")
	}
	if _, ok := st.GetProgress("j1"); ok {
		t.Error("progress survived delete")
	}
}

func TestJobIDs(t *testing.T) {
	st := jobstore.New(time.Hour)
	st.SaveJob(newJob("a"))
	st.SaveJob(newJob("b"))
	st.SaveProgress(&models.ProgressUpdate{JobID: "a"})

	ids := st.JobIDs()
	if len(ids) != 2 {
		t.Errorf("expected 2 ids, got %v", ids)
	}
}
