package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/pipeline"
)

// handleSubmitNarration accepts a presentation, queues a narration job
// and returns its id. Processing happens in the background; clients
// follow along over the websocket or by polling the status endpoint.
func (s *Server) handleSubmitNarration(w http.ResponseWriter, r *http.Request) {
	var presentation models.Presentation
	if err := json.NewDecoder(r.Body).Decode(&presentation); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	jobID, err := s.app.Orchestrator().Submit(&presentation)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			RespondWithError(w, http.StatusBadRequest, verr.Error())
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to submit job")
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func (s *Server) handleGetNarrationStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	snapshot, err := s.app.Orchestrator().GetStatus(jobID)
	if err != nil {
		RespondWithError(w, http.StatusNotFound, "Job not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, snapshot)
}

// handleCancelNarration requests cooperative cancellation. Cancelling
// a finished or unknown job is a conflict, not an error page; the
// response tells the client which.
func (s *Server) handleCancelNarration(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if _, err := s.app.Orchestrator().GetStatus(jobID); err != nil {
		RespondWithError(w, http.StatusNotFound, "Job not found")
		return
	}
	if !s.app.Orchestrator().Cancel(jobID) {
		RespondWithError(w, http.StatusConflict, "Job already finished")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}
