package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.Registry().All())
}

func (s *Server) handleEnableProvider(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "providerName")
	if _, ok := s.app.Registry().Get(name); !ok {
		RespondWithError(w, http.StatusNotFound, "Provider not found")
		return
	}
	s.app.Registry().Enable(name)
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "enabled"})
}

func (s *Server) handleDisableProvider(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "providerName")
	if _, ok := s.app.Registry().Get(name); !ok {
		RespondWithError(w, http.StatusNotFound, "Provider not found")
		return
	}
	var payload struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload) // body is optional
	if payload.Reason == "" {
		payload.Reason = "disabled by operator"
	}
	s.app.Registry().Disable(name, payload.Reason)
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
}
