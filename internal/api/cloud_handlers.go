package api

import (
	"net/http"

	"github.com/lmendes/studytrack/internal/errors"
)

type cloudSyncRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSyncToCloud(w http.ResponseWriter, r *http.Request) {
	var req cloudSyncRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	synced, err := s.CloudSync.SyncToCloud(r.Context(), req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"synced": synced})
}

func (s *Server) handleLoadFromCloud(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		handleError(w, r, errors.NewBadRequestError("email query parameter required"))
		return
	}

	snapshot, err := s.CloudSync.LoadFromCloud(r.Context(), email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleDeleteFromCloud(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		handleError(w, r, errors.NewBadRequestError("email query parameter required"))
		return
	}

	if err := s.CloudSync.DeleteFromCloud(r.Context(), email); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
