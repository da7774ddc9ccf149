package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/lmendes/studytrack/internal/errors"
	"github.com/lmendes/studytrack/internal/models"
)

type contactRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) handleSaveContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" {
		handleError(w, r, errors.NewValidationError("email", "must not be empty"))
		return
	}
	if req.Phone == "" {
		handleError(w, r, errors.NewValidationError("phone", "must not be empty"))
		return
	}

	if err := s.Contacts.Save(r.Context(), models.Contact{Email: req.Email, Phone: req.Phone}); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"saved": true})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := s.Contacts.Get(r.Context())
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	if contact == nil {
		handleError(w, r, errors.NewNotFoundError("contact", "local user"))
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

type notifyRequest struct {
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Subjects []string `json:"subjects"`
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	notification, err := s.Notifications.Notify(r.Context(), req.Email, req.Phone, req.Subjects, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if notification == nil {
		respondJSON(w, http.StatusOK, map[string]any{"sent": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sent": true, "notification": notification})
}

type reviewCompletedRequest struct {
	Email    string   `json:"email"`
	Subjects []string `json:"subjects"`
}

func (s *Server) handleReviewCompleted(w http.ResponseWriter, r *http.Request) {
	var req reviewCompletedRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Notifications.MarkCompleted(r.Context(), req.Email, req.Subjects, time.Now()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"completed": true})
}

type checkDueRequest struct {
	Subjects []string `json:"subjects"`
}

func (s *Server) handleCheckDueSubjects(w http.ResponseWriter, r *http.Request) {
	var req checkDueRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	stillDue, err := s.Subjects.StillDue(r.Context(), req.Subjects, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if stillDue == nil {
		stillDue = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"still_due": stillDue})
}
