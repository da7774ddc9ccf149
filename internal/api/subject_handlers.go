package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lmendes/studytrack/internal/errors"
	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/scheduler"
)

// subjectResponse decorates a subject with the due flags the list view
// needs: due (operative date on or before today) and due_today (exact
// match, used for highlighting).
type subjectResponse struct {
	models.Subject
	Due      bool `json:"due"`
	DueToday bool `json:"due_today"`
}

func toSubjectResponse(subject models.Subject, today time.Time) subjectResponse {
	return subjectResponse{
		Subject:  subject,
		Due:      scheduler.DueOn(subject, today),
		DueToday: scheduler.DueExactly(subject, today),
	}
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.Subjects.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	today := time.Now()
	out := make([]subjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, toSubjectResponse(subject, today))
	}
	respondJSON(w, http.StatusOK, map[string]any{"subjects": out})
}

type createSubjectRequest struct {
	Name             string `json:"name"`
	Details          string `json:"details"`
	ManualReviewDate string `json:"manual_review_date"` // YYYY-MM-DD, optional
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var manual *time.Time
	if req.ManualReviewDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ManualReviewDate)
		if err != nil {
			handleError(w, r, errors.NewValidationError("manual_review_date", "must be YYYY-MM-DD"))
			return
		}
		manual = &parsed
	}

	subject, err := s.Subjects.Create(r.Context(), req.Name, req.Details, manual)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSubjectResponse(*subject, time.Now()))
}

func subjectID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid subject id")
	}
	return id, nil
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	subject, err := s.Subjects.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubjectResponse(*subject, time.Now()))
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Subjects.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

type reviewSubjectRequest struct {
	Rating string `json:"rating"` // "good" or "excellent"
	Score  int    `json:"score"`  // 1=good, 2=excellent; used when rating is empty
}

func (s *Server) handleReviewSubject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := subjectID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	rating := models.Rating(req.Rating)
	if req.Rating == "" {
		rating = models.RatingFromScore(req.Score)
	}

	subject, graduated, err := s.Subjects.Review(r.Context(), id, rating, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("review applied: id=%d, graduated=%v", id, graduated)
	respondJSON(w, http.StatusOK, map[string]any{
		"subject":   toSubjectResponse(*subject, time.Now()),
		"graduated": graduated,
	})
}

func (s *Server) handleCompleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	subject, err := s.Subjects.MarkCompleted(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubjectResponse(*subject, time.Now()))
}

func (s *Server) handleExportSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.Subjects.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="subjects.json"`)
	respondJSON(w, http.StatusOK, subjects)
}

func (s *Server) handleImportSubjects(w http.ResponseWriter, r *http.Request) {
	var subjects []models.Subject
	if err := decodeJSON(r, &subjects); err != nil {
		handleError(w, r, err)
		return
	}

	imported, err := s.Subjects.Import(r.Context(), subjects, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"imported": imported})
}

func (s *Server) handleResetSubjects(w http.ResponseWriter, r *http.Request) {
	if err := s.Subjects.Reset(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reset": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Subjects.Stats(r.Context(), time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
