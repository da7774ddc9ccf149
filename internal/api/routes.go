package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/health", s.handleHealth)

	r.Post("/save-contact", s.handleSaveContact)
	r.Get("/contact", s.handleGetContact)
	r.Post("/notify", s.handleNotify)
	r.Post("/review-completed", s.handleReviewCompleted)
	r.Post("/check-due-subjects", s.handleCheckDueSubjects)

	r.Route("/api", func(r chi.Router) {
		r.Get("/subjects", s.handleListSubjects)
		r.Post("/subjects", s.handleCreateSubject)
		r.Get("/subjects/export", s.handleExportSubjects)
		r.Post("/subjects/import", s.handleImportSubjects)
		r.Post("/subjects/reset", s.handleResetSubjects)
		r.Get("/subjects/{id}", s.handleGetSubject)
		r.Delete("/subjects/{id}", s.handleDeleteSubject)
		r.Post("/subjects/{id}/review", s.handleReviewSubject)
		r.Post("/subjects/{id}/complete", s.handleCompleteSubject)
		r.Get("/stats", s.handleStats)

		r.Post("/sync-to-cloud", s.handleSyncToCloud)
		r.Get("/load-from-cloud", s.handleLoadFromCloud)
		r.Delete("/delete-from-cloud", s.handleDeleteFromCloud)
	})

	return r
}
