package services

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/lmendes/studytrack/internal/errors"
	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/repository"
	"github.com/lmendes/studytrack/internal/scheduler"
)

// SubjectService handles subject-related business logic
type SubjectService interface {
	Create(ctx context.Context, name, details string, manualDate *time.Time) (*models.Subject, error)
	Get(ctx context.Context, id int64) (*models.Subject, error)
	List(ctx context.Context, search string) ([]models.Subject, error)
	// Review applies the configured policy. The returned bool is true when
	// the subject graduated and was deleted.
	Review(ctx context.Context, id int64, rating models.Rating, today time.Time) (*models.Subject, bool, error)
	MarkCompleted(ctx context.Context, id int64) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, today time.Time) (*models.SubjectStats, error)
	Export(ctx context.Context) ([]models.Subject, error)
	Import(ctx context.Context, subjects []models.Subject, today time.Time) (int, error)
	Reset(ctx context.Context) error
	Due(ctx context.Context, today time.Time) ([]models.Subject, error)
	StillDue(ctx context.Context, names []string, today time.Time) ([]string, error)
	MarkNamesCompleted(ctx context.Context, names []string) error
}

type subjectService struct {
	repo   repository.SubjectRepository
	policy scheduler.Policy
}

// NewSubjectService creates a new SubjectService using the given policy.
func NewSubjectService(repo repository.SubjectRepository, policy scheduler.Policy) SubjectService {
	return &subjectService{repo: repo, policy: policy}
}

func (s *subjectService) Create(ctx context.Context, name, details string, manualDate *time.Time) (*models.Subject, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}

	now := time.Now().UTC()
	today := scheduler.DateOf(now)
	subject := models.Subject{
		Name:           name,
		Details:        strings.TrimSpace(details),
		Stability:      1.0,
		Difficulty:     1.0,
		LastReviewDate: today,
		NextReviewDate: &today,
		CreatedAt:      now,
	}
	if manualDate != nil {
		manual := scheduler.DateOf(*manualDate)
		subject.ManualReviewDate = &manual
	}

	id, err := s.repo.Insert(ctx, subject)
	if err != nil {
		log.Error("failed to insert subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	subject.ID = id

	log.Info("created subject %q (id=%d)", subject.Name, id)
	return &subject, nil
}

func (s *subjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", id)
	}

	history, err := s.repo.ReviewHistory(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	subject.ReviewHistory = history
	return subject, nil
}

func (s *subjectService) List(ctx context.Context, search string) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, models.SubjectFilter{Search: strings.TrimSpace(search)})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return subjects, nil
}

func (s *subjectService) Review(ctx context.Context, id int64, rating models.Rating, today time.Time) (*models.Subject, bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing subject: id=%d, rating=%s, policy=%s", id, rating, s.policy.Name())

	subject, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, false, errors.NewNotFoundError("subject", id)
	}

	result := s.policy.Review(*subject, rating, today)

	if result.Graduated {
		log.Info("subject %q graduated after %d reviews, removing", subject.Name, result.Subject.RepeatCount)
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, false, errors.NewInternalError(err)
		}
		return &result.Subject, true, nil
	}

	// A review consumes any manual override and opens a new cycle.
	updated := result.Subject
	updated.ManualReviewDate = nil
	updated.ReviewCompleted = false

	if err := s.repo.Update(ctx, updated); err != nil {
		log.Error("failed to update subject after review: %v", err)
		return nil, false, errors.NewInternalError(err)
	}

	if n := len(updated.ReviewHistory); n > 0 {
		entry := updated.ReviewHistory[n-1]
		entry.SubjectID = id
		if err := s.repo.InsertReviewEntry(ctx, entry); err != nil {
			log.Warn("failed to store review history entry: %v", err)
			// The review itself already persisted; history is best effort.
		}
	}

	return &updated, false, nil
}

func (s *subjectService) MarkCompleted(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", id)
	}

	subject.ReviewCompleted = true
	if err := s.repo.Update(ctx, *subject); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return subject, nil
}

func (s *subjectService) Delete(ctx context.Context, id int64) error {
	subject, err := s.repo.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if subject == nil {
		return errors.NewNotFoundError("subject", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("deleted subject %q (id=%d)", subject.Name, id)
	return nil
}

func (s *subjectService) Stats(ctx context.Context, today time.Time) (*models.SubjectStats, error) {
	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	stats := &models.SubjectStats{Total: len(subjects)}
	for _, subject := range subjects {
		if subject.RepeatCount > 0 {
			stats.Reviewed++
		}
		if scheduler.DueOn(subject, today) {
			stats.DueToday++
		}
	}
	return stats, nil
}

func (s *subjectService) Export(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	for i := range subjects {
		history, err := s.repo.ReviewHistory(ctx, subjects[i].ID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		subjects[i].ReviewHistory = history
	}
	return subjects, nil
}

// Import replaces the whole collection. Records with an empty name are
// skipped; missing memory state is filled with the initial values.
func (s *subjectService) Import(ctx context.Context, subjects []models.Subject, today time.Time) (int, error) {
	log := logger.FromContext(ctx)

	day := scheduler.DateOf(today)
	cleaned := make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		subject.Name = strings.TrimSpace(subject.Name)
		if subject.Name == "" {
			log.Warn("skipping import record with empty name")
			continue
		}
		if subject.Stability <= 0 {
			subject.Stability = 1.0
		}
		if subject.Difficulty <= 0 {
			subject.Difficulty = 1.0
		}
		if subject.LastReviewDate.IsZero() {
			subject.LastReviewDate = day
		}
		if subject.NextReviewDate == nil && subject.ManualReviewDate == nil {
			due := day
			subject.NextReviewDate = &due
		}
		if subject.CreatedAt.IsZero() {
			subject.CreatedAt = today
		}
		cleaned = append(cleaned, subject)
	}

	if err := s.repo.ReplaceAll(ctx, cleaned); err != nil {
		log.Error("import failed: %v", err)
		return 0, errors.NewInternalError(err)
	}

	log.Info("imported %d subjects (%d records skipped)", len(cleaned), len(subjects)-len(cleaned))
	return len(cleaned), nil
}

func (s *subjectService) Reset(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("all subjects deleted")
	return nil
}

func (s *subjectService) Due(ctx context.Context, today time.Time) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	due := lo.Filter(subjects, func(subject models.Subject, _ int) bool {
		return scheduler.DueOn(subject, today) && !subject.ReviewCompleted
	})
	return due, nil
}

// StillDue filters the given names down to those that are still due and not
// marked completed. Names that no longer exist drop out of the result.
func (s *subjectService) StillDue(ctx context.Context, names []string, today time.Time) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	subjects, err := s.repo.List(ctx, models.SubjectFilter{Names: names})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	due := lo.Filter(subjects, func(subject models.Subject, _ int) bool {
		return scheduler.DueOn(subject, today) && !subject.ReviewCompleted
	})
	return lo.Map(due, func(subject models.Subject, _ int) string {
		return subject.Name
	}), nil
}

func (s *subjectService) MarkNamesCompleted(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if err := s.repo.SetReviewCompleted(ctx, names, true); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
