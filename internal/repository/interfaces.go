package repository

import (
	"context"

	"github.com/lmendes/studytrack/internal/models"
)

// SubjectRepository handles subject data access. Listings are ordered
// ascending by the operative due date (manual if present, else computed).
type SubjectRepository interface {
	Get(ctx context.Context, id int64) (*models.Subject, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	Insert(ctx context.Context, subject models.Subject) (int64, error)
	Update(ctx context.Context, subject models.Subject) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	ReplaceAll(ctx context.Context, subjects []models.Subject) error
	InsertReviewEntry(ctx context.Context, entry models.ReviewEntry) error
	ReviewHistory(ctx context.Context, subjectID int64) ([]models.ReviewEntry, error)
	SetReviewCompleted(ctx context.Context, names []string, completed bool) error
}

// NotificationRepository persists the notification log that replaces the
// relay's old in-memory pending/completed arrays.
type NotificationRepository interface {
	Insert(ctx context.Context, n models.Notification) error
	Get(ctx context.Context, id string) (*models.Notification, error)
	FindByContactAndDay(ctx context.Context, email, phone, day string) (*models.Notification, error)
	MarkCompleted(ctx context.Context, email, day string) error
}

// ContactRepository stores the single local user's notification contact.
type ContactRepository interface {
	Get(ctx context.Context) (*models.Contact, error)
	Save(ctx context.Context, c models.Contact) error
}
