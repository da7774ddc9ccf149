package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository implementation
func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Insert(ctx context.Context, n models.Notification) error {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	log.Debug("inserting notification: id=%s, day=%s", n.ID, n.Day)

	subjects, err := json.Marshal(n.Subjects)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO notification_log (id, email, phone, subjects, day, sent_at, completed)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, n.ID, n.Email, n.Phone, string(subjects), n.Day, n.SentAt, n.Completed)
	if err != nil {
		log.Error("failed to insert notification: %v", err)
	}
	return err
}

func (r *notificationRepository) Get(ctx context.Context, id string) (*models.Notification, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT id, email, phone, subjects, day, sent_at, completed
FROM notification_log
WHERE id = ?
`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("notification not found: id=%s", id)
			return nil, nil
		}
		log.Error("failed to get notification: %v", err)
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) FindByContactAndDay(ctx context.Context, email, phone, day string) (*models.Notification, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	log.Debug("looking up notification: email=%s, day=%s", email, day)

	row := r.db.QueryRowContext(ctx, `
SELECT id, email, phone, subjects, day, sent_at, completed
FROM notification_log
WHERE email = ? AND phone = ? AND day = ?
`, email, phone, day)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to find notification: %v", err)
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) MarkCompleted(ctx context.Context, email, day string) error {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	log.Debug("marking notifications completed: email=%s, day=%s", email, day)

	_, err := r.db.ExecContext(ctx, `
UPDATE notification_log
SET completed = 1
WHERE email = ? AND day = ?
`, email, day)
	if err != nil {
		log.Error("failed to mark notification completed: %v", err)
	}
	return err
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	var subjects string
	if err := row.Scan(&n.ID, &n.Email, &n.Phone, &subjects, &n.Day, &n.SentAt, &n.Completed); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(subjects), &n.Subjects); err != nil {
		return nil, err
	}
	return &n, nil
}
