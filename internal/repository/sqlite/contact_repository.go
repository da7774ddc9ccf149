package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/repository"
)

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository implementation.
// The contacts table holds a single row for the local user.
func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Get(ctx context.Context) (*models.Contact, error) {
	log := logger.FromContext(ctx).WithPrefix("contact_repo")

	var c models.Contact
	err := r.db.QueryRowContext(ctx, `SELECT email, phone FROM contacts WHERE id = 1`).Scan(&c.Email, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no contact info saved")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get contact: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *contactRepository) Save(ctx context.Context, c models.Contact) error {
	log := logger.FromContext(ctx).WithPrefix("contact_repo")
	log.Debug("saving contact info: email=%s", c.Email)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO contacts (id, email, phone) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET email = excluded.email, phone = excluded.phone
`, c.Email, c.Phone)
	if err != nil {
		log.Error("failed to save contact: %v", err)
	}
	return err
}
