package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const subjectColumns = `id, name, details, stability, difficulty, retrievability,
       last_review_date, next_review_date, manual_review_date,
       repeat_count, review_completed, created_at`

type subjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new SubjectRepository implementation
func NewSubjectRepository(db *sql.DB) repository.SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Get(ctx context.Context, id int64) (*models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("getting subject: id=%d", id)

	row := r.db.QueryRowContext(ctx, `
SELECT `+subjectColumns+`
FROM subjects
WHERE id = ?
`, id)

	s, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("subject not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get subject: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *subjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("listing subjects: search=%q names=%d", filter.Search, len(filter.Names))

	query := sqlBuilder.
		Select(subjectColumns).
		From("subjects")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"name": like},
			squirrel.Like{"details": like},
		})
	}
	if len(filter.Names) > 0 {
		query = query.Where(squirrel.Eq{"name": filter.Names})
	}

	// Manual date wins as the operative due date; undated subjects sort last.
	query = query.OrderBy("COALESCE(manual_review_date, next_review_date) IS NULL", "COALESCE(manual_review_date, next_review_date) ASC", "id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query subjects: %v", err)
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			log.Error("failed to scan subject row: %v", err)
			return nil, err
		}
		subjects = append(subjects, *s)
	}
	log.Debug("found %d subjects", len(subjects))
	return subjects, rows.Err()
}

func (r *subjectRepository) Insert(ctx context.Context, s models.Subject) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("inserting subject: name=%s", s.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO subjects (name, details, stability, difficulty, retrievability,
                      last_review_date, next_review_date, manual_review_date,
                      repeat_count, review_completed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.Name, s.Details, s.Stability, s.Difficulty, s.Retrievability,
		s.LastReviewDate, s.NextReviewDate, s.ManualReviewDate,
		s.RepeatCount, s.ReviewCompleted)
	if err != nil {
		log.Error("failed to insert subject: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get subject id: %v", err)
		return 0, err
	}
	log.Debug("subject inserted: id=%d", id)
	return id, nil
}

func (r *subjectRepository) Update(ctx context.Context, s models.Subject) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("updating subject: id=%d, repeat_count=%d", s.ID, s.RepeatCount)

	_, err := r.db.ExecContext(ctx, `
UPDATE subjects
SET name = ?, details = ?, stability = ?, difficulty = ?, retrievability = ?,
    last_review_date = ?, next_review_date = ?, manual_review_date = ?,
    repeat_count = ?, review_completed = ?
WHERE id = ?
`, s.Name, s.Details, s.Stability, s.Difficulty, s.Retrievability,
		s.LastReviewDate, s.NextReviewDate, s.ManualReviewDate,
		s.RepeatCount, s.ReviewCompleted, s.ID)
	if err != nil {
		log.Error("failed to update subject: %v", err)
	}
	return err
}

func (r *subjectRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("deleting subject: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete subject: %v", err)
	}
	return err
}

func (r *subjectRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Info("deleting all subjects")

	_, err := r.db.ExecContext(ctx, `DELETE FROM subjects`)
	if err != nil {
		log.Error("failed to delete subjects: %v", err)
	}
	return err
}

// ReplaceAll swaps the whole collection in one transaction. Used by import
// and cloud load; ids and review history are preserved so an export/import
// round trip reproduces the same set.
func (r *subjectRepository) ReplaceAll(ctx context.Context, subjects []models.Subject) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Info("replacing subject collection with %d subjects", len(subjects))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
		log.Error("failed to clear subjects: %v", err)
		return err
	}

	for _, s := range subjects {
		var res sql.Result
		if s.ID > 0 {
			res, err = tx.ExecContext(ctx, `
INSERT INTO subjects (id, name, details, stability, difficulty, retrievability,
                      last_review_date, next_review_date, manual_review_date,
                      repeat_count, review_completed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.Name, s.Details, s.Stability, s.Difficulty, s.Retrievability,
				s.LastReviewDate, s.NextReviewDate, s.ManualReviewDate,
				s.RepeatCount, s.ReviewCompleted)
		} else {
			res, err = tx.ExecContext(ctx, `
INSERT INTO subjects (name, details, stability, difficulty, retrievability,
                      last_review_date, next_review_date, manual_review_date,
                      repeat_count, review_completed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.Name, s.Details, s.Stability, s.Difficulty, s.Retrievability,
				s.LastReviewDate, s.NextReviewDate, s.ManualReviewDate,
				s.RepeatCount, s.ReviewCompleted)
		}
		if err != nil {
			log.Error("failed to insert subject %q: %v", s.Name, err)
			return err
		}

		subjectID := s.ID
		if subjectID == 0 {
			if subjectID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		for _, e := range s.ReviewHistory {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO review_history (subject_id, reviewed_on, rating, stability, difficulty, retrievability)
VALUES (?, ?, ?, ?, ?, ?)
`, subjectID, e.ReviewedOn, e.Rating, e.Stability, e.Difficulty, e.Retrievability); err != nil {
				log.Error("failed to insert review history for %q: %v", s.Name, err)
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit replace: %v", err)
		return err
	}
	return nil
}

func (r *subjectRepository) InsertReviewEntry(ctx context.Context, e models.ReviewEntry) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("inserting review entry: subject_id=%d, rating=%s", e.SubjectID, e.Rating)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (subject_id, reviewed_on, rating, stability, difficulty, retrievability)
VALUES (?, ?, ?, ?, ?, ?)
`, e.SubjectID, e.ReviewedOn, e.Rating, e.Stability, e.Difficulty, e.Retrievability)
	if err != nil {
		log.Error("failed to insert review entry: %v", err)
	}
	return err
}

func (r *subjectRepository) ReviewHistory(ctx context.Context, subjectID int64) ([]models.ReviewEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("fetching review history: subject_id=%d", subjectID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, subject_id, reviewed_on, rating, stability, difficulty, retrievability, created_at
FROM review_history
WHERE subject_id = ?
ORDER BY id ASC
`, subjectID)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.ReviewEntry
	for rows.Next() {
		var e models.ReviewEntry
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.ReviewedOn, &e.Rating, &e.Stability, &e.Difficulty, &e.Retrievability, &e.CreatedAt); err != nil {
			log.Error("failed to scan review entry: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *subjectRepository) SetReviewCompleted(ctx context.Context, names []string, completed bool) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("setting review_completed=%v for %d subjects", completed, len(names))

	if len(names) == 0 {
		return nil
	}

	sqlStr, args, err := sqlBuilder.
		Update("subjects").
		Set("review_completed", completed).
		Where(squirrel.Eq{"name": names}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		log.Error("failed to set review_completed: %v", err)
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*models.Subject, error) {
	var s models.Subject
	var retrievability sql.NullFloat64
	var nextReview, manualReview sql.NullTime

	err := row.Scan(&s.ID, &s.Name, &s.Details, &s.Stability, &s.Difficulty, &retrievability,
		&s.LastReviewDate, &nextReview, &manualReview,
		&s.RepeatCount, &s.ReviewCompleted, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if retrievability.Valid {
		s.Retrievability = &retrievability.Float64
	}
	if nextReview.Valid {
		t := nextReview.Time
		s.NextReviewDate = &t
	}
	if manualReview.Valid {
		t := manualReview.Time
		s.ManualReviewDate = &t
	}
	return &s, nil
}
