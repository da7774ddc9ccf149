package scheduler

import (
	"time"

	"github.com/lmendes/studytrack/internal/models"
)

// graduationThreshold is the number of completed reviews after which a
// subject leaves the active set under the fixed-interval policy.
const graduationThreshold = 5

// FixedInterval is the simpler due-date rule: good pushes the next review
// out 2 days, excellent 4 days. It never touches stability, difficulty or
// retrievability. Subjects graduate (and are deleted by the caller) after
// five reviews.
type FixedInterval struct{}

func (FixedInterval) Name() string { return PolicyFixedInterval }

func (FixedInterval) Review(s models.Subject, rating models.Rating, today time.Time) Result {
	day := DateOf(today)

	days := 2
	if rating == models.RatingExcellent {
		days = 4
	}
	next := day.AddDate(0, 0, days)
	s.NextReviewDate = &next
	s.LastReviewDate = day
	s.RepeatCount++

	s.ReviewHistory = append(s.ReviewHistory, models.ReviewEntry{
		SubjectID:      s.ID,
		ReviewedOn:     day,
		Rating:         rating,
		Stability:      s.Stability,
		Difficulty:     s.Difficulty,
	})

	return Result{Subject: s, Graduated: s.RepeatCount >= graduationThreshold}
}
