package scheduler

import (
	"math"
	"time"

	"github.com/lmendes/studytrack/internal/models"
)

// DecayModel is the simplified FSRS-like policy: an exponential forgetting
// curve R = exp(-t/S) combined with multiplicative updates to stability and
// difficulty. Only a "good" rating strengthens the memory parameters; any
// other outcome is treated as hard/again and weakens them.
type DecayModel struct{}

func (DecayModel) Name() string { return PolicyDecay }

func (DecayModel) Review(s models.Subject, rating models.Rating, today time.Time) Result {
	day := DateOf(today)
	t := DaysBetween(s.LastReviewDate, day)
	if t < 0 {
		t = 0
	}

	if rating == models.RatingGood {
		s.Stability *= 1.2
		s.Difficulty *= 0.95
	} else {
		s.Stability *= 0.7
		s.Difficulty *= 1.1
	}

	r := math.Exp(-float64(t) / s.Stability)
	s.Retrievability = &r

	interval := int(math.Round(s.Stability))
	if interval < 1 {
		interval = 1
	}
	next := day.AddDate(0, 0, interval)
	s.NextReviewDate = &next
	s.LastReviewDate = day
	s.RepeatCount++

	s.ReviewHistory = append(s.ReviewHistory, models.ReviewEntry{
		SubjectID:      s.ID,
		ReviewedOn:     day,
		Rating:         rating,
		Stability:      s.Stability,
		Difficulty:     s.Difficulty,
		Retrievability: r,
	})

	return Result{Subject: s}
}

// Retrievability evaluates the forgetting curve for a subject after t
// elapsed days. Defined for t >= 0 and stability > 0; the result is in
// (0, 1] and decreases monotonically in t.
func Retrievability(stability float64, t int) float64 {
	return math.Exp(-float64(t) / stability)
}
