// Package scheduler implements the review-scheduling core: given a
// subject's memory state and a review outcome, compute the next
// retrievability estimate and the next due date. Two policies exist and a
// deployment picks exactly one: the decay model (exponential forgetting
// curve over stability/difficulty) and the fixed-interval rule (2/4 days,
// graduation after five reviews). All functions here are pure.
package scheduler

import (
	"time"

	"github.com/lmendes/studytrack/internal/models"
)

const (
	PolicyDecay         = "decay"
	PolicyFixedInterval = "fixed"
)

// Result carries the updated subject back to the caller. When Graduated is
// true the subject reached the repeat-count threshold and should be deleted
// rather than persisted.
type Result struct {
	Subject   models.Subject
	Graduated bool
}

// Policy computes the next scheduling state for a subject from a review
// outcome. Implementations never mutate the input.
type Policy interface {
	Review(subject models.Subject, rating models.Rating, today time.Time) Result
	Name() string
}

// ForName returns the policy registered under name, defaulting to the
// decay model for unknown names.
func ForName(name string) Policy {
	if name == PolicyFixedInterval {
		return FixedInterval{}
	}
	return DecayModel{}
}

// DateOf truncates t to day granularity (UTC midnight). All due-date
// comparisons operate on day-truncated times.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days elapsed from a to b, negative when b
// precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// DueOn reports whether the subject is due on the given day. A manual
// review date takes precedence over the computed one; in either case the
// subject is due once the operative date is on or before today. Subjects
// with neither date are never due.
func DueOn(s models.Subject, today time.Time) bool {
	day := DateOf(today)
	if s.ManualReviewDate != nil {
		return !DateOf(*s.ManualReviewDate).After(day)
	}
	if s.NextReviewDate != nil {
		return !DateOf(*s.NextReviewDate).After(day)
	}
	return false
}

// DueExactly reports whether the subject's operative due date falls exactly
// on the given day. Used only for "due today" highlighting; all due-set
// computations use DueOn.
func DueExactly(s models.Subject, today time.Time) bool {
	day := DateOf(today)
	if s.ManualReviewDate != nil {
		return DateOf(*s.ManualReviewDate).Equal(day)
	}
	if s.NextReviewDate != nil {
		return DateOf(*s.NextReviewDate).Equal(day)
	}
	return false
}
