package models

import "time"

// Rating is the outcome of a review. The decay model only distinguishes
// "good" from everything else; the fixed-interval policy maps good to a
// 2-day interval and excellent to a 4-day interval.
type Rating string

const (
	RatingGood      Rating = "good"
	RatingExcellent Rating = "excellent"
)

// RatingFromScore maps the numeric scores used by the review buttons
// (1=Good, 2=Excellent) to a Rating. Unknown scores map to good.
func RatingFromScore(score int) Rating {
	if score == 2 {
		return RatingExcellent
	}
	return RatingGood
}

// Subject is one topic being studied, together with its scheduling state.
// Stability and difficulty are the decay-model memory parameters; both
// start at 1.0 and stay strictly positive. Retrievability is nil until the
// first review. At most one of NextReviewDate/ManualReviewDate is the
// operative due date: manual wins wherever due-ness is checked.
type Subject struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Details          string     `json:"details"`
	Stability        float64    `json:"stability"`
	Difficulty       float64    `json:"difficulty"`
	Retrievability   *float64   `json:"retrievability,omitempty"`
	LastReviewDate   time.Time  `json:"last_review_date"`
	NextReviewDate   *time.Time `json:"next_review_date,omitempty"`
	ManualReviewDate *time.Time `json:"manual_review_date,omitempty"`
	RepeatCount      int        `json:"repeat_count"`
	ReviewCompleted  bool       `json:"review_completed"`
	CreatedAt        time.Time  `json:"created_at"`

	// ReviewHistory is append-only, oldest first. Loaded on demand.
	ReviewHistory []ReviewEntry `json:"review_history,omitempty"`
}

// ReviewEntry is a per-review snapshot of the memory state.
type ReviewEntry struct {
	ID             int64     `json:"id"`
	SubjectID      int64     `json:"subject_id"`
	ReviewedOn     time.Time `json:"reviewed_on"`
	Rating         Rating    `json:"rating"`
	Stability      float64   `json:"stability"`
	Difficulty     float64   `json:"difficulty"`
	Retrievability float64   `json:"retrievability"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubjectFilter narrows and orders subject listings. Ordering is always
// ascending by the operative due date (manual if present, else computed).
type SubjectFilter struct {
	Search string
	Names  []string
}

// SubjectStats is the home-page summary: total subjects, subjects with at
// least one completed review, and subjects due today.
type SubjectStats struct {
	Total    int `json:"total"`
	Reviewed int `json:"reviewed"`
	DueToday int `json:"due_today"`
}
