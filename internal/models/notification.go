package models

import "time"

// Contact is the single local user's notification target.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Notification is one persisted notification batch. Dedupe key is
// (email, phone, day): at most one SMS per contact per calendar day.
// Completed suppresses the deferred follow-up email.
type Notification struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subjects  []string  `json:"subjects"`
	Day       string    `json:"day"` // YYYY-MM-DD
	SentAt    time.Time `json:"sent_at"`
	Completed bool      `json:"completed"`
}
