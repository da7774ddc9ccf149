// Package notify wraps the SMS and email providers the reminder relay
// talks to. Both clients are thin HTTP wrappers; callers decide when a
// send failure matters (follow-up email failures are logged and dropped).
package notify

import "context"

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender delivers an email to an address.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
