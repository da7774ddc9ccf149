package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/lmendes/studytrack/internal/errors"
	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/notify"
	"github.com/lmendes/studytrack/internal/repository"
	"github.com/lmendes/studytrack/internal/scheduler"
	"github.com/lmendes/studytrack/internal/worker"
)

// JobSubmitter enqueues background jobs. Satisfied by worker.Pool.
type JobSubmitter interface {
	Submit(job worker.Job)
}

// NotificationService relays due-review reminders: SMS right away, one
// follow-up email later if the reviews are still outstanding. At most one
// notification goes out per contact per calendar day.
type NotificationService interface {
	Notify(ctx context.Context, email, phone string, names []string, now time.Time) (*models.Notification, error)
	NotifyDue(ctx context.Context, now time.Time) error
	MarkCompleted(ctx context.Context, email string, names []string, now time.Time) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	contacts      repository.ContactRepository
	subjects      SubjectService
	sms           notify.SMSSender
	email         notify.EmailSender
	jobs          JobSubmitter
	followUpDelay time.Duration
}

// NewNotificationService creates a new NotificationService. sms and email
// may be nil when the provider is not configured; the corresponding step is
// then skipped.
func NewNotificationService(
	notifications repository.NotificationRepository,
	contacts repository.ContactRepository,
	subjects SubjectService,
	sms notify.SMSSender,
	email notify.EmailSender,
	jobs JobSubmitter,
	followUpDelay time.Duration,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		contacts:      contacts,
		subjects:      subjects,
		sms:           sms,
		email:         email,
		jobs:          jobs,
		followUpDelay: followUpDelay,
	}
}

const dayFormat = "2006-01-02"

func (s *notificationService) Notify(ctx context.Context, email, phone string, names []string, now time.Time) (*models.Notification, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" || phone == "" {
		log.Debug("no contact info, skipping notification")
		return nil, nil
	}
	if len(names) == 0 {
		log.Debug("no subjects to notify about")
		return nil, nil
	}

	day := scheduler.DateOf(now).Format(dayFormat)
	existing, err := s.notifications.FindByContactAndDay(ctx, email, phone, day)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		log.Debug("notification already sent today for %s, skipping", email)
		return existing, nil
	}

	body := fmt.Sprintf("You have subjects to review today: %s", strings.Join(names, ", "))

	if s.sms != nil {
		if err := s.sms.SendSMS(ctx, phone, body); err != nil {
			log.Error("failed to send SMS: %v", err)
			return nil, errors.NewInternalError(err)
		}
	} else {
		log.Warn("SMS provider not configured, skipping send")
	}

	notification := models.Notification{
		ID:       uuid.NewString(),
		Email:    email,
		Phone:    phone,
		Subjects: names,
		Day:      day,
		SentAt:   now.UTC(),
	}
	if err := s.notifications.Insert(ctx, notification); err != nil {
		log.Error("failed to record notification: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if s.email != nil && s.jobs != nil {
		s.jobs.Submit(&followUpEmailJob{
			notificationID: notification.ID,
			delay:          s.followUpDelay,
			notifications:  s.notifications,
			subjects:       s.subjects,
			email:          s.email,
		})
	}

	log.Info("notified %s about %d due subjects", email, len(names))
	return &notification, nil
}

// NotifyDue looks up the stored contact and the current due set and sends a
// notification for it. Called by the daily schedule and the periodic due
// check; the per-day dedupe in Notify makes repeated calls harmless.
func (s *notificationService) NotifyDue(ctx context.Context, now time.Time) error {
	log := logger.FromContext(ctx)

	contact, err := s.contacts.Get(ctx)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if contact == nil || contact.Email == "" || contact.Phone == "" {
		log.Debug("no contact configured, skipping due check")
		return nil
	}

	due, err := s.subjects.Due(ctx, now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		log.Debug("no subjects due")
		return nil
	}

	names := lo.Map(due, func(subject models.Subject, _ int) string {
		return subject.Name
	})
	_, err = s.Notify(ctx, contact.Email, contact.Phone, names, now)
	return err
}

// MarkCompleted records that the user responded to today's notification and
// flags the named subjects as reviewed. The pending follow-up email sees the
// completed flag at fire time and stays silent.
func (s *notificationService) MarkCompleted(ctx context.Context, email string, names []string, now time.Time) error {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return errors.NewValidationError("email", "must not be empty")
	}

	day := scheduler.DateOf(now).Format(dayFormat)
	if err := s.notifications.MarkCompleted(ctx, email, day); err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.subjects.MarkNamesCompleted(ctx, names); err != nil {
		return err
	}

	log.Info("marked reviews completed for %s (%d subjects)", email, len(names))
	return nil
}

// followUpEmailJob waits out the configured delay on a worker, then re-checks
// state before sending: nothing goes out if the notification was completed
// or none of its subjects are still due.
type followUpEmailJob struct {
	notificationID string
	delay          time.Duration
	notifications  repository.NotificationRepository
	subjects       SubjectService
	email          notify.EmailSender
}

func (j *followUpEmailJob) Name() string {
	return fmt.Sprintf("follow-up-email-%s", j.notificationID)
}

func (j *followUpEmailJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	timer := time.NewTimer(j.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		log.Debug("shutdown before follow-up fired, dropping")
		return nil
	case <-timer.C:
	}

	notification, err := j.notifications.Get(ctx, j.notificationID)
	if err != nil {
		return err
	}
	if notification == nil {
		log.Debug("notification gone, skipping follow-up")
		return nil
	}
	if notification.Completed {
		log.Debug("reviews completed, skipping follow-up email")
		return nil
	}

	stillDue, err := j.subjects.StillDue(ctx, notification.Subjects, time.Now())
	if err != nil {
		return err
	}
	if len(stillDue) == 0 {
		log.Debug("no subjects still due, skipping follow-up email")
		return nil
	}

	body := fmt.Sprintf("You still have subjects waiting for review: %s", strings.Join(stillDue, ", "))
	if err := j.email.SendEmail(ctx, notification.Email, "Review reminder", body); err != nil {
		// Logged by the pool; follow-ups are not retried.
		return err
	}
	return nil
}
