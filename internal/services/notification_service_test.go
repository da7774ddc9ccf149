package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/scheduler"
	"github.com/lmendes/studytrack/internal/services"
	"github.com/lmendes/studytrack/internal/testutil/mocks"
	"github.com/lmendes/studytrack/internal/worker"
)

type notifyFixture struct {
	notifications *mocks.MockNotificationRepository
	contacts      *mocks.MockContactRepository
	subjects      *mocks.MockSubjectRepository
	sms           *mocks.MockSMSSender
	email         *mocks.MockEmailSender
	jobs          *mocks.MockJobSubmitter
	svc           services.NotificationService
}

func newNotifyFixture() *notifyFixture {
	f := &notifyFixture{
		notifications: new(mocks.MockNotificationRepository),
		contacts:      new(mocks.MockContactRepository),
		subjects:      new(mocks.MockSubjectRepository),
		sms:           new(mocks.MockSMSSender),
		email:         new(mocks.MockEmailSender),
		jobs:          new(mocks.MockJobSubmitter),
	}
	subjectSvc := services.NewSubjectService(f.subjects, scheduler.DecayModel{})
	f.svc = services.NewNotificationService(
		f.notifications, f.contacts, subjectSvc,
		f.sms, f.email, f.jobs, 2*time.Hour,
	)
	return f
}

func TestNotify_SkipsWithoutContactInfo(t *testing.T) {
	f := newNotifyFixture()

	n, err := f.svc.Notify(context.Background(), "", "+551199", []string{"a"}, day("2024-01-10"))
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = f.svc.Notify(context.Background(), "user@example.com", "", []string{"a"}, day("2024-01-10"))
	require.NoError(t, err)
	assert.Nil(t, n)

	f.sms.AssertNotCalled(t, "SendSMS")
	f.notifications.AssertNotCalled(t, "Insert")
}

func TestNotify_DedupePerDay(t *testing.T) {
	f := newNotifyFixture()

	existing := &models.Notification{ID: "n1", Email: "user@example.com", Day: "2024-01-10"}
	f.notifications.On("FindByContactAndDay", mock.Anything, "user@example.com", "+551199", "2024-01-10").
		Return(existing, nil)

	n, err := f.svc.Notify(context.Background(), "user@example.com", "+551199", []string{"a"}, day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)

	f.sms.AssertNotCalled(t, "SendSMS")
	f.notifications.AssertNotCalled(t, "Insert")
	f.jobs.AssertNotCalled(t, "Submit")
}

func TestNotify_SendsAndSchedulesFollowUp(t *testing.T) {
	f := newNotifyFixture()

	f.notifications.On("FindByContactAndDay", mock.Anything, "user@example.com", "+551199", "2024-01-10").
		Return(nil, nil)
	f.sms.On("SendSMS", mock.Anything, "+551199", mock.MatchedBy(func(body string) bool {
		return body == "You have subjects to review today: Algorithms, Calculus"
	})).Return(nil)
	f.notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Email == "user@example.com" && n.Day == "2024-01-10" && len(n.Subjects) == 2 && n.ID != ""
	})).Return(nil)
	f.jobs.On("Submit", mock.AnythingOfType("*services.followUpEmailJob")).Return()

	n, err := f.svc.Notify(context.Background(), "user@example.com", "+551199",
		[]string{"Algorithms", "Calculus"}, day("2024-01-10"))
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.False(t, n.Completed)

	f.sms.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	f.jobs.AssertExpectations(t)
}

func TestNotify_SMSFailureAborts(t *testing.T) {
	f := newNotifyFixture()

	f.notifications.On("FindByContactAndDay", mock.Anything, "user@example.com", "+551199", "2024-01-10").
		Return(nil, nil)
	f.sms.On("SendSMS", mock.Anything, "+551199", mock.Anything).Return(fmt.Errorf("twilio status 500"))

	_, err := f.svc.Notify(context.Background(), "user@example.com", "+551199", []string{"a"}, day("2024-01-10"))
	require.Error(t, err)

	f.notifications.AssertNotCalled(t, "Insert")
	f.jobs.AssertNotCalled(t, "Submit")
}

func TestNotifyDue_NoContactConfigured(t *testing.T) {
	f := newNotifyFixture()

	f.contacts.On("Get", mock.Anything).Return(nil, nil)

	require.NoError(t, f.svc.NotifyDue(context.Background(), day("2024-01-10")))
	f.subjects.AssertNotCalled(t, "List")
}

func TestNotifyDue_SendsForDueSubjects(t *testing.T) {
	f := newNotifyFixture()

	f.contacts.On("Get", mock.Anything).Return(&models.Contact{Email: "user@example.com", Phone: "+551199"}, nil)
	f.subjects.On("List", mock.Anything, models.SubjectFilter{}).Return([]models.Subject{
		{Name: "due", NextReviewDate: datePtr("2024-01-09")},
		{Name: "not due", NextReviewDate: datePtr("2024-02-01")},
	}, nil)
	f.notifications.On("FindByContactAndDay", mock.Anything, "user@example.com", "+551199", "2024-01-10").
		Return(nil, nil)
	f.sms.On("SendSMS", mock.Anything, "+551199", "You have subjects to review today: due").Return(nil)
	f.notifications.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.jobs.On("Submit", mock.Anything).Return()

	require.NoError(t, f.svc.NotifyDue(context.Background(), day("2024-01-10")))
	f.sms.AssertExpectations(t)
}

func TestMarkCompleted(t *testing.T) {
	f := newNotifyFixture()

	f.notifications.On("MarkCompleted", mock.Anything, "user@example.com", "2024-01-10").Return(nil)
	f.subjects.On("SetReviewCompleted", mock.Anything, []string{"a", "b"}, true).Return(nil)

	err := f.svc.MarkCompleted(context.Background(), "user@example.com", []string{"a", "b"}, day("2024-01-10"))
	require.NoError(t, err)
	f.notifications.AssertExpectations(t)
	f.subjects.AssertExpectations(t)
}

func TestMarkCompleted_EmptyEmail(t *testing.T) {
	f := newNotifyFixture()

	err := f.svc.MarkCompleted(context.Background(), "  ", nil, day("2024-01-10"))
	require.Error(t, err)
	f.notifications.AssertNotCalled(t, "MarkCompleted")
}

// The follow-up job goes through the real pool here: submit, wait, assert
// the email only fires when the notification is still open and due.
func TestFollowUpEmail_FiresWhenStillDue(t *testing.T) {
	f := newNotifyFixture()
	pool := worker.NewPool(1, 4)

	subjectSvc := services.NewSubjectService(f.subjects, scheduler.DecayModel{})
	svc := services.NewNotificationService(
		f.notifications, f.contacts, subjectSvc,
		f.sms, f.email, pool, 10*time.Millisecond,
	)

	f.notifications.On("FindByContactAndDay", mock.Anything, "user@example.com", "+551199", mock.Anything).
		Return(nil, nil)
	f.sms.On("SendSMS", mock.Anything, "+551199", mock.Anything).Return(nil)

	var storedID string
	f.notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		storedID = n.ID
		return true
	})).Return(nil)
	f.notifications.On("Get", mock.Anything, mock.MatchedBy(func(id string) bool {
		return id == storedID
	})).Return(&models.Notification{
		ID:       storedID,
		Email:    "user@example.com",
		Subjects: []string{"a"},
		Day:      time.Now().UTC().Format("2006-01-02"),
	}, nil)
	f.subjects.On("List", mock.Anything, mock.Anything).Return([]models.Subject{
		{Name: "a", NextReviewDate: datePtr("2020-01-01")},
	}, nil)

	emailSent := make(chan struct{})
	f.email.On("SendEmail", mock.Anything, "user@example.com", "Review reminder",
		"You still have subjects waiting for review: a").
		Run(func(args mock.Arguments) { close(emailSent) }).
		Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	_, err := svc.Notify(ctx, "user@example.com", "+551199", []string{"a"}, time.Now())
	require.NoError(t, err)

	select {
	case <-emailSent:
	case <-time.After(2 * time.Second):
		t.Fatal("follow-up email never fired")
	}
	pool.Stop()
}

func TestFollowUpEmail_SkippedWhenCompleted(t *testing.T) {
	f := newNotifyFixture()
	pool := worker.NewPool(1, 4)

	subjectSvc := services.NewSubjectService(f.subjects, scheduler.DecayModel{})
	svc := services.NewNotificationService(
		f.notifications, f.contacts, subjectSvc,
		f.sms, f.email, pool, 10*time.Millisecond,
	)

	f.notifications.On("FindByContactAndDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)
	f.sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Insert", mock.Anything, mock.Anything).Return(nil)

	fetched := make(chan struct{})
	f.notifications.On("Get", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { close(fetched) }).
		Return(&models.Notification{ID: "n1", Email: "user@example.com", Completed: true}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	_, err := svc.Notify(ctx, "user@example.com", "+551199", []string{"a"}, time.Now())
	require.NoError(t, err)

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("follow-up job never ran")
	}
	pool.Stop()

	f.email.AssertNotCalled(t, "SendEmail")
}
