package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/repository"
	"github.com/lmendes/studytrack/internal/repository/sqlite"
	"github.com/lmendes/studytrack/internal/testutil"
)

type NotificationRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.NotificationRepository
}

func (s *NotificationRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewNotificationRepository(s.db)
}

func (s *NotificationRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *NotificationRepositorySuite) newNotification(id, day string) models.Notification {
	return models.Notification{
		ID:       id,
		Email:    "user@example.com",
		Phone:    "+5511999999999",
		Subjects: []string{"Algorithms", "Calculus"},
		Day:      day,
		SentAt:   time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

func (s *NotificationRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newNotification("n1", "2024-01-10")))

	got, err := s.repo.Get(ctx, "n1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("user@example.com", got.Email)
	s.Equal("+5511999999999", got.Phone)
	s.Equal([]string{"Algorithms", "Calculus"}, got.Subjects)
	s.Equal("2024-01-10", got.Day)
	s.False(got.Completed)
}

func (s *NotificationRepositorySuite) TestGetNotFound() {
	got, err := s.repo.Get(context.Background(), "missing")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *NotificationRepositorySuite) TestFindByContactAndDay() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newNotification("n1", "2024-01-10")))

	got, err := s.repo.FindByContactAndDay(ctx, "user@example.com", "+5511999999999", "2024-01-10")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("n1", got.ID)

	// A different day means no match: one notification per contact per day.
	got, err = s.repo.FindByContactAndDay(ctx, "user@example.com", "+5511999999999", "2024-01-11")
	s.Require().NoError(err)
	s.Nil(got)

	got, err = s.repo.FindByContactAndDay(ctx, "other@example.com", "+5511999999999", "2024-01-10")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *NotificationRepositorySuite) TestDuplicateContactDayRejected() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newNotification("n1", "2024-01-10")))

	err := s.repo.Insert(ctx, s.newNotification("n2", "2024-01-10"))
	s.Error(err)
}

func (s *NotificationRepositorySuite) TestMarkCompleted() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newNotification("n1", "2024-01-10")))

	s.Require().NoError(s.repo.MarkCompleted(ctx, "user@example.com", "2024-01-10"))

	got, err := s.repo.Get(ctx, "n1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.True(got.Completed)
}

func TestNotificationRepositorySuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositorySuite))
}
