package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lmendes/studytrack/internal/errors"
	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/scheduler"
	"github.com/lmendes/studytrack/internal/services"
	"github.com/lmendes/studytrack/internal/testutil/mocks"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(value string) *time.Time {
	t := day(value)
	return &t
}

func TestCreate_EmptyName(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	_, err := svc.Create(context.Background(), "   ", "", nil)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	repo.AssertNotCalled(t, "Insert")
}

func TestCreate_DefaultsAndManualDate(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(s models.Subject) bool {
		return s.Name == "Algorithms" &&
			s.Stability == 1.0 && s.Difficulty == 1.0 &&
			s.NextReviewDate != nil &&
			s.ManualReviewDate != nil &&
			s.ManualReviewDate.Format("2006-01-02") == "2030-05-01"
	})).Return(int64(7), nil)

	subject, err := svc.Create(context.Background(), " Algorithms ", "notes", datePtr("2030-05-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), subject.ID)
	repo.AssertExpectations(t)
}

func TestReview_NotFound(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	repo.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	_, _, err := svc.Review(context.Background(), 42, models.RatingGood, day("2024-01-02"))
	require.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}

func TestReview_UpdatesAndStoresHistory(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	subject := &models.Subject{
		ID:               1,
		Name:             "Calculus",
		Stability:        1.0,
		Difficulty:       1.0,
		LastReviewDate:   day("2024-01-01"),
		NextReviewDate:   datePtr("2024-01-02"),
		ManualReviewDate: datePtr("2024-01-02"),
	}
	repo.On("Get", mock.Anything, int64(1)).Return(subject, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Subject) bool {
		// A review consumes the manual override and opens a new cycle.
		return s.ManualReviewDate == nil && !s.ReviewCompleted && s.RepeatCount == 1
	})).Return(nil)
	repo.On("InsertReviewEntry", mock.Anything, mock.MatchedBy(func(e models.ReviewEntry) bool {
		return e.SubjectID == 1 && e.Rating == models.RatingGood
	})).Return(nil)

	updated, graduated, err := svc.Review(context.Background(), 1, models.RatingGood, day("2024-01-02"))
	require.NoError(t, err)
	assert.False(t, graduated)
	assert.InDelta(t, 1.2, updated.Stability, 1e-9)
	repo.AssertExpectations(t)
}

func TestReview_GraduationDeletes(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.FixedInterval{})

	subject := &models.Subject{
		ID:             2,
		Name:           "History",
		Stability:      1.0,
		Difficulty:     1.0,
		LastReviewDate: day("2024-01-01"),
		NextReviewDate: datePtr("2024-01-02"),
		RepeatCount:    4,
	}
	repo.On("Get", mock.Anything, int64(2)).Return(subject, nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(nil)

	_, graduated, err := svc.Review(context.Background(), 2, models.RatingGood, day("2024-01-02"))
	require.NoError(t, err)
	assert.True(t, graduated)
	repo.AssertNotCalled(t, "Update")
	repo.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	today := day("2024-01-10")
	repo.On("List", mock.Anything, models.SubjectFilter{}).Return([]models.Subject{
		{Name: "due and reviewed", RepeatCount: 3, NextReviewDate: datePtr("2024-01-09")},
		{Name: "not due", RepeatCount: 1, NextReviewDate: datePtr("2024-01-20")},
		{Name: "due, never reviewed", NextReviewDate: datePtr("2024-01-10")},
	}, nil)

	stats, err := svc.Stats(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Reviewed)
	assert.Equal(t, 2, stats.DueToday)
}

func TestImport_FillsDefaultsAndSkipsEmptyNames(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	var replaced []models.Subject
	repo.On("ReplaceAll", mock.Anything, mock.MatchedBy(func(subjects []models.Subject) bool {
		replaced = subjects
		return true
	})).Return(nil)

	imported, err := svc.Import(context.Background(), []models.Subject{
		{Name: "valid", Stability: 2.0, Difficulty: 0.8, NextReviewDate: datePtr("2024-02-01")},
		{Name: "  "},
		{Name: "bare"},
	}, day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	require.Len(t, replaced, 2)

	assert.Equal(t, 2.0, replaced[0].Stability)

	bare := replaced[1]
	assert.Equal(t, "bare", bare.Name)
	assert.Equal(t, 1.0, bare.Stability)
	assert.Equal(t, 1.0, bare.Difficulty)
	require.NotNil(t, bare.NextReviewDate)
	assert.Equal(t, "2024-01-10", bare.NextReviewDate.Format("2006-01-02"))
	assert.Equal(t, "2024-01-10", bare.LastReviewDate.Format("2006-01-02"))
}

func TestStillDue(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	names := []string{"a", "b", "c"}
	repo.On("List", mock.Anything, models.SubjectFilter{Names: names}).Return([]models.Subject{
		{Name: "a", NextReviewDate: datePtr("2024-01-09")},
		{Name: "b", NextReviewDate: datePtr("2024-01-09"), ReviewCompleted: true},
		{Name: "c", NextReviewDate: datePtr("2024-01-20")},
	}, nil)

	stillDue, err := svc.StillDue(context.Background(), names, day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, stillDue)
}

func TestStillDue_EmptyInput(t *testing.T) {
	repo := new(mocks.MockSubjectRepository)
	svc := services.NewSubjectService(repo, scheduler.DecayModel{})

	stillDue, err := svc.StillDue(context.Background(), nil, day("2024-01-10"))
	require.NoError(t, err)
	assert.Empty(t, stillDue)
	repo.AssertNotCalled(t, "List")
}
