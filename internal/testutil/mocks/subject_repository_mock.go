package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lmendes/studytrack/internal/models"
)

// MockSubjectRepository is a mock implementation of repository.SubjectRepository
type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) Get(ctx context.Context, id int64) (*models.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *MockSubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subject), args.Error(1)
}

func (m *MockSubjectRepository) Insert(ctx context.Context, subject models.Subject) (int64, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubjectRepository) Update(ctx context.Context, subject models.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubjectRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubjectRepository) ReplaceAll(ctx context.Context, subjects []models.Subject) error {
	args := m.Called(ctx, subjects)
	return args.Error(0)
}

func (m *MockSubjectRepository) InsertReviewEntry(ctx context.Context, entry models.ReviewEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSubjectRepository) ReviewHistory(ctx context.Context, subjectID int64) ([]models.ReviewEntry, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewEntry), args.Error(1)
}

func (m *MockSubjectRepository) SetReviewCompleted(ctx context.Context, names []string, completed bool) error {
	args := m.Called(ctx, names, completed)
	return args.Error(0)
}
