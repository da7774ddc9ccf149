package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lmendes/studytrack/internal/models"
)

// MockNotificationRepository is a mock implementation of repository.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Insert(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByContactAndDay(ctx context.Context, email, phone, day string) (*models.Notification, error) {
	args := m.Called(ctx, email, phone, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkCompleted(ctx context.Context, email, day string) error {
	args := m.Called(ctx, email, day)
	return args.Error(0)
}
