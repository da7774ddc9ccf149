package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lmendes/studytrack/internal/models"
)

// MockContactRepository is a mock implementation of repository.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Get(ctx context.Context) (*models.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, c models.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
