package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lmendes/studytrack/internal/cloud"
)

// MockMirrorStore is a mock implementation of cloud.MirrorStore
type MockMirrorStore struct {
	mock.Mock
}

func (m *MockMirrorStore) Put(ctx context.Context, snapshot cloud.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockMirrorStore) Fetch(ctx context.Context, email string) (*cloud.Snapshot, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloud.Snapshot), args.Error(1)
}

func (m *MockMirrorStore) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockMirrorStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
