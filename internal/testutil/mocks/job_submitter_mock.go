package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/lmendes/studytrack/internal/worker"
)

// MockJobSubmitter is a mock implementation of services.JobSubmitter
type MockJobSubmitter struct {
	mock.Mock
}

func (m *MockJobSubmitter) Submit(job worker.Job) {
	m.Called(job)
}
