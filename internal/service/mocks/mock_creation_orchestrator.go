package mocks

import (
	"context"

	"ssisapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCreationOrchestrator struct {
	mock.Mock
}

func (m *MockCreationOrchestrator) Begin(ctx context.Context, in service.CreateStudentInput, filename, contentType string) (*service.CreationBegun, error) {
	args := m.Called(ctx, in, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreationBegun), args.Error(1)
}

func (m *MockCreationOrchestrator) Run(ctx context.Context, in service.CreateStudentInput, filename, contentType string, upload service.UploadFunc) (*service.CreationResult, error) {
	args := m.Called(ctx, in, filename, contentType, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreationResult), args.Error(1)
}

func (m *MockCreationOrchestrator) Abort(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}
