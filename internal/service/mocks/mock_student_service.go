package mocks

import (
	"context"

	"ssisapi/internal/model"
	"ssisapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockStudentService struct {
	mock.Mock
}

func (m *MockStudentService) Create(ctx context.Context, in service.CreateStudentInput) (*model.Student, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentService) Get(ctx context.Context, idNumber string) (*model.Student, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentService) Search(ctx context.Context, p service.StudentSearchParams) (*service.StudentListResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudentListResult), args.Error(1)
}

func (m *MockStudentService) Update(ctx context.Context, idNumber string, in service.UpdateStudentInput) (*model.Student, error) {
	args := m.Called(ctx, idNumber, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentService) Delete(ctx context.Context, idNumber string) error {
	args := m.Called(ctx, idNumber)
	return args.Error(0)
}
