package mocks

import (
	"context"

	"ssisapi/internal/model"
	"ssisapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCollegeService struct {
	mock.Mock
}

func (m *MockCollegeService) Create(ctx context.Context, c model.College) (*model.College, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.College), args.Error(1)
}

func (m *MockCollegeService) Get(ctx context.Context, code string) (*model.College, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.College), args.Error(1)
}

func (m *MockCollegeService) List(ctx context.Context, params service.ListParams) (*service.CollegeListResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollegeListResult), args.Error(1)
}

func (m *MockCollegeService) Update(ctx context.Context, code string, c model.College) (*model.College, error) {
	args := m.Called(ctx, code, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.College), args.Error(1)
}

func (m *MockCollegeService) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockProgramService struct {
	mock.Mock
}

func (m *MockProgramService) Create(ctx context.Context, p model.Program) (*model.Program, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramService) Get(ctx context.Context, code string) (*model.Program, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramService) List(ctx context.Context, params service.ListParams, collegeCode *string) (*service.ProgramListResult, error) {
	args := m.Called(ctx, params, collegeCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProgramListResult), args.Error(1)
}

func (m *MockProgramService) Update(ctx context.Context, code string, p model.Program) (*model.Program, error) {
	args := m.Called(ctx, code, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramService) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
