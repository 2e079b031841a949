package mocks

import (
	"context"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramRepository) FindByCode(ctx context.Context, code string) (*model.Program, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramRepository) Search(ctx context.Context, q repository.ProgramQuery) (*repository.PageResult[model.Program], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Program]), args.Error(1)
}

func (m *MockProgramRepository) Update(ctx context.Context, code string, p *model.Program) (*model.Program, error) {
	args := m.Called(ctx, code, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramRepository) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockProgramRepository) ExistsForCollege(ctx context.Context, collegeCode string) (bool, error) {
	args := m.Called(ctx, collegeCode)
	return args.Bool(0), args.Error(1)
}
