package mocks

import (
	"context"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockCollegeRepository struct {
	mock.Mock
}

func (m *MockCollegeRepository) Create(ctx context.Context, c *model.College) (*model.College, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.College), args.Error(1)
}

func (m *MockCollegeRepository) FindByCode(ctx context.Context, code string) (*model.College, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.College), args.Error(1)
}

func (m *MockCollegeRepository) Search(ctx context.Context, q repository.CollegeQuery) (*repository.PageResult[model.College], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.College]), args.Error(1)
}

func (m *MockCollegeRepository) Update(ctx context.Context, code string, c *model.College) (*model.College, error) {
	args := m.Called(ctx, code, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.College), args.Error(1)
}

func (m *MockCollegeRepository) Delete(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
