package mocks

import (
	"context"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, s *model.Student) (*model.Student, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByID(ctx context.Context, idNumber string) (*model.Student, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) Search(ctx context.Context, q repository.StudentQuery) (*repository.PageResult[model.Student], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Student]), args.Error(1)
}

func (m *MockStudentRepository) Update(ctx context.Context, idNumber string, s *model.Student) (*model.Student, error) {
	args := m.Called(ctx, idNumber, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) SetPhotoPath(ctx context.Context, idNumber string, path *string) (*model.Student, error) {
	args := m.Called(ctx, idNumber, path)
	if f, ok := args.Get(0).(func(context.Context, string, *string) *model.Student); ok {
		return f(ctx, idNumber, path), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) Delete(ctx context.Context, idNumber string) error {
	args := m.Called(ctx, idNumber)
	return args.Error(0)
}
