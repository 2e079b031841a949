package mocks

import (
	"context"

	"ssisapi/internal/model"
	"ssisapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAvatarService struct {
	mock.Mock
}

func (m *MockAvatarService) CreateUploadAuthorization(ctx context.Context, studentID, filename, contentType string) (*service.UploadAuthorization, error) {
	args := m.Called(ctx, studentID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadAuthorization), args.Error(1)
}

func (m *MockAvatarService) ConfirmUpload(ctx context.Context, studentID, objectPath string) (*model.Student, error) {
	args := m.Called(ctx, studentID, objectPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockAvatarService) ResolveDisplayURL(ctx context.Context, studentID string) (*service.AvatarURL, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AvatarURL), args.Error(1)
}

func (m *MockAvatarService) RemoveAvatar(ctx context.Context, studentID string) (*model.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}
