package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"ssisapi/internal/model"
	repoMocks "ssisapi/internal/repository/mocks"
	"ssisapi/internal/storage"
	storeMocks "ssisapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string { return &s }

func TestAvatarService_CreateUploadAuthorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		studentID   string
		filename    string
		contentType string
		setupMocks  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository)
		wantErr     error
		wantSuffix  string
	}{
		{
			name:        "happy path",
			studentID:   "2025-0001",
			filename:    "me.PNG",
			contentType: "image/png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
				mStore.On("PresignPut", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "avatars/2025-0001/") && strings.HasSuffix(key, ".png")
				}), 10*time.Minute).Return("https://minio/put", nil)
			},
			wantSuffix: ".png",
		},
		{
			name:        "extension falls back to content type",
			studentID:   "2025-0001",
			filename:    "photo",
			contentType: "image/webp",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
				mStore.On("PresignPut", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, ".webp")
				}), 10*time.Minute).Return("https://minio/put", nil)
			},
			wantSuffix: ".webp",
		},
		{
			name:        "content type not allowed",
			studentID:   "2025-0001",
			filename:    "evil.exe",
			contentType: "application/octet-stream",
			setupMocks:  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {},
			wantErr:     ErrInvalidContentType,
		},
		{
			name:        "student not found",
			studentID:   "2025-9999",
			filename:    "me.jpg",
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-9999").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:        "storage unavailable",
			studentID:   "2025-0001",
			filename:    "me.jpg",
			contentType: "image/jpeg",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
				mStore.On("PresignPut", ctx, mock.Anything, mock.Anything).
					Return("", errors.New("connection refused"))
			},
			wantErr: ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockStudentRepository)
			tt.setupMocks(mStore, mRepo)

			svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute)
			auth, err := svc.CreateUploadAuthorization(ctx, tt.studentID, tt.filename, tt.contentType)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, auth)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "https://minio/put", auth.UploadURL)
				assert.True(t, strings.HasPrefix(auth.ObjectPath, "avatars/"+tt.studentID+"/"))
				assert.True(t, strings.HasSuffix(auth.ObjectPath, tt.wantSuffix))
				assert.Equal(t, 600, auth.ExpiresIn)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAvatarService_ConfirmUpload(t *testing.T) {
	ctx := context.Background()
	path := "avatars/2025-0001/abc123.png"

	tests := []struct {
		name       string
		studentID  string
		objectPath string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository)
		wantErr    error
	}{
		{
			name:       "first confirm commits the pointer",
			studentID:  "2025-0001",
			objectPath: path,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
				mStore.On("Stat", ctx, path).Return(storage.ObjectInfo{Key: path}, nil)
				mRepo.On("SetPhotoPath", ctx, "2025-0001", &path).
					Return(&model.Student{IDNumber: "2025-0001", PhotoPath: &path}, nil)
			},
		},
		{
			name:       "re-confirming the committed path is a no-op",
			studentID:  "2025-0001",
			objectPath: path,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001", PhotoPath: strPtr(path)}, nil)
			},
		},
		{
			name:       "foreign path is rejected",
			studentID:  "2025-0001",
			objectPath: "avatars/2025-0002/steal.png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
			},
			wantErr: ErrPathMismatch,
		},
		{
			name:       "path outside avatar prefix is rejected",
			studentID:  "2025-0001",
			objectPath: "documents/2025-0001/file.png",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
			},
			wantErr: ErrPathMismatch,
		},
		{
			name:       "object never uploaded",
			studentID:  "2025-0001",
			objectPath: path,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
				mStore.On("Stat", ctx, path).
					Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)
			},
			wantErr: ErrObjectMissing,
		},
		{
			name:       "stat probe fails",
			studentID:  "2025-0001",
			objectPath: path,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-0001").
					Return(&model.Student{IDNumber: "2025-0001"}, nil)
				mStore.On("Stat", ctx, path).
					Return(storage.ObjectInfo{}, errors.New("timeout"))
			},
			wantErr: ErrStorageUnavailable,
		},
		{
			name:       "student not found",
			studentID:  "2025-9999",
			objectPath: path,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockStudentRepository) {
				mRepo.On("FindByID", ctx, "2025-9999").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockStudentRepository)
			tt.setupMocks(mStore, mRepo)

			svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute)
			student, err := svc.ConfirmUpload(ctx, tt.studentID, tt.objectPath)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, student)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.objectPath, *student.PhotoPath)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

// Confirming a replacement avatar must leave exactly one live object: the old
// one is deleted in the background after the pointer swap.
func TestAvatarService_ConfirmUpload_DeletesReplacedObject(t *testing.T) {
	ctx := context.Background()
	oldPath := "avatars/2025-0001/old.png"
	newPath := "avatars/2025-0001/new.png"

	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockStudentRepository)

	mRepo.On("FindByID", ctx, "2025-0001").
		Return(&model.Student{IDNumber: "2025-0001", PhotoPath: &oldPath}, nil)
	mStore.On("Stat", ctx, newPath).Return(storage.ObjectInfo{Key: newPath}, nil)
	mRepo.On("SetPhotoPath", ctx, "2025-0001", &newPath).
		Return(&model.Student{IDNumber: "2025-0001", PhotoPath: &newPath}, nil)
	mStore.On("Delete", mock.Anything, oldPath).Return(nil)

	svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute).(*avatarService)
	student, err := svc.ConfirmUpload(ctx, "2025-0001", newPath)

	assert.NoError(t, err)
	assert.Equal(t, newPath, *student.PhotoPath)

	svc.cleanupWG.Wait()
	mStore.AssertCalled(t, "Delete", mock.Anything, oldPath)
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestAvatarService_ResolveDisplayURL(t *testing.T) {
	ctx := context.Background()
	path := "avatars/2025-0001/abc.png"

	t.Run("student with avatar gets a signed url", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStudentRepository)
		mRepo.On("FindByID", ctx, "2025-0001").
			Return(&model.Student{IDNumber: "2025-0001", PhotoPath: &path}, nil)
		mStore.On("PresignGet", ctx, path, 5*time.Minute).
			Return("https://minio/get?sig=x", nil)

		svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute)
		res, err := svc.ResolveDisplayURL(ctx, "2025-0001")

		assert.NoError(t, err)
		assert.Equal(t, "https://minio/get?sig=x", *res.URL)
		assert.Equal(t, 300, res.ExpiresIn)
	})

	t.Run("student without avatar gets a null url", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStudentRepository)
		mRepo.On("FindByID", ctx, "2025-0001").
			Return(&model.Student{IDNumber: "2025-0001"}, nil)

		svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute)
		res, err := svc.ResolveDisplayURL(ctx, "2025-0001")

		assert.NoError(t, err)
		assert.Nil(t, res.URL)
		mStore.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("student not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStudentRepository)
		mRepo.On("FindByID", ctx, "2025-9999").Return(nil, sql.ErrNoRows)

		svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute)
		_, err := svc.ResolveDisplayURL(ctx, "2025-9999")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAvatarService_RemoveAvatar(t *testing.T) {
	ctx := context.Background()
	path := "avatars/2025-0001/abc.png"

	t.Run("clears pointer then deletes object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStudentRepository)
		mRepo.On("FindByID", ctx, "2025-0001").
			Return(&model.Student{IDNumber: "2025-0001", PhotoPath: &path}, nil)
		mRepo.On("SetPhotoPath", ctx, "2025-0001", (*string)(nil)).
			Return(&model.Student{IDNumber: "2025-0001"}, nil)
		mStore.On("Delete", mock.Anything, path).Return(nil)

		svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute).(*avatarService)
		student, err := svc.RemoveAvatar(ctx, "2025-0001")

		assert.NoError(t, err)
		assert.Nil(t, student.PhotoPath)

		svc.cleanupWG.Wait()
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("no avatar is a no-op", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockStudentRepository)
		mRepo.On("FindByID", ctx, "2025-0001").
			Return(&model.Student{IDNumber: "2025-0001"}, nil)

		svc := NewAvatarService(mStore, mRepo, 10*time.Minute, 5*time.Minute)
		student, err := svc.RemoveAvatar(ctx, "2025-0001")

		assert.NoError(t, err)
		assert.Nil(t, student.PhotoPath)
		mRepo.AssertNotCalled(t, "SetPhotoPath", mock.Anything, mock.Anything, mock.Anything)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestPathBelongsToStudent(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
		path      string
		want      bool
	}{
		{"own path", "2025-0001", "avatars/2025-0001/x.png", true},
		{"other student", "2025-0001", "avatars/2025-0002/x.png", false},
		{"prefix only, no object", "2025-0001", "avatars/2025-0001/", false},
		{"wrong root", "2025-0001", "uploads/2025-0001/x.png", false},
		{"id is a prefix of another id", "2025-0001", "avatars/2025-00011/x.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathBelongsToStudent(tt.studentID, tt.path))
		})
	}
}

// Every generated upload path must pass the ownership check used at confirm time.
func TestAvatarObjectPath_RoundTrip(t *testing.T) {
	for _, filename := range []string{"me.jpg", "photo", "weird..name.png", "UPPER.GIF"} {
		p := avatarObjectPath("2025-0001", filename, "png")
		assert.True(t, PathBelongsToStudent("2025-0001", p), "path %q from %q", p, filename)
		assert.False(t, PathBelongsToStudent("2025-0002", p))
	}
}
