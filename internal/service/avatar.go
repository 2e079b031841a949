package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
	"ssisapi/internal/storage"
)

// allowedImageTypes maps allow-listed image MIME types to a fallback file
// extension used when the original filename carries none.
var allowedImageTypes = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

const avatarPrefix = "avatars/"

var extRE = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// UploadAuthorization is the client-facing result of requesting a direct upload:
// a presigned PUT URL scoped to exactly one object path, valid for ExpiresIn seconds.
type UploadAuthorization struct {
	UploadURL  string `json:"upload_url"`
	ObjectPath string `json:"object_path"`
	ExpiresIn  int    `json:"expires_in"`
}

// AvatarURL is the resolved display URL for a student's avatar.
// URL is null when the student has no avatar.
type AvatarURL struct {
	URL       *string `json:"url"`
	ExpiresIn int     `json:"expires_in,omitempty"`
}

// AvatarService brokers the direct-upload avatar flow. It is the only
// component allowed to mutate a student's avatar pointer.
type AvatarService interface {
	// CreateUploadAuthorization issues a presigned single-path PUT for the
	// student. No relational state changes until ConfirmUpload.
	CreateUploadAuthorization(ctx context.Context, studentID, filename, contentType string) (*UploadAuthorization, error)

	// ConfirmUpload verifies the claimed upload and commits the new avatar
	// pointer. Idempotent: re-confirming the current path is a no-op success.
	ConfirmUpload(ctx context.Context, studentID, objectPath string) (*model.Student, error)

	// ResolveDisplayURL produces a short-lived signed read URL for the
	// student's avatar, or a null URL when no avatar is set.
	ResolveDisplayURL(ctx context.Context, studentID string) (*AvatarURL, error)

	// RemoveAvatar clears the pointer and best-effort deletes the object.
	RemoveAvatar(ctx context.Context, studentID string) (*model.Student, error)
}

type avatarService struct {
	store    storage.Storage
	students repository.StudentRepository

	uploadTTL  time.Duration
	displayTTL time.Duration

	// cleanupWG tracks in-flight background deletions so tests can wait on them.
	cleanupWG sync.WaitGroup
}

// NewAvatarService constructs an AvatarService with the given URL lifetimes.
func NewAvatarService(store storage.Storage, students repository.StudentRepository, uploadTTL, displayTTL time.Duration) AvatarService {
	return &avatarService{
		store:      store,
		students:   students,
		uploadTTL:  uploadTTL,
		displayTTL: displayTTL,
	}
}

func (s *avatarService) CreateUploadAuthorization(ctx context.Context, studentID, filename, contentType string) (*UploadAuthorization, error) {
	fallbackExt, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	objectPath := avatarObjectPath(studentID, filename, fallbackExt)

	uploadURL, err := s.store.PresignPut(ctx, objectPath, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign put: %v", ErrStorageUnavailable, err)
	}

	return &UploadAuthorization{
		UploadURL:  uploadURL,
		ObjectPath: objectPath,
		ExpiresIn:  int(s.uploadTTL.Seconds()),
	}, nil
}

func (s *avatarService) ConfirmUpload(ctx context.Context, studentID, objectPath string) (*model.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// At-least-once delivery: a retried confirm of the already-committed path
	// succeeds without re-running side effects.
	if student.PhotoPath != nil && *student.PhotoPath == objectPath {
		return student, nil
	}

	// The path must have been derived for this student; a foreign path would
	// let a client point one student's avatar at another's object.
	if !PathBelongsToStudent(studentID, objectPath) {
		return nil, fmt.Errorf("%w: %q", ErrPathMismatch, objectPath)
	}

	// Verify the bytes actually landed rather than trusting the claim.
	if _, err := s.store.Stat(ctx, objectPath); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrObjectMissing, objectPath)
		}
		return nil, fmt.Errorf("%w: stat: %v", ErrStorageUnavailable, err)
	}

	previous := student.PhotoPath

	updated, err := s.students.SetPhotoPath(ctx, studentID, &objectPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if previous != nil && *previous != objectPath {
		s.scheduleDelete(*previous)
	}

	return updated, nil
}

func (s *avatarService) ResolveDisplayURL(ctx context.Context, studentID string) (*AvatarURL, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if student.PhotoPath == nil {
		return &AvatarURL{URL: nil}, nil
	}

	u, err := s.store.PresignGet(ctx, *student.PhotoPath, s.displayTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign get: %v", ErrStorageUnavailable, err)
	}

	return &AvatarURL{URL: &u, ExpiresIn: int(s.displayTTL.Seconds())}, nil
}

func (s *avatarService) RemoveAvatar(ctx context.Context, studentID string) (*model.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if student.PhotoPath == nil {
		// Nothing to delete.
		return student, nil
	}

	previous := *student.PhotoPath

	updated, err := s.students.SetPhotoPath(ctx, studentID, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.scheduleDelete(previous)

	return updated, nil
}

// scheduleDelete removes a superseded object in the background. The deletion
// never blocks or fails the user-visible response; failures are logged for
// later cleanup.
func (s *avatarService) scheduleDelete(objectPath string) {
	s.cleanupWG.Add(1)
	go func() {
		defer s.cleanupWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Delete(ctx, objectPath); err != nil {
			logCleanupFailure(objectPath, err)
		}
	}()
}

// avatarObjectPath derives the object path for a student's avatar upload:
// avatars/<studentID>/<uuid>.<ext>. The random suffix keeps concurrent uploads
// for the same student from clobbering each other; the prefix binds the path
// to its owner.
func avatarObjectPath(studentID, filename, fallbackExt string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !extRE.MatchString(ext) {
		ext = fallbackExt
	}
	return fmt.Sprintf("%s%s/%s.%s", avatarPrefix, studentID, uuid.NewString(), ext)
}

// PathBelongsToStudent re-derives the expected path prefix for the student and
// checks the claimed path against it.
func PathBelongsToStudent(studentID, objectPath string) bool {
	prefix := avatarPrefix + studentID + "/"
	return strings.HasPrefix(objectPath, prefix) && len(objectPath) > len(prefix)
}

func logCleanupFailure(objectPath string, err error) {
	entry := map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     "error",
		"component": "avatar",
		"event":     "stale_object_delete_failed",
		"path":      objectPath,
		"error":     err.Error(),
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
