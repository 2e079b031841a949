package service

import (
	"context"
	"errors"
	"fmt"

	"ssisapi/internal/model"
)

// The product requires that a student does not exist without a photo, but the
// student row (relational store) and the avatar bytes (object store) cannot be
// committed atomically. CreationOrchestrator models the pair as an explicit
// saga: insert row, direct-upload, confirm, compensating with a row delete
// when the avatar never materializes.

// CreationState is the terminal state of one creation attempt.
type CreationState int

const (
	// StateStudentCreated: row inserted, upload authorization issued, outcome pending.
	StateStudentCreated CreationState = iota + 1
	// StateAvatarConfirmed: terminal success.
	StateAvatarConfirmed
	// StateStudentRolledBack: terminal failure, row deleted (compensated).
	StateStudentRolledBack
	// StateStudentCreatedNoAvatar: terminal inconsistency. The row exists
	// without a confirmed avatar and compensation did not succeed.
	StateStudentCreatedNoAvatar
)

func (s CreationState) String() string {
	switch s {
	case StateStudentCreated:
		return "STUDENT_CREATED"
	case StateAvatarConfirmed:
		return "AVATAR_CONFIRMED"
	case StateStudentRolledBack:
		return "STUDENT_ROLLED_BACK"
	case StateStudentCreatedNoAvatar:
		return "STUDENT_CREATED_NO_AVATAR"
	default:
		return "UNKNOWN"
	}
}

// CreationBegun is returned by Begin: the inserted student plus the upload
// authorization the client must consume before confirming.
type CreationBegun struct {
	Student      *model.Student       `json:"data"`
	AvatarUpload *UploadAuthorization `json:"avatar_upload"`
}

// CreationResult is the terminal outcome of a Run.
type CreationResult struct {
	State   CreationState
	Student *model.Student
}

// UploadFunc performs the direct upload against the presigned URL on behalf of
// the caller. It exists so in-process callers and tests can drive the full
// saga; over HTTP the client performs this step itself between Begin and the
// confirm endpoint.
type UploadFunc func(ctx context.Context, auth *UploadAuthorization) error

// CreationOrchestrator coordinates student creation with the mandatory avatar.
type CreationOrchestrator interface {
	// Begin inserts the student row and issues the upload authorization.
	// On authorization failure the row is compensated away before returning.
	Begin(ctx context.Context, in CreateStudentInput, filename, contentType string) (*CreationBegun, error)

	// Run drives a whole creation attempt: Begin, the provided upload step,
	// then confirmation, compensating on failure. The returned state is
	// terminal; errors wrap ErrPartialFailure (compensated) or
	// ErrRollbackFailed (inconsistent).
	Run(ctx context.Context, in CreateStudentInput, filename, contentType string, upload UploadFunc) (*CreationResult, error)

	// Abort compensates an in-flight creation whose upload the client gave up
	// on: the row is deleted unless an avatar was already confirmed.
	Abort(ctx context.Context, studentID string) error
}

type creationOrchestrator struct {
	students StudentService
	avatars  AvatarService
}

// NewCreationOrchestrator constructs a CreationOrchestrator.
func NewCreationOrchestrator(students StudentService, avatars AvatarService) CreationOrchestrator {
	return &creationOrchestrator{students: students, avatars: avatars}
}

func (o *creationOrchestrator) Begin(ctx context.Context, in CreateStudentInput, filename, contentType string) (*CreationBegun, error) {
	// A content type that can never be authorized must be rejected before the
	// row exists; otherwise an invalid input costs an insert-and-compensate
	// round trip and surfaces as a retryable failure.
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	student, err := o.students.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	auth, err := o.avatars.CreateUploadAuthorization(ctx, student.IDNumber, filename, contentType)
	if err != nil {
		// No upload can ever happen; the row must not outlive the attempt.
		if delErr := o.compensate(ctx, student.IDNumber); delErr != nil {
			return nil, fmt.Errorf("%w: authorize upload: %v (delete student: %v)", ErrRollbackFailed, err, delErr)
		}
		return nil, fmt.Errorf("%w: authorize upload: %w", ErrPartialFailure, err)
	}

	return &CreationBegun{Student: student, AvatarUpload: auth}, nil
}

func (o *creationOrchestrator) Run(ctx context.Context, in CreateStudentInput, filename, contentType string, upload UploadFunc) (*CreationResult, error) {
	begun, err := o.Begin(ctx, in, filename, contentType)
	switch {
	case errors.Is(err, ErrRollbackFailed):
		return &CreationResult{State: StateStudentCreatedNoAvatar}, err
	case errors.Is(err, ErrPartialFailure):
		return &CreationResult{State: StateStudentRolledBack}, err
	case err != nil:
		// Rejected before any row existed; there is nothing to report on.
		return nil, err
	}
	studentID := begun.Student.IDNumber

	if err := upload(ctx, begun.AvatarUpload); err != nil {
		return o.rollback(ctx, studentID, fmt.Errorf("direct upload: %w", err))
	}

	confirmed, err := o.avatars.ConfirmUpload(ctx, studentID, begun.AvatarUpload.ObjectPath)
	if err != nil {
		return o.rollback(ctx, studentID, fmt.Errorf("confirm upload: %w", err))
	}

	return &CreationResult{State: StateAvatarConfirmed, Student: confirmed}, nil
}

func (o *creationOrchestrator) Abort(ctx context.Context, studentID string) error {
	student, err := o.students.Get(ctx, studentID)
	if err != nil {
		return err
	}
	if student.PhotoPath != nil {
		// Creation already completed; nothing to compensate.
		return validationErr("CREATION_ALREADY_CONFIRMED", "avatar already confirmed for this student")
	}
	if err := o.students.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("%w: delete student %s: %v", ErrRollbackFailed, studentID, err)
	}
	return nil
}

// rollback compensates a failed attempt by deleting the created row. It runs
// on a detached context so a caller timeout that doomed the upload cannot also
// doom the compensation.
func (o *creationOrchestrator) rollback(ctx context.Context, studentID string, cause error) (*CreationResult, error) {
	if err := o.compensate(ctx, studentID); err != nil {
		return &CreationResult{State: StateStudentCreatedNoAvatar},
			fmt.Errorf("%w: %v (delete student %s: %v)", ErrRollbackFailed, cause, studentID, err)
	}
	return &CreationResult{State: StateStudentRolledBack},
		fmt.Errorf("%w: %v (student %s rolled back)", ErrPartialFailure, cause, studentID)
}

func (o *creationOrchestrator) compensate(ctx context.Context, studentID string) error {
	return o.students.Delete(context.WithoutCancel(ctx), studentID)
}
