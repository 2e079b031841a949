package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ssisapi/internal/model"
	repoMocks "ssisapi/internal/repository/mocks"
	"ssisapi/internal/storage"
	storeMocks "ssisapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// sagaFixture wires real student and avatar services over mocked repositories
// and storage, so Run exercises the same code paths the HTTP surface does.
type sagaFixture struct {
	students *repoMocks.MockStudentRepository
	programs *repoMocks.MockProgramRepository
	store    *storeMocks.MockStorage
	orch     CreationOrchestrator
}

func newSagaFixture() *sagaFixture {
	f := &sagaFixture{
		students: new(repoMocks.MockStudentRepository),
		programs: new(repoMocks.MockProgramRepository),
		store:    new(storeMocks.MockStorage),
	}
	studentSvc := NewStudentService(f.students, f.programs)
	avatarSvc := NewAvatarService(f.store, f.students, 10*time.Minute, 5*time.Minute)
	f.orch = NewCreationOrchestrator(studentSvc, avatarSvc)
	return f
}

var sagaInput = CreateStudentInput{
	IDNumber:    "2025-0001",
	FirstName:   "Juan",
	LastName:    "Dela Cruz",
	YearLevel:   2,
	Gender:      "MALE",
	ProgramCode: "BSCS",
}

// expectBegin registers the Begin leg: program check, duplicate check, row
// insert, existence check for the upload authorization, presign.
func (f *sagaFixture) expectBegin() *model.Student {
	created := &model.Student{
		IDNumber:    sagaInput.IDNumber,
		FirstName:   sagaInput.FirstName,
		LastName:    sagaInput.LastName,
		YearLevel:   sagaInput.YearLevel,
		Gender:      sagaInput.Gender,
		ProgramCode: sagaInput.ProgramCode,
	}
	f.programs.On("FindByCode", mock.Anything, "BSCS").
		Return(&model.Program{ProgramCode: "BSCS"}, nil)
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(nil, sql.ErrNoRows).Once()
	f.students.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(created, nil).Once()
	f.store.On("PresignPut", mock.Anything, mock.Anything, 10*time.Minute).
		Return("https://minio/put", nil)
	return created
}

func (f *sagaFixture) expectCompensation(created *model.Student, deleteErr error) {
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(created, nil).Once()
	f.students.On("Delete", mock.Anything, "2025-0001").Return(deleteErr)
}

func TestCreationOrchestrator_Run_HappyPath(t *testing.T) {
	f := newSagaFixture()
	created := f.expectBegin()

	var uploadedPath string
	upload := func(ctx context.Context, auth *UploadAuthorization) error {
		uploadedPath = auth.ObjectPath
		return nil
	}

	// Confirm leg: lookup, stat probe, pointer commit.
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(created, nil).Once()
	f.store.On("Stat", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil)
	f.students.On("SetPhotoPath", mock.Anything, "2025-0001", mock.Anything).
		Return(func(ctx context.Context, id string, path *string) *model.Student {
			s := *created
			s.PhotoPath = path
			return &s
		}, nil)

	res, err := f.orch.Run(context.Background(), sagaInput, "me.png", "image/png", upload)

	assert.NoError(t, err)
	assert.Equal(t, StateAvatarConfirmed, res.State)
	assert.Equal(t, "AVATAR_CONFIRMED", res.State.String())
	assert.NotNil(t, res.Student.PhotoPath)
	assert.Equal(t, uploadedPath, *res.Student.PhotoPath)
	f.students.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func TestCreationOrchestrator_Run_UploadFails_RollsBack(t *testing.T) {
	f := newSagaFixture()
	created := f.expectBegin()
	f.expectCompensation(created, nil)

	upload := func(ctx context.Context, auth *UploadAuthorization) error {
		return errors.New("connection reset during PUT")
	}

	res, err := f.orch.Run(context.Background(), sagaInput, "me.png", "image/png", upload)

	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.Equal(t, StateStudentRolledBack, res.State)
	f.students.AssertCalled(t, "Delete", mock.Anything, "2025-0001")
	f.store.AssertNotCalled(t, "Stat", mock.Anything, mock.Anything)
}

func TestCreationOrchestrator_Run_ObjectMissingAtConfirm_RollsBack(t *testing.T) {
	f := newSagaFixture()
	created := f.expectBegin()

	// Client claims success but nothing landed in the bucket.
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(created, nil).Once()
	f.store.On("Stat", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)
	f.expectCompensation(created, nil)

	upload := func(ctx context.Context, auth *UploadAuthorization) error { return nil }

	res, err := f.orch.Run(context.Background(), sagaInput, "me.png", "image/png", upload)

	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.Equal(t, StateStudentRolledBack, res.State)
	f.students.AssertNotCalled(t, "SetPhotoPath", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreationOrchestrator_Run_CompensationFails_LoudInconsistency(t *testing.T) {
	f := newSagaFixture()
	created := f.expectBegin()
	f.expectCompensation(created, errors.New("db connection lost"))

	upload := func(ctx context.Context, auth *UploadAuthorization) error {
		return errors.New("upload timed out")
	}

	res, err := f.orch.Run(context.Background(), sagaInput, "me.png", "image/png", upload)

	assert.ErrorIs(t, err, ErrRollbackFailed)
	assert.Equal(t, StateStudentCreatedNoAvatar, res.State)
	assert.Equal(t, "STUDENT_CREATED_NO_AVATAR", res.State.String())
}

// A caller timeout that kills the upload must not also kill the compensating
// delete: rollback runs on a detached context.
func TestCreationOrchestrator_Run_CompensatesAfterContextCancel(t *testing.T) {
	f := newSagaFixture()
	created := f.expectBegin()

	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(created, nil).Once()
	f.students.On("Delete", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "2025-0001").Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	upload := func(ctx context.Context, auth *UploadAuthorization) error {
		cancel()
		return ctx.Err()
	}

	res, err := f.orch.Run(ctx, sagaInput, "me.png", "image/png", upload)

	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.Equal(t, StateStudentRolledBack, res.State)
	f.students.AssertExpectations(t)
}

func TestCreationOrchestrator_Begin_PresignFails_CompensatesRow(t *testing.T) {
	f := newSagaFixture()
	created := &model.Student{IDNumber: "2025-0001", ProgramCode: "BSCS"}

	f.programs.On("FindByCode", mock.Anything, "BSCS").
		Return(&model.Program{ProgramCode: "BSCS"}, nil)
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(nil, sql.ErrNoRows).Once()
	f.students.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	f.students.On("FindByID", mock.Anything, "2025-0001").
		Return(created, nil).Twice() // upload auth lookup, then delete lookup
	f.store.On("PresignPut", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("minio unreachable"))
	f.students.On("Delete", mock.Anything, "2025-0001").Return(nil)

	begun, err := f.orch.Begin(context.Background(), sagaInput, "me.png", "image/png")

	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Nil(t, begun)
	f.students.AssertCalled(t, "Delete", mock.Anything, "2025-0001")
}

// A content type outside the image allow-list can never be authorized, so the
// attempt is rejected synchronously: no row insert, no compensation, and the
// error reads as invalid input rather than a retryable creation failure.
func TestCreationOrchestrator_Begin_DisallowedContentType_NoRow(t *testing.T) {
	f := newSagaFixture()

	begun, err := f.orch.Begin(context.Background(), sagaInput, "cv.pdf", "application/pdf")

	assert.ErrorIs(t, err, ErrInvalidContentType)
	assert.NotErrorIs(t, err, ErrPartialFailure)
	assert.Nil(t, begun)
	f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.students.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreationOrchestrator_Run_RejectedInput_NoResult(t *testing.T) {
	f := newSagaFixture()

	upload := func(ctx context.Context, auth *UploadAuthorization) error {
		t.Fatal("upload must not run for a rejected input")
		return nil
	}

	res, err := f.orch.Run(context.Background(), sagaInput, "cv.pdf", "application/pdf", upload)

	assert.ErrorIs(t, err, ErrInvalidContentType)
	// No row ever existed, so the result must not claim a rollback.
	assert.Nil(t, res)
	f.students.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreationOrchestrator_Begin_ValidationFailure_NoRow(t *testing.T) {
	f := newSagaFixture()

	in := sagaInput
	in.YearLevel = 9

	begun, err := f.orch.Begin(context.Background(), in, "me.png", "image/png")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "INVALID_YEAR_LEVEL", verr.Code)
	assert.Nil(t, begun)
	f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreationOrchestrator_Abort(t *testing.T) {
	t.Run("deletes an unconfirmed row", func(t *testing.T) {
		f := newSagaFixture()
		pending := &model.Student{IDNumber: "2025-0001"}
		f.students.On("FindByID", mock.Anything, "2025-0001").Return(pending, nil)
		f.students.On("Delete", mock.Anything, "2025-0001").Return(nil)

		assert.NoError(t, f.orch.Abort(context.Background(), "2025-0001"))
		f.students.AssertExpectations(t)
	})

	t.Run("refuses once the avatar is confirmed", func(t *testing.T) {
		f := newSagaFixture()
		path := "avatars/2025-0001/x.png"
		f.students.On("FindByID", mock.Anything, "2025-0001").
			Return(&model.Student{IDNumber: "2025-0001", PhotoPath: &path}, nil)

		err := f.orch.Abort(context.Background(), "2025-0001")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "CREATION_ALREADY_CONFIRMED", verr.Code)
		f.students.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
