package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into
// HTTP status codes and stable error codes.
var (
	// ErrNotFound means the referenced student/college/program/user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidContentType means the upload content type is not an allowed image type.
	ErrInvalidContentType = errors.New("content type not allowed")

	// ErrPathMismatch means the object path does not belong to the claimed student.
	ErrPathMismatch = errors.New("object path does not match student")

	// ErrObjectMissing means no object exists at the claimed path at confirm time.
	ErrObjectMissing = errors.New("uploaded object not found in storage")

	// ErrStorageUnavailable wraps object-store failures; safe to retry with backoff.
	ErrStorageUnavailable = errors.New("object storage unavailable")

	// ErrPartialFailure marks a creation saga that did not reach avatar
	// confirmation; the caller knows compensation occurred or may be needed.
	ErrPartialFailure = errors.New("student created but avatar not confirmed")

	// ErrRollbackFailed marks the loud case: the creation saga failed AND the
	// compensating delete of the student row failed, leaving an inconsistent record.
	ErrRollbackFailed = errors.New("rollback of created student failed")

	// ErrInvalidCredentials is returned on failed login attempts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError is a rejected-input error carrying a stable machine-readable
// code (e.g. "INVALID_ID_NUMBER", "STUDENT_ID_EXISTS") alongside the message.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}
