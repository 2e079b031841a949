package repository

import (
	"context"

	"ssisapi/internal/model"
)

// StudentQuery holds search, filter, and sort parameters for listing students.
// SearchBy and SortBy are validated against column whitelists by the
// implementation; zero values mean "no search" / default sort.
type StudentQuery struct {
	SearchBy   string
	SearchTerm string

	Gender      *string
	YearLevel   *int
	ProgramCode *string

	SortBy    string
	SortOrder string

	PageQuery
}

// StudentRepository defines data access for students using SQL queries only.
// No business logic here, strictly persistence operations.
type StudentRepository interface {
	// Create inserts a new student row and returns the stored record.
	Create(ctx context.Context, s *model.Student) (*model.Student, error)

	// FindByID returns a student by ID number. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, idNumber string) (*model.Student, error)

	// Search returns a paginated, filtered, sorted page of students and the
	// total row count for the same filter.
	Search(ctx context.Context, q StudentQuery) (*PageResult[model.Student], error)

	// Update replaces the row identified by idNumber with the given record
	// (the record may carry a new ID number). Returns sql.ErrNoRows when absent.
	Update(ctx context.Context, idNumber string, s *model.Student) (*model.Student, error)

	// SetPhotoPath updates only the avatar pointer; nil clears it.
	// Returns the updated student, or sql.ErrNoRows when absent.
	SetPhotoPath(ctx context.Context, idNumber string, path *string) (*model.Student, error)

	// Delete removes a student by ID number. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, idNumber string) error
}
