package repository

import (
	"context"

	"ssisapi/internal/model"
)

// UserRepository defines data access for administrative users.
type UserRepository interface {
	// Create inserts a new user and returns the stored record including the
	// database-assigned ID and timestamp.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByEmail returns a user by email. Returns sql.ErrNoRows when absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsername returns a user by username. Returns sql.ErrNoRows when absent.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID returns a user by numeric ID. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]model.User, error)

	// Update replaces the account fields of the row identified by id and
	// returns the stored record. The password hash is left untouched.
	Update(ctx context.Context, id int64, u *model.User) (*model.User, error)

	// Delete removes a user by ID. Returns sql.ErrNoRows when absent.
	Delete(ctx context.Context, id int64) error
}
