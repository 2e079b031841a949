package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

// Roles an account can hold. Only admins may manage other accounts.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// CreateUserInput is the payload for an admin-created account.
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserInput carries partial account updates. Nil fields are left
// unchanged. Passwords cannot be changed through this path.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// UserService implements administrative account management. All operations
// sit behind the admin-role guard at the HTTP layer.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Role == "" {
		in.Role = RoleUser
	}

	if in.Username == "" {
		return nil, validationErr("EMPTY_USERNAME", "username cannot be empty")
	}
	if len(in.Username) > maxUsernameLen {
		return nil, validationErr("USERNAME_TOO_LONG", "username cannot exceed 50 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, validationErr("INVALID_EMAIL", "email address is not valid")
	}
	if len(in.Password) < minPasswordLen {
		return nil, validationErr("WEAK_PASSWORD", "password must be at least 8 characters")
	}
	if err := validateRole(in.Role); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	})
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateUserInput) (*model.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if in.Username != nil {
		next.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		next.Email = strings.TrimSpace(strings.ToLower(*in.Email))
	}
	if in.Role != nil {
		next.Role = *in.Role
	}

	if next.Username == "" {
		return nil, validationErr("EMPTY_USERNAME", "username cannot be empty")
	}
	if len(next.Username) > maxUsernameLen {
		return nil, validationErr("USERNAME_TOO_LONG", "username cannot exceed 50 characters")
	}
	if _, err := mail.ParseAddress(next.Email); err != nil {
		return nil, validationErr("INVALID_EMAIL", "email address is not valid")
	}
	if err := validateRole(next.Role); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, next.Username, next.Email, id); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, &next)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// checkUnique rejects a username or email already held by a different
// account. selfID exempts the account being updated from matching itself.
func (s *userService) checkUnique(ctx context.Context, username, email string, selfID int64) error {
	if u, err := s.repo.FindByUsername(ctx, username); err == nil {
		if u.UserID != selfID {
			return validationErr("USERNAME_EXISTS",
				fmt.Sprintf("username '%s' is already taken", username))
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if u, err := s.repo.FindByEmail(ctx, email); err == nil {
		if u.UserID != selfID {
			return validationErr("EMAIL_EXISTS",
				fmt.Sprintf("email '%s' is already registered", email))
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func validateRole(role string) error {
	switch role {
	case RoleAdmin, RoleUser:
		return nil
	default:
		return validationErr("INVALID_ROLE", "role must be 'admin' or 'user'")
	}
}
