package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 50
)

// SignupInput is the payload for registering an administrative user.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResult is a signed access token plus its lifetime in seconds.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AuthService handles account registration and login.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*TokenResult, error)
}

type authService struct {
	repo     repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService constructs an AuthService signing tokens with the given
// HMAC secret.
func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

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

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, validationErr("USERNAME_EXISTS",
			fmt.Sprintf("username '%s' is already taken", in.Username))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, validationErr("EMAIL_EXISTS",
			fmt.Sprintf("email '%s' is already registered", in.Email))
	} else if !errors.Is(err, sql.ErrNoRows) {
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
		Role:         RoleAdmin,
	})
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", u.UserID),
		"username": u.Username,
		"role":     u.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}
