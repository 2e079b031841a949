package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ssisapi/internal/model"
	repoMocks "ssisapi/internal/repository/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	valid := SignupInput{Username: "admin", Email: "Admin@Example.com", Password: "secret123"}

	t.Run("happy path hashes the password", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByUsername", ctx, "admin").Return(nil, sql.ErrNoRows)
		mRepo.On("FindByEmail", ctx, "admin@example.com").Return(nil, sql.ErrNoRows)
		mRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			if u.Username != "admin" || u.Email != "admin@example.com" {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
		})).Return(&model.User{UserID: 1, Username: "admin", Email: "admin@example.com", Role: "admin"}, nil)

		svc := NewAuthService(mRepo, testSecret, time.Hour)
		user, err := svc.Signup(ctx, valid)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), user.UserID)
		mRepo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByUsername", ctx, "admin").
			Return(&model.User{Username: "admin"}, nil)

		svc := NewAuthService(mRepo, testSecret, time.Hour)
		_, err := svc.Signup(ctx, valid)

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "USERNAME_EXISTS", verr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByUsername", ctx, "admin").Return(nil, sql.ErrNoRows)
		mRepo.On("FindByEmail", ctx, "admin@example.com").
			Return(&model.User{Email: "admin@example.com"}, nil)

		svc := NewAuthService(mRepo, testSecret, time.Hour)
		_, err := svc.Signup(ctx, valid)

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "EMAIL_EXISTS", verr.Code)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name     string
			input    SignupInput
			wantCode string
		}{
			{"empty username", SignupInput{Email: "a@b.co", Password: "secret123"}, "EMPTY_USERNAME"},
			{"invalid email", SignupInput{Username: "x", Email: "not-an-email", Password: "secret123"}, "INVALID_EMAIL"},
			{"short password", SignupInput{Username: "x", Email: "a@b.co", Password: "short"}, "WEAK_PASSWORD"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewAuthService(new(repoMocks.MockUserRepository), testSecret, time.Hour)
				_, err := svc.Signup(ctx, tt.input)

				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantCode, verr.Code)
			})
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{
		UserID: 7, Username: "admin", Email: "admin@example.com",
		PasswordHash: string(hash), Role: "admin",
	}

	t.Run("issues a verifiable token", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "admin@example.com").Return(stored, nil)

		svc := NewAuthService(mRepo, testSecret, time.Hour)
		res, err := svc.Login(ctx, "Admin@Example.com", "secret123")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer", res.TokenType)
		assert.Equal(t, 3600, res.ExpiresIn)

		token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "7", claims["sub"])
		assert.Equal(t, "admin", claims["username"])
		assert.Equal(t, "admin", claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "admin@example.com").Return(stored, nil)

		svc := NewAuthService(mRepo, testSecret, time.Hour)
		_, err := svc.Login(ctx, "admin@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, sql.ErrNoRows)

		svc := NewAuthService(mRepo, testSecret, time.Hour)
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
