package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/application/apptest"
	"github.com/jhoicas/shipping-dashboard/internal/application/auth"
	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *dto.UserResponse) {
	t.Helper()
	uc := auth.NewAuthUseCase(&apptest.Users{}, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
	u, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "Ops@Example.com", Password: "bananas123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	return uc, u
}

func TestCreateUser(t *testing.T) {
	uc, u := setup(t)
	assert.Equal(t, "ops@example.com", u.Email)
	assert.Equal(t, "active", u.Status)

	_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Email: "ops@example.com", Password: "bananas123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{Email: "x@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{Email: "y@example.com", Password: "bananas123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc, u := setup(t)
	ctx := context.Background()

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "bananas123"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "bananas123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestVerifyPassword(t *testing.T) {
	uc, u := setup(t)
	ctx := context.Background()

	assert.NoError(t, uc.VerifyPassword(ctx, u.ID, "bananas123"))
	assert.ErrorIs(t, uc.VerifyPassword(ctx, u.ID, "wrong"), domain.ErrUnauthorized)
	assert.ErrorIs(t, uc.VerifyPassword(ctx, "missing", "bananas123"), domain.ErrUnauthorized)
}
