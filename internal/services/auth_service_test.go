package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
)

type fakeEmailProvider struct {
	sent []string
	err  error
}

func (f *fakeEmailProvider) SendVerification(to, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func setTestJWTConfig() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	mail := &fakeEmailProvider{}
	svc := NewAuthService(users, mail)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret123",
		FullName: "New User",
		Role:     models.UserRoleApplicant,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.UserRoleApplicant, resp.Role)

	// Письмо с токеном верификации ушло
	assert.Equal(t, []string{"new@example.com"}, mail.sent)

	stored, err := users.FindByEmail("new@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.VerificationToken)
	assert.False(t, stored.IsVerified)
	// Пароль хранится только хэшем
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestAuthService_Register_AdminRoleForbidden(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(newFakeUserRepo(), &fakeEmailProvider{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "sneaky@example.com",
		Password: "secret123",
		FullName: "Sneaky",
		Role:     models.UserRoleAdmin,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	users.addUser("u1", "taken@example.com", models.UserRoleApplicant)
	svc := NewAuthService(users, &fakeEmailProvider{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "secret123",
		FullName: "Dup",
		Role:     models.UserRoleApplicant,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_Register_EmailFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	mail := &fakeEmailProvider{err: errors.New("smtp down")}
	svc := NewAuthService(users, mail)

	// Доставка письма best-effort: пользователь создан несмотря на сбой
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret123",
		FullName: "New User",
		Role:     models.UserRoleBusiness,
	})
	require.NoError(t, err)

	_, err = users.FindByEmail("new@example.com")
	assert.NoError(t, err)
}

func TestAuthService_LoginFlow(t *testing.T) {
	setTestJWTConfig()

	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeEmailProvider{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "login@example.com",
		Password: "secret123",
		FullName: "Login User",
		Role:     models.UserRoleBusiness,
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.UserRoleBusiness, resp.User.Role)

	// Токен разбирается и несет роль и ID пользователя
	claims, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.UserRoleBusiness, claims.Role)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	setTestJWTConfig()

	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeEmailProvider{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "login@example.com",
		Password: "secret123",
		FullName: "Login User",
		Role:     models.UserRoleApplicant,
	})
	require.NoError(t, err)

	// Неверный пароль и несуществующий email дают одинаковую ошибку
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeEmailProvider{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "verify@example.com",
		Password: "secret123",
		FullName: "Verify User",
		Role:     models.UserRoleApplicant,
	})
	require.NoError(t, err)

	stored, err := users.FindByEmail("verify@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(ctx, stored.VerificationToken))

	verified, err := users.FindByEmail("verify@example.com")
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	// Токен одноразовый
	err = svc.VerifyEmail(ctx, stored.VerificationToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	err = svc.VerifyEmail(ctx, "")
	require.Error(t, err)
}
