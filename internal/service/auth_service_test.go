package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"opinai/internal/model"
	"opinai/internal/repository"
	"opinai/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := repository.NewMemoryStore().Users()
	jwtUtil := newTestJWT()
	svc := NewAuthService(repo, jwtUtil, "")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, model.RegisterRequest{
		Nome:     "Ana",
		Email:    "Ana@Opinai.com ",
		Senha:    "senha123",
		Telefone: "11999990000",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@opinai.com", user.Email)
	assert.NotEqual(t, "senha123", user.PasswordHash)
	assert.Equal(t, 0.0, user.Pontos)
	assert.False(t, user.IsAdmin)

	claims, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loggedIn, loginToken, err := svc.Login(ctx, "ana@opinai.com", "senha123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err = jwtUtil.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ana@opinai.com", claims.Email)
}

func TestAuthService_Register_StoresHashOnly(t *testing.T) {
	repo := repository.NewMemoryStore().Users()
	svc := NewAuthService(repo, newTestJWT(), "")

	user, _ := registerUser(svc, "ana@opinai.com", false)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "senha123")
	assert.True(t, utils.CheckPasswordHash("senha123", stored.PasswordHash))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryStore().Users(), newTestJWT(), "")
	registerUser(svc, "ana@opinai.com", false)

	_, _, err := svc.Register(context.Background(), model.RegisterRequest{Email: "ANA@opinai.com", Senha: "outra"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	repo := repository.NewMemoryStore().Users()
	svc := NewAuthService(repo, newTestJWT(), "")

	// 40 runes but 80 bytes
	_, _, err := svc.Register(context.Background(), model.RegisterRequest{Email: "ana@opinai.com", Senha: strings.Repeat("é", 40)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	stored, err := repo.FindByEmail(context.Background(), "ana@opinai.com")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	svc := NewAuthService(failingUserRepo{}, newTestJWT(), "")

	_, _, err := svc.Register(context.Background(), model.RegisterRequest{Email: "ana@opinai.com", Senha: "x"})
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAuthService_Register_AdminFlags(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryStore().Users(), newTestJWT(), "root@opinai.com")

	declared, _ := registerUser(svc, "chefe@opinai.com", true)
	assert.True(t, declared.IsAdmin)

	bootstrap, _ := registerUser(svc, "ROOT@opinai.com", false)
	assert.True(t, bootstrap.IsAdmin)

	regular, _ := registerUser(svc, "ana@opinai.com", false)
	assert.False(t, regular.IsAdmin)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryStore().Users(), newTestJWT(), "")
	registerUser(svc, "ana@opinai.com", false)

	_, _, err := svc.Login(context.Background(), "ana@opinai.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "ghost@opinai.com", "senha123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	svc := NewAuthService(failingUserRepo{}, newTestJWT(), "")

	_, _, err := svc.Login(context.Background(), "ana@opinai.com", "senha123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authorize(t *testing.T) {
	repo := repository.NewMemoryStore().Users()
	svc := NewAuthService(repo, newTestJWT(), "")
	ctx := context.Background()

	user, token := registerUser(svc, "ana@opinai.com", false)
	admin, adminToken := registerUser(svc, "chefe@opinai.com", true)

	resolved, err := svc.Authorize(ctx, token, false)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.Authorize(ctx, token, true)
	assert.ErrorIs(t, err, ErrForbidden)

	resolvedAdmin, err := svc.Authorize(ctx, adminToken, true)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resolvedAdmin.ID)
}

func TestAuthService_Authorize_Failures(t *testing.T) {
	repo := repository.NewMemoryStore().Users()
	svc := NewAuthService(repo, newTestJWT(), "")
	ctx := context.Background()

	_, err := svc.Authorize(ctx, "", false)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Authorize(ctx, "garbage", false)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _ := utils.NewJWTUtil(testSecret, -time.Hour).GenerateToken("u-1", "ana@opinai.com")
	_, err = svc.Authorize(ctx, expired, false)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, _ := utils.NewJWTUtil("other-secret", time.Hour).GenerateToken("u-1", "ana@opinai.com")
	_, err = svc.Authorize(ctx, foreign, false)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Well-signed token for a user that does not exist
	orphan, _ := newTestJWT().GenerateToken("deleted-user", "ghost@opinai.com")
	_, err = svc.Authorize(ctx, orphan, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Authorize_StoreFailure(t *testing.T) {
	svc := NewAuthService(failingUserRepo{}, newTestJWT(), "")
	token, _ := newTestJWT().GenerateToken("u-1", "ana@opinai.com")

	_, err := svc.Authorize(context.Background(), token, false)
	assert.ErrorIs(t, err, errStoreDown)
}
