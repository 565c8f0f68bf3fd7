package service

import (
	"testing"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(db), newTestConfig(t))
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	first, err := authService.Register(&RegisterRequest{
		Name: "Founder", Email: "Founder@Example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, first.User.Role)
	assert.Equal(t, "founder@example.com", first.User.Email)
	assert.NotEmpty(t, first.Token)

	second, err := authService.Register(&RegisterRequest{
		Name: "Member", Email: "member@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, second.User.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	_, err := authService.Register(&RegisterRequest{
		Name: "One", Email: "dup@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = authService.Register(&RegisterRequest{
		Name: "Two", Email: "DUP@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	_, err := authService.Register(&RegisterRequest{
		Name: "Login", Email: "login@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	result, err := authService.Login(&LoginRequest{Email: "login@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := util.ParseJWT(result.Token, authService.Config.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "login@example.com", claims.Email)

	_, err = authService.Login(&LoginRequest{Email: "login@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = authService.Login(&LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	registered, err := authService.Register(&RegisterRequest{
		Name: "Changer", Email: "changer@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	userID := registered.User.ID

	err = authService.ChangePassword(userID, &ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret",
	})
	assert.ErrorIs(t, err, util.ErrWrongPassword)

	err = authService.ChangePassword(userID, &ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "secret123",
	})
	assert.ErrorIs(t, err, util.ErrSamePassword)

	err = authService.ChangePassword(userID, &ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newsecret",
	})
	require.NoError(t, err)

	_, err = authService.Login(&LoginRequest{Email: "changer@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestChangePasswordInvalidatesResetTokens(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	registered, err := authService.Register(&RegisterRequest{
		Name: "Cautious", Email: "cautious@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.RequestPasswordReset("cautious@example.com"))

	var token model.PasswordResetToken
	require.NoError(t, db.Where("user_id = ?", registered.User.ID).First(&token).Error)
	require.False(t, token.Used)

	require.NoError(t, authService.ChangePassword(registered.User.ID, &ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newsecret",
	}))

	err = authService.ResetPassword(&ResetPasswordRequest{Token: token.Token, NewPassword: "hijacked"})
	assert.ErrorIs(t, err, util.ErrInvalidResetToken)
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	registered, err := authService.Register(&RegisterRequest{
		Name: "Forgetful", Email: "forgetful@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	// Unknown addresses do not error out.
	require.NoError(t, authService.RequestPasswordReset("unknown@example.com"))

	require.NoError(t, authService.RequestPasswordReset("forgetful@example.com"))

	var token model.PasswordResetToken
	require.NoError(t, db.Where("user_id = ? AND used = ?", registered.User.ID, false).First(&token).Error)

	require.NoError(t, authService.ResetPassword(&ResetPasswordRequest{
		Token: token.Token, NewPassword: "resetsecret",
	}))

	_, err = authService.Login(&LoginRequest{Email: "forgetful@example.com", Password: "resetsecret"})
	require.NoError(t, err)

	// Single use.
	err = authService.ResetPassword(&ResetPasswordRequest{Token: token.Token, NewPassword: "again"})
	assert.ErrorIs(t, err, util.ErrInvalidResetToken)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	registered, err := authService.Register(&RegisterRequest{
		Name: "Slow", Email: "slow@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.RequestPasswordReset("slow@example.com"))

	var token model.PasswordResetToken
	require.NoError(t, db.Where("user_id = ?", registered.User.ID).First(&token).Error)
	require.NoError(t, db.Model(&token).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	err = authService.ResetPassword(&ResetPasswordRequest{Token: token.Token, NewPassword: "late"})
	assert.ErrorIs(t, err, util.ErrExpiredResetToken)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	db := newTestDB(t)
	authService := newAuthService(t, db)

	_, err := authService.Register(&RegisterRequest{
		Name: "Taken", Email: "taken@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	registered, err := authService.Register(&RegisterRequest{
		Name: "Mover", Email: "mover@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = authService.UpdateProfile(registered.User.ID, &ProfileUpdateRequest{
		Email: strPtr("taken@example.com"),
	})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	updated, err := authService.UpdateProfile(registered.User.ID, &ProfileUpdateRequest{
		Name:  strPtr("Moved"),
		Email: strPtr("moved@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Moved", updated.Name)
	assert.Equal(t, "moved@example.com", updated.Email)
}
