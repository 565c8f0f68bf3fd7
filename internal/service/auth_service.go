package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"quizarena_backend/internal/config"
	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"
	"quizarena_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles account lifecycle for the admin/registered side of the
// platform. Playing quizzes needs no account; this exists for administration
// and gamification.
type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Config: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserView struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      model.UserRole `json:"role"`
	CreatedAt string         `json:"createdAt"`
}

type AuthResult struct {
	Token string    `json:"token"`
	User  *UserView `json:"user"`
}

func userView(user *model.User) *UserView {
	return &UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Register creates an account. The very first account becomes ADMIN so a
// fresh deployment can bootstrap itself.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResult, error) {
	email := util.NormalizeEmail(req.Email)

	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	count, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: userView(user)}, nil
}

// Login checks credentials without revealing whether the e-mail or the
// password was wrong.
func (s *AuthService) Login(req *LoginRequest) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(util.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: userView(user)}, nil
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	return util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
}

func (s *AuthService) GetProfile(userID uint) (*UserView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return userView(user), nil
}

type ProfileUpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (s *AuthService) UpdateProfile(userID uint, req *ProfileUpdateRequest) (*UserView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil {
		email := util.NormalizeEmail(*req.Email)
		if email != user.Email {
			if _, err := s.UserRepo.FindByEmail(email); err == nil {
				return nil, util.ErrEmailRegistered
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return userView(user), nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword also invalidates any outstanding reset tokens; a stale reset
// link must not undo a deliberate password change.
func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return util.ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return util.ErrSamePassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return err
	}
	return s.UserRepo.InvalidateResetTokens(userID, 0)
}

// RequestPasswordReset issues a single-use reset token. The response is the
// same whether or not the e-mail exists, so the endpoint cannot be used to
// probe for accounts. Without a mail provider wired in, the link is logged.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.UserRepo.FindByEmail(util.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	if err := s.UserRepo.InvalidateResetTokens(user.ID, 0); err != nil {
		return err
	}
	expiry := time.Duration(s.Config.Reset.TokenExpiryMinutes) * time.Minute
	if err := s.UserRepo.CreateResetToken(&model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(expiry),
	}); err != nil {
		return err
	}

	logger.Log.Info("password reset requested",
		zap.Uint("userId", user.ID),
		zap.String("resetLink", s.Config.Server.PublicURL+"/reset-password?token="+token))
	return nil
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	entry, err := s.UserRepo.FindResetToken(req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInvalidResetToken
		}
		return err
	}
	if entry.Used {
		return util.ErrInvalidResetToken
	}
	if time.Now().After(entry.ExpiresAt) {
		return util.ErrExpiredResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(entry.UserID, string(hashed)); err != nil {
		return err
	}
	if err := s.UserRepo.ConsumeResetToken(entry.ID); err != nil {
		return err
	}
	return s.UserRepo.InvalidateResetTokens(entry.UserID, entry.ID)
}
