package repository

import (
	"quizarena_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) List() ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdatePassword(userID uint, hashed string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("password", hashed).Error
}

func (r *UserRepository) CreateResetToken(token *model.PasswordResetToken) error {
	return r.DB.Create(token).Error
}

func (r *UserRepository) FindResetToken(token string) (*model.PasswordResetToken, error) {
	var entry model.PasswordResetToken
	err := r.DB.Where("token = ?", token).First(&entry).Error
	return &entry, err
}

// InvalidateResetTokens marks every outstanding token of the user as used,
// optionally keeping one id out of the sweep (the token being consumed is
// updated separately).
func (r *UserRepository) InvalidateResetTokens(userID uint, exceptID uint) error {
	query := r.DB.Model(&model.PasswordResetToken{}).
		Where("user_id = ? AND used = ?", userID, false)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("used", true).Error
}

func (r *UserRepository) ConsumeResetToken(tokenID uint) error {
	return r.DB.Model(&model.PasswordResetToken{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{"used": true, "updated_at": time.Now()}).Error
}
