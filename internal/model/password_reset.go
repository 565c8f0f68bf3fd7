package model

import "time"

// swagger:model PasswordResetToken
type PasswordResetToken struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Used      bool      `gorm:"default:false" json:"used"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
