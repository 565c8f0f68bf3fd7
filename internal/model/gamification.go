package model

import "time"

// UserGamification holds one row of cumulative stats per registered user,
// created lazily on first access.
// swagger:model UserGamification
type UserGamification struct {
	BaseModel
	UserID           uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Points           int        `gorm:"default:0" json:"points"`
	Experience       int        `gorm:"default:0" json:"experience"`
	Level            int        `gorm:"default:1" json:"level"`
	NextLevelAt      int        `gorm:"default:100" json:"nextLevelAt"`
	TotalQuizzes     int        `gorm:"default:0" json:"totalQuizzes"`
	TotalCorrect     int        `gorm:"default:0" json:"totalCorrect"`
	TotalIncorrect   int        `gorm:"default:0" json:"totalIncorrect"`
	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	BestStreak       int        `gorm:"default:0" json:"bestStreak"`
	LastSubmissionAt *time.Time `json:"lastSubmissionAt"`
}

func (UserGamification) TableName() string {
	return "user_gamifications"
}

// Badge is a fixed catalog row, seeded at startup by upsert-on-code.
// swagger:model Badge
type Badge struct {
	BaseModel
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`
}

func (Badge) TableName() string {
	return "badges"
}

// swagger:model UserBadge
type UserBadge struct {
	BaseModel
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badges_user_badge" json:"userId"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badges_user_badge" json:"badgeId"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awardedAt"`
	Badge     *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

const (
	EventSubmission = "submission"
	EventBadge      = "badge"
)

// GamificationEvent is an append-only audit row.
// swagger:model GamificationEvent
type GamificationEvent struct {
	BaseModel
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Type        string `gorm:"size:20;not null" json:"type"`
	Points      int    `gorm:"default:0" json:"points"`
	Description string `gorm:"size:255" json:"description"`
}

func (GamificationEvent) TableName() string {
	return "gamification_events"
}
