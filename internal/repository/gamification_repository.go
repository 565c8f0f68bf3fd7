package repository

import (
	"errors"
	"quizarena_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository struct {
	DB *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{DB: db}
}

// GetOrCreateStats lazily provisions the per-user stats row.
func (r *GamificationRepository) GetOrCreateStats(userID uint) (*model.UserGamification, error) {
	var stats model.UserGamification
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats = model.UserGamification{UserID: userID, Level: 1, NextLevelAt: 100}
	if err := r.DB.Create(&stats).Error; err != nil {
		// A concurrent request may have created the row first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = r.DB.Where("user_id = ?", userID).First(&stats).Error
			return &stats, err
		}
		return nil, err
	}
	return &stats, nil
}

// ApplySubmission folds one submission into the counters with a single
// UPDATE built from SQL expressions, so concurrent submissions by the same
// user cannot lose increments. All expressions read the pre-update row.
func (r *GamificationRepository) ApplySubmission(userID uint, score, total, pointsEarned int, perfect bool, now time.Time) error {
	updates := map[string]interface{}{
		"points":             gorm.Expr("points + ?", pointsEarned),
		"experience":         gorm.Expr("experience + ?", pointsEarned),
		"total_quizzes":      gorm.Expr("total_quizzes + 1"),
		"total_correct":      gorm.Expr("total_correct + ?", score),
		"total_incorrect":    gorm.Expr("total_incorrect + ?", total-score),
		"last_submission_at": now,
	}

	if perfect {
		updates["current_streak"] = gorm.Expr("current_streak + 1")
		updates["best_streak"] = gorm.Expr(
			"CASE WHEN current_streak + 1 > best_streak THEN current_streak + 1 ELSE best_streak END")
	} else {
		updates["current_streak"] = 0
	}

	return r.DB.Model(&model.UserGamification{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

func (r *GamificationRepository) ReloadStats(userID uint) (*model.UserGamification, error) {
	var stats model.UserGamification
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	return &stats, err
}

func (r *GamificationRepository) UpdateLevel(userID uint, level, nextLevelAt int) error {
	return r.DB.Model(&model.UserGamification{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"level": level, "next_level_at": nextLevelAt}).Error
}

// UpsertBadge seeds one catalog entry, keyed by code. Running it again
// refreshes name/description/icon and keeps the id stable.
func (r *GamificationRepository) UpsertBadge(badge *model.Badge) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "updated_at"}),
	}).Create(badge).Error
}

func (r *GamificationRepository) FindBadgesByCodes(codes []string) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("code IN ?", codes).Find(&badges).Error
	return badges, err
}

func (r *GamificationRepository) ListUserBadges(userID uint) ([]model.UserBadge, error) {
	var owned []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at desc").
		Find(&owned).Error
	return owned, err
}

// CreateUserBadges inserts the join rows, silently skipping any the user
// already owns.
func (r *GamificationRepository) CreateUserBadges(rows []model.UserBadge) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *GamificationRepository) CreateEvent(event *model.GamificationEvent) error {
	return r.DB.Create(event).Error
}

func (r *GamificationRepository) ListEvents(userID uint, limit int) ([]model.GamificationEvent, error) {
	var events []model.GamificationEvent
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

type LeaderboardRow struct {
	model.UserGamification
	UserName  string `gorm:"column:user_name"`
	UserEmail string `gorm:"column:user_email"`
}

// ListTop orders the leaderboard by points, ties going to whoever reached the
// total first (earlier updated_at).
func (r *GamificationRepository) ListTop(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.Model(&model.UserGamification{}).
		Select("user_gamifications.*, users.name as user_name, users.email as user_email").
		Joins("JOIN users ON users.id = user_gamifications.user_id").
		Order("user_gamifications.points desc, user_gamifications.updated_at asc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
