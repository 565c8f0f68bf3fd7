package service

import (
	"fmt"
	"math"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/pkg/monitoring"
)

// Leveling starts at 100 XP for level 2 and each further level costs 1.5x the
// previous one, rounded.
const levelBaseExperience = 100

type badgeDefinition struct {
	Code        string
	Name        string
	Description string
	Icon        string
	Earned      func(stats *model.UserGamification) bool
}

var badgeCatalog = []badgeDefinition{
	{
		Code:        "FIRST_QUIZ",
		Name:        "First Quiz",
		Description: "Completed your first quiz",
		Icon:        "🎯",
		Earned: func(stats *model.UserGamification) bool {
			return stats.TotalQuizzes >= 1
		},
	},
	{
		Code:        "FIVE_QUIZZES",
		Name:        "Quiz Enthusiast",
		Description: "Completed five quizzes",
		Icon:        "🏅",
		Earned: func(stats *model.UserGamification) bool {
			return stats.TotalQuizzes >= 5
		},
	},
	{
		Code:        "TEN_CORRECT",
		Name:        "Sharp Mind",
		Description: "Answered ten questions correctly",
		Icon:        "🧠",
		Earned: func(stats *model.UserGamification) bool {
			return stats.TotalCorrect >= 10
		},
	},
	{
		Code:        "STREAK_MASTER",
		Name:        "Streak Master",
		Description: "Three perfect quizzes in a row",
		Icon:        "🔥",
		Earned: func(stats *model.UserGamification) bool {
			return stats.BestStreak >= 3
		},
	},
}

// GamificationService maintains points, levels, streaks and badges for
// registered users. Anonymous submissions never reach it.
type GamificationService struct {
	Repo *repository.GamificationRepository
}

func NewGamificationService(repo *repository.GamificationRepository) *GamificationService {
	return &GamificationService{Repo: repo}
}

// EnsureBadgesExist seeds the badge catalog. Safe to run on every startup;
// existing badges keep their ids and get refreshed texts.
func (s *GamificationService) EnsureBadgesExist() error {
	for _, def := range badgeCatalog {
		badge := &model.Badge{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		}
		if err := s.Repo.UpsertBadge(badge); err != nil {
			return err
		}
	}
	return nil
}

// calculateLevel walks the XP curve: level 2 at 100 XP, each next threshold
// 1.5x the previous, rounded to the nearest integer.
func calculateLevel(experience int) (level int, nextLevelAt int) {
	level = 1
	threshold := levelBaseExperience
	remaining := experience
	for remaining >= threshold {
		remaining -= threshold
		level++
		threshold = int(math.Round(float64(threshold) * 1.5))
	}
	return level, threshold
}

// pointsFor mirrors how a single run is rewarded: 10 points per correct
// answer with a floor of 5, plus an accuracy bonus of 20 for a perfect run or
// 10 at 70% and above.
func pointsFor(score int, percentage float64) int {
	points := score * 10
	if points < 5 {
		points = 5
	}
	if percentage == 100 {
		points += 20
	} else if percentage >= 70 {
		points += 10
	}
	return points
}

type SubmissionReward struct {
	PointsEarned int                `json:"pointsEarned"`
	Stats        *GamificationStats `json:"stats"`
	NewBadges    []BadgeView        `json:"newBadges"`
}

type GamificationStats struct {
	Points           int     `json:"points"`
	Experience       int     `json:"experience"`
	Level            int     `json:"level"`
	NextLevelAt      int     `json:"nextLevelAt"`
	TotalQuizzes     int     `json:"totalQuizzes"`
	TotalCorrect     int     `json:"totalCorrect"`
	TotalIncorrect   int     `json:"totalIncorrect"`
	CurrentStreak    int     `json:"currentStreak"`
	BestStreak       int     `json:"bestStreak"`
	LastSubmissionAt *string `json:"lastSubmissionAt"`
}

type BadgeView struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	AwardedAt   string `json:"awardedAt,omitempty"`
}

func statsView(stats *model.UserGamification) *GamificationStats {
	view := &GamificationStats{
		Points:         stats.Points,
		Experience:     stats.Experience,
		Level:          stats.Level,
		NextLevelAt:    stats.NextLevelAt,
		TotalQuizzes:   stats.TotalQuizzes,
		TotalCorrect:   stats.TotalCorrect,
		TotalIncorrect: stats.TotalIncorrect,
		CurrentStreak:  stats.CurrentStreak,
		BestStreak:     stats.BestStreak,
	}
	if stats.LastSubmissionAt != nil {
		formatted := stats.LastSubmissionAt.Format("2006-01-02T15:04:05Z07:00")
		view.LastSubmissionAt = &formatted
	}
	return view
}

// RegisterSubmission folds one scored quiz run into the user's progression:
// counters and streaks first, then the level from accumulated XP, then any
// badges whose condition just became true, and finally the activity log.
func (s *GamificationService) RegisterSubmission(userID uint, score, total int, percentage float64) (*SubmissionReward, error) {
	if _, err := s.Repo.GetOrCreateStats(userID); err != nil {
		return nil, err
	}

	pointsEarned := pointsFor(score, percentage)
	if err := s.Repo.ApplySubmission(userID, score, total, pointsEarned, percentage == 100, time.Now()); err != nil {
		return nil, err
	}

	stats, err := s.Repo.ReloadStats(userID)
	if err != nil {
		return nil, err
	}

	level, nextLevelAt := calculateLevel(stats.Experience)
	if level != stats.Level || nextLevelAt != stats.NextLevelAt {
		if err := s.Repo.UpdateLevel(userID, level, nextLevelAt); err != nil {
			return nil, err
		}
		stats.Level = level
		stats.NextLevelAt = nextLevelAt
	}

	newBadges, err := s.awardBadges(userID, stats)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateEvent(&model.GamificationEvent{
		UserID:      userID,
		Type:        model.EventSubmission,
		Points:      pointsEarned,
		Description: fmt.Sprintf("Quiz completed with %d/%d correct (%.2f%%)", score, total, percentage),
	}); err != nil {
		return nil, err
	}
	for _, badge := range newBadges {
		if err := s.Repo.CreateEvent(&model.GamificationEvent{
			UserID:      userID,
			Type:        model.EventBadge,
			Description: "Badge unlocked: " + badge.Name,
		}); err != nil {
			return nil, err
		}
	}

	return &SubmissionReward{
		PointsEarned: pointsEarned,
		Stats:        statsView(stats),
		NewBadges:    newBadges,
	}, nil
}

// awardBadges grants every catalog badge whose condition the stats now meet
// and the user does not own yet.
func (s *GamificationService) awardBadges(userID uint, stats *model.UserGamification) ([]BadgeView, error) {
	owned, err := s.Repo.ListUserBadges(userID)
	if err != nil {
		return nil, err
	}
	ownedCodes := make(map[string]struct{}, len(owned))
	for _, userBadge := range owned {
		if userBadge.Badge != nil {
			ownedCodes[userBadge.Badge.Code] = struct{}{}
		}
	}

	var dueCodes []string
	for _, def := range badgeCatalog {
		if _, has := ownedCodes[def.Code]; has {
			continue
		}
		if def.Earned(stats) {
			dueCodes = append(dueCodes, def.Code)
		}
	}
	if len(dueCodes) == 0 {
		return nil, nil
	}

	badges, err := s.Repo.FindBadgesByCodes(dueCodes)
	if err != nil {
		return nil, err
	}

	rows := make([]model.UserBadge, 0, len(badges))
	views := make([]BadgeView, 0, len(badges))
	for _, badge := range badges {
		rows = append(rows, model.UserBadge{UserID: userID, BadgeID: badge.ID})
		views = append(views, BadgeView{
			ID:          badge.ID,
			Code:        badge.Code,
			Name:        badge.Name,
			Description: badge.Description,
			Icon:        badge.Icon,
		})
	}
	if err := s.Repo.CreateUserBadges(rows); err != nil {
		return nil, err
	}
	for _, badge := range badges {
		monitoring.BadgeCounter.WithLabelValues(badge.Code).Inc()
	}
	return views, nil
}

type EventView struct {
	ID          uint   `json:"id"`
	Type        string `json:"type"`
	Points      int    `json:"points"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

type GamificationProfile struct {
	Stats  *GamificationStats `json:"stats"`
	Badges []BadgeView        `json:"badges"`
	Events []EventView        `json:"recentEvents"`
}

// GetUserGamification returns the full progression view: stats, owned badges
// newest first, and the last 20 activity events.
func (s *GamificationService) GetUserGamification(userID uint) (*GamificationProfile, error) {
	stats, err := s.Repo.GetOrCreateStats(userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.Repo.ListUserBadges(userID)
	if err != nil {
		return nil, err
	}
	badges := make([]BadgeView, 0, len(owned))
	for _, userBadge := range owned {
		if userBadge.Badge == nil {
			continue
		}
		badges = append(badges, BadgeView{
			ID:          userBadge.Badge.ID,
			Code:        userBadge.Badge.Code,
			Name:        userBadge.Badge.Name,
			Description: userBadge.Badge.Description,
			Icon:        userBadge.Badge.Icon,
			AwardedAt:   userBadge.AwardedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	events, err := s.Repo.ListEvents(userID, 20)
	if err != nil {
		return nil, err
	}
	eventViews := make([]EventView, 0, len(events))
	for _, event := range events {
		eventViews = append(eventViews, EventView{
			ID:          event.ID,
			Type:        event.Type,
			Points:      event.Points,
			Description: event.Description,
			CreatedAt:   event.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return &GamificationProfile{
		Stats:  statsView(stats),
		Badges: badges,
		Events: eventViews,
	}, nil
}

type LeaderboardEntry struct {
	Position     int    `json:"position"`
	UserID       uint   `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Points       int    `json:"points"`
	Level        int    `json:"level"`
	TotalQuizzes int    `json:"totalQuizzes"`
}

// GetGlobalLeaderboard ranks users by points; on a tie the user who reached
// the total first comes out ahead.
func (s *GamificationService) GetGlobalLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.Repo.ListTop(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for index, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Position:     index + 1,
			UserID:       row.UserID,
			Name:         row.UserName,
			Email:        row.UserEmail,
			Points:       row.Points,
			Level:        row.Level,
			TotalQuizzes: row.TotalQuizzes,
		})
	}
	return entries, nil
}
