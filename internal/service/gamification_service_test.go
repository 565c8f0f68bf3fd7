package service

import (
	"testing"
	"time"

	"quizarena_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLevel(t *testing.T) {
	cases := []struct {
		experience  int
		level       int
		nextLevelAt int
	}{
		{0, 1, 100},
		{99, 1, 100},
		{100, 2, 150},
		{249, 2, 150},
		{250, 3, 225},
		{475, 4, 338},
	}
	for _, tc := range cases {
		level, nextLevelAt := calculateLevel(tc.experience)
		assert.Equal(t, tc.level, level, "experience %d", tc.experience)
		assert.Equal(t, tc.nextLevelAt, nextLevelAt, "experience %d", tc.experience)
	}
}

func TestPointsFor(t *testing.T) {
	assert.Equal(t, 5, pointsFor(0, 0))           // floor
	assert.Equal(t, 10, pointsFor(1, 50))         // no bonus below 70
	assert.Equal(t, 40, pointsFor(3, 75))         // 30 + accuracy bonus
	assert.Equal(t, 60, pointsFor(4, 100))        // 40 + perfect bonus
	assert.Equal(t, 80, pointsFor(7, 70))         // boundary hits the 10 bonus
	assert.Equal(t, 25, pointsFor(0, 100))        // floor plus perfect bonus
}

func TestEnsureBadgesExistIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)

	var before []model.Badge
	require.NoError(t, db.Order("id asc").Find(&before).Error)
	require.Len(t, before, 4)

	require.NoError(t, gamificationService.EnsureBadgesExist())

	var after []model.Badge
	require.NoError(t, db.Order("id asc").Find(&after).Error)
	require.Len(t, after, 4)
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Code, after[i].Code)
	}
}

func TestRegisterSubmissionFirstQuiz(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Player", "player@example.com", model.RoleUser)

	reward, err := gamificationService.RegisterSubmission(user.ID, 4, 4, 100)
	require.NoError(t, err)

	assert.Equal(t, 60, reward.PointsEarned)
	assert.Equal(t, 60, reward.Stats.Points)
	assert.Equal(t, 60, reward.Stats.Experience)
	assert.Equal(t, 1, reward.Stats.Level)
	assert.Equal(t, 100, reward.Stats.NextLevelAt)
	assert.Equal(t, 1, reward.Stats.TotalQuizzes)
	assert.Equal(t, 4, reward.Stats.TotalCorrect)
	assert.Equal(t, 0, reward.Stats.TotalIncorrect)
	assert.Equal(t, 1, reward.Stats.CurrentStreak)
	assert.Equal(t, 1, reward.Stats.BestStreak)

	require.Len(t, reward.NewBadges, 1)
	assert.Equal(t, "FIRST_QUIZ", reward.NewBadges[0].Code)
}

func TestRegisterSubmissionLevelsUp(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Climber", "climber@example.com", model.RoleUser)

	// Two perfect 4-question runs: 120 XP, past the 100 XP threshold.
	_, err := gamificationService.RegisterSubmission(user.ID, 4, 4, 100)
	require.NoError(t, err)
	reward, err := gamificationService.RegisterSubmission(user.ID, 4, 4, 100)
	require.NoError(t, err)

	assert.Equal(t, 120, reward.Stats.Experience)
	assert.Equal(t, 2, reward.Stats.Level)
	assert.Equal(t, 150, reward.Stats.NextLevelAt)
}

func TestRegisterSubmissionStreaks(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Streaker", "streaker@example.com", model.RoleUser)

	for i := 0; i < 3; i++ {
		_, err := gamificationService.RegisterSubmission(user.ID, 2, 2, 100)
		require.NoError(t, err)
	}

	stats, err := gamificationService.Repo.ReloadStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.BestStreak)

	// An imperfect run resets the current streak but not the best.
	reward, err := gamificationService.RegisterSubmission(user.ID, 1, 2, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Stats.CurrentStreak)
	assert.Equal(t, 3, reward.Stats.BestStreak)

	// STREAK_MASTER was earned on the third perfect run.
	badges := make([]string, 0)
	owned, err := gamificationService.Repo.ListUserBadges(user.ID)
	require.NoError(t, err)
	for _, userBadge := range owned {
		badges = append(badges, userBadge.Badge.Code)
	}
	assert.Contains(t, badges, "STREAK_MASTER")
}

func TestRegisterSubmissionNeverAwardsTwice(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Repeat", "repeat@example.com", model.RoleUser)

	reward, err := gamificationService.RegisterSubmission(user.ID, 1, 2, 50)
	require.NoError(t, err)
	require.Len(t, reward.NewBadges, 1)

	reward, err = gamificationService.RegisterSubmission(user.ID, 1, 2, 50)
	require.NoError(t, err)
	assert.Empty(t, reward.NewBadges)

	var count int64
	require.NoError(t, db.Model(&model.UserBadge{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterSubmissionTenCorrectBadge(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Scholar", "scholar@example.com", model.RoleUser)

	_, err := gamificationService.RegisterSubmission(user.ID, 6, 8, 75)
	require.NoError(t, err)
	reward, err := gamificationService.RegisterSubmission(user.ID, 4, 8, 50)
	require.NoError(t, err)

	codes := make([]string, 0, len(reward.NewBadges))
	for _, badge := range reward.NewBadges {
		codes = append(codes, badge.Code)
	}
	assert.Contains(t, codes, "TEN_CORRECT")
}

func TestGetUserGamificationProfile(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Viewer", "viewer@example.com", model.RoleUser)

	_, err := gamificationService.RegisterSubmission(user.ID, 2, 2, 100)
	require.NoError(t, err)

	profile, err := gamificationService.GetUserGamification(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, profile.Stats.TotalQuizzes)
	require.Len(t, profile.Badges, 1)
	assert.NotEmpty(t, profile.Badges[0].AwardedAt)

	// One submission event plus one badge event.
	require.Len(t, profile.Events, 2)
}

func TestGetUserGamificationEventsCappedAtTwenty(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)
	user := seedUser(t, db, "Busy", "busy@example.com", model.RoleUser)

	for i := 0; i < 25; i++ {
		require.NoError(t, gamificationService.Repo.CreateEvent(&model.GamificationEvent{
			UserID: user.ID,
			Type:   model.EventSubmission,
			Points: i,
		}))
	}

	profile, err := gamificationService.GetUserGamification(user.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Events, 20)
}

func TestGlobalLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	_, _, _, gamificationService, _ := newServices(t, db)

	ana := seedUser(t, db, "Ana", "ana@example.com", model.RoleUser)
	bea := seedUser(t, db, "Bea", "bea@example.com", model.RoleUser)
	caio := seedUser(t, db, "Caio", "caio@example.com", model.RoleUser)

	base := time.Now().Add(-time.Hour)
	rows := []model.UserGamification{
		{UserID: ana.ID, Points: 300, Level: 2, NextLevelAt: 150},
		{UserID: bea.ID, Points: 300, Level: 2, NextLevelAt: 150},
		{UserID: caio.ID, Points: 500, Level: 3, NextLevelAt: 225},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
		require.NoError(t, db.Model(&rows[i]).Update("updated_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	leaderboard, err := gamificationService.GetGlobalLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, leaderboard, 3)

	assert.Equal(t, "Caio", leaderboard[0].Name)
	assert.Equal(t, "Ana", leaderboard[1].Name) // earlier updated_at wins the tie
	assert.Equal(t, "Bea", leaderboard[2].Name)
	assert.Equal(t, 1, leaderboard[0].Position)
	assert.Equal(t, 3, leaderboard[2].Position)
}
