package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"quizarena_backend/internal/config"
	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/pkg/database"
	"quizarena_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:      "8080",
			Mode:      "debug",
			PublicURL: "http://localhost:8080",
		},
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: 24 * time.Hour,
		},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: t.TempDir(),
		},
		Reset: config.ResetConfig{TokenExpiryMinutes: 60},
	}
}

func newTestStorage(t *testing.T, cfg *config.Config) *StorageService {
	t.Helper()
	return &StorageService{Provider: &LocalStorageProvider{Config: &cfg.Storage}}
}

// seedQuiz creates a quiz with the given number of questions. Each question
// gets three options with the first one correct.
func seedQuiz(t *testing.T, db *gorm.DB, mode model.QuizMode, questionLimit *int, questionCount int) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		Title:         "General Knowledge",
		Description:   "A quiz seeded for tests",
		IsActive:      true,
		Mode:          mode,
		QuestionLimit: questionLimit,
	}
	for i := 1; i <= questionCount; i++ {
		quiz.Questions = append(quiz.Questions, model.Question{
			Text:  fmt.Sprintf("Question %d", i),
			Order: i,
			Options: []model.Option{
				{Text: "right answer", IsCorrect: true},
				{Text: "wrong answer"},
				{Text: "also wrong"},
			},
		})
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role model.UserRole) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{Name: name, Email: email, Password: string(hashed), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// correctAnswers builds a full correct answer sheet for the quiz's first n
// questions in authored order.
func correctAnswers(t *testing.T, db *gorm.DB, quizID uint, n int) []AnswerInput {
	t.Helper()

	var questions []model.Question
	require.NoError(t, db.Preload("Options").
		Where("quiz_id = ?", quizID).
		Order("`order` asc").
		Limit(n).
		Find(&questions).Error)
	require.Len(t, questions, n)

	answers := make([]AnswerInput, 0, n)
	for _, question := range questions {
		for _, option := range question.Options {
			if option.IsCorrect {
				answers = append(answers, AnswerInput{QuestionID: question.ID, OptionID: option.ID})
				break
			}
		}
	}
	return answers
}

// wrongAnswers picks an incorrect option for each of the first n questions.
func wrongAnswers(t *testing.T, db *gorm.DB, quizID uint, n int) []AnswerInput {
	t.Helper()

	var questions []model.Question
	require.NoError(t, db.Preload("Options").
		Where("quiz_id = ?", quizID).
		Order("`order` asc").
		Limit(n).
		Find(&questions).Error)
	require.Len(t, questions, n)

	answers := make([]AnswerInput, 0, n)
	for _, question := range questions {
		for _, option := range question.Options {
			if !option.IsCorrect {
				answers = append(answers, AnswerInput{QuestionID: question.ID, OptionID: option.ID})
				break
			}
		}
	}
	return answers
}

func newServices(t *testing.T, db *gorm.DB) (*QuizService, *PlayService, *SubmissionService, *GamificationService, *DashboardService) {
	t.Helper()

	cfg := newTestConfig(t)
	storage := newTestStorage(t, cfg)

	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	userRepo := repository.NewUserRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	quizService := NewQuizService(quizRepo, questionRepo, submissionRepo, storage, cfg)
	playService := NewPlayService(quizRepo, questionRepo, storage, cfg.Server.PublicURL)
	gamificationService := NewGamificationService(gamificationRepo)
	submissionService := NewSubmissionService(quizRepo, submissionRepo, userRepo, gamificationService)
	dashboardService := NewDashboardService(dashboardRepo)

	require.NoError(t, gamificationService.EnsureBadgesExist())

	return quizService, playService, submissionService, gamificationService, dashboardService
}
