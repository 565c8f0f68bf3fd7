package repository

import (
	"quizarena_backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

type DashboardCounts struct {
	TotalQuizzes     int64
	ActiveQuizzes    int64
	TotalQuestions   int64
	TotalSubmissions int64
}

func (r *DashboardRepository) Counts() (*DashboardCounts, error) {
	var counts DashboardCounts
	if err := r.DB.Model(&model.Quiz{}).Count(&counts.TotalQuizzes).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.Quiz{}).Where("is_active = ?", true).Count(&counts.ActiveQuizzes).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.Question{}).Count(&counts.TotalQuestions).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.Submission{}).Count(&counts.TotalSubmissions).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

type SubmissionAverages struct {
	AvgScore      float64
	AvgPercentage float64
}

// Averages coalesces to zero so an empty table reports 0, not NULL.
func (r *DashboardRepository) Averages() (*SubmissionAverages, error) {
	var averages SubmissionAverages
	err := r.DB.Model(&model.Submission{}).
		Select("COALESCE(AVG(score), 0) as avg_score, COALESCE(AVG(percentage), 0) as avg_percentage").
		Scan(&averages).Error
	return &averages, err
}

type QuizSubmissionStats struct {
	QuizID          uint
	Title           string
	SubmissionCount int
	AvgPercentage   float64
}

func (r *DashboardRepository) TopQuizzes(limit int) ([]QuizSubmissionStats, error) {
	var rows []QuizSubmissionStats
	err := r.DB.Model(&model.Submission{}).
		Select("submissions.quiz_id as quiz_id, quizzes.title as title, count(*) as submission_count, COALESCE(AVG(submissions.percentage), 0) as avg_percentage").
		Joins("JOIN quizzes ON quizzes.id = submissions.quiz_id").
		Group("submissions.quiz_id, quizzes.title").
		Order("submission_count desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type SubmissionWithQuiz struct {
	model.Submission
	QuizTitle string `gorm:"column:quiz_title"`
}

func (r *DashboardRepository) TopPerformers(limit int) ([]SubmissionWithQuiz, error) {
	var rows []SubmissionWithQuiz
	err := r.DB.Model(&model.Submission{}).
		Select("submissions.*, quizzes.title as quiz_title").
		Joins("JOIN quizzes ON quizzes.id = submissions.quiz_id").
		Order("submissions.percentage desc, submissions.score desc, submissions.created_at asc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *DashboardRepository) RecentSubmissions(limit int) ([]SubmissionWithQuiz, error) {
	var rows []SubmissionWithQuiz
	err := r.DB.Model(&model.Submission{}).
		Select("submissions.*, quizzes.title as quiz_title").
		Joins("JOIN quizzes ON quizzes.id = submissions.quiz_id").
		Order("submissions.created_at desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
