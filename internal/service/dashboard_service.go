package service

import (
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"
)

// DashboardService aggregates platform-wide figures for the admin overview.
type DashboardService struct {
	Repo *repository.DashboardRepository
}

func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{Repo: repo}
}

type QuizStatsView struct {
	QuizID          uint    `json:"quizId"`
	Title           string  `json:"title"`
	SubmissionCount int     `json:"submissionCount"`
	AvgPercentage   float64 `json:"avgPercentage"`
}

type SubmissionView struct {
	ID         uint    `json:"id"`
	QuizID     uint    `json:"quizId"`
	QuizTitle  string  `json:"quizTitle"`
	UserName   string  `json:"userName"`
	UserEmail  string  `json:"userEmail"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	CreatedAt  string  `json:"createdAt"`
}

type DashboardSummary struct {
	TotalQuizzes      int64            `json:"totalQuizzes"`
	ActiveQuizzes     int64            `json:"activeQuizzes"`
	TotalQuestions    int64            `json:"totalQuestions"`
	TotalSubmissions  int64            `json:"totalSubmissions"`
	AvgScore          float64          `json:"avgScore"`
	AvgPercentage     float64          `json:"avgPercentage"`
	TopQuizzes        []QuizStatsView  `json:"topQuizzes"`
	TopPerformers     []SubmissionView `json:"topPerformers"`
	RecentSubmissions []SubmissionView `json:"recentSubmissions"`
}

// GetSummary assembles the dashboard in one shot. Averages come back as 0
// when no submission exists yet.
func (s *DashboardService) GetSummary() (*DashboardSummary, error) {
	counts, err := s.Repo.Counts()
	if err != nil {
		return nil, err
	}
	averages, err := s.Repo.Averages()
	if err != nil {
		return nil, err
	}
	topQuizzes, err := s.Repo.TopQuizzes(5)
	if err != nil {
		return nil, err
	}
	topPerformers, err := s.Repo.TopPerformers(5)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentSubmissions(10)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalQuizzes:      counts.TotalQuizzes,
		ActiveQuizzes:     counts.ActiveQuizzes,
		TotalQuestions:    counts.TotalQuestions,
		TotalSubmissions:  counts.TotalSubmissions,
		AvgScore:          util.Round2(averages.AvgScore),
		AvgPercentage:     util.Round2(averages.AvgPercentage),
		TopQuizzes:        make([]QuizStatsView, 0, len(topQuizzes)),
		TopPerformers:     make([]SubmissionView, 0, len(topPerformers)),
		RecentSubmissions: make([]SubmissionView, 0, len(recent)),
	}

	for _, row := range topQuizzes {
		summary.TopQuizzes = append(summary.TopQuizzes, QuizStatsView{
			QuizID:          row.QuizID,
			Title:           row.Title,
			SubmissionCount: row.SubmissionCount,
			AvgPercentage:   util.Round2(row.AvgPercentage),
		})
	}
	for _, row := range topPerformers {
		summary.TopPerformers = append(summary.TopPerformers, submissionView(row))
	}
	for _, row := range recent {
		summary.RecentSubmissions = append(summary.RecentSubmissions, submissionView(row))
	}
	return summary, nil
}

func submissionView(row repository.SubmissionWithQuiz) SubmissionView {
	return SubmissionView{
		ID:         row.ID,
		QuizID:     row.QuizID,
		QuizTitle:  row.QuizTitle,
		UserName:   row.UserName,
		UserEmail:  row.UserEmail,
		Score:      row.Score,
		Total:      row.Total,
		Percentage: row.Percentage,
		CreatedAt:  row.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
