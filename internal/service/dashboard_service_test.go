package service

import (
	"testing"

	"quizarena_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryEmptyPlatform(t *testing.T) {
	db := newTestDB(t)
	_, _, _, _, dashboardService := newServices(t, db)

	summary, err := dashboardService.GetSummary()
	require.NoError(t, err)

	assert.EqualValues(t, 0, summary.TotalQuizzes)
	assert.EqualValues(t, 0, summary.TotalSubmissions)
	assert.Equal(t, 0.0, summary.AvgScore)
	assert.Equal(t, 0.0, summary.AvgPercentage)
	assert.Empty(t, summary.TopQuizzes)
	assert.Empty(t, summary.RecentSubmissions)
}

func TestDashboardSummaryAggregates(t *testing.T) {
	db := newTestDB(t)
	_, _, submissionService, _, dashboardService := newServices(t, db)

	popular := seedQuiz(t, db, model.ModeSequential, nil, 2)
	quiet := seedQuiz(t, db, model.ModeSequential, nil, 2)
	hidden := seedQuiz(t, db, model.ModeSequential, nil, 1)
	require.NoError(t, db.Model(&model.Quiz{}).Where("id = ?", hidden.ID).Update("is_active", false).Error)

	// Two perfect runs on the popular quiz, one half score on the quiet one.
	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := submissionService.CreateSubmission(popular.ID, &SubmissionRequest{
			UserName: "P", UserEmail: email, Answers: correctAnswers(t, db, popular.ID, 2),
		}, nil)
		require.NoError(t, err)
	}
	mixed := correctAnswers(t, db, quiet.ID, 2)
	mixed[1] = wrongAnswers(t, db, quiet.ID, 2)[1]
	_, err := submissionService.CreateSubmission(quiet.ID, &SubmissionRequest{
		UserName: "Q", UserEmail: "c@example.com", Answers: mixed,
	}, nil)
	require.NoError(t, err)

	summary, err := dashboardService.GetSummary()
	require.NoError(t, err)

	assert.EqualValues(t, 3, summary.TotalQuizzes)
	assert.EqualValues(t, 2, summary.ActiveQuizzes)
	assert.EqualValues(t, 5, summary.TotalQuestions)
	assert.EqualValues(t, 3, summary.TotalSubmissions)
	assert.Equal(t, 1.67, summary.AvgScore)      // (2+2+1)/3
	assert.Equal(t, 83.33, summary.AvgPercentage) // (100+100+50)/3

	require.NotEmpty(t, summary.TopQuizzes)
	assert.Equal(t, popular.ID, summary.TopQuizzes[0].QuizID)
	assert.Equal(t, 2, summary.TopQuizzes[0].SubmissionCount)
	assert.Equal(t, 100.0, summary.TopQuizzes[0].AvgPercentage)

	require.Len(t, summary.RecentSubmissions, 3)
	assert.NotEmpty(t, summary.RecentSubmissions[0].QuizTitle)

	require.NotEmpty(t, summary.TopPerformers)
	assert.Equal(t, 100.0, summary.TopPerformers[0].Percentage)
}
