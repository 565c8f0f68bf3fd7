package service

import (
	"bytes"
	"context"
	"testing"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestCreateQuizDefaults(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)

	quiz, err := quizService.CreateQuiz(&QuizCreateRequest{
		Title:       "  Capitals of the World  ",
		Description: "Guess the capitals",
	})
	require.NoError(t, err)

	assert.Equal(t, "Capitals of the World", quiz.Title)
	assert.True(t, quiz.IsActive)
	assert.Equal(t, model.ModeSequential, quiz.Mode)
	assert.Nil(t, quiz.QuestionLimit)
	assert.True(t, quiz.BackgroundVideoLoop)
	assert.True(t, quiz.BackgroundVideoMuted)
	assert.Equal(t, 0.65, quiz.BackgroundImageIntensity)
	assert.Equal(t, 0.65, quiz.BackgroundVideoIntensity)
}

func TestCreateQuizRejectsInvertedVideoRange(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)

	_, err := quizService.CreateQuiz(&QuizCreateRequest{
		Title:                "Video quiz",
		Description:          "With a background video",
		BackgroundVideoURL:   strPtr("https://example.com/v.mp4"),
		BackgroundVideoStart: floatPtr(30),
		BackgroundVideoEnd:   floatPtr(10),
	})
	assert.ErrorIs(t, err, util.ErrInvalidVideoRange)
}

func TestUpdateQuizPartialPatch(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 2)

	updated, err := quizService.UpdateQuiz(quiz.ID, &QuizUpdateRequest{
		Title:    strPtr("Renamed"),
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsActive)
	// Untouched fields keep their values.
	assert.Equal(t, "A quiz seeded for tests", updated.Description)
	assert.Equal(t, model.ModeSequential, updated.Mode)
}

func TestUpdateQuizClearingVideoDropsPlaybackWindow(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 1)

	_, err := quizService.UpdateQuiz(quiz.ID, &QuizUpdateRequest{
		BackgroundVideoURL:   strPtr("https://example.com/v.mp4"),
		BackgroundVideoStart: floatPtr(5),
		BackgroundVideoEnd:   floatPtr(25),
	})
	require.NoError(t, err)

	cleared, err := quizService.UpdateQuiz(quiz.ID, &QuizUpdateRequest{
		BackgroundVideoURL: strPtr(""),
	})
	require.NoError(t, err)

	assert.Nil(t, cleared.BackgroundVideoURL)
	assert.Nil(t, cleared.BackgroundVideoStart)
	assert.Nil(t, cleared.BackgroundVideoEnd)
}

func TestUpdateQuizMissing(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)

	_, err := quizService.UpdateQuiz(999, &QuizUpdateRequest{Title: strPtr("Nope")})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestAddQuestionAppendsAtEnd(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 2)

	question, err := quizService.AddQuestion(quiz.ID, &QuestionCreateRequest{
		Text: "What is the capital of France?",
		Options: []OptionInput{
			{Text: "Paris", IsCorrect: true},
			{Text: "Lyon"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, question.Order)
	assert.Len(t, question.Options, 2)
}

func TestAddQuestionRequiresCorrectOption(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 0)

	_, err := quizService.AddQuestion(quiz.ID, &QuestionCreateRequest{
		Text:    "No right answer",
		Options: []OptionInput{{Text: "a"}, {Text: "b"}},
	})
	assert.ErrorIs(t, err, util.ErrNoCorrectOption)

	question, err := quizService.AddQuestion(quiz.ID, &QuestionCreateRequest{
		Text:    "Two right answers",
		Options: []OptionInput{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}},
	})
	require.NoError(t, err)
	assert.Len(t, question.Options, 2)
}

func TestDeleteQuestionRenumbersRest(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 4)

	require.NoError(t, quizService.DeleteQuestion(quiz.ID, quiz.Questions[1].ID))

	var remaining []model.Question
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Order("`order` asc").Find(&remaining).Error)
	require.Len(t, remaining, 3)
	for i, question := range remaining {
		assert.Equal(t, i+1, question.Order)
	}

	// The deleted question's options went with it.
	var orphanOptions int64
	require.NoError(t, db.Model(&model.Option{}).
		Where("question_id = ?", quiz.Questions[1].ID).Count(&orphanOptions).Error)
	assert.EqualValues(t, 0, orphanOptions)
}

func TestDeleteQuestionFromWrongQuiz(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 1)
	other := seedQuiz(t, db, model.ModeSequential, nil, 1)

	err := quizService.DeleteQuestion(quiz.ID, other.Questions[0].ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestListActiveQuizzesCountsAndCaps(t *testing.T) {
	db := newTestDB(t)
	quizService, _, submissionService, _, _ := newServices(t, db)

	limited := seedQuiz(t, db, model.ModeRandom, intPtr(3), 10)
	plain := seedQuiz(t, db, model.ModeSequential, nil, 2)
	inactive := seedQuiz(t, db, model.ModeSequential, nil, 2)
	require.NoError(t, db.Model(&model.Quiz{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	_, err := submissionService.CreateSubmission(plain.ID, &SubmissionRequest{
		UserName: "Solo", UserEmail: "solo@example.com", Answers: correctAnswers(t, db, plain.ID, 2),
	}, nil)
	require.NoError(t, err)

	summaries, err := quizService.ListActiveQuizzes()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := make(map[uint]ActiveQuizSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.ID] = summary
	}

	assert.Equal(t, 3, byID[limited.ID].QuestionCount) // capped at the limit
	assert.Equal(t, 0, byID[limited.ID].SubmissionCount)
	assert.Equal(t, 2, byID[plain.ID].QuestionCount)
	assert.Equal(t, 1, byID[plain.ID].SubmissionCount)
}

func TestUpdateQuizMediaStoresAndReplaces(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 1)
	ctx := context.Background()

	first, err := quizService.UpdateQuizMedia(ctx, quiz.ID, "background", "bg.png",
		bytes.NewReader([]byte("first image")), 11, "image/png")
	require.NoError(t, err)
	require.NotNil(t, first.BackgroundImageURL)
	assert.Contains(t, *first.BackgroundImageURL, "/uploads/")

	second, err := quizService.UpdateQuizMedia(ctx, quiz.ID, "background", "bg2.png",
		bytes.NewReader([]byte("second image")), 12, "image/png")
	require.NoError(t, err)
	require.NotNil(t, second.BackgroundImageURL)
	assert.NotEqual(t, *first.BackgroundImageURL, *second.BackgroundImageURL)
}

func TestUpdateQuizMediaRejectsUnknownSlot(t *testing.T) {
	db := newTestDB(t)
	quizService, _, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 1)

	_, err := quizService.UpdateQuizMedia(context.Background(), quiz.ID, "banner", "x.png",
		bytes.NewReader([]byte("img")), 3, "image/png")
	assert.ErrorIs(t, err, util.ErrInvalidMediaSlot)
}

func TestDeleteQuizCascades(t *testing.T) {
	db := newTestDB(t)
	quizService, _, submissionService, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 2)

	_, err := submissionService.CreateSubmission(quiz.ID, &SubmissionRequest{
		UserName: "Gone", UserEmail: "gone@example.com", Answers: correctAnswers(t, db, quiz.ID, 2),
	}, nil)
	require.NoError(t, err)

	require.NoError(t, quizService.DeleteQuiz(context.Background(), quiz.ID))

	for _, target := range []interface{}{
		&model.Quiz{}, &model.Question{}, &model.Option{}, &model.Submission{}, &model.SubmissionAnswer{},
	} {
		var count int64
		require.NoError(t, db.Model(target).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}
}
