package service

import (
	"testing"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestGetQuizForPlaySequentialKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 5)

	view, err := playService.GetQuizForPlay(quiz.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 5)

	for i, question := range view.Questions {
		assert.Equal(t, i+1, question.Order)
	}
}

func TestGetQuizForPlaySequentialLimitTakesFirstQuestions(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, intPtr(3), 5)

	view, err := playService.GetQuizForPlay(quiz.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 3)

	// The limit in sequential mode always yields questions 1..3 in order.
	for i, question := range view.Questions {
		assert.Equal(t, i+1, question.Order)
	}
}

func TestGetQuizForPlayRandomDrawsFromFullPool(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeRandom, intPtr(2), 6)

	validIDs := make(map[uint]bool, len(quiz.Questions))
	for _, question := range quiz.Questions {
		validIDs[question.ID] = true
	}

	for run := 0; run < 10; run++ {
		view, err := playService.GetQuizForPlay(quiz.ID)
		require.NoError(t, err)
		require.Len(t, view.Questions, 2)

		seen := make(map[uint]bool)
		for _, question := range view.Questions {
			assert.True(t, validIDs[question.ID])
			assert.False(t, seen[question.ID], "question repeated within one draw")
			seen[question.ID] = true
		}
	}
}

func TestGetQuizForPlayLimitLargerThanPool(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, intPtr(10), 4)

	view, err := playService.GetQuizForPlay(quiz.ID)
	require.NoError(t, err)
	assert.Len(t, view.Questions, 4)
}

func TestGetQuizForPlayNeverRevealsCorrectness(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 2)

	view, err := playService.GetQuizForPlay(quiz.ID)
	require.NoError(t, err)

	// PlayOption carries only id and text; presence of three options per
	// question confirms nothing was filtered by correctness either.
	for _, question := range view.Questions {
		assert.Len(t, question.Options, 3)
	}
}

func TestGetQuizForPlayInactiveLooksMissing(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 3)
	require.NoError(t, db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("is_active", false).Error)

	_, err := playService.GetQuizForPlay(quiz.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestGetQuizForPlayWithoutQuestions(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 0)

	_, err := playService.GetQuizForPlay(quiz.ID)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestValidateQuestionAnswer(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 1)
	question := quiz.Questions[0]

	var correct, wrong model.Option
	for _, option := range question.Options {
		if option.IsCorrect {
			correct = option
		} else {
			wrong = option
		}
	}

	result, err := playService.ValidateQuestionAnswer(quiz.ID, question.ID, correct.ID)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)

	result, err = playService.ValidateQuestionAnswer(quiz.ID, question.ID, wrong.ID)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
}

func TestValidateQuestionAnswerRejectsForeignOption(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 2)

	first := quiz.Questions[0]
	second := quiz.Questions[1]

	_, err := playService.ValidateQuestionAnswer(quiz.ID, first.ID, second.Options[0].ID)
	assert.ErrorIs(t, err, util.ErrInvalidOption)
}

func TestValidateQuestionAnswerInactiveQuiz(t *testing.T) {
	db := newTestDB(t)
	_, playService, _, _, _ := newServices(t, db)
	quiz := seedQuiz(t, db, model.ModeSequential, nil, 1)
	require.NoError(t, db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("is_active", false).Error)

	question := quiz.Questions[0]
	_, err := playService.ValidateQuestionAnswer(quiz.ID, question.ID, question.Options[0].ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
