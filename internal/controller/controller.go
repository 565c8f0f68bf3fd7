package controller

import (
	"errors"

	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service-level errors onto HTTP responses so every
// controller reports the same failure the same way.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrAlreadyParticipated),
		errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrNoQuestions):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(c)
	case errors.Is(err, util.ErrInvalidOption),
		errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrDuplicateAnswer),
		errors.Is(err, util.ErrIncompleteAnswers),
		errors.Is(err, util.ErrEmailRequired),
		errors.Is(err, util.ErrNoCorrectOption),
		errors.Is(err, util.ErrInvalidVideoRange),
		errors.Is(err, util.ErrInvalidMediaSlot),
		errors.Is(err, util.ErrInvalidFileType),
		errors.Is(err, util.ErrWrongPassword),
		errors.Is(err, util.ErrSamePassword),
		errors.Is(err, util.ErrInvalidResetToken),
		errors.Is(err, util.ErrExpiredResetToken):
		util.BadRequest(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
