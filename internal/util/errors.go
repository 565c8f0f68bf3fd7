package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrSamePassword        = errors.New("new password must differ from the current one")
	ErrInvalidResetToken   = errors.New("reset token invalid or already used")
	ErrExpiredResetToken   = errors.New("reset token expired")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found for this quiz")
	ErrNoQuestions         = errors.New("quiz has no questions available")
	ErrInvalidOption       = errors.New("option does not belong to this question")
	ErrInvalidQuestion     = errors.New("question does not belong to this quiz")
	ErrDuplicateAnswer     = errors.New("each question must be answered exactly once")
	ErrIncompleteAnswers   = errors.New("all quiz questions must be answered")
	ErrEmailRequired       = errors.New("a valid e-mail is required")
	ErrAlreadyParticipated = errors.New("this e-mail has already participated in this quiz")
	ErrNoCorrectOption     = errors.New("question must have at least one correct option")
	ErrInvalidVideoRange   = errors.New("video end must be greater than video start")
	ErrInvalidMediaSlot    = errors.New("media slot must be background or header")
	ErrInvalidFileType     = errors.New("unsupported file type")
)
