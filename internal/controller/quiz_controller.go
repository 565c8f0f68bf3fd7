package controller

import (
	"io"
	"strconv"

	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService       *service.QuizService
	SubmissionService *service.SubmissionService
}

func NewQuizController(quizService *service.QuizService, submissionService *service.SubmissionService) *QuizController {
	return &QuizController{QuizService: quizService, SubmissionService: submissionService}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		util.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.QuizCreateRequest true "Quiz data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/quizzes [post]
func (ctrl *QuizController) CreateQuiz(c *gin.Context) {
	var req service.QuizCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	quiz, err := ctrl.QuizService.CreateQuiz(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, quiz)
}

// ListQuizzes godoc
// @Summary List every quiz with questions and correctness flags
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/quizzes [get]
func (ctrl *QuizController) ListQuizzes(c *gin.Context) {
	quizzes, err := ctrl.QuizService.ListQuizzes()
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quizzes)
}

// GetQuiz godoc
// @Summary Fetch one quiz in full, correctness flags included
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/quizzes/{quizId} [get]
func (ctrl *QuizController) GetQuiz(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	quiz, err := ctrl.QuizService.GetQuizByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quiz)
}

// UpdateQuiz godoc
// @Summary Partially update a quiz
// @Description Absent fields stay untouched. An empty backgroundVideoUrl clears the video and its start/end marks.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Param request body service.QuizUpdateRequest true "Fields to update"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/quizzes/{quizId} [put]
func (ctrl *QuizController) UpdateQuiz(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	var req service.QuizUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	quiz, err := ctrl.QuizService.UpdateQuiz(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quiz)
}

// DeleteQuiz godoc
// @Summary Delete a quiz and everything attached to it
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/quizzes/{quizId} [delete]
func (ctrl *QuizController) DeleteQuiz(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	if err := ctrl.QuizService.DeleteQuiz(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "quiz deleted"})
}

// UploadQuizMedia godoc
// @Summary Upload or replace a quiz image
// @Description slot is "background" or "header"; the previous file is removed from storage.
// @Tags quizzes
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Param slot path string true "Media slot" Enums(background, header)
// @Param file formData file true "Image file"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/quizzes/{quizId}/media/{slot} [put]
func (ctrl *QuizController) UploadQuizMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}
	slot := c.Param("slot")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer file.Close()

	contentType, err := util.ValidateMimeType(file, []string{"image/"})
	if err != nil {
		util.BadRequest(c, util.ErrInvalidFileType.Error())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(c, err)
		return
	}

	quiz, err := ctrl.QuizService.UpdateQuizMedia(
		c.Request.Context(), id, slot, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quiz)
}

// AddQuestion godoc
// @Summary Add a question with its options to a quiz
// @Description Options must include at least one correct answer. Without an explicit order the question is appended.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Param request body service.QuestionCreateRequest true "Question data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/quizzes/{quizId}/questions [post]
func (ctrl *QuizController) AddQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	var req service.QuestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.QuizService.AddQuestion(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, question)
}

// DeleteQuestion godoc
// @Summary Delete a question and renumber the rest
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Param questionId path int true "Question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/quizzes/{quizId}/questions/{questionId} [delete]
func (ctrl *QuizController) DeleteQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := ctrl.QuizService.DeleteQuestion(id, questionID); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "question deleted"})
}

// ClearRanking godoc
// @Summary Delete every submission of a quiz
// @Description Frees all participant e-mails to play again. Safe to repeat.
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "Quiz id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/quizzes/{quizId}/ranking [delete]
func (ctrl *QuizController) ClearRanking(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	result, err := ctrl.SubmissionService.ClearRanking(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}
