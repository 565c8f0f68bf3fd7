package controller

import (
	"strconv"

	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PlayController serves the anonymous-facing endpoints: catalog, playable
// quizzes, mid-game validation, submissions and rankings.
type PlayController struct {
	QuizService       *service.QuizService
	PlayService       *service.PlayService
	SubmissionService *service.SubmissionService
}

func NewPlayController(quizService *service.QuizService, playService *service.PlayService, submissionService *service.SubmissionService) *PlayController {
	return &PlayController{
		QuizService:       quizService,
		PlayService:       playService,
		SubmissionService: submissionService,
	}
}

// ListActiveQuizzes godoc
// @Summary Public catalog of active quizzes
// @Tags play
// @Produce json
// @Success 200 {object} util.Response
// @Router /quizzes [get]
func (ctrl *PlayController) ListActiveQuizzes(c *gin.Context) {
	quizzes, err := ctrl.QuizService.ListActiveQuizzes()
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quizzes)
}

// GetQuizForPlay godoc
// @Summary Fetch a quiz ready to play
// @Description Question selection honors the quiz mode and question limit. Options never reveal which is correct.
// @Tags play
// @Produce json
// @Param quizId path int true "Quiz id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /quizzes/{quizId} [get]
func (ctrl *PlayController) GetQuizForPlay(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	quiz, err := ctrl.PlayService.GetQuizForPlay(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, quiz)
}

type validateAnswerRequest struct {
	OptionID uint `json:"optionId" binding:"required"`
}

// ValidateAnswer godoc
// @Summary Check one answer mid-game
// @Description Stateless; nothing is recorded.
// @Tags play
// @Accept json
// @Produce json
// @Param quizId path int true "Quiz id"
// @Param questionId path int true "Question id"
// @Param request body validateAnswerRequest true "Answer to check"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/{quizId}/questions/{questionId}/validate [post]
func (ctrl *PlayController) ValidateAnswer(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	var req validateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.PlayService.ValidateQuestionAnswer(id, questionID, req.OptionID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// CreateSubmission godoc
// @Summary Submit a completed answer sheet
// @Description One submission per e-mail per quiz. A bearer token is optional; when present the submission is linked to the account and gamification runs.
// @Tags play
// @Accept json
// @Produce json
// @Param quizId path int true "Quiz id"
// @Param request body service.SubmissionRequest true "Answer sheet"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /quizzes/{quizId}/submissions [post]
func (ctrl *PlayController) CreateSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	var req service.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	actor := util.GetUserFromContext(c)
	result, err := ctrl.SubmissionService.CreateSubmission(id, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

// GetRanking godoc
// @Summary Ranking of a quiz
// @Description Best score first, earlier submission winning ties. Available for inactive quizzes too.
// @Tags play
// @Produce json
// @Param quizId path int true "Quiz id"
// @Param limit query int false "Maximum entries (default 10)"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/{quizId}/ranking [get]
func (ctrl *PlayController) GetRanking(c *gin.Context) {
	id, ok := parseIDParam(c, "quizId")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ranking, err := ctrl.SubmissionService.GetRanking(id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, ranking)
}
