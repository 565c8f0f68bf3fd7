package controller

import (
	"strconv"

	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	GamificationService *service.GamificationService
}

func NewGamificationController(gamificationService *service.GamificationService) *GamificationController {
	return &GamificationController{GamificationService: gamificationService}
}

// GetMyGamification godoc
// @Summary Progression of the current account
// @Description Stats, owned badges newest first, and the last 20 activity events.
// @Tags gamification
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /gamification/profile [get]
func (ctrl *GamificationController) GetMyGamification(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	profile, err := ctrl.GamificationService.GetUserGamification(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, profile)
}

// GetLeaderboard godoc
// @Summary Global points leaderboard
// @Tags gamification
// @Produce json
// @Param limit query int false "Maximum entries (default 10)"
// @Success 200 {object} util.Response
// @Router /gamification/leaderboard [get]
func (ctrl *GamificationController) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	leaderboard, err := ctrl.GamificationService.GetGlobalLeaderboard(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, leaderboard)
}
