package controller

import (
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetSummary godoc
// @Summary Platform-wide statistics
// @Description Totals, averages, most-played quizzes, top performers and recent submissions.
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /admin/dashboard [get]
func (ctrl *DashboardController) GetSummary(c *gin.Context) {
	summary, err := ctrl.DashboardService.GetSummary()
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, summary)
}
