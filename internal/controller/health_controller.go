package controller

import (
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// HealthCheck godoc
// @Summary Service liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (ctrl *HealthController) HealthCheck(c *gin.Context) {
	util.Success(c, gin.H{"status": "ok"})
}
