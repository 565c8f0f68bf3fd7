package controller

import (
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// ListUsers godoc
// @Summary List all accounts
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /admin/users [get]
func (ctrl *UserController) ListUsers(c *gin.Context) {
	users, err := ctrl.UserService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, users)
}

// CreateUser godoc
// @Summary Create an account with an explicit role
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.UserCreateRequest true "Account data"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /admin/users [post]
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req service.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctrl.UserService.CreateUser(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, user)
}
