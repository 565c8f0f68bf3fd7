package controller

import (
	"quizarena_backend/internal/service"
	"quizarena_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description The first account ever created becomes ADMIN.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.AuthService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, result)
}

// Login godoc
// @Summary Authenticate and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.AuthService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// GetProfile godoc
// @Summary Current account profile
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/me [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	profile, err := ctrl.AuthService.GetProfile(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, profile)
}

// UpdateProfile godoc
// @Summary Update name or e-mail of the current account
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ProfileUpdateRequest true "Fields to update"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /auth/me [put]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req service.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	profile, err := ctrl.AuthService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, profile)
}

// ChangePassword godoc
// @Summary Change the current account's password
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /auth/me/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.AuthService.ChangePassword(claims.UserID, &req); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "password updated"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description Always answers 200 so the endpoint cannot be used to probe for accounts.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "Account e-mail"
// @Success 200 {object} util.Response
// @Router /auth/forgot-password [post]
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.AuthService.RequestPasswordReset(req.Email); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "if the e-mail exists, a reset link has been sent"})
}

// ResetPassword godoc
// @Summary Redeem a reset token for a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /auth/reset-password [post]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.AuthService.ResetPassword(&req); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "password updated"})
}
