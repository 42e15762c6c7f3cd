package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onetenth/thanks-point/internal/core/auth"
)

// AuthHandler はログインとパスワード変更のエンドポイントを提供します。
type AuthHandler struct {
	auth auth.UseCase
}

// NewAuthHandler は AuthHandler を生成します。
func NewAuthHandler(uc auth.UseCase) *AuthHandler {
	return &AuthHandler{auth: uc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Mode     string `json:"mode"`
}

type loginResponse struct {
	Employee              employeeResponse `json:"employee"`
	IsAdmin               bool             `json:"isAdmin"`
	RequirePasswordChange bool             `json:"requirePasswordChange"`
}

// Login は POST /api/login を処理します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := auth.ModeEmployee
	if req.Mode == string(auth.ModeAdmin) {
		mode = auth.ModeAdmin
	}

	result, err := h.auth.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Mode:     mode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Employee:              toEmployeeResponse(result.Employee),
		IsAdmin:               result.IsAdmin,
		RequirePasswordChange: result.RequirePasswordChange,
	})
}

type changePasswordRequest struct {
	EmployeeID      string `json:"employeeId"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePassword は POST /api/password を処理します。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), auth.ChangePasswordInput{
		EmployeeID:      req.EmployeeID,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
