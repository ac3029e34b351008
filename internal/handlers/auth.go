// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a publisher workspace and its owner account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		respondServiceError(c, err, "publisher")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, resp, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthRegisterSuccess),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, resp, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	resp, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	utils.SuccessResponse(c, resp)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.auth.GetProfile(userID)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	utils.SuccessResponse(c, user)
}
