// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	users, err := h.users.List(publisherID)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	utils.SuccessResponse(c, users)
}

// Invite pre-creates a team member. The invite token is returned in the
// response; mail delivery is the frontend's concern.
func (h *UserHandler) Invite(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req services.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	user, token, err := h.users.Invite(publisherID, req)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, gin.H{
		"user":         user,
		"invite_token": token,
	}, gin.H{
		"message": i18n.T(lang, i18n.KeyUserInvited),
	})
}

func (h *UserHandler) AcceptInvite(c *gin.Context) {
	var req services.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	user, err := h.users.AcceptInvite(req)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=admin member analyst"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	user, err := h.users.UpdateRole(publisherID, userID, models.UserRole(req.Role))
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *UserHandler) Disable(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Disable(publisherID, userID); err != nil {
		respondServiceError(c, err, "user")
		return
	}
	utils.SuccessResponse(c, gin.H{"disabled": true})
}
