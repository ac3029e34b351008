// internal/services/user_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

// UserService manages team membership inside a publisher workspace: invites,
// role changes and deactivation. Only the hash of an invite token is stored;
// the raw token travels once, in the invitation email link.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type InviteUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Role  string `json:"role" binding:"required,oneof=admin member analyst"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,strong_password"`
}

func (s *UserService) List(publisherID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("publisher_id = ?", publisherID).
		Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Invite pre-creates a user in invited status and returns the raw invite
// token for the caller to deliver.
func (s *UserService) Invite(publisherID uuid.UUID, req InviteUserRequest) (*models.User, string, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, "", fmt.Errorf("email already registered")
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	user := models.User{
		PublisherID:     &publisherID,
		Email:           req.Email,
		Name:            req.Name,
		Role:            models.UserRole(req.Role),
		Status:          models.UserStatusInvited,
		InviteTokenHash: utils.HashString(token),
	}
	// Placeholder hash; replaced when the invite is accepted.
	if err := user.SetPassword(token); err != nil {
		return nil, "", fmt.Errorf("failed to initialize password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create invited user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"publisher_id": publisherID,
		"email":        req.Email,
		"role":         req.Role,
	}).Info("User invited")

	return &user, token, nil
}

// AcceptInvite activates an invited account and sets its real password.
func (s *UserService) AcceptInvite(req AcceptInviteRequest) (*models.User, error) {
	var user models.User
	err := s.db.Where("invite_token_hash = ? AND status = ?",
		utils.HashString(req.Token), models.UserStatusInvited).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invite not found")
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":     user.PasswordHash,
		"status":            models.UserStatusActive,
		"invite_token_hash": "",
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	user.Status = models.UserStatusActive
	return &user, nil
}

// UpdateRole changes a member's role. The owner role cannot be granted or
// revoked here.
func (s *UserService) UpdateRole(publisherID, userID uuid.UUID, role models.UserRole) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RoleMember, models.RoleAnalyst:
	default:
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	user, err := s.memberOf(publisherID, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleOwner {
		return nil, fmt.Errorf("owner role cannot be changed")
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role
	return user, nil
}

// Disable locks an account out without deleting its audit trail.
func (s *UserService) Disable(publisherID, userID uuid.UUID) error {
	user, err := s.memberOf(publisherID, userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleOwner {
		return fmt.Errorf("owner account cannot be disabled")
	}

	if err := s.db.Model(user).Update("status", models.UserStatusDisabled).Error; err != nil {
		return fmt.Errorf("failed to disable user: %w", err)
	}
	return nil
}

func (s *UserService) memberOf(publisherID, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND publisher_id = ?", userID, publisherID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
