// internal/services/auth_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/config"
	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

// AuthService handles registration, login and token refresh. Registration
// creates the publisher tenant and its owner user atomically.
type AuthService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

func NewAuthService(db *gorm.DB, cfg config.JWTConfig) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type RegisterRequest struct {
	PublisherName string `json:"publisher_name" binding:"required,min=2,max=255"`
	Slug          string `json:"slug" binding:"required,slug"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,strong_password"`
	Name          string `json:"name" binding:"required,min=2,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         models.User      `json:"user"`
	Publisher    models.Publisher `json:"publisher"`
}

// Register creates a new publisher and its owner account in one transaction.
func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("email already registered")
	}
	if err := s.db.Model(&models.Publisher{}).Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("slug already taken")
	}

	publisher := models.Publisher{
		Name:             req.PublisherName,
		Slug:             req.Slug,
		SubscriptionTier: models.TierFree,
		Settings:         models.JSONB{},
	}
	user := models.User{
		Email:  req.Email,
		Name:   req.Name,
		Role:   models.RoleOwner,
		Status: models.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&publisher).Error; err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		user.PublisherID = &publisher.ID
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"publisher_id": publisher.ID,
		"slug":         publisher.Slug,
	}).Info("Publisher registered")

	return s.issueTokens(&user, &publisher)
}

// Login verifies credentials and records the login time.
func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is disabled")
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	publisher, err := s.loadPublisher(user.PublisherID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(&user, publisher)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is disabled")
	}

	publisher, err := s.loadPublisher(user.PublisherID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(&user, publisher)
}

// GetProfile loads the authenticated user together with their publisher.
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Publisher").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) loadPublisher(publisherID *uuid.UUID) (*models.Publisher, error) {
	if publisherID == nil {
		return nil, fmt.Errorf("user has no publisher")
	}
	var publisher models.Publisher
	if err := s.db.First(&publisher, "id = ?", *publisherID).Error; err != nil {
		return nil, fmt.Errorf("failed to load publisher: %w", err)
	}
	return &publisher, nil
}

func (s *AuthService) issueTokens(user *models.User, publisher *models.Publisher) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, publisher.ID.String(),
		string(user.Role), s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
		Publisher:    *publisher,
	}, nil
}
