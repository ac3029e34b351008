// internal/services/ip_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/models"
)

// IPService manages Game IPs and their taggable assets.
type IPService struct {
	db *gorm.DB
}

func NewIPService(db *gorm.DB) *IPService {
	return &IPService{db: db}
}

type CreateGameIPRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Genre       string `json:"genre" binding:"max=100"`
	Description string `json:"description"`
}

type UpdateGameIPRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Genre       *string `json:"genre" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

type CreateAssetRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	AssetType   string   `json:"asset_type" binding:"required,oneof=character theme logo world item"`
	Description string   `json:"description"`
	Popularity  *int     `json:"popularity" binding:"omitempty,min=0,max=100"`
	Tags        []string `json:"tags"`
}

type UpdateAssetRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Popularity  *int     `json:"popularity" binding:"omitempty,min=0,max=100"`
	Tags        []string `json:"tags"`
}

func (s *IPService) ListGameIPs(publisherID uuid.UUID) ([]models.GameIP, error) {
	var gameIPs []models.GameIP
	if err := s.db.Preload("Assets").
		Where("publisher_id = ?", publisherID).
		Order("created_at ASC").Find(&gameIPs).Error; err != nil {
		return nil, fmt.Errorf("failed to list game IPs: %w", err)
	}
	return gameIPs, nil
}

func (s *IPService) GetGameIP(publisherID, gameIPID uuid.UUID) (*models.GameIP, error) {
	var gameIP models.GameIP
	err := s.db.Preload("Assets").
		Where("id = ? AND publisher_id = ?", gameIPID, publisherID).
		First(&gameIP).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("game IP not found")
		}
		return nil, fmt.Errorf("failed to load game IP: %w", err)
	}
	return &gameIP, nil
}

func (s *IPService) CreateGameIP(publisherID uuid.UUID, req CreateGameIPRequest) (*models.GameIP, error) {
	gameIP := models.GameIP{
		PublisherID: publisherID,
		Name:        req.Name,
		Genre:       req.Genre,
		Description: req.Description,
	}
	if err := s.db.Create(&gameIP).Error; err != nil {
		return nil, fmt.Errorf("failed to create game IP: %w", err)
	}
	return &gameIP, nil
}

func (s *IPService) UpdateGameIP(publisherID, gameIPID uuid.UUID, req UpdateGameIPRequest) (*models.GameIP, error) {
	gameIP, err := s.GetGameIP(publisherID, gameIPID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.db.Model(gameIP).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update game IP: %w", err)
		}
	}
	return s.GetGameIP(publisherID, gameIPID)
}

func (s *IPService) DeleteGameIP(publisherID, gameIPID uuid.UUID) error {
	var productCount int64
	if err := s.db.Model(&models.Product{}).
		Where("game_ip_id = ?", gameIPID).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("game IP still has mapped products")
	}

	result := s.db.Where("id = ? AND publisher_id = ?", gameIPID, publisherID).
		Delete(&models.GameIP{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete game IP: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("game IP not found")
	}
	return nil
}

func (s *IPService) ListAssets(publisherID, gameIPID uuid.UUID) ([]models.IPAsset, error) {
	if _, err := s.GetGameIP(publisherID, gameIPID); err != nil {
		return nil, err
	}

	var assets []models.IPAsset
	if err := s.db.Where("game_ip_id = ?", gameIPID).
		Order("popularity DESC, name ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (s *IPService) CreateAsset(publisherID, gameIPID uuid.UUID, req CreateAssetRequest) (*models.IPAsset, error) {
	if _, err := s.GetGameIP(publisherID, gameIPID); err != nil {
		return nil, err
	}

	asset := models.IPAsset{
		PublisherID: publisherID,
		GameIPID:    gameIPID,
		Name:        req.Name,
		AssetType:   models.AssetType(req.AssetType),
		Description: req.Description,
		Popularity:  50,
		Tags:        pq.StringArray(req.Tags),
	}
	if req.Popularity != nil {
		asset.Popularity = *req.Popularity
	}

	if err := s.db.Create(&asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return &asset, nil
}

func (s *IPService) UpdateAsset(publisherID, assetID uuid.UUID, req UpdateAssetRequest) (*models.IPAsset, error) {
	var asset models.IPAsset
	err := s.db.Where("id = ? AND publisher_id = ?", assetID, publisherID).
		First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("asset not found")
		}
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Popularity != nil {
		updates["popularity"] = *req.Popularity
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if len(updates) > 0 {
		if err := s.db.Model(&asset).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update asset: %w", err)
		}
	}

	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload asset: %w", err)
	}
	return &asset, nil
}

func (s *IPService) DeleteAsset(publisherID, assetID uuid.UUID) error {
	var linkCount int64
	if err := s.db.Model(&models.ProductAsset{}).
		Where("ip_asset_id = ?", assetID).Count(&linkCount).Error; err != nil {
		return fmt.Errorf("failed to check asset links: %w", err)
	}
	if linkCount > 0 {
		return fmt.Errorf("asset is still linked to products")
	}

	result := s.db.Where("id = ? AND publisher_id = ?", assetID, publisherID).
		Delete(&models.IPAsset{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("asset not found")
	}
	return nil
}
