// internal/services/product_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

// ProductService owns merchandise catalog CRUD and the product-to-asset
// mapping workflow.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=255"`
	Category string  `json:"category"`
	Price    float64 `json:"price" binding:"min=0"`
	SKU      string  `json:"sku" binding:"max=100"`
	Vendor   string  `json:"vendor" binding:"max=255"`
	GameIPID *string `json:"game_ip_id"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	SKU      *string  `json:"sku" binding:"omitempty,max=100"`
	Vendor   *string  `json:"vendor" binding:"omitempty,max=255"`
}

type MapProductRequest struct {
	GameIPID string   `json:"game_ip_id" binding:"required,uuid"`
	AssetIDs []string `json:"asset_ids" binding:"required,min=1"`
}

func (s *ProductService) List(publisherID uuid.UUID, params utils.PaginationParams, mappingStatus string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Product{}).Where("publisher_id = ?", publisherID)

	if params.Search != "" {
		search := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", search, search)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if mappingStatus != "" {
		query = query.Where("mapping_status = ?", mappingStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params, []string{"created_at", "name", "price", "total_revenue"})
	query = utils.ApplyPagination(query, params)
	if err := query.Preload("AssetLinks.IPAsset").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := utils.CreatePaginationResult(products, total, params)
	return &result, nil
}

func (s *ProductService) Get(publisherID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("AssetLinks.IPAsset").Preload("GameIP").
		Where("id = ? AND publisher_id = ?", productID, publisherID).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Create(publisherID uuid.UUID, req CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		PublisherID:   publisherID,
		Name:          req.Name,
		Category:      normalizeCategory(req.Category),
		Price:         req.Price,
		SKU:           req.SKU,
		Vendor:        req.Vendor,
		MappingStatus: models.MappingStatusUnmapped,
	}

	if req.GameIPID != nil && *req.GameIPID != "" {
		gameIPID, err := uuid.Parse(*req.GameIPID)
		if err != nil {
			return nil, fmt.Errorf("invalid game IP id")
		}
		if err := s.verifyGameIP(publisherID, gameIPID); err != nil {
			return nil, err
		}
		product.GameIPID = &gameIPID
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Update(publisherID, productID uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(publisherID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = normalizeCategory(*req.Category)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Vendor != nil {
		updates["vendor"] = *req.Vendor
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return s.Get(publisherID, productID)
}

func (s *ProductService) Delete(publisherID, productID uuid.UUID) error {
	result := s.db.Where("id = ? AND publisher_id = ?", productID, publisherID).
		Delete(&models.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// Map attaches a product to a Game IP and replaces its asset links. The
// mapping status moves to confirmed; revenue attribution picks the links up
// on the next metrics run.
func (s *ProductService) Map(publisherID, productID uuid.UUID, req MapProductRequest) (*models.Product, error) {
	gameIPID, err := uuid.Parse(req.GameIPID)
	if err != nil {
		return nil, fmt.Errorf("invalid game IP id")
	}
	if err := s.verifyGameIP(publisherID, gameIPID); err != nil {
		return nil, err
	}

	assetIDs := make([]uuid.UUID, 0, len(req.AssetIDs))
	for _, raw := range req.AssetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid asset id: %s", raw)
		}
		assetIDs = append(assetIDs, id)
	}

	var assetCount int64
	if err := s.db.Model(&models.IPAsset{}).
		Where("id IN ? AND publisher_id = ? AND game_ip_id = ?", assetIDs, publisherID, gameIPID).
		Count(&assetCount).Error; err != nil {
		return nil, fmt.Errorf("failed to verify assets: %w", err)
	}
	if int(assetCount) != len(assetIDs) {
		return nil, fmt.Errorf("one or more assets not found")
	}

	product, err := s.Get(publisherID, productID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&models.ProductAsset{}).Error; err != nil {
			return fmt.Errorf("failed to clear asset links: %w", err)
		}

		links := make([]models.ProductAsset, 0, len(assetIDs))
		for i, assetID := range assetIDs {
			links = append(links, models.ProductAsset{
				ProductID: product.ID,
				IPAssetID: assetID,
				IsPrimary: i == 0,
			})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("failed to create asset links: %w", err)
		}

		return tx.Model(product).Updates(map[string]interface{}{
			"game_ip_id":     gameIPID,
			"mapping_status": models.MappingStatusConfirmed,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(publisherID, productID)
}

// Unmap clears a product's asset links and marks it skipped so it stops
// showing up in the untagged queue.
func (s *ProductService) Unmap(publisherID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.Get(publisherID, productID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&models.ProductAsset{}).Error; err != nil {
			return fmt.Errorf("failed to clear asset links: %w", err)
		}
		return tx.Model(product).Updates(map[string]interface{}{
			"game_ip_id":     nil,
			"mapping_status": models.MappingStatusSkipped,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(publisherID, productID)
}

func (s *ProductService) verifyGameIP(publisherID, gameIPID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.GameIP{}).
		Where("id = ? AND publisher_id = ?", gameIPID, publisherID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to verify game IP: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("game IP not found")
	}
	return nil
}

// normalizeCategory maps free-form category strings onto the known set,
// defaulting to "other".
func normalizeCategory(raw string) models.ProductCategory {
	switch models.ProductCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case models.CategoryApparel:
		return models.CategoryApparel
	case models.CategoryCollectibles:
		return models.CategoryCollectibles
	case models.CategoryAccessories:
		return models.CategoryAccessories
	case models.CategoryHome:
		return models.CategoryHome
	case models.CategoryMedia:
		return models.CategoryMedia
	default:
		return models.CategoryOther
	}
}
