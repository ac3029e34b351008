// internal/services/sale_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

// SaleService serves the read side of the sales ledger. Ingestion lives in
// ConnectorService; rows here are immutable.
type SaleService struct {
	db *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService {
	return &SaleService{db: db}
}

// SaleFilter narrows a sales listing. Zero values mean no constraint.
type SaleFilter struct {
	Start     *time.Time
	End       *time.Time
	ProductID *uuid.UUID
	Region    string
	Channel   string
}

func (s *SaleService) List(publisherID uuid.UUID, filter SaleFilter, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Sale{}).Where("publisher_id = ?", publisherID)

	if filter.Start != nil {
		query = query.Where("order_date >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("order_date <= ?", *filter.End)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	var sales []models.Sale
	query = utils.ApplySort(query, params, []string{"order_date", "revenue", "created_at"})
	if err := utils.ApplyPagination(query, params).
		Preload("Product").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	result := utils.CreatePaginationResult(sales, total, params)
	return &result, nil
}
