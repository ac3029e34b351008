// internal/services/connector_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/models"
)

// ConnectorService manages sales data sources and the CSV import path. A
// Shopify connector only stores its credentials here; the sync worker is a
// separate concern.
type ConnectorService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewConnectorService(db *gorm.DB, storage *StorageService) *ConnectorService {
	return &ConnectorService{db: db, storage: storage}
}

type CreateConnectorRequest struct {
	Type   string       `json:"type" binding:"required,oneof=shopify csv"`
	Config models.JSONB `json:"config"`
}

// ImportSummary reports what one CSV import did. Row errors do not abort the
// import; they are collected so the user can fix and re-upload just the bad
// rows.
type ImportSummary struct {
	TotalRows       int      `json:"total_rows"`
	ImportedSales   int      `json:"imported_sales"`
	CreatedProducts int      `json:"created_products"`
	SkippedRows     []string `json:"skipped_rows,omitempty"`
	ArchiveKey      string   `json:"archive_key,omitempty"`
}

func (s *ConnectorService) List(publisherID uuid.UUID) ([]models.Connector, error) {
	var connectors []models.Connector
	if err := s.db.Where("publisher_id = ?", publisherID).
		Order("created_at ASC").Find(&connectors).Error; err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}
	return connectors, nil
}

func (s *ConnectorService) Get(publisherID, connectorID uuid.UUID) (*models.Connector, error) {
	var connector models.Connector
	err := s.db.Where("id = ? AND publisher_id = ?", connectorID, publisherID).
		First(&connector).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("connector not found")
		}
		return nil, fmt.Errorf("failed to load connector: %w", err)
	}
	return &connector, nil
}

func (s *ConnectorService) Create(publisherID uuid.UUID, req CreateConnectorRequest) (*models.Connector, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = models.JSONB{}
	}

	connector := models.Connector{
		PublisherID: publisherID,
		Type:        models.ConnectorType(req.Type),
		Status:      models.ConnectorStatusPending,
		Config:      cfg,
	}
	if connector.Type == models.ConnectorTypeCSV {
		// CSV connectors have no handshake, they are live immediately.
		connector.Status = models.ConnectorStatusActive
	}

	if err := s.db.Create(&connector).Error; err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	return &connector, nil
}

func (s *ConnectorService) Delete(publisherID, connectorID uuid.UUID) error {
	result := s.db.Where("id = ? AND publisher_id = ?", connectorID, publisherID).
		Delete(&models.Connector{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete connector: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("connector not found")
	}
	return nil
}

// csvColumns maps header names to positions. Expected headers:
// product_name, sku, category, quantity, revenue, region, channel, order_date.
type csvColumns map[string]int

func (c csvColumns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ImportCSV ingests a sales export through a CSV connector. Products are
// matched by SKU first, then by exact name; unmatched rows create a new
// unmapped product so no revenue is dropped. The raw file is archived after
// a successful parse.
func (s *ConnectorService) ImportCSV(publisherID, connectorID uuid.UUID, filename string, content []byte) (*ImportSummary, error) {
	connector, err := s.Get(publisherID, connectorID)
	if err != nil {
		return nil, err
	}
	if connector.Type != models.ConnectorTypeCSV {
		return nil, fmt.Errorf("connector does not accept file imports")
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(csvColumns, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["revenue"]; !ok {
		return nil, fmt.Errorf("CSV is missing required column: revenue")
	}
	if _, ok := columns["order_date"]; !ok {
		return nil, fmt.Errorf("CSV is missing required column: order_date")
	}

	summary := &ImportSummary{}
	productCache := map[string]uuid.UUID{}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rowNum := 1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			rowNum++
			if err != nil {
				summary.SkippedRows = append(summary.SkippedRows,
					fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			summary.TotalRows++

			orderDate, err := parseOrderDate(columns.get(record, "order_date"))
			if err != nil {
				summary.SkippedRows = append(summary.SkippedRows,
					fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}

			productID, created, err := s.resolveProduct(tx, publisherID, connectorID, record, columns, productCache)
			if err != nil {
				return err
			}
			if created {
				summary.CreatedProducts++
			}

			quantity := 1
			if q, err := strconv.Atoi(columns.get(record, "quantity")); err == nil && q > 0 {
				quantity = q
			}

			sale := models.Sale{
				PublisherID: publisherID,
				ProductID:   productID,
				ConnectorID: &connectorID,
				Quantity:    quantity,
				Revenue:     normalizeRevenue(columns.get(record, "revenue")),
				Region:      columns.get(record, "region"),
				Channel:     columns.get(record, "channel"),
				OrderDate:   orderDate,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return fmt.Errorf("failed to insert sale at row %d: %w", rowNum, err)
			}
			summary.ImportedSales++
		}

		if err := s.refreshRevenueCache(tx, publisherID, productCache); err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(connector).Updates(map[string]interface{}{
			"last_sync_at": now,
			"status":       models.ConnectorStatusActive,
		}).Error
	})
	if err != nil {
		s.db.Model(connector).Update("status", models.ConnectorStatusError)
		return nil, err
	}

	if archive, err := s.storage.ArchiveImport(publisherID, filename, content); err != nil {
		// The data is already committed; a failed archive is only logged.
		logrus.WithError(err).Warn("Failed to archive import file")
	} else {
		summary.ArchiveKey = archive.Key
	}

	logrus.WithFields(logrus.Fields{
		"publisher_id": publisherID,
		"connector_id": connectorID,
		"rows":         summary.TotalRows,
		"sales":        summary.ImportedSales,
		"new_products": summary.CreatedProducts,
		"skipped":      len(summary.SkippedRows),
	}).Info("CSV import completed")

	return summary, nil
}

func (s *ConnectorService) resolveProduct(tx *gorm.DB, publisherID, connectorID uuid.UUID, record []string, columns csvColumns, cache map[string]uuid.UUID) (uuid.UUID, bool, error) {
	sku := columns.get(record, "sku")
	name := columns.get(record, "product_name")
	if name == "" {
		name = columns.get(record, "name")
	}
	if sku == "" && name == "" {
		name = "Unknown Product"
	}

	cacheKey := strings.ToLower(sku + "|" + name)
	if id, ok := cache[cacheKey]; ok {
		return id, false, nil
	}

	var product models.Product
	query := tx.Where("publisher_id = ?", publisherID)
	if sku != "" {
		query = query.Where("sku = ?", sku)
	} else {
		query = query.Where("name = ?", name)
	}
	err := query.First(&product).Error
	if err == nil {
		cache[cacheKey] = product.ID
		return product.ID, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return uuid.Nil, false, fmt.Errorf("failed to look up product: %w", err)
	}

	if name == "" {
		name = sku
	}
	product = models.Product{
		PublisherID:   publisherID,
		ConnectorID:   &connectorID,
		Name:          name,
		SKU:           sku,
		Category:      normalizeCategory(columns.get(record, "category")),
		MappingStatus: models.MappingStatusUnmapped,
	}
	if err := tx.Create(&product).Error; err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create product: %w", err)
	}
	cache[cacheKey] = product.ID
	return product.ID, true, nil
}

// refreshRevenueCache recomputes the cached total_revenue for every product
// touched by this import.
func (s *ConnectorService) refreshRevenueCache(tx *gorm.DB, publisherID uuid.UUID, cache map[string]uuid.UUID) error {
	if len(cache) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(cache))
	for _, id := range cache {
		ids = append(ids, id)
	}

	return tx.Exec(`
		UPDATE products SET total_revenue = sub.total
		FROM (
			SELECT product_id, COALESCE(SUM(revenue), 0) AS total
			FROM sales
			WHERE publisher_id = ? AND product_id IN ? AND deleted_at IS NULL
			GROUP BY product_id
		) AS sub
		WHERE products.id = sub.product_id
	`, publisherID, ids).Error
}

var orderDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func parseOrderDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing order_date")
	}
	for _, layout := range orderDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable order_date %q", raw)
}

// normalizeRevenue strips currency noise so the value stores cleanly in a
// decimal column. Unparseable values store as "0".
func normalizeRevenue(raw string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", ""))
	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return "0"
	}
	return cleaned
}
