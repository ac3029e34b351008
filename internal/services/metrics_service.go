// internal/services/metrics_service.go
package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/models"
)

const (
	topProductLookupLimit = 20
	topListLimit          = 10
)

// MetricsService computes revenue rollups for one publisher over a date
// range. It has no side effects; safe to call concurrently for different
// publishers.
type MetricsService struct {
	db *gorm.DB
}

type ProductRevenue struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Revenue   float64   `json:"revenue"`
	Units     int       `json:"units"`
}

type AssetRevenue struct {
	AssetID uuid.UUID `json:"asset_id"`
	Name    string    `json:"name"`
	Revenue float64   `json:"revenue"`
}

type CategoryStats struct {
	Revenue float64 `json:"revenue"`
	Units   int     `json:"units"`
}

type RegionStats struct {
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// PublisherMetrics is the rollup persisted into snapshot rows and returned by
// the analytics overview endpoint. GrowthRate is nil when no previous period
// was requested or the previous period had zero revenue: that is "no signal",
// not an error.
type PublisherMetrics struct {
	TotalRevenue      float64                  `json:"total_revenue"`
	TotalOrders       int                      `json:"total_orders"`
	TotalUnits        int                      `json:"total_units"`
	AvgOrderValue     float64                  `json:"avg_order_value"`
	TopProducts       []ProductRevenue         `json:"top_products"`
	TopAssets         []AssetRevenue           `json:"top_assets"`
	CategoryBreakdown map[string]CategoryStats `json:"category_breakdown"`
	RegionBreakdown   map[string]RegionStats   `json:"region_breakdown"`
	GrowthRate        *float64                 `json:"growth_rate,omitempty"`
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

// Calculate aggregates the publisher's sales in [start, end]. When previous
// is non-nil, period-over-period growth is computed against that interval.
func (s *MetricsService) Calculate(publisherID uuid.UUID, start, end time.Time, previous *DateRange) (*PublisherMetrics, error) {
	var sales []models.Sale
	if err := s.db.
		Where("publisher_id = ? AND order_date >= ? AND order_date <= ?", publisherID, start, end).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}

	totals := reduceSales(sales)

	metrics := &PublisherMetrics{
		TotalRevenue:      totals.revenue,
		TotalOrders:       totals.orders,
		TotalUnits:        totals.units,
		AvgOrderValue:     totals.avgOrderValue(),
		RegionBreakdown:   regionBreakdown(sales),
		CategoryBreakdown: map[string]CategoryStats{},
		TopProducts:       []ProductRevenue{},
		TopAssets:         []AssetRevenue{},
	}

	if len(sales) > 0 {
		// Resolve names for the top products only, to bound query volume.
		topIDs := topProductIDs(totals.byProduct, topProductLookupLimit)
		names, categories, err := s.productLookup(topIDs, publisherID)
		if err != nil {
			return nil, err
		}
		metrics.TopProducts = topProducts(totals.byProduct, names, topListLimit)

		links, assetNames, err := s.assetLinks(publisherID)
		if err != nil {
			return nil, err
		}
		metrics.TopAssets = topAssets(totals.byProduct, links, assetNames, topListLimit)
		metrics.CategoryBreakdown = categoryBreakdown(totals.byProduct, categories)
	}

	if previous != nil {
		prevRevenue, err := s.totalRevenue(publisherID, previous.Start, previous.End)
		if err != nil {
			return nil, err
		}
		metrics.GrowthRate = growthRate(totals.revenue, prevRevenue)
	}

	return metrics, nil
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// productTotals is a per-product running aggregate.
type productTotals struct {
	revenue float64
	units   int
}

type salesTotals struct {
	revenue   float64
	orders    int
	units     int
	byProduct map[uuid.UUID]productTotals
}

func (t salesTotals) avgOrderValue() float64 {
	if t.orders == 0 {
		return 0
	}
	return t.revenue / float64(t.orders)
}

// reduceSales folds sale rows into totals. Revenue is stored as a decimal
// string; unparseable values count as 0 rather than failing the run.
func reduceSales(sales []models.Sale) salesTotals {
	totals := salesTotals{byProduct: make(map[uuid.UUID]productTotals)}

	for _, sale := range sales {
		revenue := parseRevenue(sale.Revenue)

		totals.revenue += revenue
		totals.orders++
		totals.units += sale.Quantity

		pt := totals.byProduct[sale.ProductID]
		pt.revenue += revenue
		pt.units += sale.Quantity
		totals.byProduct[sale.ProductID] = pt
	}

	return totals
}

func parseRevenue(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func topProductIDs(byProduct map[uuid.UUID]productTotals, limit int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return byProduct[ids[i]].revenue > byProduct[ids[j]].revenue
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

func topProducts(byProduct map[uuid.UUID]productTotals, names map[uuid.UUID]string, limit int) []ProductRevenue {
	result := make([]ProductRevenue, 0, len(names))
	for id, name := range names {
		pt := byProduct[id]
		result = append(result, ProductRevenue{
			ProductID: id,
			Name:      name,
			Revenue:   pt.revenue,
			Units:     pt.units,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Revenue > result[j].Revenue })
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// topAssets re-aggregates product revenue by linked asset. A product linked
// to several assets contributes its full revenue to each of them; revenue is
// not split across links.
func topAssets(byProduct map[uuid.UUID]productTotals, links map[uuid.UUID][]uuid.UUID, assetNames map[uuid.UUID]string, limit int) []AssetRevenue {
	byAsset := make(map[uuid.UUID]float64)
	for productID, pt := range byProduct {
		for _, assetID := range links[productID] {
			byAsset[assetID] += pt.revenue
		}
	}

	result := make([]AssetRevenue, 0, len(byAsset))
	for assetID, revenue := range byAsset {
		result = append(result, AssetRevenue{
			AssetID: assetID,
			Name:    assetNames[assetID],
			Revenue: revenue,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Revenue > result[j].Revenue })
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// categoryBreakdown buckets revenue and units by product category; products
// without a resolved category land in "other".
func categoryBreakdown(byProduct map[uuid.UUID]productTotals, categories map[uuid.UUID]string) map[string]CategoryStats {
	breakdown := make(map[string]CategoryStats)
	for productID, pt := range byProduct {
		category := categories[productID]
		if category == "" {
			category = string(models.CategoryOther)
		}
		cs := breakdown[category]
		cs.Revenue += pt.revenue
		cs.Units += pt.units
		breakdown[category] = cs
	}
	return breakdown
}

// regionBreakdown buckets revenue and order counts by sale region; missing
// regions land in "Unknown".
func regionBreakdown(sales []models.Sale) map[string]RegionStats {
	breakdown := make(map[string]RegionStats)
	for _, sale := range sales {
		region := sale.Region
		if region == "" {
			region = "Unknown"
		}
		rs := breakdown[region]
		rs.Revenue += parseRevenue(sale.Revenue)
		rs.Orders++
		breakdown[region] = rs
	}
	return breakdown
}

// growthRate returns the period-over-period change in percent, or nil when
// the previous period had no revenue.
func growthRate(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	rate := (current - previous) / previous * 100
	return &rate
}

func (s *MetricsService) productLookup(ids []uuid.UUID, publisherID uuid.UUID) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	categories := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, categories, nil
	}

	var products []models.Product
	if err := s.db.Select("id", "name", "category").
		Where("publisher_id = ? AND id IN ?", publisherID, ids).
		Find(&products).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	for _, p := range products {
		names[p.ID] = p.Name
		categories[p.ID] = string(p.Category)
	}
	return names, categories, nil
}

// assetLinks fetches the publisher's full product-asset pairing in one join
// query, keyed by product.
func (s *MetricsService) assetLinks(publisherID uuid.UUID) (map[uuid.UUID][]uuid.UUID, map[uuid.UUID]string, error) {
	var rows []struct {
		ProductID uuid.UUID
		IPAssetID uuid.UUID
		Name      string
	}

	if err := s.db.Table("product_assets").
		Select("product_assets.product_id, product_assets.ip_asset_id, ip_assets.name").
		Joins("JOIN ip_assets ON ip_assets.id = product_assets.ip_asset_id").
		Where("ip_assets.publisher_id = ? AND product_assets.deleted_at IS NULL", publisherID).
		Scan(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to resolve product-asset links: %w", err)
	}

	links := make(map[uuid.UUID][]uuid.UUID)
	names := make(map[uuid.UUID]string)
	for _, row := range rows {
		links[row.ProductID] = append(links[row.ProductID], row.IPAssetID)
		names[row.IPAssetID] = row.Name
	}
	return links, names, nil
}

func (s *MetricsService) totalRevenue(publisherID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	if err := s.db.Model(&models.Sale{}).
		Where("publisher_id = ? AND order_date >= ? AND order_date <= ?", publisherID, start, end).
		Select("COALESCE(SUM(revenue), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to compute previous revenue: %w", err)
	}
	return total, nil
}
