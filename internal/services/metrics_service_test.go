// internal/services/metrics_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomos/phantomos-backend/internal/models"
)

func makeSale(productID uuid.UUID, revenue string, quantity int, region string) models.Sale {
	return models.Sale{
		ProductID: productID,
		Revenue:   revenue,
		Quantity:  quantity,
		Region:    region,
		OrderDate: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestReduceSales(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	totals := reduceSales([]models.Sale{
		makeSale(productA, "100.00", 2, "NA"),
		makeSale(productA, "50.50", 1, "NA"),
		makeSale(productB, "25.00", 3, "EU"),
	})

	assert.Equal(t, 175.5, totals.revenue)
	assert.Equal(t, 3, totals.orders)
	assert.Equal(t, 6, totals.units)
	assert.Equal(t, 150.5, totals.byProduct[productA].revenue)
	assert.Equal(t, 3, totals.byProduct[productA].units)
	assert.Equal(t, 25.0, totals.byProduct[productB].revenue)
}

func TestReduceSalesUnparseableRevenueCountsAsZero(t *testing.T) {
	productA := uuid.New()

	totals := reduceSales([]models.Sale{
		makeSale(productA, "not-a-number", 1, ""),
		makeSale(productA, "10.00", 1, ""),
	})

	// The bad row still counts as an order, just with zero revenue.
	assert.Equal(t, 10.0, totals.revenue)
	assert.Equal(t, 2, totals.orders)
}

func TestAvgOrderValueZeroOrders(t *testing.T) {
	totals := reduceSales(nil)
	assert.Equal(t, 0.0, totals.avgOrderValue())
}

func TestAvgOrderValue(t *testing.T) {
	productA := uuid.New()
	totals := reduceSales([]models.Sale{
		makeSale(productA, "30.00", 1, ""),
		makeSale(productA, "60.00", 1, ""),
	})
	assert.Equal(t, 45.0, totals.avgOrderValue())
}

func TestGrowthRate(t *testing.T) {
	rate := growthRate(150, 100)
	require.NotNil(t, rate)
	assert.InDelta(t, 50.0, *rate, 0.0001)

	rate = growthRate(80, 100)
	require.NotNil(t, rate)
	assert.InDelta(t, -20.0, *rate, 0.0001)
}

func TestGrowthRateNilWhenNoPreviousRevenue(t *testing.T) {
	assert.Nil(t, growthRate(500, 0))
}

func TestTopProductsOrderingAndTruncation(t *testing.T) {
	byProduct := map[uuid.UUID]productTotals{}
	names := map[uuid.UUID]string{}
	for i := 0; i < 15; i++ {
		id := uuid.New()
		byProduct[id] = productTotals{revenue: float64(i + 1), units: 1}
		names[id] = "p"
	}

	top := topProducts(byProduct, names, 10)
	require.Len(t, top, 10)
	assert.Equal(t, 15.0, top[0].Revenue)
	assert.Equal(t, 6.0, top[9].Revenue)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Revenue, top[i].Revenue)
	}
}

func TestTopAssetsAttributesFullRevenuePerLink(t *testing.T) {
	product := uuid.New()
	assetA := uuid.New()
	assetB := uuid.New()

	byProduct := map[uuid.UUID]productTotals{
		product: {revenue: 100, units: 2},
	}
	links := map[uuid.UUID][]uuid.UUID{
		product: {assetA, assetB},
	}
	names := map[uuid.UUID]string{assetA: "Hero", assetB: "Logo"}

	top := topAssets(byProduct, links, names, 10)
	require.Len(t, top, 2)
	// Both assets receive the full 100, the revenue is not split.
	assert.Equal(t, 100.0, top[0].Revenue)
	assert.Equal(t, 100.0, top[1].Revenue)
}

func TestCategoryBreakdownDefaultsToOther(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()

	byProduct := map[uuid.UUID]productTotals{
		known:   {revenue: 40, units: 4},
		unknown: {revenue: 10, units: 1},
	}
	categories := map[uuid.UUID]string{known: "apparel"}

	breakdown := categoryBreakdown(byProduct, categories)
	assert.Equal(t, 40.0, breakdown["apparel"].Revenue)
	assert.Equal(t, 10.0, breakdown["other"].Revenue)
	assert.Equal(t, 1, breakdown["other"].Units)
}

func TestRegionBreakdownDefaultsToUnknown(t *testing.T) {
	productA := uuid.New()

	breakdown := regionBreakdown([]models.Sale{
		makeSale(productA, "20.00", 1, "NA"),
		makeSale(productA, "30.00", 1, ""),
		makeSale(productA, "5.00", 1, "NA"),
	})

	assert.Equal(t, 25.0, breakdown["NA"].Revenue)
	assert.Equal(t, 2, breakdown["NA"].Orders)
	assert.Equal(t, 30.0, breakdown["Unknown"].Revenue)
	assert.Equal(t, 1, breakdown["Unknown"].Orders)
}

func TestTopProductIDsLimit(t *testing.T) {
	byProduct := map[uuid.UUID]productTotals{}
	for i := 0; i < 25; i++ {
		byProduct[uuid.New()] = productTotals{revenue: float64(i)}
	}

	ids := topProductIDs(byProduct, 20)
	require.Len(t, ids, 20)
	assert.Equal(t, 24.0, byProduct[ids[0]].revenue)
}
