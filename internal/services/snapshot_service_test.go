// internal/services/snapshot_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomos/phantomos-backend/internal/models"
)

func TestPeriodBucketsDaily(t *testing.T) {
	from := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)
	until := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	buckets := periodBuckets(models.PeriodDaily, from, until)
	require.Len(t, buckets, 3)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC), buckets[0].End)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), buckets[2].Start)
}

func TestPeriodBucketsWeeklyStartsOnSunday(t *testing.T) {
	// 2025-03-05 is a Wednesday; its week starts Sunday 2025-03-02.
	from := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	buckets := periodBuckets(models.PeriodWeekly, from, until)
	require.Len(t, buckets, 3)

	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Weekday(0), buckets[0].Start.Weekday())
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), buckets[1].Start)
	assert.Equal(t, time.Date(2025, 3, 8, 23, 59, 59, 0, time.UTC), buckets[0].End)
}

func TestPeriodBucketsMonthlyCalendarAligned(t *testing.T) {
	from := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)

	buckets := periodBuckets(models.PeriodMonthly, from, until)
	require.Len(t, buckets, 1)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), buckets[0].End)
}

func TestPeriodBucketsMonthlySpansMonths(t *testing.T) {
	from := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	buckets := periodBuckets(models.PeriodMonthly, from, until)
	require.Len(t, buckets, 3)
	assert.Equal(t, time.Month(1), buckets[0].Start.Month())
	assert.Equal(t, time.Month(2), buckets[1].Start.Month())
	assert.Equal(t, time.Month(3), buckets[2].Start.Month())
}

func TestPeriodBucketsEmptyWhenRangeInverted(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, periodBuckets(models.PeriodDaily, from, until))
}

func TestBucketStartAlignment(t *testing.T) {
	wednesday := time.Date(2025, 3, 5, 17, 45, 12, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		bucketStart(models.PeriodDaily, wednesday))
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		bucketStart(models.PeriodWeekly, wednesday))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		bucketStart(models.PeriodMonthly, wednesday))
}

func TestPreviousBucketAdjacency(t *testing.T) {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	prev := previousBucket(models.PeriodMonthly, march)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), prev.End)

	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	prev = previousBucket(models.PeriodWeekly, sunday)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, time.Date(2025, 3, 8, 23, 59, 59, 0, time.UTC), prev.End)

	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	prev = previousBucket(models.PeriodDaily, day)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, time.Date(2025, 3, 4, 23, 59, 59, 0, time.UTC), prev.End)
}

// Consecutive buckets must chain: each bucket's previous range is exactly the
// bucket before it, so stored growth rates compare neighbors.
func TestPreviousBucketChainsThroughPeriodBuckets(t *testing.T) {
	from := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	buckets := periodBuckets(models.PeriodMonthly, from, until)
	require.Len(t, buckets, 3)

	for i := 1; i < len(buckets); i++ {
		prev := previousBucket(models.PeriodMonthly, buckets[i].Start)
		assert.Equal(t, buckets[i-1].Start, prev.Start)
		assert.Equal(t, buckets[i-1].End, prev.End)
	}
}

func TestMetricsJSONBRoundTrip(t *testing.T) {
	growth := 12.5
	payload, err := metricsJSONB(&PublisherMetrics{
		TotalRevenue:  1000,
		TotalOrders:   10,
		AvgOrderValue: 100,
		GrowthRate:    &growth,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1000), payload["total_revenue"])
	assert.Equal(t, float64(10), payload["total_orders"])
	assert.Equal(t, float64(100), payload["avg_order_value"])
	assert.Equal(t, 12.5, payload["growth_rate"])
}
