// internal/services/snapshot_service.go
package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phantomos/phantomos-backend/internal/middleware"
	"github.com/phantomos/phantomos-backend/internal/models"
)

// SnapshotService materializes pre-computed metrics rollups so dashboard
// reads never scan the sales table. Generation is idempotent: buckets that
// already have a snapshot are left untouched, and the unique index on
// (publisher_id, period, start_date) makes concurrent runs safe.
type SnapshotService struct {
	db      *gorm.DB
	metrics *MetricsService
}

func NewSnapshotService(db *gorm.DB, metrics *MetricsService) *SnapshotService {
	return &SnapshotService{db: db, metrics: metrics}
}

// Generate builds snapshots for every bucket of the given period between the
// publisher's earliest sale and now. Buckets with zero orders are skipped.
// Returns the number of rows inserted. Any bucket error aborts the run so a
// partial pass is retried whole rather than silently holed.
func (s *SnapshotService) Generate(publisherID uuid.UUID, period models.SnapshotPeriod) (int, error) {
	if !period.Valid() {
		return 0, fmt.Errorf("invalid snapshot period: %s", period)
	}

	var earliest *time.Time
	err := s.db.Model(&models.Sale{}).
		Where("publisher_id = ?", publisherID).
		Select("MIN(order_date)").Scan(&earliest).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find earliest sale: %w", err)
	}
	if earliest == nil {
		// No sales at all, nothing to snapshot.
		return 0, nil
	}

	buckets := periodBuckets(period, *earliest, time.Now().UTC())

	existing, err := s.existingStarts(publisherID, period)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, bucket := range buckets {
		if existing[bucket.Start.Unix()] {
			continue
		}

		previous := previousBucket(period, bucket.Start)
		metrics, err := s.metrics.Calculate(publisherID, bucket.Start, bucket.End, &previous)
		if err != nil {
			return inserted, fmt.Errorf("failed to compute bucket %s: %w",
				bucket.Start.Format("2006-01-02"), err)
		}
		if metrics.TotalOrders == 0 {
			continue
		}

		payload, err := metricsJSONB(metrics)
		if err != nil {
			return inserted, err
		}

		snapshot := models.AnalyticsSnapshot{
			PublisherID: publisherID,
			Period:      period,
			StartDate:   bucket.Start,
			EndDate:     bucket.End,
			Metrics:     payload,
		}

		// DO NOTHING on conflict: another run may have claimed this
		// bucket between our existence check and the insert.
		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&snapshot)
		if result.Error != nil {
			return inserted, fmt.Errorf("failed to insert snapshot: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			inserted++
			middleware.CountSnapshotInsert()
		}
	}

	logrus.WithFields(logrus.Fields{
		"publisher_id": publisherID,
		"period":       period,
		"buckets":      len(buckets),
		"inserted":     inserted,
	}).Info("Snapshot generation completed")

	return inserted, nil
}

// GenerateAll runs every period granularity for one publisher.
func (s *SnapshotService) GenerateAll(publisherID uuid.UUID) (int, error) {
	total := 0
	for _, period := range []models.SnapshotPeriod{
		models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly,
	} {
		n, err := s.Generate(publisherID, period)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// List returns stored snapshots for a publisher and period, newest bucket
// first.
func (s *SnapshotService) List(publisherID uuid.UUID, period models.SnapshotPeriod, limit int) ([]models.AnalyticsSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	var snapshots []models.AnalyticsSnapshot
	query := s.db.Where("publisher_id = ?", publisherID)
	if period != "" {
		if !period.Valid() {
			return nil, fmt.Errorf("invalid snapshot period: %s", period)
		}
		query = query.Where("period = ?", period)
	}
	if err := query.Order("start_date DESC").Limit(limit).Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *SnapshotService) existingStarts(publisherID uuid.UUID, period models.SnapshotPeriod) (map[int64]bool, error) {
	var starts []time.Time
	if err := s.db.Model(&models.AnalyticsSnapshot{}).
		Where("publisher_id = ? AND period = ?", publisherID, period).
		Pluck("start_date", &starts).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing snapshots: %w", err)
	}

	existing := make(map[int64]bool, len(starts))
	for _, start := range starts {
		existing[start.UTC().Unix()] = true
	}
	return existing, nil
}

// periodBuckets splits [from, until] into aligned buckets in UTC. Daily
// buckets start at midnight, weekly buckets start on Sunday, monthly buckets
// on the first of the month. Bucket ends are inclusive, one second before the
// next bucket begins.
func periodBuckets(period models.SnapshotPeriod, from, until time.Time) []DateRange {
	from = from.UTC()
	until = until.UTC()
	if until.Before(from) {
		return nil
	}

	var buckets []DateRange
	for start := bucketStart(period, from); !start.After(until); start = nextBucket(period, start) {
		end := nextBucket(period, start).Add(-time.Second)
		buckets = append(buckets, DateRange{Start: start, End: end})
	}
	return buckets
}

func bucketStart(period models.SnapshotPeriod, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case models.PeriodWeekly:
		return day.AddDate(0, 0, -int(day.Weekday()))
	case models.PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// previousBucket returns the bucket immediately before the one starting at
// start, so each snapshot carries growth against its predecessor.
func previousBucket(period models.SnapshotPeriod, start time.Time) DateRange {
	end := start.Add(-time.Second)
	return DateRange{Start: bucketStart(period, end), End: end}
}

func nextBucket(period models.SnapshotPeriod, start time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

func metricsJSONB(metrics *PublisherMetrics) (models.JSONB, error) {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	var payload models.JSONB
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	return payload, nil
}
