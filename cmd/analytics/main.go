// cmd/analytics/main.go
//
// Batch entry point for the analytics pipeline. Intended to run from cron:
// generate snapshots for one or all publishers, and optionally a fresh
// insight batch.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/config"
	"github.com/phantomos/phantomos-backend/internal/database"
	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/services"
)

func main() {
	publisherFlag := flag.String("publisher-id", "", "restrict the run to one publisher")
	periodFlag := flag.String("period", "", "snapshot period: daily, weekly or monthly (default all)")
	insightsFlag := flag.Bool("insights", false, "also generate a new AI insight batch per publisher")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close(db)

	metricsService := services.NewMetricsService(db)
	snapshotService := services.NewSnapshotService(db, metricsService)
	insightService := services.NewInsightService(db,
		services.NewOpenAIClient(cfg.AI), services.NewKeywordClassifier())

	publishers, err := resolvePublishers(db, *publisherFlag)
	if err != nil {
		logrus.Fatal(err)
	}

	periods := []models.SnapshotPeriod{models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly}
	if *periodFlag != "" {
		period := models.SnapshotPeriod(*periodFlag)
		if !period.Valid() {
			logrus.Fatalf("Invalid period %q, expected daily, weekly or monthly", *periodFlag)
		}
		periods = []models.SnapshotPeriod{period}
	}

	start := time.Now()
	failures := 0

	for _, publisher := range publishers {
		log := logrus.WithFields(logrus.Fields{
			"publisher_id": publisher.ID,
			"slug":         publisher.Slug,
		})

		for _, period := range periods {
			inserted, err := snapshotService.Generate(publisher.ID, period)
			if err != nil {
				// One failed combination must not poison the others.
				log.WithField("period", period).WithError(err).Error("Snapshot generation failed")
				failures++
				continue
			}
			log.WithFields(logrus.Fields{
				"period":   period,
				"inserted": inserted,
			}).Info("Snapshots generated")
		}

		if *insightsFlag {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			result, err := insightService.Generate(ctx, publisher.ID, services.GenerateOptions{})
			cancel()
			if err != nil {
				log.WithError(err).Error("Insight generation failed")
				failures++
				continue
			}
			log.WithField("count", len(result.Insights)).Info("Insight batch generated")
		}
	}

	logrus.WithFields(logrus.Fields{
		"publishers": len(publishers),
		"failures":   failures,
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Info("Analytics run completed")

	if failures > 0 {
		logrus.Exit(1)
	}
}

func resolvePublishers(db *gorm.DB, publisherID string) ([]models.Publisher, error) {
	var publishers []models.Publisher

	if publisherID != "" {
		id, err := uuid.Parse(publisherID)
		if err != nil {
			return nil, err
		}
		var publisher models.Publisher
		if err := db.First(&publisher, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return []models.Publisher{publisher}, nil
	}

	if err := db.Order("created_at ASC").Find(&publishers).Error; err != nil {
		return nil, err
	}
	return publishers, nil
}
