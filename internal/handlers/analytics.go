// internal/handlers/analytics.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type AnalyticsHandler struct {
	metrics   *services.MetricsService
	snapshots *services.SnapshotService
}

func NewAnalyticsHandler(metrics *services.MetricsService, snapshots *services.SnapshotService) *AnalyticsHandler {
	return &AnalyticsHandler{metrics: metrics, snapshots: snapshots}
}

// Overview computes live metrics for a date range, defaulting to the last
// 30 days with growth against the 30 days before that.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid start date, expected YYYY-MM-DD", nil)
			return
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid end date, expected YYYY-MM-DD", nil)
			return
		}
		// Include the whole end day.
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	if end.Before(start) {
		utils.BadRequestResponse(c, "end date precedes start date", nil)
		return
	}

	span := end.Sub(start)
	previous := &services.DateRange{
		Start: start.Add(-span),
		End:   start.Add(-time.Second),
	}

	metrics, err := h.metrics.Calculate(publisherID, start, end, previous)
	if err != nil {
		respondServiceError(c, err, "publisher")
		return
	}

	utils.SuccessResponseWithMeta(c, metrics, gin.H{
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	})
}

func (h *AnalyticsHandler) ListSnapshots(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	period := models.SnapshotPeriod(c.Query("period"))
	if period != "" && !period.Valid() {
		utils.BadRequestResponse(c, "invalid period, expected daily, weekly or monthly", nil)
		return
	}

	limit := 30
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	snapshots, err := h.snapshots.List(publisherID, period, limit)
	if err != nil {
		respondServiceError(c, err, "publisher")
		return
	}
	utils.SuccessResponse(c, snapshots)
}

// GenerateSnapshots triggers snapshot generation for the caller's publisher.
// With no period parameter, all granularities are generated.
func (h *AnalyticsHandler) GenerateSnapshots(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	lang := utils.GetLangFromContext(c)

	var inserted int
	var err error
	if raw := c.Query("period"); raw != "" {
		period := models.SnapshotPeriod(raw)
		if !period.Valid() {
			utils.BadRequestResponse(c, "invalid period, expected daily, weekly or monthly", nil)
			return
		}
		inserted, err = h.snapshots.Generate(publisherID, period)
	} else {
		inserted, err = h.snapshots.GenerateAll(publisherID)
	}
	if err != nil {
		respondServiceError(c, err, "publisher")
		return
	}

	utils.SuccessResponseWithMeta(c, gin.H{"inserted": inserted}, gin.H{
		"message": i18n.T(lang, i18n.KeySnapshotGenerationCompleted),
	})
}
