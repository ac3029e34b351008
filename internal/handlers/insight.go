// internal/handlers/insight.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type InsightHandler struct {
	insights *services.InsightService
}

func NewInsightHandler(insights *services.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// List returns the current batch, the generation history and the diff
// against the previous batch. With compare_a and compare_b set it returns
// the diff between those two batches instead.
func (h *InsightHandler) List(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	compareA := c.Query("compare_a")
	compareB := c.Query("compare_b")
	if compareA != "" || compareB != "" {
		if compareA == "" || compareB == "" {
			utils.BadRequestResponse(c, "both compare_a and compare_b are required", nil)
			return
		}
		diff, err := h.insights.GetBatchComparison(publisherID, compareA, compareB)
		if err != nil {
			respondServiceError(c, err, "insight")
			return
		}
		utils.SuccessResponse(c, gin.H{"comparison": diff})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.insights.GetInsights(publisherID, limit)
	if err != nil {
		respondServiceError(c, err, "insight")
		return
	}
	if c.Query("history") == "false" {
		history.History = []services.InsightBatch{}
	}
	utils.SuccessResponse(c, history)
}

// Generate runs a new insight generation batch. This calls the external AI
// service, so the route sits behind the tight AI rate limit bucket.
func (h *InsightHandler) Generate(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req struct {
		Type    string `json:"type"`
		Persist *bool  `json:"persist"`
	}
	// The body is optional; an empty POST means defaults.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "", err.Error())
			return
		}
	}

	lang := utils.GetLangFromContext(c)

	result, err := h.insights.Generate(c.Request.Context(), publisherID, services.GenerateOptions{
		Type:    req.Type,
		Persist: req.Persist,
	})
	if err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyInsightGenerationFailed))
		return
	}

	utils.SuccessResponseWithMeta(c, result.Insights, gin.H{
		"message":   i18n.T(lang, i18n.KeyInsightGenerated),
		"batch_id":  result.BatchID,
		"persisted": result.Persisted,
		"count":     len(result.Insights),
	})
}

// Update flips the read or actioned flag. At least one flag is required.
func (h *InsightHandler) Update(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req struct {
		InsightID  string `json:"insight_id"`
		IsRead     *bool  `json:"is_read"`
		IsActioned *bool  `json:"is_actioned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	insightID, err := uuid.Parse(req.InsightID)
	if err != nil {
		utils.BadRequestResponse(c, "insight_id is required", nil)
		return
	}
	if req.IsRead == nil && req.IsActioned == nil {
		utils.BadRequestResponse(c, "at least one of is_read or is_actioned is required", nil)
		return
	}

	insight, err := h.insights.UpdateInsight(publisherID, insightID, req.IsRead, req.IsActioned)
	if err != nil {
		respondServiceError(c, err, "insight")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, insight, gin.H{
		"message": i18n.T(lang, i18n.KeyInsightUpdated),
	})
}
