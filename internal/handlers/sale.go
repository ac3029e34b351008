// internal/handlers/sale.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type SaleHandler struct {
	sales *services.SaleService
}

func NewSaleHandler(sales *services.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// List returns the publisher's sales ledger, filterable by date range,
// product, region and channel.
func (h *SaleHandler) List(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	filter := services.SaleFilter{
		Region:  c.Query("region"),
		Channel: c.Query("channel"),
	}

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid start date, expected YYYY-MM-DD", nil)
			return
		}
		filter.Start = &parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid end date, expected YYYY-MM-DD", nil)
			return
		}
		// Include the whole end day.
		end := parsed.AddDate(0, 0, 1).Add(-time.Second)
		filter.End = &end
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequestResponse(c, "invalid product_id", nil)
			return
		}
		filter.ProductID = &id
	}

	params := utils.GetPaginationParams(c)
	result, err := h.sales.List(publisherID, filter, params)
	if err != nil {
		respondServiceError(c, err, "sale")
		return
	}

	utils.SetPaginationHeaders(c, *result)
	utils.SuccessResponse(c, result)
}
