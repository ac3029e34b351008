// internal/handlers/billing.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/models"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type BillingHandler struct {
	billing *services.BillingService
}

func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Checkout starts a subscription checkout for a paid tier and returns the
// hosted payment URL.
func (h *BillingHandler) Checkout(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req struct {
		Tier string `json:"tier" binding:"required,oneof=starter growth enterprise"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	url, err := h.billing.CreateCheckout(publisherID, models.SubscriptionTier(req.Tier))
	if err != nil {
		respondServiceError(c, err, "publisher")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, gin.H{"checkout_url": url}, gin.H{
		"message": i18n.T(lang, i18n.KeyBillingCheckoutCreated),
	})
}

// Webhook receives Stripe events. No JWT here; the Stripe signature header
// authenticates the request.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "failed to read webhook payload", nil)
		return
	}

	if err := h.billing.HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"received": true})
}
