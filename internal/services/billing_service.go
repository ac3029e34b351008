// internal/services/billing_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/config"
	"github.com/phantomos/phantomos-backend/internal/models"
)

// BillingService handles subscription checkout and the Stripe webhook that
// moves a publisher between tiers.
type BillingService struct {
	db  *gorm.DB
	cfg config.BillingConfig
	fe  config.FrontendConfig
}

func NewBillingService(db *gorm.DB, cfg config.BillingConfig, fe config.FrontendConfig) *BillingService {
	stripe.Key = cfg.StripeSecretKey
	return &BillingService{db: db, cfg: cfg, fe: fe}
}

// CreateCheckout starts a Stripe checkout session for a paid tier. The
// publisher's Stripe customer is created lazily on first checkout.
func (s *BillingService) CreateCheckout(publisherID uuid.UUID, tier models.SubscriptionTier) (string, error) {
	priceID, err := s.priceForTier(tier)
	if err != nil {
		return "", err
	}

	var publisher models.Publisher
	if err := s.db.First(&publisher, "id = ?", publisherID).Error; err != nil {
		return "", fmt.Errorf("failed to load publisher: %w", err)
	}

	if publisher.StripeCustomerID == "" {
		custParams := &stripe.CustomerParams{
			Name: stripe.String(publisher.Name),
		}
		custParams.AddMetadata("publisher_id", publisher.ID.String())
		cust, err := customer.New(custParams)
		if err != nil {
			return "", fmt.Errorf("failed to create billing customer: %w", err)
		}
		if err := s.db.Model(&publisher).
			Update("stripe_customer_id", cust.ID).Error; err != nil {
			return "", fmt.Errorf("failed to store customer id: %w", err)
		}
		publisher.StripeCustomerID = cust.ID
	}

	sess, err := session.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(publisher.StripeCustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.fe.BaseURL + "/billing/success"),
		CancelURL:  stripe.String(s.fe.BaseURL + "/billing/cancel"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"publisher_id": publisher.ID.String(),
				"tier":         string(tier),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, nil
}

// HandleWebhook verifies and applies a Stripe event. Only subscription
// lifecycle events are acted on; everything else is acknowledged and
// ignored.
func (s *BillingService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("invalid webhook signature: %w", err)
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		return s.applySubscription(event)
	case "customer.subscription.deleted":
		return s.downgradeToFree(event)
	default:
		logrus.WithField("type", event.Type).Debug("Ignoring webhook event")
		return nil
	}
}

func (s *BillingService) applySubscription(event stripe.Event) error {
	publisherID, tier, err := subscriptionMetadata(event)
	if err != nil {
		return err
	}

	if err := s.db.Model(&models.Publisher{}).
		Where("id = ?", publisherID).
		Update("subscription_tier", tier).Error; err != nil {
		return fmt.Errorf("failed to update subscription tier: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"publisher_id": publisherID,
		"tier":         tier,
	}).Info("Subscription tier updated")
	return nil
}

func (s *BillingService) downgradeToFree(event stripe.Event) error {
	publisherID, _, err := subscriptionMetadata(event)
	if err != nil {
		return err
	}

	if err := s.db.Model(&models.Publisher{}).
		Where("id = ?", publisherID).
		Update("subscription_tier", models.TierFree).Error; err != nil {
		return fmt.Errorf("failed to downgrade subscription: %w", err)
	}

	logrus.WithField("publisher_id", publisherID).Info("Subscription cancelled, downgraded to free")
	return nil
}

func subscriptionMetadata(event stripe.Event) (uuid.UUID, models.SubscriptionTier, error) {
	metadata, _ := event.Data.Object["metadata"].(map[string]interface{})
	rawID, _ := metadata["publisher_id"].(string)
	rawTier, _ := metadata["tier"].(string)

	publisherID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("webhook missing publisher_id metadata")
	}

	tier := models.SubscriptionTier(rawTier)
	switch tier {
	case models.TierStarter, models.TierGrowth, models.TierEnterprise:
	default:
		tier = models.TierFree
	}
	return publisherID, tier, nil
}

func (s *BillingService) priceForTier(tier models.SubscriptionTier) (string, error) {
	switch tier {
	case models.TierStarter:
		return s.cfg.StarterPriceID, nil
	case models.TierGrowth:
		return s.cfg.GrowthPriceID, nil
	case models.TierEnterprise:
		return s.cfg.EnterprisePriceID, nil
	default:
		return "", fmt.Errorf("tier %s is not purchasable", tier)
	}
}
