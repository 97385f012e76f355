package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/logger"
	"goalwise/api/middleware"
	"goalwise/api/models"
	"goalwise/api/mongodb"
)

type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId" binding:"required"`
}

func HandleCreateCheckoutSession(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := db.GetProfile(c.Request.Context(), claims.Sub)
	if err != nil {
		logger.Get().Error("failed to fetch profile",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	customerID := ""
	if profile.StripeCustomerID != nil {
		customerID = *profile.StripeCustomerID
	}

	if customerID == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email:    stripe.String(profile.Email),
			Metadata: map[string]string{"supabase_id": claims.Sub},
		})
		if err != nil {
			logger.Get().Error("failed to create Stripe customer",
				zap.String("user_id", claims.Sub),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
			return
		}
		customerID = cust.ID

		if err := db.SetStripeCustomerID(claims.Sub, customerID); err != nil {
			logger.Get().Error("failed to save customer ID",
				zap.String("user_id", claims.Sub),
				zap.Error(err))
		}
	}

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(clientURL + "/success"),
		CancelURL:  stripe.String(clientURL + "/cancel"),
	}

	s, err := session.New(params)
	if err != nil {
		logger.Get().Error("failed to create checkout session",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// HandleGetPrices returns the subscription price IDs the frontend renders
// on the upgrade page.
func HandleGetPrices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"growth":  os.Getenv("STRIPE_PRICE_GROWTH"),
		"premium": os.Getenv("STRIPE_PRICE_PREMIUM"),
	})
}

// HandleStripeWebhook applies verified Stripe events to the profile's
// subscription fields.
func HandleStripeWebhook(c *gin.Context) {
	eventAny, exists := c.Get(middleware.StripeEventKey)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing webhook event"})
		return
	}

	event, ok := eventAny.(stripe.Event)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook event"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			logger.Get().Error("failed to decode checkout session", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
			return
		}
		if err := applyCheckoutCompleted(&sess); err != nil {
			logger.Get().Error("failed to apply checkout", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
			return
		}
	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			logger.Get().Error("failed to decode subscription", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
			return
		}
		if err := db.UpdateSubscriptionStatusBySubscriptionID(sub.ID, string(sub.Status)); err != nil {
			logger.Get().Error("failed to update subscription status",
				zap.String("subscription_id", sub.ID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
			return
		}
	default:
		logger.Get().Debug("unhandled Stripe event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// applyCheckoutCompleted resolves the purchased price to a plan and
// writes it to the customer's profile.
func applyCheckoutCompleted(sess *stripe.CheckoutSession) error {
	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	subscriptionID := ""
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	sub, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return err
	}

	priceID := ""
	if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
	}

	plan := models.PlanFree
	switch priceID {
	case os.Getenv("STRIPE_PRICE_GROWTH"):
		plan = models.PlanGrowth
	case os.Getenv("STRIPE_PRICE_PREMIUM"):
		plan = models.PlanPremium
	}

	logger.Get().Info("subscription updated",
		zap.String("customer_id", customerID),
		zap.String("plan", string(plan)))

	if err := db.UpdateSubscriptionByCustomerID(customerID, plan, &sub.ID, string(sub.Status)); err != nil {
		return err
	}

	// A plan change invalidates the cached insights: the stored shape
	// belongs to the old tier.
	userID, err := db.GetUserIDByStripeCustomerID(customerID)
	if err != nil || userID == "" {
		logger.Get().Warn("could not resolve customer for cache invalidation",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil
	}
	if err := mongodb.DeleteInsightRecord(context.Background(), userID); err != nil {
		logger.Get().Warn("failed to drop cached insights after plan change",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	return nil
}
