package models

import "database/sql"

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanGrowth  SubscriptionPlan = "growth"
	PlanPremium SubscriptionPlan = "premium"
)

// Profile mirrors the Supabase profiles table. Subscription fields are
// written by the Stripe webhook flow, plaid_access_token by token exchange.
type Profile struct {
	ID                   string           `json:"id"`
	Email                string           `json:"email"`
	Name                 string           `json:"name"`
	SubscriptionPlan     SubscriptionPlan `json:"subscription_plan"`
	SubscriptionStatus   string           `json:"subscription_status"`
	StripeCustomerID     *string          `json:"stripe_customer_id"`
	StripeSubscriptionID *string          `json:"stripe_subscription_id"`
	LastSynced           sql.NullTime     `json:"last_synced"`
	CreatedAt            sql.NullTime     `json:"created_at"`
	UpdatedAt            sql.NullTime     `json:"updated_at"`
}

// HasInsights reports whether the plan unlocks AI insights at all.
func (p SubscriptionPlan) HasInsights() bool {
	return p == PlanGrowth || p == PlanPremium
}
