package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goalwise/api/models"
)

func GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, email, name, subscription_plan, subscription_status,
		       stripe_customer_id, stripe_subscription_id, last_synced,
		       created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	profile := &models.Profile{}
	err := DB.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.SubscriptionPlan,
		&profile.SubscriptionStatus,
		&profile.StripeCustomerID,
		&profile.StripeSubscriptionID,
		&profile.LastSynced,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting profile: %v", err)
	}

	return profile, nil
}

func UpdateProfileName(ctx context.Context, userID, name string) error {
	query := `
		UPDATE profiles
		SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	_, err := DB.ExecContext(ctx, query, name, userID)
	if err != nil {
		return fmt.Errorf("error updating profile name for user %s: %v", userID, err)
	}
	return nil
}

func SetStripeCustomerID(userID, customerID string) error {
	query := `
		UPDATE profiles
		SET stripe_customer_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	_, err := DB.Exec(query, customerID, userID)
	if err != nil {
		return fmt.Errorf("error updating Stripe customer ID for user %s: %v", userID, err)
	}
	return nil
}

// UpdateSubscriptionByCustomerID applies the plan change resolved from a
// Stripe webhook to whichever profile owns the customer.
func UpdateSubscriptionByCustomerID(customerID string, plan models.SubscriptionPlan, subscriptionID *string, status string) error {
	query := `
		UPDATE profiles
		SET subscription_plan = $1, stripe_subscription_id = $2,
		    subscription_status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE stripe_customer_id = $4
	`
	result, err := DB.Exec(query, plan, subscriptionID, status, customerID)
	if err != nil {
		return fmt.Errorf("error updating subscription for customer %s: %v", customerID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no profile found for Stripe customer: %s", customerID)
	}

	return nil
}

// GetUserIDByStripeCustomerID resolves a Stripe customer back to the
// profile that owns it.
func GetUserIDByStripeCustomerID(customerID string) (string, error) {
	query := `
		SELECT id
		FROM profiles
		WHERE stripe_customer_id = $1
	`

	var userID string
	err := DB.QueryRow(query, customerID).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("error resolving Stripe customer %s: %v", customerID, err)
	}
	return userID, nil
}

func UpdateSubscriptionStatusBySubscriptionID(subscriptionID, status string) error {
	query := `
		UPDATE profiles
		SET subscription_status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE stripe_subscription_id = $2
	`
	_, err := DB.Exec(query, status, subscriptionID)
	if err != nil {
		return fmt.Errorf("error updating subscription status for %s: %v", subscriptionID, err)
	}
	return nil
}

func UpdateLastSynced(userID string, t time.Time) error {
	query := `
		UPDATE profiles
		SET last_synced = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	_, err := DB.Exec(query, t, userID)
	if err != nil {
		return fmt.Errorf("error updating last synced for user %s: %v", userID, err)
	}
	return nil
}

// ListPremiumUserIDs returns users whose plan includes background
// transaction sync.
func ListPremiumUserIDs() ([]string, error) {
	query := `
		SELECT id
		FROM profiles
		WHERE subscription_plan = $1
	`

	rows, err := DB.Query(query, models.PlanPremium)
	if err != nil {
		return nil, fmt.Errorf("error listing premium users: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning premium user: %v", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating premium users: %v", err)
	}

	return ids, nil
}
