package db

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"goalwise/api/models"
)

func GetTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `
		SELECT plaid_transaction_id, date, amount, name,
		       COALESCE(merchant_name, ''), COALESCE(category, ''), pending
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
	`

	rows, err := DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %v", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.Date,
			&t.Amount,
			&t.Name,
			&t.MerchantName,
			&t.Category,
			&t.Pending,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction: %v", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %v", err)
	}

	return transactions, nil
}

// UpsertTransaction writes one synced Plaid transaction, replacing any
// prior version of the same transaction id.
func UpsertTransaction(userID string, t models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, plaid_transaction_id, date, amount, name, merchant_name, category, pending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (plaid_transaction_id) DO UPDATE
		SET date = EXCLUDED.date, amount = EXCLUDED.amount, name = EXCLUDED.name,
		    merchant_name = EXCLUDED.merchant_name, category = EXCLUDED.category,
		    pending = EXCLUDED.pending
	`
	_, err := DB.Exec(query,
		userID, t.TransactionID, t.Date, t.Amount, t.Name, t.MerchantName, t.Category, t.Pending,
	)
	if err != nil {
		return fmt.Errorf("error upserting transaction %s: %v", t.TransactionID, err)
	}
	return nil
}

// DeleteTransactionsByPlaidIDs removes transactions Plaid reported as
// removed during a sync.
func DeleteTransactionsByPlaidIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		DELETE FROM transactions
		WHERE plaid_transaction_id = ANY($1)
	`
	_, err := DB.Exec(query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error deleting removed transactions: %v", err)
	}
	return nil
}
