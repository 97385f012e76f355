package db

import (
	"context"
	"database/sql"
	"fmt"

	"goalwise/api/models"
)

func GetBudgetItemsByUserID(ctx context.Context, userID string) ([]models.BudgetItem, error) {
	query := `
		SELECT id, name, amount, type, COALESCE(frequency, '')
		FROM budget_items
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting budget items: %v", err)
	}
	defer rows.Close()

	items := []models.BudgetItem{}
	for rows.Next() {
		var item models.BudgetItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Amount,
			&item.Type,
			&item.Frequency,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning budget item: %v", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget items: %v", err)
	}

	return items, nil
}

func CreateBudgetItem(ctx context.Context, userID string, item *models.BudgetItem) error {
	query := `
		INSERT INTO budget_items (user_id, name, amount, type, frequency)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id
	`
	err := DB.QueryRowContext(ctx, query, userID, item.Name, item.Amount, item.Type, item.Frequency).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("error creating budget item: %v", err)
	}
	return nil
}

func UpdateBudgetItem(ctx context.Context, userID string, item *models.BudgetItem) error {
	query := `
		UPDATE budget_items
		SET name = $1, amount = $2, type = $3, frequency = NULLIF($4, '')
		WHERE id = $5 AND user_id = $6
	`
	result, err := DB.ExecContext(ctx, query, item.Name, item.Amount, item.Type, item.Frequency, item.ID, userID)
	if err != nil {
		return fmt.Errorf("error updating budget item: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func DeleteBudgetItem(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM budget_items
		WHERE id = $1 AND user_id = $2
	`
	_, err := DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting budget item: %v", err)
	}
	return nil
}
