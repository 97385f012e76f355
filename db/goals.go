package db

import (
	"context"
	"database/sql"
	"fmt"

	"goalwise/api/models"
)

func GetGoalsByUserID(ctx context.Context, userID string) ([]models.Goal, error) {
	query := `
		SELECT id, name, target_amount, current_saved, type,
		       COALESCE(monthly_contribution, 0)
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting goals: %v", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var goal models.Goal
		err := rows.Scan(
			&goal.ID,
			&goal.Name,
			&goal.TargetAmount,
			&goal.CurrentSaved,
			&goal.Type,
			&goal.MonthlyContribution,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning goal: %v", err)
		}
		goals = append(goals, goal)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %v", err)
	}

	return goals, nil
}

func CreateGoal(ctx context.Context, userID string, goal *models.Goal) error {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_saved, type, monthly_contribution)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := DB.QueryRowContext(ctx, query,
		userID, goal.Name, goal.TargetAmount, goal.CurrentSaved, goal.Type, goal.MonthlyContribution,
	).Scan(&goal.ID)
	if err != nil {
		return fmt.Errorf("error creating goal: %v", err)
	}
	return nil
}

func UpdateGoal(ctx context.Context, userID string, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_saved = $3, type = $4,
		    monthly_contribution = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := DB.ExecContext(ctx, query,
		goal.Name, goal.TargetAmount, goal.CurrentSaved, goal.Type, goal.MonthlyContribution,
		goal.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("error updating goal: %v", err)
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

func DeleteGoal(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM goals
		WHERE id = $1 AND user_id = $2
	`
	_, err := DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting goal: %v", err)
	}
	return nil
}
