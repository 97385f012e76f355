package models

import (
	"database/sql"
	"fmt"
)

type PlaidItem struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	AccessToken  string       `json:"access_token"`
	ItemID       string       `json:"item_id"`
	Status       string       `json:"status"`
	CreatedAt    sql.NullTime `json:"created_at"`
	UpdatedAt    sql.NullTime `json:"updated_at"`
	LastSyncedAt sql.NullTime `json:"last_synced_at"`
	SyncStatus   SyncStatus   `json:"sync_status"`
	Cursor       *string      `json:"cursor"`
}

type PlaidError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestId    string `json:"request_id"`
}

func (e *PlaidError) Error() string {
	return fmt.Sprintf("Plaid API error: %s (type: %s, code: %s, request_id: %s)",
		e.ErrorMessage, e.ErrorType, e.ErrorCode, e.RequestId)
}

// TransactionsJob is the unit of work placed on the sync queue whenever
// Plaid reports new data for an item or a premium user asks for a sync.
type TransactionsJob struct {
	JobID       string  `json:"job_id"`
	UserID      string  `json:"user_id"`
	AccessToken string  `json:"access_token"`
	ItemID      string  `json:"item_id"`
	Cursor      *string `json:"cursor"`
}

type SyncStatus string

const (
	TransactionsJobPending    SyncStatus = "pending"
	TransactionsJobFailed     SyncStatus = "failed"
	TransactionsJobInProgress SyncStatus = "in_progress"
	TransactionsJobIdle       SyncStatus = "idle"
)
