package models

type BudgetItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`                // "income" or "expense"
	Frequency string  `json:"frequency,omitempty"` // "monthly", "weekly" or "yearly"
}

type Goal struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	TargetAmount        float64 `json:"target_amount"`
	CurrentSaved        float64 `json:"current_saved"`
	Type                string  `json:"type"` // "save" or "payoff"
	MonthlyContribution float64 `json:"monthly_contribution,omitempty"`
}

type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Name          string  `json:"name"`
	MerchantName  string  `json:"merchant_name"`
	Category      string  `json:"category"`
	Pending       bool    `json:"pending"`
}

// FinancialSnapshot is the per-request view of a user's finances that
// insight generation is grounded on. It is assembled from the request
// body and never stored as a unit; only its fingerprint is persisted.
type FinancialSnapshot struct {
	BudgetItems  []BudgetItem  `json:"budgetItems"`
	Goals        []Goal        `json:"goals"`
	Transactions []Transaction `json:"transactions"`
}
