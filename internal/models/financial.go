package models

import "time"

// Financial record types.
const (
	RecordTypeIncome  = "Income"
	RecordTypeExpense = "Expense"
)

// Financial goal statuses. On Hold is the only user-set status; the rest
// are derived from the amount ratio at read time.
const (
	GoalStatusNotStarted = "Not Started"
	GoalStatusInProgress = "In Progress"
	GoalStatusAchieved   = "Achieved"
	GoalStatusOnHold     = "On Hold"
)

// FinancialRecord is a single income or expense entry, optionally linked to
// a budget and/or project.
type FinancialRecord struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`

	// Type is Income or Expense.
	Type string `json:"type"`

	Date time.Time `json:"date"`

	Category  string `json:"category,omitempty"`
	BudgetID  string `json:"budgetId,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	Notes     string `json:"notes,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Budget is a spending target over a period. Spent and remaining amounts are
// derived from linked Expense records on every read and never stored.
type Budget struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`

	// Period is e.g. "Monthly", "Quarterly", "Annually", "Project-Based".
	Period string `json:"period"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	ProjectID  string   `json:"projectId,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Notes      string   `json:"notes,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// BudgetWithSpend is a Budget plus its derived roll-up. RemainingAmount can
// go negative when overspent; no clamping.
type BudgetWithSpend struct {
	Budget
	SpentAmount     float64 `json:"spentAmount"`
	RemainingAmount float64 `json:"remainingAmount"`

	// AssociatedRecords holds the linked expense records, returned on
	// single-budget reads only.
	AssociatedRecords []FinancialRecord `json:"associatedRecords,omitempty"`
}

// FinancialGoal is a savings or earnings target. CurrentAmount may never
// exceed TargetAmount; writes violating that are rejected.
type FinancialGoal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`

	Deadline *time.Time `json:"deadline,omitempty"`
	Priority string     `json:"priority"`
	Category string     `json:"category,omitempty"`

	// Status is derived from the amount ratio on reads, except On Hold
	// which is user-set and preserved.
	Status string `json:"status"`

	// Progress is the derived completion percentage, never persisted.
	Progress float64 `json:"progress"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
