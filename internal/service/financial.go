package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"artistplan/internal/models"
	"artistplan/internal/storage"
)

// ErrGoalExceedsTarget is returned when a write would persist a goal's
// current amount above its target.
var ErrGoalExceedsTarget = errors.New("current amount cannot exceed target amount")

// ErrUnknownPeriod is returned for an unrecognized named period.
var ErrUnknownPeriod = errors.New("unknown period")

// SummaryQuery narrows the financial summary. An explicit From/To range
// takes precedence over a named Period; with neither, all records count.
type SummaryQuery struct {
	Period    string
	From      *time.Time
	To        *time.Time
	Category  string
	ProjectID string
}

// Summary is the aggregate income/expense view over a filtered record set.
type Summary struct {
	TotalIncome       float64           `json:"totalIncome"`
	TotalExpenses     float64           `json:"totalExpenses"`
	NetBalance        float64           `json:"netBalance"`
	CategoryBreakdown CategoryBreakdown `json:"categoryBreakdown"`
	RecordCount       int               `json:"recordCount"`
}

// CategoryBreakdown maps category names to summed amounts per record type.
// Records without a category are excluded here but still count in totals.
type CategoryBreakdown struct {
	Income   map[string]float64 `json:"income"`
	Expenses map[string]float64 `json:"expenses"`
}

// FinancialStore is the subset of storage the financial calculations read
// from.
type FinancialStore interface {
	ListRecords(ctx context.Context, userID string, filter storage.RecordFilter) ([]models.FinancialRecord, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
}

// FinancialService computes summaries and budget roll-ups. All derived
// values are recomputed from records on every call; nothing is cached.
type FinancialService struct {
	store  FinancialStore
	logger *slog.Logger
	now    func() time.Time
}

// NewFinancialService creates a new financial calculation service.
func NewFinancialService(store FinancialStore, logger *slog.Logger) *FinancialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinancialService{store: store, logger: logger, now: time.Now}
}

// Summarize folds the user's records matching the query into income/expense
// totals and per-category breakdowns.
func (s *FinancialService) Summarize(ctx context.Context, userID string, q SummaryQuery) (*Summary, error) {
	filter := storage.RecordFilter{
		Category:  q.Category,
		ProjectID: q.ProjectID,
	}

	switch {
	case q.From != nil && q.To != nil:
		filter.From = q.From
		filter.To = q.To
	case q.Period != "":
		from, before, err := periodRange(q.Period, s.now())
		if err != nil {
			return nil, err
		}
		filter.From = &from
		filter.Before = &before
	}

	records, err := s.store.ListRecords(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching financial summary: %w", err)
	}

	summary := &Summary{
		CategoryBreakdown: CategoryBreakdown{
			Income:   map[string]float64{},
			Expenses: map[string]float64{},
		},
		RecordCount: len(records),
	}
	for i := range records {
		record := &records[i]
		switch record.Type {
		case models.RecordTypeIncome:
			summary.TotalIncome += record.Amount
			if record.Category != "" {
				summary.CategoryBreakdown.Income[record.Category] += record.Amount
			}
		case models.RecordTypeExpense:
			summary.TotalExpenses += record.Amount
			if record.Category != "" {
				summary.CategoryBreakdown.Expenses[record.Category] += record.Amount
			}
		}
	}
	summary.NetBalance = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}

// BudgetsWithSpend returns the user's budgets with their derived spent and
// remaining amounts. O(records) per budget, recomputed on every call.
func (s *FinancialService) BudgetsWithSpend(ctx context.Context, userID string) ([]models.BudgetWithSpend, error) {
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching budgets: %w", err)
	}

	result := make([]models.BudgetWithSpend, 0, len(budgets))
	for i := range budgets {
		rolled, err := s.rollUp(ctx, userID, &budgets[i], false)
		if err != nil {
			return nil, err
		}
		result = append(result, *rolled)
	}
	return result, nil
}

// BudgetWithSpend returns one budget with its derived roll-up and the
// linked expense records.
func (s *FinancialService) BudgetWithSpend(ctx context.Context, userID, id string) (*models.BudgetWithSpend, error) {
	budget, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.rollUp(ctx, userID, budget, true)
}

func (s *FinancialService) rollUp(ctx context.Context, userID string, budget *models.Budget, includeRecords bool) (*models.BudgetWithSpend, error) {
	expenses, err := s.store.ListRecords(ctx, userID, storage.RecordFilter{
		BudgetID: budget.ID,
		Type:     models.RecordTypeExpense,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching budget records: %w", err)
	}

	var spent float64
	for i := range expenses {
		spent += expenses[i].Amount
	}

	rolled := &models.BudgetWithSpend{
		Budget:          *budget,
		SpentAmount:     spent,
		RemainingAmount: budget.Amount - spent,
	}
	if includeRecords {
		rolled.AssociatedRecords = expenses
	}
	return rolled, nil
}

// CheckGoalAmounts enforces the goal invariant: current amount never
// exceeds target.
func CheckGoalAmounts(goal *models.FinancialGoal) error {
	if goal.CurrentAmount > goal.TargetAmount {
		return ErrGoalExceedsTarget
	}
	return nil
}

// DeriveGoal fills the goal's computed progress and status. Status follows
// the amount ratio unless the stored status is On Hold, which is user-set.
func DeriveGoal(goal *models.FinancialGoal) {
	if goal.TargetAmount > 0 {
		goal.Progress = goal.CurrentAmount / goal.TargetAmount * 100
	}
	if goal.Status == models.GoalStatusOnHold {
		return
	}
	switch {
	case goal.CurrentAmount >= goal.TargetAmount && goal.TargetAmount > 0:
		goal.Status = models.GoalStatusAchieved
	case goal.CurrentAmount > 0:
		goal.Status = models.GoalStatusInProgress
	default:
		goal.Status = models.GoalStatusNotStarted
	}
}

// periodRange resolves a named period to a [from, before) window.
func periodRange(period string, now time.Time) (from, before time.Time, err error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch period {
	case "thisMonth":
		return firstOfMonth, firstOfMonth.AddDate(0, 1, 0), nil
	case "lastMonth":
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth, nil
	case "thisYear":
		firstOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return firstOfYear, firstOfYear.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
}
