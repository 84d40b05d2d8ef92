package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"artistplan/internal/models"
	"artistplan/internal/storage"
)

const recordSelect = `SELECT id, description, amount, type, date, category,
	budget_id, project_id, notes, created_by, created_at, updated_at FROM financial_records`

const budgetSelect = `SELECT id, name, amount, period, start_date, end_date,
	project_id, categories, notes, created_by, created_at, updated_at FROM budgets`

const goalSelect = `SELECT id, name, description, target_amount, current_amount,
	deadline, priority, category, status, created_by, created_at, updated_at FROM financial_goals`

// CreateRecord persists a new financial record.
func (s *Store) CreateRecord(ctx context.Context, record *models.FinancialRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if record.CreatedAt == 0 {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.Date.IsZero() {
		record.Date = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO financial_records (id, description, amount, type, date, category,
			budget_id, project_id, notes, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Description, record.Amount, record.Type, record.Date.Unix(),
		record.Category, nullStr(record.BudgetID), nullStr(record.ProjectID), record.Notes,
		record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetRecord retrieves a financial record, scoped to the owner.
func (s *Store) GetRecord(ctx context.Context, userID, id string) (*models.FinancialRecord, error) {
	row := s.db.QueryRowContext(ctx, recordSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanRecord(row)
}

// ListRecords returns a user's financial records matching the filter,
// newest date first.
func (s *Store) ListRecords(ctx context.Context, userID string, filter storage.RecordFilter) ([]models.FinancialRecord, error) {
	conds := []string{"created_by = ?"}
	args := []any{userID}

	if filter.From != nil {
		conds = append(conds, "date >= ?")
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		conds = append(conds, "date <= ?")
		args = append(args, filter.To.Unix())
	}
	if filter.Before != nil {
		conds = append(conds, "date < ?")
		args = append(args, filter.Before.Unix())
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.BudgetID != "" {
		conds = append(conds, "budget_id = ?")
		args = append(args, filter.BudgetID)
	}
	if filter.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, filter.ProjectID)
	}

	query := recordSelect + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY date DESC"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.FinancialRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// UpdateRecord rewrites a financial record, scoped to the owner.
func (s *Store) UpdateRecord(ctx context.Context, userID string, record *models.FinancialRecord) error {
	record.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE financial_records SET description = ?, amount = ?, type = ?, date = ?,
			category = ?, budget_id = ?, project_id = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		record.Description, record.Amount, record.Type, record.Date.Unix(),
		record.Category, nullStr(record.BudgetID), nullStr(record.ProjectID), record.Notes,
		record.UpdatedAt, record.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteRecord removes a financial record, scoped to the owner.
func (s *Store) DeleteRecord(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "financial_records", userID, id)
}

// CreateBudget persists a new budget. Spend is never stored.
func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if budget.CreatedAt == 0 {
		budget.CreatedAt = now
	}
	budget.UpdatedAt = now

	categories, err := encodeList(budget.Categories)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, name, amount, period, start_date, end_date,
			project_id, categories, notes, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.Name, budget.Amount, budget.Period,
		unix(budget.StartDate), unix(budget.EndDate),
		nullStr(budget.ProjectID), categories, budget.Notes,
		budget.CreatedBy, budget.CreatedAt, budget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudget retrieves a budget, scoped to the owner.
func (s *Store) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx, budgetSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanBudget(row)
}

// ListBudgets returns all budgets for a user, newest first.
func (s *Store) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		budgetSelect+" WHERE created_by = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget rewrites a budget, scoped to the owner.
func (s *Store) UpdateBudget(ctx context.Context, userID string, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().Unix()

	categories, err := encodeList(budget.Categories)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, amount = ?, period = ?, start_date = ?, end_date = ?,
			project_id = ?, categories = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		budget.Name, budget.Amount, budget.Period, unix(budget.StartDate), unix(budget.EndDate),
		nullStr(budget.ProjectID), categories, budget.Notes, budget.UpdatedAt,
		budget.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteBudget removes a budget, scoped to the owner. Records linked to the
// budget keep their budgetId; they are not detached.
func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "budgets", userID, id)
}

// CreateGoal persists a new financial goal.
func (s *Store) CreateGoal(ctx context.Context, goal *models.FinancialGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if goal.CreatedAt == 0 {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	}
	if goal.Status == "" {
		goal.Status = models.GoalStatusNotStarted
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO financial_goals (id, name, description, target_amount, current_amount,
			deadline, priority, category, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, goal.Description, goal.TargetAmount, goal.CurrentAmount,
		unix(goal.Deadline), goal.Priority, goal.Category, goal.Status,
		goal.CreatedBy, goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a financial goal, scoped to the owner.
func (s *Store) GetGoal(ctx context.Context, userID, id string) (*models.FinancialGoal, error) {
	row := s.db.QueryRowContext(ctx, goalSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanGoal(row)
}

// ListGoals returns all goals for a user, earliest deadline first.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]models.FinancialGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		goalSelect+" WHERE created_by = ? ORDER BY deadline IS NULL, deadline, priority", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.FinancialGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal rewrites a financial goal, scoped to the owner. Amount
// invariants are enforced by the service layer before this is called.
func (s *Store) UpdateGoal(ctx context.Context, userID string, goal *models.FinancialGoal) error {
	goal.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE financial_goals SET name = ?, description = ?, target_amount = ?, current_amount = ?,
			deadline = ?, priority = ?, category = ?, status = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		goal.Name, goal.Description, goal.TargetAmount, goal.CurrentAmount,
		unix(goal.Deadline), goal.Priority, goal.Category, goal.Status, goal.UpdatedAt,
		goal.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGoal removes a financial goal, scoped to the owner.
func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "financial_goals", userID, id)
}

func scanRecord(row rowScanner) (*models.FinancialRecord, error) {
	record := &models.FinancialRecord{}
	var date int64
	var budgetID, projectID sql.NullString
	err := row.Scan(&record.ID, &record.Description, &record.Amount, &record.Type, &date,
		&record.Category, &budgetID, &projectID, &record.Notes,
		&record.CreatedBy, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	record.Date = time.Unix(date, 0).UTC()
	record.BudgetID = budgetID.String
	record.ProjectID = projectID.String
	return record, nil
}

func scanBudget(row rowScanner) (*models.Budget, error) {
	budget := &models.Budget{}
	var startDate, endDate sql.NullInt64
	var projectID, categories sql.NullString
	err := row.Scan(&budget.ID, &budget.Name, &budget.Amount, &budget.Period,
		&startDate, &endDate, &projectID, &categories, &budget.Notes,
		&budget.CreatedBy, &budget.CreatedAt, &budget.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan budget: %w", err)
	}
	budget.StartDate = timeAt(startDate)
	budget.EndDate = timeAt(endDate)
	budget.ProjectID = projectID.String
	if budget.Categories, err = decodeList(categories); err != nil {
		return nil, err
	}
	return budget, nil
}

func scanGoal(row rowScanner) (*models.FinancialGoal, error) {
	goal := &models.FinancialGoal{}
	var deadline sql.NullInt64
	err := row.Scan(&goal.ID, &goal.Name, &goal.Description, &goal.TargetAmount, &goal.CurrentAmount,
		&deadline, &goal.Priority, &goal.Category, &goal.Status,
		&goal.CreatedBy, &goal.CreatedAt, &goal.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	goal.Deadline = timeAt(deadline)
	return goal, nil
}
