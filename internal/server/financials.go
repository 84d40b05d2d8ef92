package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
	"artistplan/internal/service"
	"artistplan/internal/storage"
)

type recordRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Type        *string  `json:"type"`
	Date        *string  `json:"date"`
	Category    *string  `json:"category"`
	BudgetID    *string  `json:"budgetId"`
	ProjectID   *string  `json:"projectId"`
	Notes       *string  `json:"notes"`
}

func (r *recordRequest) apply(record *models.FinancialRecord) error {
	setIf(&record.Description, r.Description)
	setIf(&record.Amount, r.Amount)
	setIf(&record.Type, r.Type)
	setIf(&record.Category, r.Category)
	setIf(&record.BudgetID, r.BudgetID)
	setIf(&record.ProjectID, r.ProjectID)
	setIf(&record.Notes, r.Notes)
	if r.Date != nil && *r.Date != "" {
		date, err := parseDate(*r.Date)
		if err != nil {
			return err
		}
		record.Date = date
	}
	return nil
}

// handleListRecords lists financial records, optionally narrowed by type,
// category, budget, project and an inclusive date range.
func (s *Server) handleListRecords(c *gin.Context) {
	filter := storage.RecordFilter{
		Type:      c.Query("type"),
		Category:  c.Query("category"),
		BudgetID:  c.Query("budgetId"),
		ProjectID: c.Query("projectId"),
	}
	if raw := c.Query("startDate"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.To = &to
	}

	records, err := s.store.ListRecords(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "records", len(records), records)
}

func (s *Server) handleCreateRecord(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == nil || *req.Description == "" {
		respondFail(c, http.StatusBadRequest, "a record must have a description")
		return
	}
	if req.Amount == nil {
		respondFail(c, http.StatusBadRequest, "a record must have an amount")
		return
	}
	if req.Type == nil || !oneOf(*req.Type, models.RecordTypeIncome, models.RecordTypeExpense) || *req.Type == "" {
		respondFail(c, http.StatusBadRequest, "record type must be Income or Expense")
		return
	}

	now := time.Now()
	record := &models.FinancialRecord{
		ID:        uuid.New().String(),
		Date:      now.UTC(),
		CreatedBy: middleware.UserID(c),
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	if err := req.apply(record); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateRecord(c.Request.Context(), record); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "record", record)
}

func (s *Server) handleGetRecord(c *gin.Context) {
	record, err := s.store.GetRecord(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no financial record found with that ID")
		return
	}
	respondData(c, http.StatusOK, "record", record)
}

func (s *Server) handleUpdateRecord(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type != nil && !oneOf(*req.Type, models.RecordTypeIncome, models.RecordTypeExpense) {
		respondFail(c, http.StatusBadRequest, "record type must be Income or Expense")
		return
	}

	userID := middleware.UserID(c)
	record, err := s.store.GetRecord(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no financial record found with that ID")
		return
	}
	if err := req.apply(record); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	record.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateRecord(c.Request.Context(), userID, record); err != nil {
		s.respondStoreError(c, err, "no financial record found with that ID")
		return
	}
	respondData(c, http.StatusOK, "record", record)
}

func (s *Server) handleDeleteRecord(c *gin.Context) {
	if err := s.store.DeleteRecord(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no financial record found with that ID")
		return
	}
	respondDeleted(c)
}

type budgetRequest struct {
	Name       *string   `json:"name"`
	Amount     *float64  `json:"amount"`
	Period     *string   `json:"period"`
	StartDate  *string   `json:"startDate"`
	EndDate    *string   `json:"endDate"`
	ProjectID  *string   `json:"projectId"`
	Categories *[]string `json:"categories"`
	Notes      *string   `json:"notes"`
}

func (r *budgetRequest) apply(budget *models.Budget) error {
	setIf(&budget.Name, r.Name)
	setIf(&budget.Amount, r.Amount)
	setIf(&budget.Period, r.Period)
	setIf(&budget.ProjectID, r.ProjectID)
	setIf(&budget.Categories, r.Categories)
	setIf(&budget.Notes, r.Notes)
	if err := applyDate(&budget.StartDate, r.StartDate); err != nil {
		return err
	}
	return applyDate(&budget.EndDate, r.EndDate)
}

func (r *budgetRequest) validate() (string, bool) {
	if r.Period != nil && !oneOf(*r.Period, "Monthly", "Quarterly", "Annually", "Project-Based", "One-Time", "Custom") {
		return "invalid budget period", false
	}
	return "", true
}

// handleListBudgets lists budgets with their derived spend roll-ups.
func (s *Server) handleListBudgets(c *gin.Context) {
	budgets, err := s.financial.BudgetsWithSpend(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "budgets", len(budgets), budgets)
}

func (s *Server) handleCreateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondFail(c, http.StatusBadRequest, "a budget must have a name")
		return
	}
	if req.Amount == nil {
		respondFail(c, http.StatusBadRequest, "a budget must have an amount")
		return
	}
	if req.Period == nil || *req.Period == "" {
		respondFail(c, http.StatusBadRequest, "a budget must have a period")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().Unix()
	budget := &models.Budget{
		ID:        uuid.New().String(),
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(budget); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateBudget(c.Request.Context(), budget); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "budget", budget)
}

// handleGetBudget returns a single budget with its roll-up and the expense
// records linked to it.
func (s *Server) handleGetBudget(c *gin.Context) {
	budget, err := s.financial.BudgetWithSpend(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no budget found with that ID")
		return
	}
	respondData(c, http.StatusOK, "budget", budget)
}

func (s *Server) handleUpdateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	budget, err := s.store.GetBudget(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no budget found with that ID")
		return
	}
	if err := req.apply(budget); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	budget.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateBudget(c.Request.Context(), userID, budget); err != nil {
		s.respondStoreError(c, err, "no budget found with that ID")
		return
	}

	withSpend, err := s.financial.BudgetWithSpend(c.Request.Context(), userID, budget.ID)
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusOK, "budget", withSpend)
}

func (s *Server) handleDeleteBudget(c *gin.Context) {
	if err := s.store.DeleteBudget(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no budget found with that ID")
		return
	}
	respondDeleted(c)
}

type goalRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	TargetAmount  *float64 `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount"`
	Deadline      *string  `json:"deadline"`
	Priority      *string  `json:"priority"`
	Category      *string  `json:"category"`
	Status        *string  `json:"status"`
}

func (r *goalRequest) apply(goal *models.FinancialGoal) error {
	setIf(&goal.Name, r.Name)
	setIf(&goal.Description, r.Description)
	setIf(&goal.TargetAmount, r.TargetAmount)
	setIf(&goal.CurrentAmount, r.CurrentAmount)
	setIf(&goal.Priority, r.Priority)
	setIf(&goal.Category, r.Category)
	setIf(&goal.Status, r.Status)
	return applyDate(&goal.Deadline, r.Deadline)
}

func (r *goalRequest) validate() (string, bool) {
	if r.Priority != nil && !oneOf(*r.Priority, models.PriorityHigh, models.PriorityMedium, models.PriorityLow, models.PriorityNone) {
		return "invalid goal priority", false
	}
	if r.Status != nil && !oneOf(*r.Status,
		models.GoalStatusNotStarted, models.GoalStatusInProgress,
		models.GoalStatusAchieved, models.GoalStatusOnHold) {
		return "invalid goal status", false
	}
	return "", true
}

// handleListGoals lists financial goals with their derived status and
// progress.
func (s *Server) handleListGoals(c *gin.Context) {
	goals, err := s.store.ListGoals(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	for i := range goals {
		service.DeriveGoal(&goals[i])
	}
	respondList(c, "goals", len(goals), goals)
}

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondFail(c, http.StatusBadRequest, "a goal must have a name")
		return
	}
	if req.TargetAmount == nil {
		respondFail(c, http.StatusBadRequest, "a goal must have a target amount")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().Unix()
	goal := &models.FinancialGoal{
		ID:        uuid.New().String(),
		Priority:  models.PriorityMedium,
		Status:    models.GoalStatusNotStarted,
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(goal); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := service.CheckGoalAmounts(goal); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateGoal(c.Request.Context(), goal); err != nil {
		s.respondServerError(c, err)
		return
	}
	service.DeriveGoal(goal)
	respondData(c, http.StatusCreated, "goal", goal)
}

func (s *Server) handleGetGoal(c *gin.Context) {
	goal, err := s.store.GetGoal(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no financial goal found with that ID")
		return
	}
	service.DeriveGoal(goal)
	respondData(c, http.StatusOK, "goal", goal)
}

func (s *Server) handleUpdateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	goal, err := s.store.GetGoal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no financial goal found with that ID")
		return
	}
	if err := req.apply(goal); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := service.CheckGoalAmounts(goal); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	goal.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateGoal(c.Request.Context(), userID, goal); err != nil {
		s.respondStoreError(c, err, "no financial goal found with that ID")
		return
	}
	service.DeriveGoal(goal)
	respondData(c, http.StatusOK, "goal", goal)
}

func (s *Server) handleDeleteGoal(c *gin.Context) {
	if err := s.store.DeleteGoal(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no financial goal found with that ID")
		return
	}
	respondDeleted(c)
}

// handleFinancialSummary aggregates income and expenses over an explicit
// date range or a named period.
func (s *Server) handleFinancialSummary(c *gin.Context) {
	query := service.SummaryQuery{
		Period:    c.Query("period"),
		Category:  c.Query("category"),
		ProjectID: c.Query("projectId"),
	}
	if raw := c.Query("startDate"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		query.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		query.To = &to
	}

	summary, err := s.financial.Summarize(c.Request.Context(), middleware.UserID(c), query)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPeriod) {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusOK, "summary", summary)
}
