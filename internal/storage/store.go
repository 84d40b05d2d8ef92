// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"artistplan/internal/models"
)

// ErrNotFound is returned when a record does not exist or is not owned by
// the requesting user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

// RecordFilter narrows financial record queries. Zero-value fields are
// ignored. From/To are inclusive; Before is exclusive (used for named
// periods like "thisMonth").
type RecordFilter struct {
	From      *time.Time
	To        *time.Time
	Before    *time.Time
	Type      string
	Category  string
	BudgetID  string
	ProjectID string
}

// Store defines the persistence operations for Artist Plan. Every method
// that reads or mutates an owned entity takes the owning user's ID and is
// scoped to it; cross-user access is impossible at this layer.
//
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service or handler layers.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Tasks. Update rewrites the whole aggregate including subtasks.
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, userID, id string) (*models.Task, error)
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	ListTasksByProject(ctx context.Context, userID, projectID string) ([]models.Task, error)
	ListTasksDueBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error)
	UpdateTask(ctx context.Context, userID string, task *models.Task) error
	DeleteTask(ctx context.Context, userID, id string) error

	// Projects. Update rewrites the whole aggregate including milestones.
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, userID, id string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	ListProjectsDueBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Project, error)
	// ListProjectsWithMilestonesBetween returns candidate projects having at
	// least one milestone in the window. Callers must re-check each
	// milestone: a matching project may carry milestones outside the window.
	ListProjectsWithMilestonesBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Project, error)
	UpdateProject(ctx context.Context, userID string, project *models.Project) error
	DeleteProject(ctx context.Context, userID, id string) error

	// Campaigns
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error
	GetCampaign(ctx context.Context, userID, id string) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, userID string) ([]models.Campaign, error)
	// ListCampaignsOverlapping matches campaigns whose [start, end] interval
	// intersects the window (missing end treated as start).
	ListCampaignsOverlapping(ctx context.Context, userID string, start, end time.Time) ([]models.Campaign, error)
	UpdateCampaign(ctx context.Context, userID string, campaign *models.Campaign) error
	DeleteCampaign(ctx context.Context, userID, id string) error

	// Content items
	CreateContentItem(ctx context.Context, item *models.ContentItem) error
	GetContentItem(ctx context.Context, userID, id string) (*models.ContentItem, error)
	ListContentItems(ctx context.Context, userID string) ([]models.ContentItem, error)
	UpdateContentItem(ctx context.Context, userID string, item *models.ContentItem) error
	DeleteContentItem(ctx context.Context, userID, id string) error

	// Lyrics items
	CreateLyricsItem(ctx context.Context, item *models.LyricsItem) error
	GetLyricsItem(ctx context.Context, userID, id string) (*models.LyricsItem, error)
	ListLyricsItems(ctx context.Context, userID string) ([]models.LyricsItem, error)
	UpdateLyricsItem(ctx context.Context, userID string, item *models.LyricsItem) error
	DeleteLyricsItem(ctx context.Context, userID, id string) error

	// Financial records
	CreateRecord(ctx context.Context, record *models.FinancialRecord) error
	GetRecord(ctx context.Context, userID, id string) (*models.FinancialRecord, error)
	ListRecords(ctx context.Context, userID string, filter RecordFilter) ([]models.FinancialRecord, error)
	UpdateRecord(ctx context.Context, userID string, record *models.FinancialRecord) error
	DeleteRecord(ctx context.Context, userID, id string) error

	// Budgets
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, userID string, budget *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error

	// Financial goals
	CreateGoal(ctx context.Context, goal *models.FinancialGoal) error
	GetGoal(ctx context.Context, userID, id string) (*models.FinancialGoal, error)
	ListGoals(ctx context.Context, userID string) ([]models.FinancialGoal, error)
	UpdateGoal(ctx context.Context, userID string, goal *models.FinancialGoal) error
	DeleteGoal(ctx context.Context, userID, id string) error

	// Tours. DeleteTour also deletes the tour's shows.
	CreateTour(ctx context.Context, tour *models.Tour) error
	GetTour(ctx context.Context, userID, id string) (*models.Tour, error)
	ListTours(ctx context.Context, userID string) ([]models.Tour, error)
	UpdateTour(ctx context.Context, userID string, tour *models.Tour) error
	DeleteTour(ctx context.Context, userID, id string) error

	// Shows. tourID filters ListShows when non-empty.
	CreateShow(ctx context.Context, show *models.Show) error
	GetShow(ctx context.Context, userID, id string) (*models.Show, error)
	ListShows(ctx context.Context, userID, tourID string) ([]models.Show, error)
	UpdateShow(ctx context.Context, userID string, show *models.Show) error
	DeleteShow(ctx context.Context, userID, id string) error

	// Custom calendar events. Either bound may be nil for open-ended lists.
	CreateEvent(ctx context.Context, event *models.CustomCalendarEvent) error
	GetEvent(ctx context.Context, userID, id string) (*models.CustomCalendarEvent, error)
	ListEvents(ctx context.Context, userID string, start, end *time.Time) ([]models.CustomCalendarEvent, error)
	UpdateEvent(ctx context.Context, userID string, event *models.CustomCalendarEvent) error
	DeleteEvent(ctx context.Context, userID, id string) error

	// Close releases any resources held by the store.
	Close() error
}
