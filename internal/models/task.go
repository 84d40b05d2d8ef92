package models

import "time"

// Task statuses.
const (
	TaskStatusTodo      = "Todo"
	TaskStatusOngoing   = "Ongoing"
	TaskStatusCompleted = "Completed"
)

// Task priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
	PriorityNone   = "None"
)

// Task is a unit of work, optionally attached to a project.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Status is one of Todo, Ongoing, Completed.
	Status string `json:"status"`

	// Priority is one of High, Medium, Low, None.
	Priority string `json:"priority"`

	// ProjectID optionally links the task to a project.
	ProjectID string `json:"projectId,omitempty"`

	// ProjectName is the linked project's name, filled on reads for display.
	// Never written back to the store.
	ProjectName string `json:"projectName,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// Subtasks is the ordered child checklist of this task.
	Subtasks []Subtask `json:"subtasks"`

	StartDate *time.Time `json:"startDate,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`

	EstimatedHours float64 `json:"estimatedHours,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Subtask is a child record on a Task, addressed by (task ID, subtask ID).
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
