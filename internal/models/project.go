package models

import "time"

// Project statuses.
const (
	ProjectStatusNew        = "New"
	ProjectStatusIdea       = "Idea"
	ProjectStatusPlanning   = "Planning"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusArchived   = "Archived"
)

// Milestone statuses.
const (
	MilestoneStatusPending    = "Pending"
	MilestoneStatusInProgress = "In Progress"
	MilestoneStatusCompleted  = "Completed"
	MilestoneStatusDelayed    = "Delayed"
)

// Project is a body of work (album, EP, video, ...) with an optional date
// range and an ordered list of milestones.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`

	// ProjectType is free-form (e.g. "Album Release", "Music Video").
	ProjectType string `json:"projectType,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// DueDate is the overall project deadline.
	DueDate *time.Time `json:"dueDate,omitempty"`

	// Milestones is the ordered child list of this project.
	Milestones []Milestone `json:"milestones"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Milestone is a child record on a Project, addressed by
// (project ID, milestone ID).
type Milestone struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
}
