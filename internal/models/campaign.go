package models

import "time"

// Campaign statuses.
const (
	CampaignStatusDraft     = "Draft"
	CampaignStatusPlanning  = "Planning"
	CampaignStatusActive    = "Active"
	CampaignStatusCompleted = "Completed"
	CampaignStatusOnHold    = "On Hold"
	CampaignStatusArchived  = "Archived"
)

// Campaign is a promotional effort with an optional date range and an
// optional link to a project.
type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// CampaignType is e.g. "Album Release", "Single Launch", "Tour Promotion".
	CampaignType string `json:"campaignType"`

	Status      string `json:"status"`
	Description string `json:"description,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	TargetAudience string `json:"targetAudience,omitempty"`

	// LinkedProjectID optionally ties the campaign to a project.
	LinkedProjectID string `json:"linkedProjectId,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
