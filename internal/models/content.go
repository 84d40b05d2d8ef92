package models

// ContentItem is a piece of media or collateral (image, video, press
// release, ...) optionally linked to a project and/or campaign.
type ContentItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Type is e.g. "Image", "Video", "Audio", "Press Release".
	Type string `json:"type"`

	// Status is e.g. "Draft", "In Review", "Approved", "Published".
	Status string `json:"status"`

	Tags []string `json:"tags,omitempty"`

	// FilePathOrURL references the stored asset; the file itself lives
	// outside this system.
	FilePathOrURL string `json:"filePathOrUrl,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	FileSize      string `json:"fileSize,omitempty"`

	AssociatedProjectID string `json:"associatedProjectId,omitempty"`
	CampaignID          string `json:"campaignId,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// LyricsItem holds song lyrics and writing notes, optionally linked to a
// project.
type LyricsItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	LyricsText string `json:"lyricsText"`
	Notes      string `json:"notes,omitempty"`

	// Status is e.g. "Idea", "Draft", "In Progress", "Completed".
	Status string `json:"status"`

	Tags []string `json:"tags,omitempty"`

	AssociatedProjectID string `json:"associatedProjectId,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
