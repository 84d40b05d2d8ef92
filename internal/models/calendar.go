package models

import "time"

// CustomCalendarEvent is a user-authored calendar entry.
type CustomCalendarEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Date is the start date of the event.
	Date time.Time `json:"date"`

	// EndDate covers multi-day events; must not precede Date.
	EndDate *time.Time `json:"endDate,omitempty"`

	// StartTime and EndTime are HH:MM strings.
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	Description string `json:"description,omitempty"`

	// Color is the display color (hex), defaulting to #3788d8.
	Color string `json:"color"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
