package models

import "time"

// Tour is a run of shows over a date range and region. Deleting a tour
// deletes its shows (the only cascade in the system).
type Tour struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Status is e.g. "Planning", "Announced", "Ongoing", "Completed".
	Status string `json:"status"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// Region is e.g. "North America", "Europe".
	Region string `json:"region,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Show is a single performance, optionally belonging to a tour.
type Show struct {
	ID string `json:"id"`

	// TourID optionally links the show to a tour owned by the same user.
	TourID string `json:"tourId,omitempty"`

	// TourName is the linked tour's name, filled on reads for display.
	TourName string `json:"tourName,omitempty"`

	Date      time.Time `json:"date"`
	VenueName string    `json:"venueName"`
	City      string    `json:"city"`
	Country   string    `json:"country"`

	// Status is e.g. "Scheduled", "Confirmed", "Cancelled", "Sold Out".
	Status string `json:"status"`

	// ShowTime and DoorsOpenTime are HH:MM strings.
	ShowTime      string `json:"showTime,omitempty"`
	DoorsOpenTime string `json:"doorsOpenTime,omitempty"`

	TicketLink string `json:"ticketLink,omitempty"`

	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
