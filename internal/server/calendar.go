package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
)

type customEventRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	EndDate     *string `json:"endDate"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (r *customEventRequest) apply(event *models.CustomCalendarEvent) error {
	setIf(&event.Title, r.Title)
	setIf(&event.StartTime, r.StartTime)
	setIf(&event.EndTime, r.EndTime)
	setIf(&event.Description, r.Description)
	setIf(&event.Color, r.Color)
	if r.Date != nil && *r.Date != "" {
		date, err := parseDate(*r.Date)
		if err != nil {
			return err
		}
		event.Date = date
	}
	return applyDate(&event.EndDate, r.EndDate)
}

// checkEventDates rejects an end date earlier than the start date.
func checkEventDates(event *models.CustomCalendarEvent) (string, bool) {
	if event.EndDate != nil && event.EndDate.Before(event.Date) {
		return "end date cannot be before the start date", false
	}
	return "", true
}

// handleListCustomEvents lists custom events, optionally narrowed to a date
// window.
func (s *Server) handleListCustomEvents(c *gin.Context) {
	var start, end *time.Time
	if raw := c.Query("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}
		end = &t
	}

	events, err := s.store.ListEvents(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "events", len(events), events)
}

func (s *Server) handleCreateCustomEvent(c *gin.Context) {
	var req customEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondFail(c, http.StatusBadRequest, "an event must have a title")
		return
	}
	if req.Date == nil || *req.Date == "" {
		respondFail(c, http.StatusBadRequest, "an event must have a date")
		return
	}

	now := time.Now().Unix()
	event := &models.CustomCalendarEvent{
		ID:        uuid.New().String(),
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(event); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if msg, ok := checkEventDates(event); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	if err := s.store.CreateEvent(c.Request.Context(), event); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "event", event)
}

func (s *Server) handleGetCustomEvent(c *gin.Context) {
	event, err := s.store.GetEvent(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no event found with that ID")
		return
	}
	respondData(c, http.StatusOK, "event", event)
}

func (s *Server) handleUpdateCustomEvent(c *gin.Context) {
	var req customEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserID(c)
	event, err := s.store.GetEvent(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no event found with that ID")
		return
	}
	if err := req.apply(event); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if msg, ok := checkEventDates(event); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}
	event.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateEvent(c.Request.Context(), userID, event); err != nil {
		s.respondStoreError(c, err, "no event found with that ID")
		return
	}
	respondData(c, http.StatusOK, "event", event)
}

func (s *Server) handleDeleteCustomEvent(c *gin.Context) {
	if err := s.store.DeleteEvent(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no event found with that ID")
		return
	}
	respondDeleted(c)
}

// handleAllCalendarEvents assembles the unified calendar feed over a
// required date window.
func (s *Server) handleAllCalendarEvents(c *gin.Context) {
	rawStart := c.Query("startDate")
	rawEnd := c.Query("endDate")
	if rawStart == "" || rawEnd == "" {
		respondFail(c, http.StatusBadRequest, "startDate and endDate query parameters are required")
		return
	}
	start, err := parseDate(rawStart)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.calendar.AllEvents(c.Request.Context(), middleware.UserID(c), start, end)
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "events", len(events), events)
}
