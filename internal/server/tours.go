package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
	"artistplan/internal/storage"
)

type tourRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Region      *string `json:"region"`
}

func (r *tourRequest) apply(tour *models.Tour) error {
	setIf(&tour.Name, r.Name)
	setIf(&tour.Description, r.Description)
	setIf(&tour.Status, r.Status)
	setIf(&tour.Region, r.Region)
	if err := applyDate(&tour.StartDate, r.StartDate); err != nil {
		return err
	}
	return applyDate(&tour.EndDate, r.EndDate)
}

func (r *tourRequest) validate() (string, bool) {
	if r.Status != nil && !oneOf(*r.Status, "Planning", "Announced", "Ongoing", "Completed", "Cancelled", "Postponed") {
		return "invalid tour status", false
	}
	return "", true
}

func (s *Server) handleListTours(c *gin.Context) {
	tours, err := s.store.ListTours(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "tours", len(tours), tours)
}

func (s *Server) handleCreateTour(c *gin.Context) {
	var req tourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondFail(c, http.StatusBadRequest, "a tour must have a name")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().Unix()
	tour := &models.Tour{
		ID:        uuid.New().String(),
		Status:    "Planning",
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(tour); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateTour(c.Request.Context(), tour); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "tour", tour)
}

func (s *Server) handleGetTour(c *gin.Context) {
	tour, err := s.store.GetTour(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no tour found with that ID")
		return
	}
	respondData(c, http.StatusOK, "tour", tour)
}

func (s *Server) handleUpdateTour(c *gin.Context) {
	var req tourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	tour, err := s.store.GetTour(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no tour found with that ID")
		return
	}
	if err := req.apply(tour); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	tour.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateTour(c.Request.Context(), userID, tour); err != nil {
		s.respondStoreError(c, err, "no tour found with that ID")
		return
	}
	respondData(c, http.StatusOK, "tour", tour)
}

// handleDeleteTour removes a tour and all shows attached to it.
func (s *Server) handleDeleteTour(c *gin.Context) {
	if err := s.store.DeleteTour(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no tour found with that ID")
		return
	}
	respondDeleted(c)
}

func (s *Server) handleListTourShows(c *gin.Context) {
	userID := middleware.UserID(c)
	tourID := c.Param("id")
	if _, err := s.store.GetTour(c.Request.Context(), userID, tourID); err != nil {
		s.respondStoreError(c, err, "no tour found with that ID")
		return
	}

	shows, err := s.store.ListShows(c.Request.Context(), userID, tourID)
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "shows", len(shows), shows)
}

type showRequest struct {
	TourID        *string `json:"tourId"`
	Date          *string `json:"date"`
	VenueName     *string `json:"venueName"`
	City          *string `json:"city"`
	Country       *string `json:"country"`
	Status        *string `json:"status"`
	ShowTime      *string `json:"showTime"`
	DoorsOpenTime *string `json:"doorsOpenTime"`
	TicketLink    *string `json:"ticketLink"`
}

func (r *showRequest) apply(show *models.Show) error {
	setIf(&show.TourID, r.TourID)
	setIf(&show.VenueName, r.VenueName)
	setIf(&show.City, r.City)
	setIf(&show.Country, r.Country)
	setIf(&show.Status, r.Status)
	setIf(&show.ShowTime, r.ShowTime)
	setIf(&show.DoorsOpenTime, r.DoorsOpenTime)
	setIf(&show.TicketLink, r.TicketLink)
	if r.Date != nil && *r.Date != "" {
		date, err := parseDate(*r.Date)
		if err != nil {
			return err
		}
		show.Date = date
	}
	return nil
}

func (r *showRequest) validate() (string, bool) {
	if r.Status != nil && !oneOf(*r.Status, "Scheduled", "Confirmed", "Cancelled", "Postponed", "Completed", "Sold Out") {
		return "invalid show status", false
	}
	return "", true
}

// checkTourLink verifies that a non-empty tour reference points at a tour
// owned by the same user. A bad link is a client error, not a 404.
func (s *Server) checkTourLink(c *gin.Context, userID, tourID string) bool {
	if tourID == "" {
		return true
	}
	if _, err := s.store.GetTour(c.Request.Context(), userID, tourID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondFail(c, http.StatusBadRequest, "the referenced tour does not exist")
			return false
		}
		s.respondServerError(c, err)
		return false
	}
	return true
}

func (s *Server) handleListShows(c *gin.Context) {
	shows, err := s.store.ListShows(c.Request.Context(), middleware.UserID(c), c.Query("tourId"))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "shows", len(shows), shows)
}

func (s *Server) handleCreateShow(c *gin.Context) {
	var req showRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date == nil || *req.Date == "" {
		respondFail(c, http.StatusBadRequest, "a show must have a date")
		return
	}
	if req.VenueName == nil || *req.VenueName == "" {
		respondFail(c, http.StatusBadRequest, "a show must have a venue name")
		return
	}
	if req.City == nil || *req.City == "" {
		respondFail(c, http.StatusBadRequest, "a show must have a city")
		return
	}
	if req.Country == nil || *req.Country == "" {
		respondFail(c, http.StatusBadRequest, "a show must have a country")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	if req.TourID != nil && !s.checkTourLink(c, userID, *req.TourID) {
		return
	}

	now := time.Now().Unix()
	show := &models.Show{
		ID:        uuid.New().String(),
		Status:    "Scheduled",
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(show); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateShow(c.Request.Context(), show); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "show", show)
}

func (s *Server) handleGetShow(c *gin.Context) {
	show, err := s.store.GetShow(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no show found with that ID")
		return
	}
	respondData(c, http.StatusOK, "show", show)
}

func (s *Server) handleUpdateShow(c *gin.Context) {
	var req showRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	if req.TourID != nil && !s.checkTourLink(c, userID, *req.TourID) {
		return
	}

	show, err := s.store.GetShow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no show found with that ID")
		return
	}
	if err := req.apply(show); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	show.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateShow(c.Request.Context(), userID, show); err != nil {
		s.respondStoreError(c, err, "no show found with that ID")
		return
	}
	respondData(c, http.StatusOK, "show", show)
}

func (s *Server) handleDeleteShow(c *gin.Context) {
	if err := s.store.DeleteShow(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no show found with that ID")
		return
	}
	respondDeleted(c)
}
