package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
)

type campaignRequest struct {
	Name            *string `json:"name"`
	CampaignType    *string `json:"campaignType"`
	Status          *string `json:"status"`
	Description     *string `json:"description"`
	StartDate       *string `json:"startDate"`
	EndDate         *string `json:"endDate"`
	TargetAudience  *string `json:"targetAudience"`
	LinkedProjectID *string `json:"linkedProjectId"`
}

func (r *campaignRequest) apply(campaign *models.Campaign) error {
	setIf(&campaign.Name, r.Name)
	setIf(&campaign.CampaignType, r.CampaignType)
	setIf(&campaign.Status, r.Status)
	setIf(&campaign.Description, r.Description)
	setIf(&campaign.TargetAudience, r.TargetAudience)
	setIf(&campaign.LinkedProjectID, r.LinkedProjectID)
	if err := applyDate(&campaign.StartDate, r.StartDate); err != nil {
		return err
	}
	return applyDate(&campaign.EndDate, r.EndDate)
}

func (r *campaignRequest) validate() (string, bool) {
	if r.Status != nil && !oneOf(*r.Status,
		models.CampaignStatusDraft, models.CampaignStatusPlanning, models.CampaignStatusActive,
		models.CampaignStatusCompleted, models.CampaignStatusOnHold, models.CampaignStatusArchived) {
		return "invalid campaign status", false
	}
	return "", true
}

func (s *Server) handleListCampaigns(c *gin.Context) {
	campaigns, err := s.store.ListCampaigns(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "campaigns", len(campaigns), campaigns)
}

func (s *Server) handleCreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondFail(c, http.StatusBadRequest, "a campaign must have a name")
		return
	}
	if req.CampaignType == nil || *req.CampaignType == "" {
		respondFail(c, http.StatusBadRequest, "a campaign must have a type")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().Unix()
	campaign := &models.Campaign{
		ID:        uuid.New().String(),
		Status:    models.CampaignStatusDraft,
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(campaign); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateCampaign(c.Request.Context(), campaign); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "campaign", campaign)
}

func (s *Server) handleGetCampaign(c *gin.Context) {
	campaign, err := s.store.GetCampaign(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no campaign found with that ID")
		return
	}
	respondData(c, http.StatusOK, "campaign", campaign)
}

func (s *Server) handleUpdateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	campaign, err := s.store.GetCampaign(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no campaign found with that ID")
		return
	}
	if err := req.apply(campaign); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	campaign.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateCampaign(c.Request.Context(), userID, campaign); err != nil {
		s.respondStoreError(c, err, "no campaign found with that ID")
		return
	}
	respondData(c, http.StatusOK, "campaign", campaign)
}

func (s *Server) handleDeleteCampaign(c *gin.Context) {
	if err := s.store.DeleteCampaign(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no campaign found with that ID")
		return
	}
	respondDeleted(c)
}
