package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
)

type contentItemRequest struct {
	Title               *string   `json:"title"`
	Description         *string   `json:"description"`
	Type                *string   `json:"type"`
	Status              *string   `json:"status"`
	Tags                *[]string `json:"tags"`
	FilePathOrURL       *string   `json:"filePathOrUrl"`
	ThumbnailURL        *string   `json:"thumbnailUrl"`
	FileSize            *string   `json:"fileSize"`
	AssociatedProjectID *string   `json:"associatedProjectId"`
	CampaignID          *string   `json:"campaignId"`
}

func (r *contentItemRequest) apply(item *models.ContentItem) {
	setIf(&item.Title, r.Title)
	setIf(&item.Description, r.Description)
	setIf(&item.Type, r.Type)
	setIf(&item.Status, r.Status)
	setIf(&item.Tags, r.Tags)
	setIf(&item.FilePathOrURL, r.FilePathOrURL)
	setIf(&item.ThumbnailURL, r.ThumbnailURL)
	setIf(&item.FileSize, r.FileSize)
	setIf(&item.AssociatedProjectID, r.AssociatedProjectID)
	setIf(&item.CampaignID, r.CampaignID)
}

func (s *Server) handleListContentItems(c *gin.Context) {
	items, err := s.store.ListContentItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "contentItems", len(items), items)
}

func (s *Server) handleCreateContentItem(c *gin.Context) {
	var req contentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondFail(c, http.StatusBadRequest, "a content item must have a title")
		return
	}
	if req.Type == nil || *req.Type == "" {
		respondFail(c, http.StatusBadRequest, "a content item must have a type")
		return
	}

	now := time.Now().Unix()
	item := &models.ContentItem{
		ID:        uuid.New().String(),
		Status:    "Draft",
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.apply(item)

	if err := s.store.CreateContentItem(c.Request.Context(), item); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "contentItem", item)
}

func (s *Server) handleGetContentItem(c *gin.Context) {
	item, err := s.store.GetContentItem(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no content item found with that ID")
		return
	}
	respondData(c, http.StatusOK, "contentItem", item)
}

func (s *Server) handleUpdateContentItem(c *gin.Context) {
	var req contentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserID(c)
	item, err := s.store.GetContentItem(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no content item found with that ID")
		return
	}
	req.apply(item)
	item.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateContentItem(c.Request.Context(), userID, item); err != nil {
		s.respondStoreError(c, err, "no content item found with that ID")
		return
	}
	respondData(c, http.StatusOK, "contentItem", item)
}

func (s *Server) handleDeleteContentItem(c *gin.Context) {
	if err := s.store.DeleteContentItem(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no content item found with that ID")
		return
	}
	respondDeleted(c)
}

type lyricsItemRequest struct {
	Title               *string   `json:"title"`
	LyricsText          *string   `json:"lyricsText"`
	Notes               *string   `json:"notes"`
	Status              *string   `json:"status"`
	Tags                *[]string `json:"tags"`
	AssociatedProjectID *string   `json:"associatedProjectId"`
}

func (r *lyricsItemRequest) apply(item *models.LyricsItem) {
	setIf(&item.Title, r.Title)
	setIf(&item.LyricsText, r.LyricsText)
	setIf(&item.Notes, r.Notes)
	setIf(&item.Status, r.Status)
	setIf(&item.Tags, r.Tags)
	setIf(&item.AssociatedProjectID, r.AssociatedProjectID)
}

func (s *Server) handleListLyricsItems(c *gin.Context) {
	items, err := s.store.ListLyricsItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "lyricsItems", len(items), items)
}

func (s *Server) handleCreateLyricsItem(c *gin.Context) {
	var req lyricsItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondFail(c, http.StatusBadRequest, "a lyrics item must have a title")
		return
	}

	now := time.Now().Unix()
	item := &models.LyricsItem{
		ID:        uuid.New().String(),
		Status:    "Idea",
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.apply(item)

	if err := s.store.CreateLyricsItem(c.Request.Context(), item); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "lyricsItem", item)
}

func (s *Server) handleGetLyricsItem(c *gin.Context) {
	item, err := s.store.GetLyricsItem(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no lyrics item found with that ID")
		return
	}
	respondData(c, http.StatusOK, "lyricsItem", item)
}

func (s *Server) handleUpdateLyricsItem(c *gin.Context) {
	var req lyricsItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserID(c)
	item, err := s.store.GetLyricsItem(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no lyrics item found with that ID")
		return
	}
	req.apply(item)
	item.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateLyricsItem(c.Request.Context(), userID, item); err != nil {
		s.respondStoreError(c, err, "no lyrics item found with that ID")
		return
	}
	respondData(c, http.StatusOK, "lyricsItem", item)
}

func (s *Server) handleDeleteLyricsItem(c *gin.Context) {
	if err := s.store.DeleteLyricsItem(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no lyrics item found with that ID")
		return
	}
	respondDeleted(c)
}
