package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
)

type projectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ProjectType *string `json:"projectType"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	DueDate     *string `json:"dueDate"`
}

func (r *projectRequest) apply(project *models.Project) error {
	setIf(&project.Name, r.Name)
	setIf(&project.Description, r.Description)
	setIf(&project.Status, r.Status)
	setIf(&project.ProjectType, r.ProjectType)
	if err := applyDate(&project.StartDate, r.StartDate); err != nil {
		return err
	}
	if err := applyDate(&project.EndDate, r.EndDate); err != nil {
		return err
	}
	return applyDate(&project.DueDate, r.DueDate)
}

func (r *projectRequest) validate() (string, bool) {
	if r.Status != nil && !oneOf(*r.Status,
		models.ProjectStatusNew, models.ProjectStatusIdea, models.ProjectStatusPlanning,
		models.ProjectStatusInProgress, models.ProjectStatusOnHold,
		models.ProjectStatusCompleted, models.ProjectStatusArchived) {
		return "invalid project status", false
	}
	return "", true
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "projects", len(projects), projects)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondFail(c, http.StatusBadRequest, "a project must have a name")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().Unix()
	project := &models.Project{
		ID:         uuid.New().String(),
		Status:     models.ProjectStatusNew,
		Milestones: []models.Milestone{},
		CreatedBy:  middleware.UserID(c),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := req.apply(project); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateProject(c.Request.Context(), project); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "project", project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.store.GetProject(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	respondData(c, http.StatusOK, "project", project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	project, err := s.store.GetProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	if err := req.apply(project); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	project.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateProject(c.Request.Context(), userID, project); err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	respondData(c, http.StatusOK, "project", project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.store.DeleteProject(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	respondDeleted(c)
}

// handleListProjectTasks returns the tasks linked to a project. The project
// is fetched first so a foreign project ID yields a 404 rather than an empty
// list.
func (s *Server) handleListProjectTasks(c *gin.Context) {
	userID := middleware.UserID(c)
	projectID := c.Param("id")
	if _, err := s.store.GetProject(c.Request.Context(), userID, projectID); err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}

	tasks, err := s.store.ListTasksByProject(c.Request.Context(), userID, projectID)
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "tasks", len(tasks), tasks)
}

type milestoneRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

func (r *milestoneRequest) validate() (string, bool) {
	if r.Status != nil && !oneOf(*r.Status,
		models.MilestoneStatusPending, models.MilestoneStatusInProgress,
		models.MilestoneStatusCompleted, models.MilestoneStatusDelayed) {
		return "invalid milestone status", false
	}
	return "", true
}

func (s *Server) handleAddMilestone(c *gin.Context) {
	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondFail(c, http.StatusBadRequest, "a milestone must have a title")
		return
	}
	if req.Date == nil || *req.Date == "" {
		respondFail(c, http.StatusBadRequest, "a milestone must have a date")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.UserID(c)
	project, err := s.store.GetProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}

	milestone := models.Milestone{
		ID:     uuid.New().String(),
		Title:  *req.Title,
		Date:   date,
		Status: models.MilestoneStatusPending,
	}
	if req.Status != nil {
		milestone.Status = *req.Status
	}
	if req.Description != nil {
		milestone.Description = *req.Description
	}
	project.Milestones = append(project.Milestones, milestone)
	project.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateProject(c.Request.Context(), userID, project); err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	respondData(c, http.StatusCreated, "project", project)
}

func (s *Server) handleUpdateMilestone(c *gin.Context) {
	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	project, err := s.store.GetProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}

	milestoneID := c.Param("milestoneId")
	found := false
	for i := range project.Milestones {
		if project.Milestones[i].ID != milestoneID {
			continue
		}
		setIf(&project.Milestones[i].Title, req.Title)
		setIf(&project.Milestones[i].Status, req.Status)
		setIf(&project.Milestones[i].Description, req.Description)
		if req.Date != nil && *req.Date != "" {
			date, err := parseDate(*req.Date)
			if err != nil {
				respondFail(c, http.StatusBadRequest, err.Error())
				return
			}
			project.Milestones[i].Date = date
		}
		found = true
		break
	}
	if !found {
		respondFail(c, http.StatusNotFound, "no milestone found with that ID")
		return
	}
	project.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateProject(c.Request.Context(), userID, project); err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	respondData(c, http.StatusOK, "project", project)
}

func (s *Server) handleDeleteMilestone(c *gin.Context) {
	userID := middleware.UserID(c)
	project, err := s.store.GetProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}

	milestoneID := c.Param("milestoneId")
	kept := project.Milestones[:0]
	found := false
	for _, m := range project.Milestones {
		if m.ID == milestoneID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		respondFail(c, http.StatusNotFound, "no milestone found with that ID")
		return
	}
	project.Milestones = kept
	project.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateProject(c.Request.Context(), userID, project); err != nil {
		s.respondStoreError(c, err, "no project found with that ID")
		return
	}
	respondData(c, http.StatusOK, "project", project)
}
