package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artistplan/internal/middleware"
	"artistplan/internal/models"
)

type taskRequest struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	Status         *string           `json:"status"`
	Priority       *string           `json:"priority"`
	ProjectID      *string           `json:"projectId"`
	Tags           *[]string         `json:"tags"`
	Subtasks       *[]models.Subtask `json:"subtasks"`
	StartDate      *string           `json:"startDate"`
	DueDate        *string           `json:"dueDate"`
	EstimatedHours *float64          `json:"estimatedHours"`
}

// apply merges the non-nil request fields onto the task.
func (r *taskRequest) apply(task *models.Task) error {
	setIf(&task.Title, r.Title)
	setIf(&task.Description, r.Description)
	setIf(&task.Status, r.Status)
	setIf(&task.Priority, r.Priority)
	setIf(&task.ProjectID, r.ProjectID)
	setIf(&task.Tags, r.Tags)
	setIf(&task.EstimatedHours, r.EstimatedHours)
	if r.Subtasks != nil {
		task.Subtasks = normalizeSubtasks(*r.Subtasks)
	}
	if err := applyDate(&task.StartDate, r.StartDate); err != nil {
		return err
	}
	return applyDate(&task.DueDate, r.DueDate)
}

func (r *taskRequest) validate() (string, bool) {
	if r.Status != nil && !oneOf(*r.Status, models.TaskStatusTodo, models.TaskStatusOngoing, models.TaskStatusCompleted) {
		return "invalid task status", false
	}
	if r.Priority != nil && !oneOf(*r.Priority, models.PriorityHigh, models.PriorityMedium, models.PriorityLow, models.PriorityNone) {
		return "invalid task priority", false
	}
	return "", true
}

// normalizeSubtasks assigns IDs to subtasks created without one.
func normalizeSubtasks(subtasks []models.Subtask) []models.Subtask {
	out := make([]models.Subtask, len(subtasks))
	for i, st := range subtasks {
		if st.ID == "" {
			st.ID = uuid.New().String()
		}
		out[i] = st
	}
	return out
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondServerError(c, err)
		return
	}
	respondList(c, "tasks", len(tasks), tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondFail(c, http.StatusBadRequest, "a task must have a title")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().Unix()
	task := &models.Task{
		ID:        uuid.New().String(),
		Status:    models.TaskStatusTodo,
		Priority:  models.PriorityNone,
		Subtasks:  []models.Subtask{},
		CreatedBy: middleware.UserID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(task); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateTask(c.Request.Context(), task); err != nil {
		s.respondServerError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "task", task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.GetTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	respondData(c, http.StatusOK, "task", task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondFail(c, http.StatusBadRequest, msg)
		return
	}

	userID := middleware.UserID(c)
	task, err := s.store.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	if err := req.apply(task); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	task.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateTask(c.Request.Context(), userID, task); err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	respondData(c, http.StatusOK, "task", task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	respondDeleted(c)
}

type subtaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// handleAddSubtask appends a subtask to the parent task's checklist.
func (s *Server) handleAddSubtask(c *gin.Context) {
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondFail(c, http.StatusBadRequest, "a subtask must have a title")
		return
	}

	userID := middleware.UserID(c)
	task, err := s.store.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}

	subtask := models.Subtask{ID: uuid.New().String(), Title: *req.Title}
	if req.Completed != nil {
		subtask.Completed = *req.Completed
	}
	task.Subtasks = append(task.Subtasks, subtask)
	task.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateTask(c.Request.Context(), userID, task); err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	respondData(c, http.StatusCreated, "task", task)
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserID(c)
	task, err := s.store.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}

	subtaskID := c.Param("subtaskId")
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID != subtaskID {
			continue
		}
		setIf(&task.Subtasks[i].Title, req.Title)
		setIf(&task.Subtasks[i].Completed, req.Completed)
		found = true
		break
	}
	if !found {
		respondFail(c, http.StatusNotFound, "no subtask found with that ID")
		return
	}
	task.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateTask(c.Request.Context(), userID, task); err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	respondData(c, http.StatusOK, "task", task)
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	userID := middleware.UserID(c)
	task, err := s.store.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}

	subtaskID := c.Param("subtaskId")
	kept := task.Subtasks[:0]
	found := false
	for _, st := range task.Subtasks {
		if st.ID == subtaskID {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		respondFail(c, http.StatusNotFound, "no subtask found with that ID")
		return
	}
	task.Subtasks = kept
	task.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateTask(c.Request.Context(), userID, task); err != nil {
		s.respondStoreError(c, err, "no task found with that ID")
		return
	}
	respondData(c, http.StatusOK, "task", task)
}
