// Package service implements the read-side business logic that goes beyond
// single-entity CRUD: the multi-source calendar feed and the financial
// summary and budget roll-up calculations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"artistplan/internal/models"
)

// Calendar event colors, keyed by source and status.
const (
	colorCompleted        = "#77dd77"
	colorHighPriority     = "#ff6961"
	colorTaskDefault      = "#aec6cf"
	colorProjectDefault   = "#fdfd96"
	colorCampaignActive   = "#84b6f4"
	colorCampaignInactive = "#cccccc"
)

// Calendar event types and source module labels.
const (
	eventTypeTask      = "task"
	eventTypeDue       = "project_due"
	eventTypeMilestone = "project_milestone"
	eventTypeCampaign  = "campaign"
	eventTypeCustom    = "custom_event"
)

// CalendarEvent is the normalized shape every calendar source is mapped to.
// Dates are YYYY-MM-DD strings; times are HH:MM strings.
type CalendarEvent struct {
	ID           string `json:"id"`
	OriginalID   string `json:"originalId"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	EndDate      string `json:"endDate,omitempty"`
	StartTime    string `json:"startTime,omitempty"`
	EndTime      string `json:"endTime,omitempty"`
	Type         string `json:"type"`
	Color        string `json:"color"`
	Description  string `json:"description,omitempty"`
	SourceModule string `json:"sourceModule"`
}

// CalendarStore is the subset of storage the calendar feed reads from.
type CalendarStore interface {
	ListTasksDueBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error)
	ListProjectsDueBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Project, error)
	ListProjectsWithMilestonesBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Project, error)
	ListCampaignsOverlapping(ctx context.Context, userID string, start, end time.Time) ([]models.Campaign, error)
	ListEvents(ctx context.Context, userID string, start, end *time.Time) ([]models.CustomCalendarEvent, error)
}

// CalendarService merges tasks, project deadlines, project milestones,
// campaigns, and custom events into one time-ordered feed.
type CalendarService struct {
	store  CalendarStore
	logger *slog.Logger
}

// NewCalendarService creates a new calendar aggregation service.
func NewCalendarService(store CalendarStore, logger *slog.Logger) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{store: store, logger: logger}
}

// AllEvents returns every calendar event for the user inside the inclusive
// window [start, end], sorted by date ascending with start-time tiebreak.
// The four sources are fetched concurrently; any query failure fails the
// whole feed (no partial results).
func (s *CalendarService) AllEvents(ctx context.Context, userID string, start, end time.Time) ([]CalendarEvent, error) {
	var (
		tasks          []models.Task
		dueProjects    []models.Project
		withMilestones []models.Project
		campaigns      []models.Campaign
		customEvents   []models.CustomCalendarEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = s.store.ListTasksDueBetween(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		dueProjects, err = s.store.ListProjectsDueBetween(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		withMilestones, err = s.store.ListProjectsWithMilestonesBetween(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		campaigns, err = s.store.ListCampaignsOverlapping(gctx, userID, start, end)
		return err
	})
	g.Go(func() (err error) {
		customEvents, err = s.store.ListEvents(gctx, userID, &start, &end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error fetching all calendar events: %w", err)
	}

	events := make([]CalendarEvent, 0,
		len(tasks)+len(dueProjects)+len(withMilestones)+len(campaigns)+len(customEvents))

	for i := range tasks {
		events = append(events, normalizeTask(&tasks[i]))
	}
	for i := range dueProjects {
		events = append(events, normalizeProjectDue(&dueProjects[i]))
	}
	for i := range withMilestones {
		project := &withMilestones[i]
		for j := range project.Milestones {
			m := &project.Milestones[j]
			// The candidate query matches projects with any milestone in
			// range; each milestone must be re-checked against the window.
			if m.Date.Before(start) || m.Date.After(end) {
				continue
			}
			events = append(events, normalizeMilestone(project, m))
		}
	}
	for i := range campaigns {
		events = append(events, normalizeCampaign(&campaigns[i]))
	}
	for i := range customEvents {
		events = append(events, normalizeCustomEvent(&customEvents[i]))
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].StartTime != "" && events[j].StartTime != "" {
			return events[i].StartTime < events[j].StartTime
		}
		return false
	})

	s.logger.Debug("Calendar feed assembled", "user_id", userID, "events", len(events))
	return events, nil
}

func normalizeTask(task *models.Task) CalendarEvent {
	title := "Task: " + task.Title
	if task.ProjectName != "" {
		title += " (" + task.ProjectName + ")"
	}
	color := colorTaskDefault
	if task.Status == models.TaskStatusCompleted {
		color = colorCompleted
	} else if task.Priority == models.PriorityHigh {
		color = colorHighPriority
	}
	return CalendarEvent{
		ID:           "task-" + task.ID,
		OriginalID:   task.ID,
		Title:        title,
		Date:         dayString(*task.DueDate),
		Type:         eventTypeTask,
		Color:        color,
		Description:  fmt.Sprintf("Priority: %s, Status: %s", task.Priority, task.Status),
		SourceModule: "Tasks",
	}
}

func normalizeProjectDue(project *models.Project) CalendarEvent {
	color := colorProjectDefault
	if project.Status == models.ProjectStatusCompleted {
		color = colorCompleted
	}
	return CalendarEvent{
		ID:           "project_due-" + project.ID,
		OriginalID:   project.ID,
		Title:        "Project Due: " + project.Name,
		Date:         dayString(*project.DueDate),
		Type:         eventTypeDue,
		Color:        color,
		Description:  "Status: " + project.Status,
		SourceModule: "Projects",
	}
}

func normalizeMilestone(project *models.Project, m *models.Milestone) CalendarEvent {
	color := colorProjectDefault
	if m.Status == models.MilestoneStatusCompleted {
		color = colorCompleted
	}
	return CalendarEvent{
		ID:           "project_milestone-" + project.ID + "-" + m.ID,
		OriginalID:   m.ID,
		Title:        "Milestone: " + m.Title + " (" + project.Name + ")",
		Date:         dayString(m.Date),
		Type:         eventTypeMilestone,
		Color:        color,
		Description:  "Status: " + m.Status,
		SourceModule: "Projects",
	}
}

func normalizeCampaign(campaign *models.Campaign) CalendarEvent {
	color := colorCampaignInactive
	switch campaign.Status {
	case models.CampaignStatusCompleted:
		color = colorCompleted
	case models.CampaignStatusActive:
		color = colorCampaignActive
	}
	event := CalendarEvent{
		ID:           "campaign-" + campaign.ID,
		OriginalID:   campaign.ID,
		Title:        "Campaign: " + campaign.Name + " (" + campaign.CampaignType + ")",
		Date:         dayString(*campaign.StartDate),
		Type:         eventTypeCampaign,
		Color:        color,
		Description:  "Status: " + campaign.Status,
		SourceModule: "Campaigns",
	}
	if campaign.EndDate != nil {
		event.EndDate = dayString(*campaign.EndDate)
	}
	return event
}

func normalizeCustomEvent(e *models.CustomCalendarEvent) CalendarEvent {
	event := CalendarEvent{
		ID:           "custom-" + e.ID,
		OriginalID:   e.ID,
		Title:        e.Title,
		Date:         dayString(e.Date),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Type:         eventTypeCustom,
		Color:        e.Color,
		Description:  e.Description,
		SourceModule: "Custom",
	}
	if e.EndDate != nil {
		event.EndDate = dayString(*e.EndDate)
	}
	return event
}

// dayString formats a time as a YYYY-MM-DD calendar date.
func dayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
