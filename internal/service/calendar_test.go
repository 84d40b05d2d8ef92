package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"artistplan/internal/models"
)

// fakeCalendarStore returns canned slices, re-filtering nothing: the service
// is responsible for milestone window checks.
type fakeCalendarStore struct {
	tasks          []models.Task
	dueProjects    []models.Project
	withMilestones []models.Project
	campaigns      []models.Campaign
	customEvents   []models.CustomCalendarEvent
	err            error
}

func (f *fakeCalendarStore) ListTasksDueBetween(_ context.Context, _ string, _, _ time.Time) ([]models.Task, error) {
	return f.tasks, f.err
}

func (f *fakeCalendarStore) ListProjectsDueBetween(_ context.Context, _ string, _, _ time.Time) ([]models.Project, error) {
	return f.dueProjects, nil
}

func (f *fakeCalendarStore) ListProjectsWithMilestonesBetween(_ context.Context, _ string, _, _ time.Time) ([]models.Project, error) {
	return f.withMilestones, nil
}

func (f *fakeCalendarStore) ListCampaignsOverlapping(_ context.Context, _ string, _, _ time.Time) ([]models.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeCalendarStore) ListEvents(_ context.Context, _ string, _, _ *time.Time) ([]models.CustomCalendarEvent, error) {
	return f.customEvents, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	t := day(year, month, d)
	return &t
}

func TestCalendarAllEvents(t *testing.T) {
	ctx := context.Background()
	windowStart := day(2024, 6, 1)
	windowEnd := day(2024, 6, 30)

	t.Run("task and project deadline merge in date order", func(t *testing.T) {
		store := &fakeCalendarStore{
			tasks: []models.Task{{
				ID: "t1", Title: "Finish mix", Status: models.TaskStatusTodo,
				Priority: models.PriorityMedium, DueDate: dayPtr(2024, 6, 15),
			}},
			dueProjects: []models.Project{{
				ID: "p1", Name: "Debut Album", Status: models.ProjectStatusInProgress,
				DueDate: dayPtr(2024, 6, 20),
			}},
		}
		svc := NewCalendarService(store, nil)

		events, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("AllEvents failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(events))
		}
		if events[0].Type != "task" || events[0].Date != "2024-06-15" {
			t.Errorf("Expected the task first, got %+v", events[0])
		}
		if events[1].Type != "project_due" || events[1].Date != "2024-06-20" {
			t.Errorf("Expected the project deadline second, got %+v", events[1])
		}
		if events[0].Title != "Task: Finish mix" {
			t.Errorf("Unexpected task title %q", events[0].Title)
		}
		if events[1].Title != "Project Due: Debut Album" {
			t.Errorf("Unexpected project title %q", events[1].Title)
		}
	})

	t.Run("task titles carry the project name and priority colors", func(t *testing.T) {
		store := &fakeCalendarStore{
			tasks: []models.Task{
				{ID: "t1", Title: "Urgent", Priority: models.PriorityHigh,
					ProjectName: "Debut Album", DueDate: dayPtr(2024, 6, 2)},
				{ID: "t2", Title: "Done", Status: models.TaskStatusCompleted,
					Priority: models.PriorityHigh, DueDate: dayPtr(2024, 6, 3)},
				{ID: "t3", Title: "Plain", Priority: models.PriorityLow, DueDate: dayPtr(2024, 6, 4)},
			},
		}
		svc := NewCalendarService(store, nil)

		events, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("AllEvents failed: %v", err)
		}
		if events[0].Title != "Task: Urgent (Debut Album)" {
			t.Errorf("Expected project name in title, got %q", events[0].Title)
		}
		if events[0].Color != colorHighPriority {
			t.Errorf("Expected high-priority color, got %s", events[0].Color)
		}
		// Completed wins over high priority.
		if events[1].Color != colorCompleted {
			t.Errorf("Expected completed color, got %s", events[1].Color)
		}
		if events[2].Color != colorTaskDefault {
			t.Errorf("Expected default task color, got %s", events[2].Color)
		}
	})

	t.Run("milestones outside the window are dropped", func(t *testing.T) {
		store := &fakeCalendarStore{
			withMilestones: []models.Project{{
				ID: "p1", Name: "Album",
				Milestones: []models.Milestone{
					{ID: "m1", Title: "Inside", Date: day(2024, 6, 10), Status: models.MilestoneStatusPending},
					{ID: "m2", Title: "Outside", Date: day(2024, 12, 25), Status: models.MilestoneStatusPending},
				},
			}},
		}
		svc := NewCalendarService(store, nil)

		events, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("AllEvents failed: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("Expected 1 milestone event, got %d", len(events))
		}
		if events[0].Title != "Milestone: Inside (Album)" {
			t.Errorf("Unexpected milestone title %q", events[0].Title)
		}
		if events[0].ID != "project_milestone-p1-m1" {
			t.Errorf("Unexpected milestone event ID %q", events[0].ID)
		}
	})

	t.Run("campaign colors follow status", func(t *testing.T) {
		store := &fakeCalendarStore{
			campaigns: []models.Campaign{
				{ID: "c1", Name: "Launch", CampaignType: "Single Launch",
					Status: models.CampaignStatusActive,
					StartDate: dayPtr(2024, 6, 5), EndDate: dayPtr(2024, 6, 25)},
				{ID: "c2", Name: "Old", CampaignType: "Tour Promotion",
					Status: models.CampaignStatusOnHold, StartDate: dayPtr(2024, 6, 6)},
			},
		}
		svc := NewCalendarService(store, nil)

		events, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("AllEvents failed: %v", err)
		}
		if events[0].Title != "Campaign: Launch (Single Launch)" {
			t.Errorf("Unexpected campaign title %q", events[0].Title)
		}
		if events[0].Color != colorCampaignActive {
			t.Errorf("Expected active campaign color, got %s", events[0].Color)
		}
		if events[0].EndDate != "2024-06-25" {
			t.Errorf("Expected campaign end date, got %q", events[0].EndDate)
		}
		if events[1].Color != colorCampaignInactive {
			t.Errorf("Expected inactive campaign color, got %s", events[1].Color)
		}
		if events[1].EndDate != "" {
			t.Errorf("Expected no end date, got %q", events[1].EndDate)
		}
	})

	t.Run("same-day events break ties on start time", func(t *testing.T) {
		store := &fakeCalendarStore{
			customEvents: []models.CustomCalendarEvent{
				{ID: "e1", Title: "Evening session", Date: day(2024, 6, 10), StartTime: "19:00"},
				{ID: "e2", Title: "Morning interview", Date: day(2024, 6, 10), StartTime: "09:30"},
			},
		}
		svc := NewCalendarService(store, nil)

		events, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("AllEvents failed: %v", err)
		}
		if events[0].Title != "Morning interview" || events[1].Title != "Evening session" {
			t.Errorf("Expected start-time tiebreak, got %q then %q", events[0].Title, events[1].Title)
		}
	})

	t.Run("custom events keep their own title and color", func(t *testing.T) {
		store := &fakeCalendarStore{
			customEvents: []models.CustomCalendarEvent{
				{ID: "e1", Title: "Radio interview", Date: day(2024, 6, 12), Color: "#ff00ff"},
			},
		}
		svc := NewCalendarService(store, nil)

		events, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("AllEvents failed: %v", err)
		}
		if events[0].Title != "Radio interview" {
			t.Errorf("Expected untouched title, got %q", events[0].Title)
		}
		if events[0].Color != "#ff00ff" {
			t.Errorf("Expected the stored color, got %s", events[0].Color)
		}
		if events[0].SourceModule != "Custom" || events[0].Type != "custom_event" {
			t.Errorf("Unexpected source labeling: %+v", events[0])
		}
	})

	t.Run("any source failure fails the whole feed", func(t *testing.T) {
		store := &fakeCalendarStore{err: errors.New("db gone")}
		svc := NewCalendarService(store, nil)

		if _, err := svc.AllEvents(ctx, "u1", windowStart, windowEnd); err == nil {
			t.Error("Expected an error when a source query fails")
		}
	})
}
