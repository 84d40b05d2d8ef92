package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"artistplan/internal/models"
	"artistplan/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "artistplan-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *Store, email string) *models.User {
	t.Helper()
	user := models.NewUser("Test Artist", email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and GetUserByEmail round-trip", func(t *testing.T) {
		user := newTestUser(t, store, "artist@example.com")

		got, err := store.GetUserByEmail(ctx, "artist@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("Expected ID %s, got %s", user.ID, got.ID)
		}
		if got.PasswordHash != "hash" {
			t.Error("Expected password hash to round-trip")
		}
	})

	t.Run("GetUserByID returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("Other", "artist@example.com", "hash2")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error creating duplicate email")
		}
	})
}

func TestTaskStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "tasks@example.com")
	other := newTestUser(t, store, "other@example.com")

	t.Run("CreateTask persists subtasks in order", func(t *testing.T) {
		task := &models.Task{
			Title:    "Record vocals",
			Priority: models.PriorityHigh,
			DueDate:  datePtr(2024, 6, 15),
			Tags:     []string{"studio", "recording"},
			Subtasks: []models.Subtask{
				{Title: "Warm up"},
				{Title: "Track chorus", Completed: true},
			},
			CreatedBy: user.ID,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if task.ID == "" {
			t.Fatal("Expected task ID to be generated")
		}

		got, err := store.GetTask(ctx, user.ID, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Status != models.TaskStatusTodo {
			t.Errorf("Expected default status Todo, got %s", got.Status)
		}
		if len(got.Subtasks) != 2 {
			t.Fatalf("Expected 2 subtasks, got %d", len(got.Subtasks))
		}
		if got.Subtasks[0].Title != "Warm up" || got.Subtasks[1].Title != "Track chorus" {
			t.Errorf("Subtasks out of order: %+v", got.Subtasks)
		}
		if !got.Subtasks[1].Completed {
			t.Error("Expected second subtask to be completed")
		}
		if len(got.Tags) != 2 {
			t.Errorf("Expected 2 tags, got %v", got.Tags)
		}
		if got.DueDate == nil || !got.DueDate.Equal(*task.DueDate) {
			t.Errorf("Due date did not round-trip: %v", got.DueDate)
		}
	})

	t.Run("UpdateTask replaces the subtask list", func(t *testing.T) {
		task := &models.Task{Title: "Mix single", CreatedBy: user.ID,
			Subtasks: []models.Subtask{{Title: "Rough mix"}}}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		task.Subtasks = []models.Subtask{{Title: "Final mix"}, {Title: "Master"}}
		task.Status = models.TaskStatusOngoing
		if err := store.UpdateTask(ctx, user.ID, task); err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}

		got, err := store.GetTask(ctx, user.ID, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Status != models.TaskStatusOngoing {
			t.Errorf("Expected status Ongoing, got %s", got.Status)
		}
		if len(got.Subtasks) != 2 || got.Subtasks[0].Title != "Final mix" {
			t.Errorf("Expected rewritten subtasks, got %+v", got.Subtasks)
		}
	})

	t.Run("reads join the linked project name", func(t *testing.T) {
		project := &models.Project{Name: "Debut Album", CreatedBy: user.ID}
		if err := store.CreateProject(ctx, project); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
		task := &models.Task{Title: "Write liner notes", ProjectID: project.ID, CreatedBy: user.ID}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		got, err := store.GetTask(ctx, user.ID, task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.ProjectName != "Debut Album" {
			t.Errorf("Expected joined project name, got %q", got.ProjectName)
		}

		linked, err := store.ListTasksByProject(ctx, user.ID, project.ID)
		if err != nil {
			t.Fatalf("ListTasksByProject failed: %v", err)
		}
		if len(linked) != 1 || linked[0].ID != task.ID {
			t.Errorf("Expected the linked task, got %d tasks", len(linked))
		}
	})

	t.Run("tasks are invisible to other users", func(t *testing.T) {
		task := &models.Task{Title: "Private", CreatedBy: user.ID}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		if _, err := store.GetTask(ctx, other.ID, task.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign get, got %v", err)
		}
		if err := store.UpdateTask(ctx, other.ID, task); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign update, got %v", err)
		}
		if err := store.DeleteTask(ctx, other.ID, task.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign delete, got %v", err)
		}

		// Still present for the owner.
		if _, err := store.GetTask(ctx, user.ID, task.ID); err != nil {
			t.Errorf("Owner lost access to task: %v", err)
		}
	})

	t.Run("ListTasksDueBetween is inclusive of both bounds", func(t *testing.T) {
		owner := newTestUser(t, store, "due@example.com")
		for day := 14; day <= 17; day++ {
			task := &models.Task{Title: "Due task", DueDate: datePtr(2024, 6, day), CreatedBy: owner.ID}
			if err := store.CreateTask(ctx, task); err != nil {
				t.Fatalf("CreateTask failed: %v", err)
			}
		}
		undated := &models.Task{Title: "No due date", CreatedBy: owner.ID}
		if err := store.CreateTask(ctx, undated); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}

		got, err := store.ListTasksDueBetween(ctx, owner.ID,
			time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("ListTasksDueBetween failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 tasks in window, got %d", len(got))
		}
	})
}

func TestProjectStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "projects@example.com")

	t.Run("CreateProject persists milestones in order", func(t *testing.T) {
		project := &models.Project{
			Name:        "EP Release",
			ProjectType: "EP Release",
			DueDate:     datePtr(2024, 9, 1),
			Milestones: []models.Milestone{
				{Title: "Tracking done", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
				{Title: "Artwork final", Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
			},
			CreatedBy: user.ID,
		}
		if err := store.CreateProject(ctx, project); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}

		got, err := store.GetProject(ctx, user.ID, project.ID)
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		if got.Status != models.ProjectStatusNew {
			t.Errorf("Expected default status New, got %s", got.Status)
		}
		if len(got.Milestones) != 2 || got.Milestones[0].Title != "Tracking done" {
			t.Errorf("Milestones did not round-trip: %+v", got.Milestones)
		}
		if got.Milestones[0].Status != models.MilestoneStatusPending {
			t.Errorf("Expected default milestone status Pending, got %s", got.Milestones[0].Status)
		}
	})

	t.Run("ListProjectsWithMilestonesBetween returns candidates with out-of-window milestones attached", func(t *testing.T) {
		owner := newTestUser(t, store, "milestones@example.com")
		project := &models.Project{
			Name: "Album",
			Milestones: []models.Milestone{
				{Title: "Inside", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
				{Title: "Outside", Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
			},
			CreatedBy: owner.ID,
		}
		if err := store.CreateProject(ctx, project); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
		unrelated := &models.Project{Name: "No milestones", CreatedBy: owner.ID}
		if err := store.CreateProject(ctx, unrelated); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}

		got, err := store.ListProjectsWithMilestonesBetween(ctx, owner.ID,
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("ListProjectsWithMilestonesBetween failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Expected 1 candidate project, got %d", len(got))
		}
		// The candidate carries all its milestones; filtering to the window
		// happens downstream.
		if len(got[0].Milestones) != 2 {
			t.Errorf("Expected both milestones on the candidate, got %d", len(got[0].Milestones))
		}
	})

	t.Run("DeleteProject removes its milestones", func(t *testing.T) {
		project := &models.Project{
			Name:       "Short-lived",
			Milestones: []models.Milestone{{Title: "Only", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}},
			CreatedBy:  user.ID,
		}
		if err := store.CreateProject(ctx, project); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
		if err := store.DeleteProject(ctx, user.ID, project.ID); err != nil {
			t.Fatalf("DeleteProject failed: %v", err)
		}
		if _, err := store.GetProject(ctx, user.ID, project.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestCampaignStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "campaigns@example.com")

	create := func(name string, start, end *time.Time) *models.Campaign {
		t.Helper()
		campaign := &models.Campaign{
			Name: name, CampaignType: "Single Launch",
			StartDate: start, EndDate: end, CreatedBy: user.ID,
		}
		if err := store.CreateCampaign(ctx, campaign); err != nil {
			t.Fatalf("CreateCampaign failed: %v", err)
		}
		return campaign
	}

	spanning := create("Spans window", datePtr(2024, 5, 1), datePtr(2024, 8, 1))
	create("Before window", datePtr(2024, 1, 1), datePtr(2024, 2, 1))
	create("After window", datePtr(2024, 10, 1), datePtr(2024, 11, 1))
	pointInside := create("No end date inside", datePtr(2024, 6, 10), nil)
	create("No end date outside", datePtr(2024, 1, 10), nil)
	create("No dates at all", nil, nil)

	t.Run("ListCampaignsOverlapping matches interval intersection", func(t *testing.T) {
		got, err := store.ListCampaignsOverlapping(ctx, user.ID,
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("ListCampaignsOverlapping failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 overlapping campaigns, got %d", len(got))
		}
		found := map[string]bool{}
		for _, c := range got {
			found[c.ID] = true
		}
		if !found[spanning.ID] || !found[pointInside.ID] {
			t.Errorf("Wrong campaigns matched: %+v", found)
		}
	})

	t.Run("window entirely inside a long campaign still matches", func(t *testing.T) {
		got, err := store.ListCampaignsOverlapping(ctx, user.ID,
			time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("ListCampaignsOverlapping failed: %v", err)
		}
		found := false
		for _, c := range got {
			if c.ID == spanning.ID {
				found = true
			}
		}
		if !found {
			t.Error("Expected the spanning campaign to match a window inside it")
		}
	})
}

func TestFinancialStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "money@example.com")

	budget := &models.Budget{Name: "Marketing", Amount: 500, Period: "Monthly", CreatedBy: user.ID}
	if err := store.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}

	addRecord := func(desc, typ, category string, amount float64, day int, budgetID string) {
		t.Helper()
		record := &models.FinancialRecord{
			Description: desc, Amount: amount, Type: typ, Category: category,
			Date:     time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
			BudgetID: budgetID, CreatedBy: user.ID,
		}
		if err := store.CreateRecord(ctx, record); err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	addRecord("Spotify royalties", models.RecordTypeIncome, "Streaming Royalties", 120, 5, "")
	addRecord("Instagram ads", models.RecordTypeExpense, "Marketing", 100, 10, budget.ID)
	addRecord("Poster print", models.RecordTypeExpense, "Marketing", 50, 20, budget.ID)
	addRecord("Van rental", models.RecordTypeExpense, "Travel", 200, 25, "")

	t.Run("ListRecords filters by type and budget", func(t *testing.T) {
		got, err := store.ListRecords(ctx, user.ID, storage.RecordFilter{
			Type:     models.RecordTypeExpense,
			BudgetID: budget.ID,
		})
		if err != nil {
			t.Fatalf("ListRecords failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 budget expenses, got %d", len(got))
		}
		// Newest date first.
		if got[0].Description != "Poster print" {
			t.Errorf("Expected date-descending order, got %s first", got[0].Description)
		}
	})

	t.Run("ListRecords date range is inclusive", func(t *testing.T) {
		from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
		got, err := store.ListRecords(ctx, user.ID, storage.RecordFilter{From: &from, To: &to})
		if err != nil {
			t.Fatalf("ListRecords failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 records in [10th, 20th], got %d", len(got))
		}
	})

	t.Run("goal persists and enforces nothing at this layer", func(t *testing.T) {
		deadline := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		goal := &models.FinancialGoal{
			Name: "New gear", TargetAmount: 2000, CurrentAmount: 250,
			Deadline: &deadline, Priority: models.PriorityHigh, CreatedBy: user.ID,
		}
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
		got, err := store.GetGoal(ctx, user.ID, goal.ID)
		if err != nil {
			t.Fatalf("GetGoal failed: %v", err)
		}
		if got.TargetAmount != 2000 || got.CurrentAmount != 250 {
			t.Errorf("Goal amounts did not round-trip: %+v", got)
		}
		if got.Deadline == nil || !got.Deadline.Equal(deadline) {
			t.Errorf("Deadline did not round-trip: %v", got.Deadline)
		}
	})
}

func TestTourStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "tours@example.com")

	tour := &models.Tour{Name: "Summer Run", Region: "Europe", CreatedBy: user.ID}
	if err := store.CreateTour(ctx, tour); err != nil {
		t.Fatalf("CreateTour failed: %v", err)
	}

	attached := &models.Show{
		TourID: tour.ID, Date: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
		VenueName: "Paradiso", City: "Amsterdam", Country: "Netherlands",
		CreatedBy: user.ID,
	}
	if err := store.CreateShow(ctx, attached); err != nil {
		t.Fatalf("CreateShow failed: %v", err)
	}
	standalone := &models.Show{
		Date:      time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		VenueName: "Local Bar", City: "Utrecht", Country: "Netherlands",
		CreatedBy: user.ID,
	}
	if err := store.CreateShow(ctx, standalone); err != nil {
		t.Fatalf("CreateShow failed: %v", err)
	}

	t.Run("show reads join the tour name", func(t *testing.T) {
		got, err := store.GetShow(ctx, user.ID, attached.ID)
		if err != nil {
			t.Fatalf("GetShow failed: %v", err)
		}
		if got.TourName != "Summer Run" {
			t.Errorf("Expected joined tour name, got %q", got.TourName)
		}
		if got.Status != "Scheduled" {
			t.Errorf("Expected default status Scheduled, got %s", got.Status)
		}
	})

	t.Run("ListShows filters by tour", func(t *testing.T) {
		got, err := store.ListShows(ctx, user.ID, tour.ID)
		if err != nil {
			t.Fatalf("ListShows failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != attached.ID {
			t.Errorf("Expected only the attached show, got %d shows", len(got))
		}

		all, err := store.ListShows(ctx, user.ID, "")
		if err != nil {
			t.Fatalf("ListShows failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("Expected 2 shows unfiltered, got %d", len(all))
		}
	})

	t.Run("DeleteTour cascades to its shows only", func(t *testing.T) {
		if err := store.DeleteTour(ctx, user.ID, tour.ID); err != nil {
			t.Fatalf("DeleteTour failed: %v", err)
		}
		if _, err := store.GetShow(ctx, user.ID, attached.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected attached show to be cascaded, got %v", err)
		}
		if _, err := store.GetShow(ctx, user.ID, standalone.ID); err != nil {
			t.Errorf("Standalone show should survive the cascade: %v", err)
		}
	})
}

func TestEventStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "events@example.com")

	create := func(title string, day int) *models.CustomCalendarEvent {
		t.Helper()
		event := &models.CustomCalendarEvent{
			Title: title, Date: time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
			CreatedBy: user.ID,
		}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		return event
	}

	create("Early", 5)
	inWindow := create("Middle", 15)
	create("Late", 25)

	t.Run("events default to the standard color", func(t *testing.T) {
		got, err := store.GetEvent(ctx, user.ID, inWindow.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Color != "#3788d8" {
			t.Errorf("Expected default color #3788d8, got %s", got.Color)
		}
	})

	t.Run("ListEvents respects optional bounds", func(t *testing.T) {
		start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

		got, err := store.ListEvents(ctx, user.ID, &start, &end)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != inWindow.ID {
			t.Errorf("Expected only the middle event, got %d events", len(got))
		}

		all, err := store.ListEvents(ctx, user.ID, nil, nil)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("Expected 3 events without bounds, got %d", len(all))
		}
	})
}
