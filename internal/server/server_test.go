package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"artistplan/internal/auth"
	"artistplan/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "artistplan-api-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authn := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return New(store, authn, jwtManager, nil)
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func signup(t *testing.T, srv *Server, email string) string {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":            "Test Artist",
		"email":           email,
		"password":        "correcthorse",
		"passwordConfirm": "correcthorse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Signup failed with %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("Expected a token in the signup response")
	}
	return token
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	t.Run("signup rejects mismatched password confirmation", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name": "X", "email": "x@example.com",
			"password": "correcthorse", "passwordConfirm": "different",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
		if decode(t, rec)["status"] != "fail" {
			t.Errorf("Expected fail envelope, got %s", rec.Body.String())
		}
		// The account must not exist.
		login := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "x@example.com", "password": "correcthorse",
		})
		if login.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for never-created account, got %d", login.Code)
		}
	})

	t.Run("signup then login returns a working session", func(t *testing.T) {
		signup(t, srv, "artist@example.com")

		rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "artist@example.com", "password": "correcthorse",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Login failed with %d: %s", rec.Code, rec.Body.String())
		}
		token, _ := decode(t, rec)["token"].(string)

		me := doRequest(t, srv, http.MethodGet, "/api/auth/me", token, nil)
		if me.Code != http.StatusOK {
			t.Fatalf("GET /auth/me failed with %d", me.Code)
		}
		data := decode(t, me)["data"].(map[string]any)
		user := data["user"].(map[string]any)
		if user["email"] != "artist@example.com" {
			t.Errorf("Expected own profile, got %v", user)
		}
		if _, leaked := user["passwordHash"]; leaked {
			t.Error("Password hash must never be serialized")
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "artist@example.com", "password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("protected routes require a token", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/tasks", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without token, got %d", rec.Code)
		}
		rec = doRequest(t, srv, http.MethodGet, "/api/tasks", "not-a-token", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 with bad token, got %d", rec.Code)
		}
	})
}

func TestTaskEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "tasks@example.com")

	t.Run("create applies defaults and returns 201", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title":   "Record vocals",
			"dueDate": "2024-06-15",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		task := decode(t, rec)["data"].(map[string]any)["task"].(map[string]any)
		if task["status"] != "Todo" || task["priority"] != "None" {
			t.Errorf("Expected default status/priority, got %v / %v", task["status"], task["priority"])
		}
	})

	t.Run("create without a title fails", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"description": "no title",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid enum value fails", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Bad status", "status": "Sleeping",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for unknown status, got %d", rec.Code)
		}
	})

	t.Run("malformed date fails with 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Bad date", "dueDate": "June 15th",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for malformed date, got %d", rec.Code)
		}
	})

	t.Run("update merges only the provided fields", func(t *testing.T) {
		created := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Mix single", "priority": "High",
		})
		task := decode(t, created)["data"].(map[string]any)["task"].(map[string]any)
		id := task["id"].(string)

		rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+id, token, map[string]any{
			"status": "Completed",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		updated := decode(t, rec)["data"].(map[string]any)["task"].(map[string]any)
		if updated["status"] != "Completed" {
			t.Errorf("Expected updated status, got %v", updated["status"])
		}
		if updated["priority"] != "High" {
			t.Errorf("Expected untouched priority, got %v", updated["priority"])
		}
	})

	t.Run("subtask lifecycle through the sub-resource", func(t *testing.T) {
		created := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Release prep",
		})
		id := decode(t, created)["data"].(map[string]any)["task"].(map[string]any)["id"].(string)

		rec := doRequest(t, srv, http.MethodPost, "/api/tasks/"+id+"/subtasks", token, map[string]any{
			"title": "Upload to distributor",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		task := decode(t, rec)["data"].(map[string]any)["task"].(map[string]any)
		subtasks := task["subtasks"].([]any)
		if len(subtasks) != 1 {
			t.Fatalf("Expected 1 subtask, got %d", len(subtasks))
		}
		subtaskID := subtasks[0].(map[string]any)["id"].(string)

		rec = doRequest(t, srv, http.MethodPut, "/api/tasks/"+id+"/subtasks/"+subtaskID, token, map[string]any{
			"completed": true,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		task = decode(t, rec)["data"].(map[string]any)["task"].(map[string]any)
		if task["subtasks"].([]any)[0].(map[string]any)["completed"] != true {
			t.Error("Expected subtask to be completed")
		}

		rec = doRequest(t, srv, http.MethodDelete, "/api/tasks/"+id+"/subtasks/"+subtaskID, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		task = decode(t, rec)["data"].(map[string]any)["task"].(map[string]any)
		if len(task["subtasks"].([]any)) != 0 {
			t.Error("Expected subtask to be removed")
		}

		rec = doRequest(t, srv, http.MethodPut, "/api/tasks/"+id+"/subtasks/"+subtaskID, token, map[string]any{
			"title": "gone",
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for removed subtask, got %d", rec.Code)
		}
	})

	t.Run("another user's task is a 404", func(t *testing.T) {
		created := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Private task",
		})
		id := decode(t, created)["data"].(map[string]any)["task"].(map[string]any)["id"].(string)

		otherToken := signup(t, srv, "intruder@example.com")
		rec := doRequest(t, srv, http.MethodGet, "/api/tasks/"+id, otherToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for foreign task, got %d", rec.Code)
		}
		rec = doRequest(t, srv, http.MethodDelete, "/api/tasks/"+id, otherToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for foreign delete, got %d", rec.Code)
		}

		// List stays scoped to the owner.
		rec = doRequest(t, srv, http.MethodGet, "/api/tasks", otherToken, nil)
		if got := decode(t, rec)["results"].(float64); got != 0 {
			t.Errorf("Expected empty list for the other user, got %v", got)
		}
	})

	t.Run("delete returns 204 with no body", func(t *testing.T) {
		created := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Ephemeral",
		})
		id := decode(t, created)["data"].(map[string]any)["task"].(map[string]any)["id"].(string)

		rec := doRequest(t, srv, http.MethodDelete, "/api/tasks/"+id, token, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("Expected empty body, got %q", rec.Body.String())
		}
	})
}

func TestFinancialEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "money@example.com")

	t.Run("goal exceeding its target is rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/financials/goals", token, map[string]any{
			"name": "Gear fund", "targetAmount": 100, "currentAmount": 150,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("goal reads carry derived progress and status", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/financials/goals", token, map[string]any{
			"name": "Gear fund", "targetAmount": 200, "currentAmount": 50,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		goal := decode(t, rec)["data"].(map[string]any)["goal"].(map[string]any)
		if goal["progress"].(float64) != 25 {
			t.Errorf("Expected 25%% progress, got %v", goal["progress"])
		}
		if goal["status"] != "In Progress" {
			t.Errorf("Expected derived status In Progress, got %v", goal["status"])
		}
	})

	t.Run("budget reads include the derived roll-up", func(t *testing.T) {
		created := doRequest(t, srv, http.MethodPost, "/api/financials/budgets", token, map[string]any{
			"name": "Marketing", "amount": 500, "period": "Monthly",
		})
		if created.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", created.Code, created.Body.String())
		}
		budgetID := decode(t, created)["data"].(map[string]any)["budget"].(map[string]any)["id"].(string)

		for _, amount := range []float64{100, 50} {
			rec := doRequest(t, srv, http.MethodPost, "/api/financials/records", token, map[string]any{
				"description": "Ad spend", "amount": amount, "type": "Expense",
				"date": "2024-06-10", "budgetId": budgetID,
			})
			if rec.Code != http.StatusCreated {
				t.Fatalf("Record create failed: %d %s", rec.Code, rec.Body.String())
			}
		}

		rec := doRequest(t, srv, http.MethodGet, "/api/financials/budgets/"+budgetID, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		budget := decode(t, rec)["data"].(map[string]any)["budget"].(map[string]any)
		if budget["spentAmount"].(float64) != 150 {
			t.Errorf("Expected 150 spent, got %v", budget["spentAmount"])
		}
		if budget["remainingAmount"].(float64) != 350 {
			t.Errorf("Expected 350 remaining, got %v", budget["remainingAmount"])
		}
		if len(budget["associatedRecords"].([]any)) != 2 {
			t.Errorf("Expected 2 associated records, got %v", budget["associatedRecords"])
		}
	})

	t.Run("summary folds filtered records", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/financials/records", token, map[string]any{
			"description": "Bandcamp sales", "amount": 300, "type": "Income",
			"date": "2024-06-12", "category": "Merchandise Sales",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Record create failed: %d", rec.Code)
		}

		rec = doRequest(t, srv, http.MethodGet,
			"/api/financials/summary?startDate=2024-06-01&endDate=2024-06-30", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		summary := decode(t, rec)["data"].(map[string]any)["summary"].(map[string]any)
		if summary["totalIncome"].(float64) != 300 {
			t.Errorf("Expected income 300, got %v", summary["totalIncome"])
		}
		if summary["totalExpenses"].(float64) != 150 {
			t.Errorf("Expected expenses 150, got %v", summary["totalExpenses"])
		}
		if summary["netBalance"].(float64) != 150 {
			t.Errorf("Expected net 150, got %v", summary["netBalance"])
		}
	})

	t.Run("unknown summary period is a client error", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/financials/summary?period=fortnight", token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestShowTourLink(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "tours@example.com")

	t.Run("show pointing at a missing tour is rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/shows", token, map[string]any{
			"tourId": "does-not-exist", "date": "2024-07-04",
			"venueName": "Paradiso", "city": "Amsterdam", "country": "Netherlands",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for dangling tour link, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("tour delete cascades through the API", func(t *testing.T) {
		created := doRequest(t, srv, http.MethodPost, "/api/tours", token, map[string]any{
			"name": "Summer Run",
		})
		tourID := decode(t, created)["data"].(map[string]any)["tour"].(map[string]any)["id"].(string)

		show := doRequest(t, srv, http.MethodPost, "/api/shows", token, map[string]any{
			"tourId": tourID, "date": "2024-07-04",
			"venueName": "Paradiso", "city": "Amsterdam", "country": "Netherlands",
		})
		if show.Code != http.StatusCreated {
			t.Fatalf("Show create failed: %d %s", show.Code, show.Body.String())
		}
		showID := decode(t, show)["data"].(map[string]any)["show"].(map[string]any)["id"].(string)

		rec := doRequest(t, srv, http.MethodDelete, "/api/tours/"+tourID, token, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", rec.Code)
		}
		rec = doRequest(t, srv, http.MethodGet, "/api/shows/"+showID, token, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected cascaded show to 404, got %d", rec.Code)
		}
	})
}

func TestCalendarEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "calendar@example.com")

	t.Run("all-events requires both bounds", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/calendar/all-events", token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 without bounds, got %d", rec.Code)
		}
		rec = doRequest(t, srv, http.MethodGet, "/api/calendar/all-events?startDate=2024-06-01", token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 with one bound, got %d", rec.Code)
		}
	})

	t.Run("custom event end date may not precede the start", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/calendar/custom-events", token, map[string]any{
			"title": "Backwards", "date": "2024-06-10", "endDate": "2024-06-05",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("feed merges sources in date order", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/tasks", token, map[string]any{
			"title": "Finish mix", "dueDate": "2024-06-15",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Task create failed: %d", rec.Code)
		}
		rec = doRequest(t, srv, http.MethodPost, "/api/projects", token, map[string]any{
			"name": "Debut Album", "dueDate": "2024-06-20",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Project create failed: %d", rec.Code)
		}

		rec = doRequest(t, srv, http.MethodGet,
			"/api/calendar/all-events?startDate=2024-06-01&endDate=2024-06-30", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		payload := decode(t, rec)
		if payload["results"].(float64) != 2 {
			t.Fatalf("Expected 2 events, got %v", payload["results"])
		}
		events := payload["data"].(map[string]any)["events"].([]any)
		first := events[0].(map[string]any)
		second := events[1].(map[string]any)
		if first["type"] != "task" || first["date"] != "2024-06-15" {
			t.Errorf("Expected the task first, got %+v", first)
		}
		if second["type"] != "project_due" || second["date"] != "2024-06-20" {
			t.Errorf("Expected the project deadline second, got %+v", second)
		}
	})
}
