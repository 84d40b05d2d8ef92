package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"artistplan/internal/models"
	"artistplan/internal/storage"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.project_id,
	p.name, t.tags, t.start_date, t.due_date, t.estimated_hours,
	t.created_by, t.created_at, t.updated_at`

const taskSelect = `SELECT ` + taskColumns + `
	FROM tasks t LEFT JOIN projects p ON p.id = t.project_id`

// CreateTask persists a new task and its subtasks in one transaction.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if task.CreatedAt == 0 {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityNone
	}

	tags, err := encodeList(task.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, project_id, tags,
			start_date, due_date, estimated_hours, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		nullStr(task.ProjectID), tags, unix(task.StartDate), unix(task.DueDate),
		task.EstimatedHours, task.CreatedBy, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	if err := insertSubtasks(ctx, tx, task); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTask retrieves a task with its subtasks, scoped to the owner.
func (s *Store) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, taskSelect+" WHERE t.id = ? AND t.created_by = ?", id, userID)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadSubtasks(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns all tasks for a user, newest first.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return s.listTasks(ctx, taskSelect+" WHERE t.created_by = ? ORDER BY t.created_at DESC", userID)
}

// ListTasksByProject returns a user's tasks linked to the given project,
// newest first.
func (s *Store) ListTasksByProject(ctx context.Context, userID, projectID string) ([]models.Task, error) {
	return s.listTasks(ctx,
		taskSelect+" WHERE t.created_by = ? AND t.project_id = ? ORDER BY t.created_at DESC",
		userID, projectID)
}

// ListTasksDueBetween returns a user's tasks with a due date inside the
// inclusive window, ordered by due date.
func (s *Store) ListTasksDueBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error) {
	return s.listTasks(ctx,
		taskSelect+" WHERE t.created_by = ? AND t.due_date >= ? AND t.due_date <= ? ORDER BY t.due_date",
		userID, start.Unix(), end.Unix())
}

// UpdateTask rewrites the whole task aggregate, replacing the subtask list.
func (s *Store) UpdateTask(ctx context.Context, userID string, task *models.Task) error {
	task.UpdatedAt = time.Now().Unix()

	tags, err := encodeList(task.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, project_id = ?,
			tags = ?, start_date = ?, due_date = ?, estimated_hours = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		task.Title, task.Description, task.Status, task.Priority, nullStr(task.ProjectID),
		tags, unix(task.StartDate), unix(task.DueDate), task.EstimatedHours, task.UpdatedAt,
		task.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_subtasks WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("failed to clear subtasks: %w", err)
	}
	if err := insertSubtasks(ctx, tx, task); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTask removes a task (and via cascade its subtasks), scoped to the
// owner.
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "tasks", userID, id)
}

func insertSubtasks(ctx context.Context, tx *sql.Tx, task *models.Task) error {
	for i := range task.Subtasks {
		sub := &task.Subtasks[i]
		if sub.ID == "" {
			sub.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO task_subtasks (id, task_id, title, completed, position) VALUES (?, ?, ?, ?, ?)",
			sub.ID, task.ID, sub.Title, sub.Completed, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert subtask: %w", err)
		}
	}
	return nil
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	var refs []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	for i := range tasks {
		refs = append(refs, &tasks[i])
	}
	if err := s.loadSubtasks(ctx, refs); err != nil {
		return nil, err
	}
	return tasks, nil
}

// loadSubtasks fills the ordered subtask lists of the given tasks.
func (s *Store) loadSubtasks(ctx context.Context, tasks []*models.Task) error {
	for _, task := range tasks {
		rows, err := s.db.QueryContext(ctx,
			"SELECT id, title, completed FROM task_subtasks WHERE task_id = ? ORDER BY position",
			task.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to query subtasks: %w", err)
		}
		task.Subtasks = []models.Subtask{}
		for rows.Next() {
			var sub models.Subtask
			if err := rows.Scan(&sub.ID, &sub.Title, &sub.Completed); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan subtask: %w", err)
			}
			task.Subtasks = append(task.Subtasks, sub)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate subtasks: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var projectID, projectName, tags sql.NullString
	var startDate, dueDate sql.NullInt64
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&projectID, &projectName, &tags, &startDate, &dueDate, &task.EstimatedHours,
		&task.CreatedBy, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	task.ProjectID = projectID.String
	task.ProjectName = projectName.String
	task.StartDate = timeAt(startDate)
	task.DueDate = timeAt(dueDate)
	if task.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	return task, nil
}

// deleteByID removes one owned row from the given table.
func (s *Store) deleteByID(ctx context.Context, table, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id = ? AND created_by = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
