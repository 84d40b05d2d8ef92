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

const projectSelect = `SELECT id, name, description, status, project_type,
	start_date, end_date, due_date, created_by, created_at, updated_at FROM projects`

// CreateProject persists a new project and its milestones in one
// transaction.
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if project.CreatedAt == 0 {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusNew
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, status, project_type,
			start_date, end_date, due_date, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.Status, project.ProjectType,
		unix(project.StartDate), unix(project.EndDate), unix(project.DueDate),
		project.CreatedBy, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	if err := insertMilestones(ctx, tx, project); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetProject retrieves a project with its milestones, scoped to the owner.
func (s *Store) GetProject(ctx context.Context, userID, id string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, projectSelect+" WHERE id = ? AND created_by = ?", id, userID)
	project, err := scanProject(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadMilestones(ctx, []*models.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns all projects for a user, newest first.
func (s *Store) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.listProjects(ctx,
		projectSelect+" WHERE created_by = ? ORDER BY created_at DESC", userID)
}

// ListProjectsDueBetween returns a user's projects with a due date inside
// the inclusive window.
func (s *Store) ListProjectsDueBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Project, error) {
	return s.listProjects(ctx,
		projectSelect+" WHERE created_by = ? AND due_date >= ? AND due_date <= ? ORDER BY due_date",
		userID, start.Unix(), end.Unix())
}

// ListProjectsWithMilestonesBetween returns candidate projects with at
// least one milestone in the window. The returned projects carry their full
// milestone lists, including out-of-window ones; callers re-check dates.
func (s *Store) ListProjectsWithMilestonesBetween(ctx context.Context, userID string, start, end time.Time) ([]models.Project, error) {
	return s.listProjects(ctx,
		projectSelect+` WHERE created_by = ? AND id IN (
			SELECT project_id FROM project_milestones WHERE date >= ? AND date <= ?
		) ORDER BY created_at DESC`,
		userID, start.Unix(), end.Unix())
}

// UpdateProject rewrites the whole project aggregate, replacing the
// milestone list.
func (s *Store) UpdateProject(ctx context.Context, userID string, project *models.Project) error {
	project.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, status = ?, project_type = ?,
			start_date = ?, end_date = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		project.Name, project.Description, project.Status, project.ProjectType,
		unix(project.StartDate), unix(project.EndDate), unix(project.DueDate), project.UpdatedAt,
		project.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_milestones WHERE project_id = ?", project.ID); err != nil {
		return fmt.Errorf("failed to clear milestones: %w", err)
	}
	if err := insertMilestones(ctx, tx, project); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteProject removes a project (and via cascade its milestones), scoped
// to the owner. Tasks referencing the project keep their link; there is no
// cross-entity cascade.
func (s *Store) DeleteProject(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "projects", userID, id)
}

func insertMilestones(ctx context.Context, tx *sql.Tx, project *models.Project) error {
	for i := range project.Milestones {
		m := &project.Milestones[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.Status == "" {
			m.Status = models.MilestoneStatusPending
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO project_milestones (id, project_id, title, date, status, description, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			m.ID, project.ID, m.Title, m.Date.Unix(), m.Status, m.Description, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert milestone: %w", err)
		}
	}
	return nil
}

func (s *Store) listProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	var refs []*models.Project
	for i := range projects {
		refs = append(refs, &projects[i])
	}
	if err := s.loadMilestones(ctx, refs); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) loadMilestones(ctx context.Context, projects []*models.Project) error {
	for _, project := range projects {
		rows, err := s.db.QueryContext(ctx,
			"SELECT id, title, date, status, description FROM project_milestones WHERE project_id = ? ORDER BY position",
			project.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to query milestones: %w", err)
		}
		project.Milestones = []models.Milestone{}
		for rows.Next() {
			var m models.Milestone
			var date int64
			if err := rows.Scan(&m.ID, &m.Title, &date, &m.Status, &m.Description); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan milestone: %w", err)
			}
			m.Date = time.Unix(date, 0).UTC()
			project.Milestones = append(project.Milestones, m)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate milestones: %w", err)
		}
	}
	return nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var startDate, endDate, dueDate sql.NullInt64
	err := row.Scan(&project.ID, &project.Name, &project.Description, &project.Status,
		&project.ProjectType, &startDate, &endDate, &dueDate,
		&project.CreatedBy, &project.CreatedAt, &project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	project.StartDate = timeAt(startDate)
	project.EndDate = timeAt(endDate)
	project.DueDate = timeAt(dueDate)
	return project, nil
}
