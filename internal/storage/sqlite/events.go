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

// defaultEventColor matches the client calendar's default.
const defaultEventColor = "#3788d8"

const eventSelect = `SELECT id, title, date, end_date, start_time, end_time,
	description, color, created_by, created_at, updated_at FROM calendar_events`

// CreateEvent persists a new custom calendar event.
func (s *Store) CreateEvent(ctx context.Context, event *models.CustomCalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if event.CreatedAt == 0 {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if event.Color == "" {
		event.Color = defaultEventColor
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_events (id, title, date, end_date, start_time, end_time,
			description, color, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Date.Unix(), unix(event.EndDate),
		event.StartTime, event.EndTime, event.Description, event.Color,
		event.CreatedBy, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves a custom calendar event, scoped to the owner.
func (s *Store) GetEvent(ctx context.Context, userID, id string) (*models.CustomCalendarEvent, error) {
	row := s.db.QueryRowContext(ctx, eventSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanEvent(row)
}

// ListEvents returns a user's events ordered by date then start time.
// Either bound may be nil for an open-ended range.
func (s *Store) ListEvents(ctx context.Context, userID string, start, end *time.Time) ([]models.CustomCalendarEvent, error) {
	query := eventSelect + " WHERE created_by = ?"
	args := []any{userID}
	if start != nil {
		query += " AND date >= ?"
		args = append(args, start.Unix())
	}
	if end != nil {
		query += " AND date <= ?"
		args = append(args, end.Unix())
	}
	query += " ORDER BY date, start_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.CustomCalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// UpdateEvent rewrites a custom calendar event, scoped to the owner.
func (s *Store) UpdateEvent(ctx context.Context, userID string, event *models.CustomCalendarEvent) error {
	event.UpdatedAt = time.Now().Unix()
	if event.Color == "" {
		event.Color = defaultEventColor
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE calendar_events SET title = ?, date = ?, end_date = ?, start_time = ?,
			end_time = ?, description = ?, color = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		event.Title, event.Date.Unix(), unix(event.EndDate), event.StartTime,
		event.EndTime, event.Description, event.Color, event.UpdatedAt,
		event.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteEvent removes a custom calendar event, scoped to the owner.
func (s *Store) DeleteEvent(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "calendar_events", userID, id)
}

func scanEvent(row rowScanner) (*models.CustomCalendarEvent, error) {
	event := &models.CustomCalendarEvent{}
	var date int64
	var endDate sql.NullInt64
	err := row.Scan(&event.ID, &event.Title, &date, &endDate, &event.StartTime, &event.EndTime,
		&event.Description, &event.Color, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	event.Date = time.Unix(date, 0).UTC()
	event.EndDate = timeAt(endDate)
	return event, nil
}
