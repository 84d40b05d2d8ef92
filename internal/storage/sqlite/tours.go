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

const tourSelect = `SELECT id, name, description, status, start_date, end_date,
	region, created_by, created_at, updated_at FROM tours`

const showSelect = `SELECT s.id, s.tour_id, t.name, s.date, s.venue_name, s.city, s.country,
	s.status, s.show_time, s.doors_open_time, s.ticket_link,
	s.created_by, s.created_at, s.updated_at
	FROM shows s LEFT JOIN tours t ON t.id = s.tour_id`

// CreateTour persists a new tour.
func (s *Store) CreateTour(ctx context.Context, tour *models.Tour) error {
	if tour.ID == "" {
		tour.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if tour.CreatedAt == 0 {
		tour.CreatedAt = now
	}
	tour.UpdatedAt = now
	if tour.Status == "" {
		tour.Status = "Planning"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tours (id, name, description, status, start_date, end_date,
			region, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tour.ID, tour.Name, tour.Description, tour.Status,
		unix(tour.StartDate), unix(tour.EndDate), tour.Region,
		tour.CreatedBy, tour.CreatedAt, tour.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tour: %w", err)
	}
	return nil
}

// GetTour retrieves a tour, scoped to the owner.
func (s *Store) GetTour(ctx context.Context, userID, id string) (*models.Tour, error) {
	row := s.db.QueryRowContext(ctx, tourSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanTour(row)
}

// ListTours returns all tours for a user, most recent start date first.
func (s *Store) ListTours(ctx context.Context, userID string) ([]models.Tour, error) {
	rows, err := s.db.QueryContext(ctx,
		tourSelect+" WHERE created_by = ? ORDER BY start_date DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	var tours []models.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, *tour)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tours: %w", err)
	}
	return tours, nil
}

// UpdateTour rewrites a tour, scoped to the owner.
func (s *Store) UpdateTour(ctx context.Context, userID string, tour *models.Tour) error {
	tour.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE tours SET name = ?, description = ?, status = ?, start_date = ?, end_date = ?,
			region = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		tour.Name, tour.Description, tour.Status, unix(tour.StartDate), unix(tour.EndDate),
		tour.Region, tour.UpdatedAt, tour.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tour: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTour removes a tour, scoped to the owner. The tour's shows go with
// it via the foreign-key cascade.
func (s *Store) DeleteTour(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "tours", userID, id)
}

// CreateShow persists a new show. Tour ownership is validated by the
// handler before this is called.
func (s *Store) CreateShow(ctx context.Context, show *models.Show) error {
	if show.ID == "" {
		show.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if show.CreatedAt == 0 {
		show.CreatedAt = now
	}
	show.UpdatedAt = now
	if show.Status == "" {
		show.Status = "Scheduled"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shows (id, tour_id, date, venue_name, city, country, status,
			show_time, doors_open_time, ticket_link, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		show.ID, nullStr(show.TourID), show.Date.Unix(), show.VenueName, show.City, show.Country,
		show.Status, show.ShowTime, show.DoorsOpenTime, show.TicketLink,
		show.CreatedBy, show.CreatedAt, show.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert show: %w", err)
	}
	return nil
}

// GetShow retrieves a show, scoped to the owner.
func (s *Store) GetShow(ctx context.Context, userID, id string) (*models.Show, error) {
	row := s.db.QueryRowContext(ctx, showSelect+" WHERE s.id = ? AND s.created_by = ?", id, userID)
	return scanShow(row)
}

// ListShows returns a user's shows ordered by date, optionally filtered to
// one tour.
func (s *Store) ListShows(ctx context.Context, userID, tourID string) ([]models.Show, error) {
	query := showSelect + " WHERE s.created_by = ?"
	args := []any{userID}
	if tourID != "" {
		query += " AND s.tour_id = ?"
		args = append(args, tourID)
	}
	query += " ORDER BY s.date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	var shows []models.Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, *show)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shows: %w", err)
	}
	return shows, nil
}

// UpdateShow rewrites a show, scoped to the owner.
func (s *Store) UpdateShow(ctx context.Context, userID string, show *models.Show) error {
	show.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE shows SET tour_id = ?, date = ?, venue_name = ?, city = ?, country = ?,
			status = ?, show_time = ?, doors_open_time = ?, ticket_link = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		nullStr(show.TourID), show.Date.Unix(), show.VenueName, show.City, show.Country,
		show.Status, show.ShowTime, show.DoorsOpenTime, show.TicketLink, show.UpdatedAt,
		show.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update show: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteShow removes a show, scoped to the owner.
func (s *Store) DeleteShow(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "shows", userID, id)
}

func scanTour(row rowScanner) (*models.Tour, error) {
	tour := &models.Tour{}
	var startDate, endDate sql.NullInt64
	err := row.Scan(&tour.ID, &tour.Name, &tour.Description, &tour.Status,
		&startDate, &endDate, &tour.Region,
		&tour.CreatedBy, &tour.CreatedAt, &tour.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tour: %w", err)
	}
	tour.StartDate = timeAt(startDate)
	tour.EndDate = timeAt(endDate)
	return tour, nil
}

func scanShow(row rowScanner) (*models.Show, error) {
	show := &models.Show{}
	var tourID, tourName sql.NullString
	var date int64
	err := row.Scan(&show.ID, &tourID, &tourName, &date, &show.VenueName, &show.City, &show.Country,
		&show.Status, &show.ShowTime, &show.DoorsOpenTime, &show.TicketLink,
		&show.CreatedBy, &show.CreatedAt, &show.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan show: %w", err)
	}
	show.TourID = tourID.String
	show.TourName = tourName.String
	show.Date = time.Unix(date, 0).UTC()
	return show, nil
}
