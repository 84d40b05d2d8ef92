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

const contentSelect = `SELECT id, title, description, type, status, tags,
	file_path_or_url, thumbnail_url, file_size, associated_project_id, campaign_id,
	created_by, created_at, updated_at FROM content_items`

const lyricsSelect = `SELECT id, title, lyrics_text, notes, status, tags,
	associated_project_id, created_by, created_at, updated_at FROM lyrics_items`

// CreateContentItem persists a new content item.
func (s *Store) CreateContentItem(ctx context.Context, item *models.ContentItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = "Draft"
	}

	tags, err := encodeList(item.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO content_items (id, title, description, type, status, tags,
			file_path_or_url, thumbnail_url, file_size, associated_project_id, campaign_id,
			created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, item.Type, item.Status, tags,
		item.FilePathOrURL, item.ThumbnailURL, item.FileSize,
		nullStr(item.AssociatedProjectID), nullStr(item.CampaignID),
		item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert content item: %w", err)
	}
	return nil
}

// GetContentItem retrieves a content item, scoped to the owner.
func (s *Store) GetContentItem(ctx context.Context, userID, id string) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, contentSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanContentItem(row)
}

// ListContentItems returns all content items for a user, newest first.
func (s *Store) ListContentItems(ctx context.Context, userID string) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx,
		contentSelect+" WHERE created_by = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content items: %w", err)
	}
	return items, nil
}

// UpdateContentItem rewrites a content item, scoped to the owner.
func (s *Store) UpdateContentItem(ctx context.Context, userID string, item *models.ContentItem) error {
	item.UpdatedAt = time.Now().Unix()

	tags, err := encodeList(item.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE content_items SET title = ?, description = ?, type = ?, status = ?, tags = ?,
			file_path_or_url = ?, thumbnail_url = ?, file_size = ?,
			associated_project_id = ?, campaign_id = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		item.Title, item.Description, item.Type, item.Status, tags,
		item.FilePathOrURL, item.ThumbnailURL, item.FileSize,
		nullStr(item.AssociatedProjectID), nullStr(item.CampaignID), item.UpdatedAt,
		item.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update content item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteContentItem removes a content item, scoped to the owner.
func (s *Store) DeleteContentItem(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "content_items", userID, id)
}

// CreateLyricsItem persists a new lyrics item.
func (s *Store) CreateLyricsItem(ctx context.Context, item *models.LyricsItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = "Idea"
	}

	tags, err := encodeList(item.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lyrics_items (id, title, lyrics_text, notes, status, tags,
			associated_project_id, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.LyricsText, item.Notes, item.Status, tags,
		nullStr(item.AssociatedProjectID), item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lyrics item: %w", err)
	}
	return nil
}

// GetLyricsItem retrieves a lyrics item, scoped to the owner.
func (s *Store) GetLyricsItem(ctx context.Context, userID, id string) (*models.LyricsItem, error) {
	row := s.db.QueryRowContext(ctx, lyricsSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanLyricsItem(row)
}

// ListLyricsItems returns all lyrics items for a user, newest first.
func (s *Store) ListLyricsItems(ctx context.Context, userID string) ([]models.LyricsItem, error) {
	rows, err := s.db.QueryContext(ctx,
		lyricsSelect+" WHERE created_by = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lyrics items: %w", err)
	}
	defer rows.Close()

	var items []models.LyricsItem
	for rows.Next() {
		item, err := scanLyricsItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lyrics items: %w", err)
	}
	return items, nil
}

// UpdateLyricsItem rewrites a lyrics item, scoped to the owner.
func (s *Store) UpdateLyricsItem(ctx context.Context, userID string, item *models.LyricsItem) error {
	item.UpdatedAt = time.Now().Unix()

	tags, err := encodeList(item.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE lyrics_items SET title = ?, lyrics_text = ?, notes = ?, status = ?, tags = ?,
			associated_project_id = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		item.Title, item.LyricsText, item.Notes, item.Status, tags,
		nullStr(item.AssociatedProjectID), item.UpdatedAt,
		item.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lyrics item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteLyricsItem removes a lyrics item, scoped to the owner.
func (s *Store) DeleteLyricsItem(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "lyrics_items", userID, id)
}

func scanContentItem(row rowScanner) (*models.ContentItem, error) {
	item := &models.ContentItem{}
	var tags, projectID, campaignID sql.NullString
	err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Type, &item.Status, &tags,
		&item.FilePathOrURL, &item.ThumbnailURL, &item.FileSize, &projectID, &campaignID,
		&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content item: %w", err)
	}
	item.AssociatedProjectID = projectID.String
	item.CampaignID = campaignID.String
	if item.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	return item, nil
}

func scanLyricsItem(row rowScanner) (*models.LyricsItem, error) {
	item := &models.LyricsItem{}
	var tags, projectID sql.NullString
	err := row.Scan(&item.ID, &item.Title, &item.LyricsText, &item.Notes, &item.Status, &tags,
		&projectID, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lyrics item: %w", err)
	}
	item.AssociatedProjectID = projectID.String
	if item.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	return item, nil
}
