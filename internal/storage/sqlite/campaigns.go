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

const campaignSelect = `SELECT id, name, campaign_type, status, description,
	start_date, end_date, target_audience, linked_project_id,
	created_by, created_at, updated_at FROM campaigns`

// CreateCampaign persists a new campaign.
func (s *Store) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if campaign.CreatedAt == 0 {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, name, campaign_type, status, description,
			start_date, end_date, target_audience, linked_project_id,
			created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.ID, campaign.Name, campaign.CampaignType, campaign.Status, campaign.Description,
		unix(campaign.StartDate), unix(campaign.EndDate), campaign.TargetAudience,
		nullStr(campaign.LinkedProjectID), campaign.CreatedBy, campaign.CreatedAt, campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign, scoped to the owner.
func (s *Store) GetCampaign(ctx context.Context, userID, id string) (*models.Campaign, error) {
	row := s.db.QueryRowContext(ctx, campaignSelect+" WHERE id = ? AND created_by = ?", id, userID)
	return scanCampaign(row)
}

// ListCampaigns returns all campaigns for a user, most recent start date
// first.
func (s *Store) ListCampaigns(ctx context.Context, userID string) ([]models.Campaign, error) {
	return s.listCampaigns(ctx,
		campaignSelect+" WHERE created_by = ? ORDER BY start_date DESC, created_at DESC", userID)
}

// ListCampaignsOverlapping matches campaigns whose interval intersects the
// inclusive window: start <= windowEnd AND end >= windowStart, with a
// missing end date treated as equal to start. Campaigns without any start
// date never appear on the calendar.
func (s *Store) ListCampaignsOverlapping(ctx context.Context, userID string, start, end time.Time) ([]models.Campaign, error) {
	return s.listCampaigns(ctx,
		campaignSelect+` WHERE created_by = ?
			AND start_date IS NOT NULL
			AND start_date <= ?
			AND COALESCE(end_date, start_date) >= ?
		 ORDER BY start_date`,
		userID, end.Unix(), start.Unix())
}

// UpdateCampaign rewrites a campaign, scoped to the owner.
func (s *Store) UpdateCampaign(ctx context.Context, userID string, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE campaigns SET name = ?, campaign_type = ?, status = ?, description = ?,
			start_date = ?, end_date = ?, target_audience = ?, linked_project_id = ?, updated_at = ?
		 WHERE id = ? AND created_by = ?`,
		campaign.Name, campaign.CampaignType, campaign.Status, campaign.Description,
		unix(campaign.StartDate), unix(campaign.EndDate), campaign.TargetAudience,
		nullStr(campaign.LinkedProjectID), campaign.UpdatedAt,
		campaign.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCampaign removes a campaign, scoped to the owner.
func (s *Store) DeleteCampaign(ctx context.Context, userID, id string) error {
	return s.deleteByID(ctx, "campaigns", userID, id)
}

func (s *Store) listCampaigns(ctx context.Context, query string, args ...any) ([]models.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	var startDate, endDate sql.NullInt64
	var linkedProject sql.NullString
	err := row.Scan(&campaign.ID, &campaign.Name, &campaign.CampaignType, &campaign.Status,
		&campaign.Description, &startDate, &endDate, &campaign.TargetAudience,
		&linkedProject, &campaign.CreatedBy, &campaign.CreatedAt, &campaign.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	campaign.StartDate = timeAt(startDate)
	campaign.EndDate = timeAt(endDate)
	campaign.LinkedProjectID = linkedProject.String
	return campaign, nil
}
