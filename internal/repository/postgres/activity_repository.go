package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/internal/repository"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// ActivityRepository is the PostgreSQL activity repository
type ActivityRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewActivityRepository creates a new PostgreSQL activity repository
func NewActivityRepository(pool *pgxpool.Pool, log *logger.Logger) *ActivityRepository {
	return &ActivityRepository{pool: pool, log: log}
}

// Insert appends an activity log entry
func (r *ActivityRepository) Insert(ctx context.Context, entry domain.ActivityEntry) (domain.ActivityEntry, error) {
	if entry.OrganizationID == "" || entry.Action == "" {
		return domain.ActivityEntry{}, repository.ErrInvalidData
	}

	entry.ID = uuid.New()

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return domain.ActivityEntry{}, fmt.Errorf("failed to marshal activity metadata: %w", err)
	}

	query := `
		INSERT INTO activity_log (
			id, organization_id, user_id, action, resource_type,
			resource_id, metadata, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING created_at`

	row := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.OrganizationID,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		metadata,
	)

	if err := row.Scan(&entry.CreatedAt); err != nil {
		return domain.ActivityEntry{}, fmt.Errorf("failed to insert activity entry: %w", err)
	}

	return entry, nil
}

// GetByOrganizationID returns entries for an organization, newest first
func (r *ActivityRepository) GetByOrganizationID(ctx context.Context, organizationID string, limit int) ([]domain.ActivityEntry, error) {
	query := `
		SELECT id, organization_id, user_id, action, resource_type,
		       resource_id, metadata, created_at
		FROM activity_log
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	var entries []domain.ActivityEntry
	for rows.Next() {
		var entry domain.ActivityEntry
		var metadata []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.OrganizationID,
			&entry.UserID,
			&entry.Action,
			&entry.ResourceType,
			&entry.ResourceID,
			&metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal activity metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
