package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/internal/repository"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// SubscriptionRepository is the PostgreSQL subscription repository
type SubscriptionRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(pool *pgxpool.Pool, log *logger.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool, log: log}
}

// UpsertByOrganizationID creates or replaces the subscription state for
// the organization. organization_id carries a unique constraint, so
// concurrent webhook deliveries for the same organization collapse into
// one row.
func (r *SubscriptionRepository) UpsertByOrganizationID(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error) {
	if subscription.OrganizationID == "" {
		return domain.Subscription{}, repository.ErrInvalidData
	}

	query := `
		INSERT INTO subscriptions (
			organization_id, product_id, status, payfast_token,
			current_period_start, current_period_end, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (organization_id) DO UPDATE SET
			product_id           = EXCLUDED.product_id,
			status               = EXCLUDED.status,
			payfast_token        = EXCLUDED.payfast_token,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end   = EXCLUDED.current_period_end,
			updated_at           = now()
		RETURNING id, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		subscription.OrganizationID,
		subscription.ProductID,
		subscription.Status,
		subscription.PayFastToken,
		subscription.CurrentPeriodStart,
		subscription.CurrentPeriodEnd,
	)

	if err := row.Scan(&subscription.ID, &subscription.CreatedAt, &subscription.UpdatedAt); err != nil {
		return domain.Subscription{}, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return subscription, nil
}

// GetByOrganizationID returns the subscription for the organization
func (r *SubscriptionRepository) GetByOrganizationID(ctx context.Context, organizationID string) (domain.Subscription, error) {
	query := `
		SELECT id, organization_id, product_id, status, payfast_token,
		       current_period_start, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE organization_id = $1`

	var subscription domain.Subscription
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(
		&subscription.ID,
		&subscription.OrganizationID,
		&subscription.ProductID,
		&subscription.Status,
		&subscription.PayFastToken,
		&subscription.CurrentPeriodStart,
		&subscription.CurrentPeriodEnd,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, repository.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscription, nil
}
