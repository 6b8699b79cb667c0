package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// SubscriptionRepository stores one subscription per organization
type SubscriptionRepository interface {
	// UpsertByOrganizationID creates or replaces the subscription state
	// for the organization
	UpsertByOrganizationID(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error)

	// GetByOrganizationID returns the subscription for the organization
	GetByOrganizationID(ctx context.Context, organizationID string) (domain.Subscription, error)
}

// InMemorySubscriptionRepository is an in-memory subscription repository
type InMemorySubscriptionRepository struct {
	subscriptions map[string]domain.Subscription
	mutex         sync.RWMutex
	log           *logger.Logger
}

// NewInMemorySubscriptionRepository creates a new in-memory subscription repository
func NewInMemorySubscriptionRepository(log *logger.Logger) *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{
		subscriptions: make(map[string]domain.Subscription),
		log:           log,
	}
}

// UpsertByOrganizationID creates or replaces the subscription state for the organization
func (r *InMemorySubscriptionRepository) UpsertByOrganizationID(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error) {
	if subscription.OrganizationID == "" {
		return domain.Subscription{}, ErrInvalidData
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.subscriptions[subscription.OrganizationID]
	if exists {
		subscription.ID = existing.ID
		subscription.CreatedAt = existing.CreatedAt
	} else {
		subscription.ID = uuid.New()
		subscription.CreatedAt = time.Now()
	}
	subscription.UpdatedAt = time.Now()

	r.subscriptions[subscription.OrganizationID] = subscription

	return subscription, nil
}

// GetByOrganizationID returns the subscription for the organization
func (r *InMemorySubscriptionRepository) GetByOrganizationID(ctx context.Context, organizationID string) (domain.Subscription, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	subscription, exists := r.subscriptions[organizationID]
	if !exists {
		return domain.Subscription{}, ErrNotFound
	}

	return subscription, nil
}
