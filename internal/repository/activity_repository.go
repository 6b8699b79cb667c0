package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// ActivityRepository stores billing audit entries
type ActivityRepository interface {
	// Insert appends an activity log entry
	Insert(ctx context.Context, entry domain.ActivityEntry) (domain.ActivityEntry, error)

	// GetByOrganizationID returns entries for an organization, newest first
	GetByOrganizationID(ctx context.Context, organizationID string, limit int) ([]domain.ActivityEntry, error)
}

// InMemoryActivityRepository is an in-memory activity repository
type InMemoryActivityRepository struct {
	entries []domain.ActivityEntry
	mutex   sync.RWMutex
	log     *logger.Logger
}

// NewInMemoryActivityRepository creates a new in-memory activity repository
func NewInMemoryActivityRepository(log *logger.Logger) *InMemoryActivityRepository {
	return &InMemoryActivityRepository{log: log}
}

// Insert appends an activity log entry
func (r *InMemoryActivityRepository) Insert(ctx context.Context, entry domain.ActivityEntry) (domain.ActivityEntry, error) {
	if entry.OrganizationID == "" || entry.Action == "" {
		return domain.ActivityEntry{}, ErrInvalidData
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()

	r.entries = append(r.entries, entry)

	return entry, nil
}

// GetByOrganizationID returns entries for an organization, newest first
func (r *InMemoryActivityRepository) GetByOrganizationID(ctx context.Context, organizationID string, limit int) ([]domain.ActivityEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var entries []domain.ActivityEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].OrganizationID == organizationID {
			entries = append(entries, r.entries[i])
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
	}

	return entries, nil
}
