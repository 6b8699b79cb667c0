package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// InvoiceRepository stores settled gateway payments. The gateway payment id
// is the natural key: a redelivered webhook must not produce a second
// invoice, so Insert reports ErrDuplicate for a replay.
type InvoiceRepository interface {
	// Insert stores a new invoice record
	Insert(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error)

	// GetByPayFastPaymentID returns the invoice for a gateway payment id
	GetByPayFastPaymentID(ctx context.Context, payfastPaymentID string) (domain.Invoice, error)
}

// InMemoryInvoiceRepository is an in-memory invoice repository
type InMemoryInvoiceRepository struct {
	invoices map[string]domain.Invoice
	mutex    sync.RWMutex
	log      *logger.Logger
}

// NewInMemoryInvoiceRepository creates a new in-memory invoice repository
func NewInMemoryInvoiceRepository(log *logger.Logger) *InMemoryInvoiceRepository {
	return &InMemoryInvoiceRepository{
		invoices: make(map[string]domain.Invoice),
		log:      log,
	}
}

// Insert stores a new invoice record
func (r *InMemoryInvoiceRepository) Insert(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	if invoice.PayFastPaymentID == "" {
		return domain.Invoice{}, ErrInvalidData
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.invoices[invoice.PayFastPaymentID]; exists {
		return domain.Invoice{}, ErrDuplicate
	}

	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()

	r.invoices[invoice.PayFastPaymentID] = invoice

	return invoice, nil
}

// GetByPayFastPaymentID returns the invoice for a gateway payment id
func (r *InMemoryInvoiceRepository) GetByPayFastPaymentID(ctx context.Context, payfastPaymentID string) (domain.Invoice, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	invoice, exists := r.invoices[payfastPaymentID]
	if !exists {
		return domain.Invoice{}, ErrNotFound
	}

	return invoice, nil
}
