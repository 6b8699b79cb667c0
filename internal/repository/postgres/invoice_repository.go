package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/humbelmindai/humblemind-bi-platform/internal/domain"
	"github.com/humbelmindai/humblemind-bi-platform/internal/repository"
	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// InvoiceRepository is the PostgreSQL invoice repository
type InvoiceRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository
func NewInvoiceRepository(pool *pgxpool.Pool, log *logger.Logger) *InvoiceRepository {
	return &InvoiceRepository{pool: pool, log: log}
}

// Insert stores a new invoice record. payfast_payment_id is unique, so a
// redelivered webhook lands on ON CONFLICT DO NOTHING and is reported as
// ErrDuplicate instead of a second invoice.
func (r *InvoiceRepository) Insert(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	if invoice.PayFastPaymentID == "" {
		return domain.Invoice{}, repository.ErrInvalidData
	}

	invoice.ID = uuid.New()

	query := `
		INSERT INTO subscription_invoices (
			id, subscription_id, payfast_payment_id, amount, currency,
			status, invoice_date, due_date, paid_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (payfast_payment_id) DO NOTHING
		RETURNING created_at`

	row := r.pool.QueryRow(ctx, query,
		invoice.ID,
		invoice.SubscriptionID,
		invoice.PayFastPaymentID,
		invoice.Amount,
		invoice.Currency,
		invoice.Status,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.PaidAt,
	)

	if err := row.Scan(&invoice.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict path: the gateway redelivered an already-recorded payment
			return domain.Invoice{}, repository.ErrDuplicate
		}
		return domain.Invoice{}, fmt.Errorf("failed to insert invoice: %w", err)
	}

	return invoice, nil
}

// GetByPayFastPaymentID returns the invoice for a gateway payment id
func (r *InvoiceRepository) GetByPayFastPaymentID(ctx context.Context, payfastPaymentID string) (domain.Invoice, error) {
	query := `
		SELECT id, subscription_id, payfast_payment_id, amount, currency,
		       status, invoice_date, due_date, paid_at, created_at
		FROM subscription_invoices
		WHERE payfast_payment_id = $1`

	var invoice domain.Invoice
	err := r.pool.QueryRow(ctx, query, payfastPaymentID).Scan(
		&invoice.ID,
		&invoice.SubscriptionID,
		&invoice.PayFastPaymentID,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.InvoiceDate,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invoice{}, repository.ErrNotFound
		}
		return domain.Invoice{}, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}
