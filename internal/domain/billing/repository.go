package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/shared"
)

// InvoiceFilter extends the base filter with invoice-specific criteria.
// Status accepts the stored statuses plus OVERDUE, which is resolved
// against the due date at query time rather than read from a column.
type InvoiceFilter struct {
	shared.Filter
	LeaseID *uuid.UUID
	Status  *InvoiceStatus
	// Now anchors the OVERDUE resolution; zero means the database clock.
	Now time.Time
}

// OverdueSummary aggregates issued invoices past their due date.
type OverdueSummary struct {
	Count      int64 `json:"count"`
	TotalCents int64 `json:"total_cents"`
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Invoice, error)
	// FindByItemID resolves the invoice owning the given line item.
	FindByItemID(ctx context.Context, organizationID, itemID uuid.UUID) (*Invoice, error)
	FindByLease(ctx context.Context, organizationID, leaseID uuid.UUID) ([]*Invoice, error)
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter InvoiceFilter) (*shared.Paginated[*Invoice], error)
	// FindIssuedDueBefore returns issued invoices whose due date has passed,
	// across all organizations. The scheduled billing run uses it for the
	// overdue sweep.
	FindIssuedDueBefore(ctx context.Context, cutoff time.Time) ([]*Invoice, error)
	FindIssuedDueBeforeForOrg(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]*Invoice, error)
	// LastPeriodEnd returns the latest billed period end for a lease, or a
	// zero time when the lease has never been billed.
	LastPeriodEnd(ctx context.Context, leaseID uuid.UUID) (time.Time, error)
	// LastMeterReadings returns, per charge, the confirmed end reading of
	// the most recent invoice for the lease.
	LastMeterReadings(ctx context.Context, leaseID uuid.UUID) (MeterBaselines, error)
	// Create persists a new invoice. A second invoice for the same lease
	// and period start fails with ErrDuplicatePeriod.
	Create(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists with optimistic concurrency control.
	SaveWithLock(ctx context.Context, invoice *Invoice, expectedVersion int) error
	CountForOrg(ctx context.Context, organizationID uuid.UUID) (int64, error)
	OverdueSummaryForOrg(ctx context.Context, organizationID uuid.UUID, now time.Time) (*OverdueSummary, error)
}
