package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var invoiceSortColumns = map[string]bool{
	"created_at":     true,
	"invoice_number": true,
	"period_start":   true,
	"due_date":       true,
	"status":         true,
	"total_cents":    true,
}

// FindByID finds an invoice with its items by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds an invoice by ID scoped to an organization
func (r *GormInvoiceRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByItemID resolves the invoice owning the given line item
func (r *GormInvoiceRepository) FindByItemID(ctx context.Context, organizationID, itemID uuid.UUID) (*billing.Invoice, error) {
	var item models.InvoiceItemModel
	if err := r.db.WithContext(ctx).
		Select("invoice_id").
		First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByIDForOrg(ctx, organizationID, item.InvoiceID)
}

// FindByLease finds all invoices of a lease, newest period first
func (r *GormInvoiceRepository) FindByLease(ctx context.Context, organizationID, leaseID uuid.UUID) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND lease_id = ?", organizationID, leaseID).
		Order("period_start DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindAllForOrg finds invoices for an organization with filtering and
// pagination. An OVERDUE status filter is resolved against the due date
// because overdue is never a stored status.
func (r *GormInvoiceRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter billing.InvoiceFilter) (*shared.Paginated[*billing.Invoice], error) {
	base := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("organization_id = ?", organizationID)
	base = r.applyConditions(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	query := base.Session(&gorm.Session{}).
		Preload("Items").
		Order(orderClause(filter.Filter, invoiceSortColumns))
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var invoiceModels []models.InvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toDomainInvoices(invoiceModels), total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindIssuedDueBefore returns issued invoices past their due date across
// all organizations
func (r *GormInvoiceRepository) FindIssuedDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Invoice, error) {
	return r.findIssuedDueBefore(ctx, r.db.WithContext(ctx), cutoff)
}

// FindIssuedDueBeforeForOrg returns issued invoices past their due date
// for one organization
func (r *GormInvoiceRepository) FindIssuedDueBeforeForOrg(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]*billing.Invoice, error) {
	query := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	return r.findIssuedDueBefore(ctx, query, cutoff)
}

func (r *GormInvoiceRepository) findIssuedDueBefore(ctx context.Context, query *gorm.DB, cutoff time.Time) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := query.
		Preload("Items").
		Where("status = ? AND due_date < ?", billing.InvoiceStatusIssued, cutoff).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// LastPeriodEnd returns the latest billed period end for a lease.
// A zero time means the lease has never been billed. Voided invoices
// still count: their period was billed, voiding does not reopen it.
func (r *GormInvoiceRepository) LastPeriodEnd(ctx context.Context, leaseID uuid.UUID) (time.Time, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Select("period_end").
		Where("lease_id = ?", leaseID).
		Order("period_start DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return model.PeriodEnd, nil
}

// LastMeterReadings returns, per charge, the confirmed end reading of the
// most recent invoice for a lease. Voided invoices are excluded so that a
// voided period's readings never anchor the next one.
func (r *GormInvoiceRepository) LastMeterReadings(ctx context.Context, leaseID uuid.UUID) (billing.MeterBaselines, error) {
	type readingRow struct {
		ChargeID uuid.UUID
		MeterEnd decimal.Decimal
	}
	var rows []readingRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (ii.charge_id) ii.charge_id, ii.meter_end
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.lease_id = ?
		  AND i.status <> ?
		  AND ii.charge_id IS NOT NULL
		  AND ii.status = ?
		  AND ii.meter_end IS NOT NULL
		ORDER BY ii.charge_id, i.period_start DESC`,
		leaseID, billing.InvoiceStatusVoid, billing.ItemStatusConfirmed,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	baselines := make(billing.MeterBaselines, len(rows))
	for _, row := range rows {
		baselines[row.ChargeID] = row.MeterEnd
	}
	return baselines, nil
}

// Create persists a new invoice with its items. A second invoice for the
// same lease and period start violates the unique index and comes back as
// ErrDuplicatePeriod.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return billing.ErrDuplicatePeriod
		}
		return err
	}
	return nil
}

// SaveWithLock persists the invoice and its items, guarded by the version
// column. expectedVersion is the version read before mutating the aggregate.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice, expectedVersion int) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND version = ?", invoice.ID, expectedVersion).
			Omit("Items").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountForOrg counts all invoices for an organization
func (r *GormInvoiceRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// OverdueSummaryForOrg aggregates issued invoices past their due date
func (r *GormInvoiceRepository) OverdueSummaryForOrg(ctx context.Context, organizationID uuid.UUID, now time.Time) (*billing.OverdueSummary, error) {
	var summary billing.OverdueSummary
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_cents), 0) AS total_cents").
		Where("organization_id = ? AND status = ? AND due_date < ?",
			organizationID, billing.InvoiceStatusIssued, now).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *GormInvoiceRepository) applyConditions(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Status != nil {
		now := filter.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		switch *filter.Status {
		case billing.InvoiceStatusOverdue:
			query = query.Where("status = ? AND due_date < ?", billing.InvoiceStatusIssued, now)
		case billing.InvoiceStatusIssued:
			// Plain ISSUED excludes the overdue slice.
			query = query.Where("status = ? AND due_date >= ?", billing.InvoiceStatusIssued, now)
		default:
			query = query.Where("status = ?", *filter.Status)
		}
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []*billing.Invoice {
	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}
