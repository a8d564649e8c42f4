package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/infrastructure/persistence/models"
)

// GormLeaseRepository implements leasing.LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

var leaseSortColumns = map[string]bool{
	"created_at":   true,
	"lease_number": true,
	"start_date":   true,
	"end_date":     true,
	"status":       true,
}

// FindByID finds a lease with its charges by ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).
		Preload("Charges").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds a lease by ID scoped to an organization
func (r *GormLeaseRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).
		Preload("Charges").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds all leases for an organization with filtering
func (r *GormLeaseRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	query := r.db.WithContext(ctx).Model(&models.LeaseModel{}).
		Preload("Charges").
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	leases := make([]leasing.Lease, len(leaseModels))
	for i, model := range leaseModels {
		leases[i] = *model.ToDomain()
	}
	return leases, nil
}

// FindBillable finds every ACTIVE lease across all organizations
func (r *GormLeaseRepository) FindBillable(ctx context.Context) ([]leasing.Lease, error) {
	return r.findActive(ctx, r.db.WithContext(ctx).Model(&models.LeaseModel{}))
}

// FindBillableForOrg finds the ACTIVE leases of one organization
func (r *GormLeaseRepository) FindBillableForOrg(ctx context.Context, organizationID uuid.UUID) ([]leasing.Lease, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaseModel{}).
		Where("organization_id = ?", organizationID)
	return r.findActive(ctx, query)
}

func (r *GormLeaseRepository) findActive(ctx context.Context, query *gorm.DB) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := query.
		Preload("Charges").
		Where("status = ?", leasing.LeaseStatusActive).
		Order("created_at ASC").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	leases := make([]leasing.Lease, len(leaseModels))
	for i, model := range leaseModels {
		leases[i] = *model.ToDomain()
	}
	return leases, nil
}

// Save creates or updates a lease together with its charges.
// Charges are replaced wholesale so removals propagate.
func (r *GormLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Charges").Save(model).Error; err != nil {
			return err
		}
		return r.saveCharges(tx, model)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LeaseModel{}).
			Where("id = ? AND version = ?", lease.ID, lease.Version-1).
			Omit("Charges").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveCharges(tx, model)
	})
}

func (r *GormLeaseRepository) saveCharges(tx *gorm.DB, model *models.LeaseModel) error {
	keep := make([]uuid.UUID, len(model.Charges))
	for i, c := range model.Charges {
		keep[i] = c.ID
	}
	del := tx.Where("lease_id = ?", model.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&models.LeaseChargeModel{}).Error; err != nil {
		return err
	}
	if len(model.Charges) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&model.Charges).Error
}

// CountForOrg counts leases for an organization
func (r *GormLeaseRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter leasing.LeaseFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LeaseModel{}).
		Where("organization_id = ?", organizationID)
	query = r.applyConditions(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLeaseRepository) applyConditions(query *gorm.DB, filter leasing.LeaseFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Search != "" {
		query = query.Where("lease_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func (r *GormLeaseRepository) applyFilter(query *gorm.DB, filter leasing.LeaseFilter) *gorm.DB {
	query = r.applyConditions(query, filter)
	query = query.Order(orderClause(filter.Filter, leaseSortColumns))
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}
