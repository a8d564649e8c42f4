package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/infrastructure/persistence/models"
)

var propertySortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// GormApartmentRepository implements leasing.ApartmentRepository using GORM
type GormApartmentRepository struct {
	db *gorm.DB
}

// NewGormApartmentRepository creates a new GormApartmentRepository
func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

func (r *GormApartmentRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Apartment, error) {
	var model models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormApartmentRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]leasing.Apartment, error) {
	var apartmentModels []models.ApartmentModel
	query := r.db.WithContext(ctx).Model(&models.ApartmentModel{}).
		Where("organization_id = ?", organizationID)
	query = applyNameSearch(query, filter.Search)
	query = query.Order(orderClause(filter, propertySortColumns))
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&apartmentModels).Error; err != nil {
		return nil, err
	}
	apartments := make([]leasing.Apartment, len(apartmentModels))
	for i, model := range apartmentModels {
		apartments[i] = *model.ToDomain()
	}
	return apartments, nil
}

func (r *GormApartmentRepository) Save(ctx context.Context, apartment *leasing.Apartment) error {
	return r.db.WithContext(ctx).Save(models.ApartmentModelFromDomain(apartment)).Error
}

func (r *GormApartmentRepository) DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ApartmentModel{}, "organization_id = ? AND id = ?", organizationID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormApartmentRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ApartmentModel{}).
		Where("organization_id = ?", organizationID)
	query = applyNameSearch(query, filter.Search)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormRoomRepository implements leasing.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Room, error) {
	var model models.RoomModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormRoomRepository) FindByApartment(ctx context.Context, organizationID, apartmentID uuid.UUID) ([]leasing.Room, error) {
	var roomModels []models.RoomModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND apartment_id = ?", organizationID, apartmentID).
		Order("name ASC").
		Find(&roomModels).Error; err != nil {
		return nil, err
	}
	rooms := make([]leasing.Room, len(roomModels))
	for i, model := range roomModels {
		rooms[i] = *model.ToDomain()
	}
	return rooms, nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *leasing.Room) error {
	return r.db.WithContext(ctx).Save(models.RoomModelFromDomain(room)).Error
}

func (r *GormRoomRepository) DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.RoomModel{}, "organization_id = ? AND id = ?", organizationID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormTenantRepository implements leasing.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

func (r *GormTenantRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormTenantRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]leasing.Tenant, error) {
	var tenantModels []models.TenantModel
	query := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("organization_id = ?", organizationID)
	query = applyNameSearch(query, filter.Search)
	query = query.Order(orderClause(filter, propertySortColumns))
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	tenants := make([]leasing.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = *model.ToDomain()
	}
	return tenants, nil
}

func (r *GormTenantRepository) Save(ctx context.Context, tenant *leasing.Tenant) error {
	return r.db.WithContext(ctx).Save(models.TenantModelFromDomain(tenant)).Error
}

func (r *GormTenantRepository) DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.TenantModel{}, "organization_id = ? AND id = ?", organizationID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTenantRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("organization_id = ?", organizationID)
	query = applyNameSearch(query, filter.Search)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyNameSearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	return query.Where("name ILIKE ?", "%"+search+"%")
}
