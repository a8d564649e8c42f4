package leasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/shared"
)

// LeaseFilter defines filtering options for lease queries
type LeaseFilter struct {
	shared.Filter
	Status   *LeaseStatus
	RoomID   *uuid.UUID
	TenantID *uuid.UUID
}

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	// FindByID finds a lease (with its charges) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)

	// FindByIDForOrg finds a lease by ID scoped to an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Lease, error)

	// FindAllForOrg finds all leases for an organization with filtering
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter LeaseFilter) ([]Lease, error)

	// FindBillable finds every ACTIVE lease across all organizations.
	// The billing run walks this set.
	FindBillable(ctx context.Context) ([]Lease, error)

	// FindBillableForOrg finds the ACTIVE leases of one organization.
	FindBillableForOrg(ctx context.Context, organizationID uuid.UUID) ([]Lease, error)

	// Save creates or updates a lease together with its charges
	Save(ctx context.Context, lease *Lease) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, lease *Lease) error

	// CountForOrg counts leases for an organization
	CountForOrg(ctx context.Context, organizationID uuid.UUID, filter LeaseFilter) (int64, error)
}

// ApartmentRepository defines the interface for apartment persistence
type ApartmentRepository interface {
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Apartment, error)
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Apartment, error)
	Save(ctx context.Context, apartment *Apartment) error
	DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error
	CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error)
}

// RoomRepository defines the interface for room persistence
type RoomRepository interface {
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Room, error)
	FindByApartment(ctx context.Context, organizationID, apartmentID uuid.UUID) ([]Room, error)
	Save(ctx context.Context, room *Room) error
	DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*Tenant, error)
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
	DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error
	CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error)
}
