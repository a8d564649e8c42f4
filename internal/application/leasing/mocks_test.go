package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
)

// MockLeaseRepository is a mock implementation of leasing.LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindBillable(ctx context.Context) ([]leasing.Lease, error) {
	args := m.Called(ctx)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindBillableForOrg(ctx context.Context, organizationID uuid.UUID) ([]leasing.Lease, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter leasing.LeaseFilter) (int64, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockApartmentRepository is a mock implementation of leasing.ApartmentRepository
type MockApartmentRepository struct {
	mock.Mock
}

func (m *MockApartmentRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Apartment, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]leasing.Apartment, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).([]leasing.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) Save(ctx context.Context, apartment *leasing.Apartment) error {
	args := m.Called(ctx, apartment)
	return args.Error(0)
}

func (m *MockApartmentRepository) DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockApartmentRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRoomRepository is a mock implementation of leasing.RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Room, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByApartment(ctx context.Context, organizationID, apartmentID uuid.UUID) ([]leasing.Room, error) {
	args := m.Called(ctx, organizationID, apartmentID)
	return args.Get(0).([]leasing.Room), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, room *leasing.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

// MockTenantRepository is a mock implementation of leasing.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*leasing.Tenant, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]leasing.Tenant, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).([]leasing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *leasing.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) DeleteForOrg(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockTenantRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventBus is a mock implementation of shared.EventBus that records
// published events for assertions
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	m.Called(handler, eventTypes)
}

func (m *MockEventBus) Unsubscribe(handler shared.EventHandler) {
	m.Called(handler)
}

func (m *MockEventBus) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventBus) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
