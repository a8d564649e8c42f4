package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/homelease/backend/internal/domain/billing"
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

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByItemID(ctx context.Context, organizationID, itemID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, organizationID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByLease(ctx context.Context, organizationID, leaseID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, organizationID, leaseID)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID, filter billing.InvoiceFilter) (*shared.Paginated[*billing.Invoice], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) FindIssuedDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindIssuedDueBeforeForOrg(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, organizationID, cutoff)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) LastPeriodEnd(ctx context.Context, leaseID uuid.UUID) (time.Time, error) {
	args := m.Called(ctx, leaseID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockInvoiceRepository) LastMeterReadings(ctx context.Context, leaseID uuid.UUID) (billing.MeterBaselines, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(billing.MeterBaselines), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice, expectedVersion int) error {
	args := m.Called(ctx, invoice, expectedVersion)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForOrg(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) OverdueSummaryForOrg(ctx context.Context, organizationID uuid.UUID, now time.Time) (*billing.OverdueSummary, error) {
	args := m.Called(ctx, organizationID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.OverdueSummary), args.Error(1)
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
