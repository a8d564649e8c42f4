package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

func activeLease(t *testing.T, leaseNumber string, esc leasing.RentEscalation) *leasing.Lease {
	t.Helper()
	lease, err := leasing.NewLease(
		uuid.New(),
		leaseNumber,
		uuid.New(),
		uuid.New(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		1,
		valueobject.NewCents(85000),
		valueobject.NewCents(0),
		esc,
	)
	require.NoError(t, err)
	require.NoError(t, lease.Activate())
	lease.ClearDomainEvents()
	return lease
}

func newRunService(leaseRepo *MockLeaseRepository, invoiceRepo *MockInvoiceRepository, bus *MockEventBus, now time.Time) *BillingRunService {
	return NewBillingRunService(
		leaseRepo, invoiceRepo, bus, zap.NewNop(),
		WithClock(shared.FixedClock{Instant: now}),
		WithWorkerCount(2),
		WithBuilderPolicy(billing.BuilderPolicy{GracePeriodDays: 14}),
	)
}

func TestBillingRun_CreatesElapsedPeriods(t *testing.T) {
	lease := activeLease(t, "L-RUN-001", leasing.NoEscalation())
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{*lease}, nil)
	invoiceRepo.On("LastPeriodEnd", mock.Anything, lease.ID).Return(time.Time{}, nil)
	invoiceRepo.On("LastMeterReadings", mock.Anything, lease.ID).Return(billing.MeterBaselines{}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{}, nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	// January, February and March have begun by the 15th of March.
	assert.Equal(t, 1, report.LeasesExamined)
	assert.Equal(t, 3, report.InvoicesCreated)
	assert.Equal(t, 0, report.PeriodsSkipped)
	assert.Empty(t, report.Errors)
	invoiceRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestBillingRun_IsIdempotent(t *testing.T) {
	lease := activeLease(t, "L-RUN-002", leasing.NoEscalation())
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{*lease}, nil)
	invoiceRepo.On("LastPeriodEnd", mock.Anything, lease.ID).Return(time.Time{}, nil)
	invoiceRepo.On("LastMeterReadings", mock.Anything, lease.ID).Return(billing.MeterBaselines{}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(billing.ErrDuplicatePeriod)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{}, nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.InvoicesCreated)
	assert.Equal(t, 2, report.PeriodsSkipped)
	assert.Empty(t, report.Errors, "an already-billed period is not an error")
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBillingRun_ResumesAfterLastBilledPeriod(t *testing.T) {
	lease := activeLease(t, "L-RUN-003", leasing.NoEscalation())
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{*lease}, nil)
	// January and February are already billed.
	invoiceRepo.On("LastPeriodEnd", mock.Anything, lease.ID).
		Return(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	invoiceRepo.On("LastMeterReadings", mock.Anything, lease.ID).Return(billing.MeterBaselines{}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{}, nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.InvoicesCreated, "March and April")
}

func TestBillingRun_IsolatesLeaseFailures(t *testing.T) {
	good := activeLease(t, "L-RUN-004", leasing.NoEscalation())
	// Quarterly billing with a 5 month increase interval never aligns.
	badLease, err := leasing.NewLease(
		uuid.New(), "L-RUN-005", uuid.New(), uuid.New(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
		3,
		valueobject.NewCents(85000), valueobject.NewCents(0),
		leasing.RentEscalation{
			Type:           leasing.EscalationFixed,
			Amount:         valueobject.NewCents(5000),
			IntervalMonths: 5,
		},
	)
	require.NoError(t, err)
	require.NoError(t, badLease.Activate())
	badLease.ClearDomainEvents()

	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{*good, *badLease}, nil)
	invoiceRepo.On("LastPeriodEnd", mock.Anything, mock.Anything).Return(time.Time{}, nil)
	invoiceRepo.On("LastMeterReadings", mock.Anything, mock.Anything).Return(billing.MeterBaselines{}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{}, nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.LeasesExamined)
	assert.Equal(t, 1, report.InvoicesCreated, "the healthy lease is still billed")
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "L-RUN-005", report.Errors[0].LeaseNumber)
}

func TestBillingRun_EmitsOverdueEvents(t *testing.T) {
	lease := activeLease(t, "L-RUN-006", leasing.NoEscalation())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	overdueInv, err := billing.BuildInvoice(lease, lease.StartDate, nil, billing.BuilderPolicy{})
	require.NoError(t, err)
	require.NoError(t, overdueInv.Issue())
	overdueInv.ClearDomainEvents()

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{}, nil)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{overdueInv}, nil)
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == "InvoiceOverdue"
	})).Return(nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.OverdueDetected)
	bus.AssertExpectations(t)
}

func TestBillingRun_BillsMonthEndLeaseAcrossShortMonths(t *testing.T) {
	// A lease starting on the 31st clamps into February and must still
	// advance period by period without stalling on a boundary mismatch.
	lease, err := leasing.NewLease(
		uuid.New(), "L-RUN-031", uuid.New(), uuid.New(),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC),
		1,
		valueobject.NewCents(85000), valueobject.NewCents(0),
		leasing.NoEscalation(),
	)
	require.NoError(t, err)
	require.NoError(t, lease.Activate())
	lease.ClearDomainEvents()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	var created []*billing.Invoice
	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{*lease}, nil)
	invoiceRepo.On("LastPeriodEnd", mock.Anything, lease.ID).Return(time.Time{}, nil)
	invoiceRepo.On("LastMeterReadings", mock.Anything, lease.ID).Return(billing.MeterBaselines{}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*billing.Invoice))
		}).Return(nil)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{}, nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	// Jan 31, Feb 28, Mar 31 and Apr 30 have begun by May 1.
	assert.Equal(t, 4, report.InvoicesCreated)
	assert.Empty(t, report.Errors)

	require.Len(t, created, 4)
	starts := []time.Time{
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	for i, inv := range created {
		assert.Equal(t, starts[i], inv.PeriodStart)
		if i > 0 {
			assert.Equal(t, created[i-1].PeriodEnd, inv.PeriodStart,
				"periods must be contiguous")
		}
	}
}

func TestBillingRun_NeverBillsPartialFinalPeriod(t *testing.T) {
	// Lease ends mid-period stream: monthly periods, terminated at Feb 15.
	lease := activeLease(t, "L-RUN-007", leasing.NoEscalation())
	require.NoError(t, lease.Terminate(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), "moved out"))
	lease.Status = leasing.LeaseStatusActive // still listed until the run ends it
	lease.ClearDomainEvents()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	leaseRepo := new(MockLeaseRepository)
	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)

	leaseRepo.On("FindBillable", mock.Anything).Return([]leasing.Lease{*lease}, nil)
	invoiceRepo.On("LastPeriodEnd", mock.Anything, lease.ID).Return(time.Time{}, nil)
	invoiceRepo.On("LastMeterReadings", mock.Anything, lease.ID).Return(billing.MeterBaselines{}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	invoiceRepo.On("FindIssuedDueBefore", mock.Anything, now).Return([]*billing.Invoice{}, nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newRunService(leaseRepo, invoiceRepo, bus, now)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	// Only January fits fully before the Feb 15 end date.
	assert.Equal(t, 1, report.InvoicesCreated)
	assert.Empty(t, report.Errors)
}
