package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

func serviceInvoice(t *testing.T) (*billing.Invoice, uuid.UUID) {
	t.Helper()
	orgID := uuid.New()
	lease, err := leasing.NewLease(
		orgID,
		"L-SVC-001",
		uuid.New(),
		uuid.New(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		1,
		valueobject.NewCents(85000),
		valueobject.NewCents(0),
		leasing.NoEscalation(),
	)
	require.NoError(t, err)
	require.NoError(t, lease.AddCharge(leasing.NewMeteredCharge("Electricity", valueobject.NewCents(32), "kWh", 1)))

	inv, err := billing.BuildInvoice(lease, lease.StartDate, nil, billing.BuilderPolicy{GracePeriodDays: 14})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv, orgID
}

func pendingItemID(t *testing.T, inv *billing.Invoice) uuid.UUID {
	t.Helper()
	for _, item := range inv.Items {
		if item.Status == billing.ItemStatusPendingReading {
			return item.ID
		}
	}
	t.Fatal("no pending item")
	return uuid.Nil
}

func TestInvoiceService_ConfirmReading(t *testing.T) {
	inv, orgID := serviceInvoice(t)
	itemID := pendingItemID(t, inv)

	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)
	invoiceRepo.On("FindByItemID", mock.Anything, orgID, itemID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv, inv.Version).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := NewInvoiceService(invoiceRepo, bus)
	res, err := svc.ConfirmReading(context.Background(), orgID, itemID, ConfirmReadingRequest{
		MeterEnd: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	// 850.00 rent + 250 kWh at 0.32
	assert.Equal(t, int64(85000+8000), res.TotalCents)
	invoiceRepo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestInvoiceService_ConfirmReading_InvalidReadingNotSaved(t *testing.T) {
	inv, orgID := serviceInvoice(t)
	itemID := pendingItemID(t, inv)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindByItemID", mock.Anything, orgID, itemID).Return(inv, nil)

	svc := NewInvoiceService(invoiceRepo, nil)
	start := decimal.NewFromInt(300)
	_, err := svc.ConfirmReading(context.Background(), orgID, itemID, ConfirmReadingRequest{
		MeterEnd:   decimal.NewFromInt(250),
		MeterStart: &start,
	})
	require.Error(t, err)
	assert.True(t, billing.IsInvalidReading(err))
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Issue_BlockedByPendingItems(t *testing.T) {
	inv, orgID := serviceInvoice(t)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, inv.ID).Return(inv, nil)

	svc := NewInvoiceService(invoiceRepo, nil)
	_, err := svc.Issue(context.Background(), orgID, inv.ID)
	require.Error(t, err)
	assert.True(t, billing.IsPendingItems(err))
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_IssueThenPay(t *testing.T) {
	inv, orgID := serviceInvoice(t)
	require.NoError(t, inv.ConfirmReading(pendingItemID(t, inv), decimal.NewFromInt(100), nil))
	inv.ClearDomainEvents()

	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)
	invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv, mock.AnythingOfType("int")).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := NewInvoiceService(invoiceRepo, bus)

	res, err := svc.Issue(context.Background(), orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ISSUED", res.StoredStatus)

	res, err = svc.MarkPaid(context.Background(), orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", res.Status)
}

func TestInvoiceService_Void(t *testing.T) {
	inv, orgID := serviceInvoice(t)

	invoiceRepo := new(MockInvoiceRepository)
	bus := new(MockEventBus)
	invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv, mock.AnythingOfType("int")).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := NewInvoiceService(invoiceRepo, bus)
	res, err := svc.Void(context.Background(), orgID, inv.ID, VoidInvoiceRequest{Reason: "duplicate entry"})
	require.NoError(t, err)
	assert.Equal(t, "VOID", res.Status)
	assert.Equal(t, "duplicate entry", res.VoidReason)
}

func TestInvoiceService_List_OverdueFilterAccepted(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindAllForOrg", mock.Anything, orgID, mock.MatchedBy(func(f billing.InvoiceFilter) bool {
		return f.Status != nil && *f.Status == billing.InvoiceStatusOverdue && f.Now.Equal(now)
	})).Return(&shared.Paginated[*billing.Invoice]{Items: []*billing.Invoice{}}, nil)

	svc := NewInvoiceService(invoiceRepo, nil, WithInvoiceClock(shared.FixedClock{Instant: now}))
	_, _, err := svc.List(context.Background(), orgID, InvoiceListFilter{Status: "OVERDUE"})
	require.NoError(t, err)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_List_RejectsUnknownStatus(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewInvoiceService(invoiceRepo, nil)

	_, _, err := svc.List(context.Background(), uuid.New(), InvoiceListFilter{Status: "SETTLED"})
	assert.Error(t, err)
}

func TestInvoiceService_DisplayStatusInResponses(t *testing.T) {
	inv, orgID := serviceInvoice(t)
	require.NoError(t, inv.ConfirmReading(pendingItemID(t, inv), decimal.NewFromInt(100), nil))
	require.NoError(t, inv.Issue())
	inv.ClearDomainEvents()

	pastDue := inv.DueDate.AddDate(0, 0, 3)
	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, inv.ID).Return(inv, nil)

	svc := NewInvoiceService(invoiceRepo, nil, WithInvoiceClock(shared.FixedClock{Instant: pastDue}))
	res, err := svc.GetByID(context.Background(), orgID, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, "OVERDUE", res.Status)
	assert.Equal(t, "ISSUED", res.StoredStatus)
}

func TestInvoiceService_OverdueSummary(t *testing.T) {
	orgID := uuid.New()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("OverdueSummaryForOrg", mock.Anything, orgID, now).
		Return(&billing.OverdueSummary{Count: 2, TotalCents: 170000}, nil)

	svc := NewInvoiceService(invoiceRepo, nil, WithInvoiceClock(shared.FixedClock{Instant: now}))
	summary, err := svc.OverdueSummary(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, int64(170000), summary.TotalCents)
}
