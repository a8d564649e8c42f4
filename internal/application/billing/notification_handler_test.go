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
)

type MockTenantNotifier struct {
	mock.Mock
}

func (m *MockTenantNotifier) NotifyInvoiceIssued(ctx context.Context, e *billing.InvoiceIssuedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTenantNotifier) NotifyInvoiceOverdue(ctx context.Context, e *billing.InvoiceOverdueEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTenantNotifier) NotifyReadingRequested(ctx context.Context, e *billing.ItemPendingReadingEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func TestBillingNotificationHandler_EventTypes(t *testing.T) {
	handler := NewBillingNotificationHandler(NewLogNotifier(zap.NewNop()), zap.NewNop())

	assert.ElementsMatch(t,
		[]string{"InvoiceIssued", "InvoiceOverdue", "ItemPendingReading"},
		handler.EventTypes())
}

func TestBillingNotificationHandler_Handle_InvoiceIssued(t *testing.T) {
	notifier := new(MockTenantNotifier)
	handler := NewBillingNotificationHandler(notifier, zap.NewNop())

	event := &billing.InvoiceIssuedEvent{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2026-000042",
		LeaseID:       uuid.New(),
		DueDate:       time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
		TotalCents:    85000,
	}
	notifier.On("NotifyInvoiceIssued", mock.Anything, event).Return(nil)

	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestBillingNotificationHandler_Handle_InvoiceOverdue(t *testing.T) {
	notifier := new(MockTenantNotifier)
	handler := NewBillingNotificationHandler(notifier, zap.NewNop())

	event := &billing.InvoiceOverdueEvent{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2026-000007",
		LeaseID:       uuid.New(),
		DueDate:       time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		TotalCents:    92500,
	}
	notifier.On("NotifyInvoiceOverdue", mock.Anything, event).Return(nil)

	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestBillingNotificationHandler_Handle_PendingReading(t *testing.T) {
	notifier := new(MockTenantNotifier)
	handler := NewBillingNotificationHandler(notifier, zap.NewNop())

	event := &billing.ItemPendingReadingEvent{
		InvoiceID:   uuid.New(),
		ItemID:      uuid.New(),
		Description: "Electricity",
		UnitName:    "kWh",
	}
	notifier.On("NotifyReadingRequested", mock.Anything, event).Return(nil)

	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestBillingNotificationHandler_Handle_UnexpectedEvent(t *testing.T) {
	notifier := new(MockTenantNotifier)
	handler := NewBillingNotificationHandler(notifier, zap.NewNop())

	err := handler.Handle(context.Background(), &billing.InvoicePaidEvent{
		InvoiceID: uuid.New(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected event type")
	notifier.AssertExpectations(t)
}
