package billing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/shared"
)

// TenantNotifier delivers billing notifications to a tenant-facing channel.
// The default implementation only logs; mail or push delivery plugs in here.
type TenantNotifier interface {
	NotifyInvoiceIssued(ctx context.Context, e *billing.InvoiceIssuedEvent) error
	NotifyInvoiceOverdue(ctx context.Context, e *billing.InvoiceOverdueEvent) error
	NotifyReadingRequested(ctx context.Context, e *billing.ItemPendingReadingEvent) error
}

// LogNotifier is a TenantNotifier that writes structured log entries.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyInvoiceIssued(_ context.Context, e *billing.InvoiceIssuedEvent) error {
	n.logger.Info("invoice issued notification",
		zap.String("invoice_id", e.InvoiceID.String()),
		zap.String("invoice_number", e.InvoiceNumber),
		zap.String("lease_id", e.LeaseID.String()),
		zap.Time("due_date", e.DueDate),
		zap.Int64("total_cents", e.TotalCents),
	)
	return nil
}

func (n *LogNotifier) NotifyInvoiceOverdue(_ context.Context, e *billing.InvoiceOverdueEvent) error {
	n.logger.Warn("invoice overdue notification",
		zap.String("invoice_id", e.InvoiceID.String()),
		zap.String("invoice_number", e.InvoiceNumber),
		zap.String("lease_id", e.LeaseID.String()),
		zap.Time("due_date", e.DueDate),
		zap.Int64("total_cents", e.TotalCents),
	)
	return nil
}

func (n *LogNotifier) NotifyReadingRequested(_ context.Context, e *billing.ItemPendingReadingEvent) error {
	n.logger.Info("meter reading requested notification",
		zap.String("invoice_id", e.InvoiceID.String()),
		zap.String("item_id", e.ItemID.String()),
		zap.String("description", e.Description),
		zap.String("unit_name", e.UnitName),
	)
	return nil
}

// BillingNotificationHandler routes billing events to a TenantNotifier.
type BillingNotificationHandler struct {
	notifier TenantNotifier
	logger   *zap.Logger
}

// NewBillingNotificationHandler creates a new handler for billing notification events.
func NewBillingNotificationHandler(notifier TenantNotifier, logger *zap.Logger) *BillingNotificationHandler {
	return &BillingNotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in.
func (h *BillingNotificationHandler) EventTypes() []string {
	return []string{"InvoiceIssued", "InvoiceOverdue", "ItemPendingReading"}
}

// Handle dispatches a billing event to the notifier.
func (h *BillingNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.InvoiceIssuedEvent:
		return h.notifier.NotifyInvoiceIssued(ctx, e)
	case *billing.InvoiceOverdueEvent:
		return h.notifier.NotifyInvoiceOverdue(ctx, e)
	case *billing.ItemPendingReadingEvent:
		return h.notifier.NotifyReadingRequested(ctx, e)
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}
