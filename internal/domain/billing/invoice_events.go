package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/shared"
)

// InvoiceCreatedEvent is raised when the billing run materializes a draft
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	LeaseID       uuid.UUID `json:"lease_id"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	TotalCents    int64     `json:"total_cents"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		LeaseID:         inv.LeaseID,
		PeriodStart:     inv.PeriodStart,
		PeriodEnd:       inv.PeriodEnd,
		TotalCents:      inv.Total.Cents(),
	}
}

// InvoiceIssuedEvent is raised when an invoice leaves DRAFT
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	LeaseID       uuid.UUID `json:"lease_id"`
	DueDate       time.Time `json:"due_date"`
	TotalCents    int64     `json:"total_cents"`
}

// EventType returns the event type name
func (e *InvoiceIssuedEvent) EventType() string {
	return "InvoiceIssued"
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceIssued", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		LeaseID:         inv.LeaseID,
		DueDate:         inv.DueDate,
		TotalCents:      inv.Total.Cents(),
	}
}

// InvoicePaidEvent is raised when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	LeaseID       uuid.UUID `json:"lease_id"`
	TotalCents    int64     `json:"total_cents"`
	PaidAt        time.Time `json:"paid_at"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	paidAt := time.Now()
	if inv.PaidAt != nil {
		paidAt = *inv.PaidAt
	}
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		LeaseID:         inv.LeaseID,
		TotalCents:      inv.Total.Cents(),
		PaidAt:          paidAt,
	}
}

// InvoiceVoidedEvent is raised when an invoice is cancelled
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	LeaseID       uuid.UUID `json:"lease_id"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *InvoiceVoidedEvent) EventType() string {
	return "InvoiceVoided"
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceVoided", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		LeaseID:         inv.LeaseID,
		Reason:          inv.VoidReason,
	}
}

// InvoiceOverdueEvent is raised by the billing run when it observes an
// issued invoice past its due date. The stored status stays ISSUED; this
// event exists for the external notifier only.
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	LeaseID       uuid.UUID `json:"lease_id"`
	DueDate       time.Time `json:"due_date"`
	TotalCents    int64     `json:"total_cents"`
	ObservedAt    time.Time `json:"observed_at"`
}

// EventType returns the event type name
func (e *InvoiceOverdueEvent) EventType() string {
	return "InvoiceOverdue"
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice, observedAt time.Time) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceOverdue", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		LeaseID:         inv.LeaseID,
		DueDate:         inv.DueDate,
		TotalCents:      inv.Total.Cents(),
		ObservedAt:      observedAt,
	}
}

// ItemPendingReadingEvent is raised when a metered item is created and
// awaits its consumption reading
type ItemPendingReadingEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	ItemID        uuid.UUID `json:"item_id"`
	Description   string    `json:"description"`
	UnitName      string    `json:"unit_name"`
}

// EventType returns the event type name
func (e *ItemPendingReadingEvent) EventType() string {
	return "ItemPendingReading"
}

// NewItemPendingReadingEvent creates a new ItemPendingReadingEvent
func NewItemPendingReadingEvent(inv *Invoice, item *InvoiceItem) *ItemPendingReadingEvent {
	return &ItemPendingReadingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ItemPendingReading", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ItemID:          item.ID,
		Description:     item.Description,
		UnitName:        item.UnitName,
	}
}

// ItemReadingConfirmedEvent is raised when a metered item's amount becomes final
type ItemReadingConfirmedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID `json:"invoice_id"`
	ItemID      uuid.UUID `json:"item_id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
}

// EventType returns the event type name
func (e *ItemReadingConfirmedEvent) EventType() string {
	return "ItemReadingConfirmed"
}

// NewItemReadingConfirmedEvent creates a new ItemReadingConfirmedEvent
func NewItemReadingConfirmedEvent(inv *Invoice, item *InvoiceItem) *ItemReadingConfirmedEvent {
	return &ItemReadingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ItemReadingConfirmed", "Invoice", inv.ID, inv.OrganizationID),
		InvoiceID:       inv.ID,
		ItemID:          item.ID,
		Description:     item.Description,
		AmountCents:     item.AmountCents(),
	}
}
