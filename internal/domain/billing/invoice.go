package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the stored status of an invoice.
// OVERDUE is deliberately absent: it is a projection of ISSUED against the
// clock (see DisplayStatus), never a stored value, so it can never drift.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "DRAFT"
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
	InvoiceStatusVoid   InvoiceStatus = "VOID"

	// InvoiceStatusOverdue is a display-only status, valid in API responses
	// and filters but never persisted.
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// IsValid checks if the status is a valid stored InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}

// ItemKind classifies an invoice line
type ItemKind string

const (
	ItemKindRent    ItemKind = "RENT"
	ItemKindDeposit ItemKind = "DEPOSIT"
	ItemKindCharge  ItemKind = "CHARGE"
)

// ItemStatus tracks metered-consumption confirmation. FIXED and DEPOSIT
// items are born CONFIRMED; only METERED items start PENDING_READING.
type ItemStatus string

const (
	ItemStatusPendingReading ItemStatus = "PENDING_READING"
	ItemStatusConfirmed      ItemStatus = "CONFIRMED"
)

// InvoiceItem is one charged line on an invoice
type InvoiceItem struct {
	ID          uuid.UUID          `json:"id"`
	Kind        ItemKind           `json:"kind"`
	Mode        leasing.ChargeMode `json:"mode,omitempty"` // empty for DEPOSIT
	ChargeID    *uuid.UUID         `json:"charge_id,omitempty"`
	Description string             `json:"description"`
	Status      ItemStatus         `json:"status"`
	UnitPrice   valueobject.Money  `json:"unit_price"` // METERED only
	UnitName    string             `json:"unit_name,omitempty"`
	MeterStart  *decimal.Decimal   `json:"meter_start,omitempty"`
	MeterEnd    *decimal.Decimal   `json:"meter_end,omitempty"`
	Quantity    *decimal.Decimal   `json:"quantity,omitempty"`
	Amount      *valueobject.Money `json:"amount,omitempty"` // nil while a reading is pending
}

// IsConfirmed returns true once the item's amount is final
func (i *InvoiceItem) IsConfirmed() bool {
	return i.Status == ItemStatusConfirmed
}

// AmountCents returns the item's amount in cents; unconfirmed metered items
// contribute zero until their reading arrives.
func (i *InvoiceItem) AmountCents() int64 {
	if i.Amount == nil {
		return 0
	}
	return i.Amount.Cents()
}

// Invoice is one billing period's bill for a lease. At most one invoice
// exists per (lease, period start); the persistence layer enforces this
// with a unique constraint.
type Invoice struct {
	shared.OrgAggregateRoot
	InvoiceNumber string            `json:"invoice_number"`
	LeaseID       uuid.UUID         `json:"lease_id"`
	PeriodStart   time.Time         `json:"period_start"`
	PeriodEnd     time.Time         `json:"period_end"` // exclusive
	DueDate       time.Time         `json:"due_date"`
	Status        InvoiceStatus     `json:"status"`
	Total         valueobject.Money `json:"total"`
	Items         []InvoiceItem     `json:"items"`
	IssuedAt      *time.Time        `json:"issued_at,omitempty"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	VoidedAt      *time.Time        `json:"voided_at,omitempty"`
	VoidReason    string            `json:"void_reason,omitempty"`
}

// Period returns the invoice's billing period
func (inv *Invoice) Period() valueobject.Period {
	return valueobject.Period{Start: inv.PeriodStart, End: inv.PeriodEnd}
}

// HasPendingReadings returns true while any metered item awaits its reading
func (inv *Invoice) HasPendingReadings() bool {
	for i := range inv.Items {
		if inv.Items[i].Status == ItemStatusPendingReading {
			return true
		}
	}
	return false
}

// recomputeTotal keeps the invariant total == sum of item amounts, with
// unconfirmed items contributing zero.
func (inv *Invoice) recomputeTotal() {
	var cents int64
	for i := range inv.Items {
		cents += inv.Items[i].AmountCents()
	}
	inv.Total = valueobject.NewCents(cents)
}

// ConfirmReading records the meter reading for a metered item and finalizes
// its amount. This is the only mutation path for a metered amount; once
// confirmed the item is immutable (corrections mean voiding and rebuilding
// the invoice, not editing in place).
//
// meterStart may override the pre-filled baseline; pass nil to keep it.
func (inv *Invoice) ConfirmReading(itemID uuid.UUID, meterEnd decimal.Decimal, meterStart *decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return NewInvalidTransitionError(fmt.Sprintf("Cannot confirm readings on a %s invoice", inv.Status))
	}

	var item *InvoiceItem
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			item = &inv.Items[i]
			break
		}
	}
	if item == nil {
		return shared.ErrNotFound
	}
	if item.Mode != leasing.ChargeModeMetered {
		return NewInvalidReadingError("Only metered items take meter readings")
	}
	if item.Status != ItemStatusPendingReading {
		return NewInvalidReadingError("Meter reading has already been confirmed")
	}

	start := decimal.Zero
	if item.MeterStart != nil {
		start = *item.MeterStart
	}
	if meterStart != nil {
		start = *meterStart
	}
	if start.IsNegative() || meterEnd.IsNegative() {
		return NewInvalidReadingError("Meter readings cannot be negative")
	}
	if meterEnd.LessThan(start) {
		return NewInvalidReadingError(fmt.Sprintf("Meter end %s is below meter start %s", meterEnd, start))
	}

	quantity := meterEnd.Sub(start)
	amount := valueobject.FromDecimal(quantity.Mul(item.UnitPrice.Decimal()), item.UnitPrice.Currency())

	item.MeterStart = &start
	item.MeterEnd = &meterEnd
	item.Quantity = &quantity
	item.Amount = &amount
	item.Status = ItemStatusConfirmed

	inv.recomputeTotal()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewItemReadingConfirmedEvent(inv, item))

	return nil
}

// Issue transitions the invoice DRAFT -> ISSUED, freezing the total.
// Every item must be confirmed first; an invoice with a pending reading can
// never reach ISSUED.
func (inv *Invoice) Issue() error {
	if inv.Status != InvoiceStatusDraft {
		return NewInvalidTransitionError(fmt.Sprintf("Cannot issue an invoice in %s status", inv.Status))
	}
	if inv.HasPendingReadings() {
		return NewPendingItemsError("Invoice has items awaiting meter readings")
	}

	now := time.Now()
	inv.recomputeTotal()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// MarkPaid transitions the invoice ISSUED -> PAID. An overdue invoice is
// still ISSUED underneath, so late payment needs no special case.
func (inv *Invoice) MarkPaid() error {
	if inv.Status != InvoiceStatusIssued {
		return NewInvalidTransitionError(fmt.Sprintf("Cannot mark a %s invoice as paid", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// Void cancels the invoice from DRAFT or ISSUED. Paid invoices are
// immutable history and cannot be voided; nothing ever deletes an invoice.
func (inv *Invoice) Void(reason string) error {
	if inv.Status != InvoiceStatusDraft && inv.Status != InvoiceStatusIssued {
		return NewInvalidTransitionError(fmt.Sprintf("Cannot void a %s invoice", inv.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))

	return nil
}

// DisplayStatus projects the stored status against the clock: an ISSUED
// invoice past its due date reads as OVERDUE. Pure function of (invoice, now).
func (inv *Invoice) DisplayStatus(now time.Time) InvoiceStatus {
	if inv.Status == InvoiceStatusIssued && now.After(inv.DueDate) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// IsOverdue reports whether the invoice displays as OVERDUE at the given time
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.DisplayStatus(now) == InvoiceStatusOverdue
}
