package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/shared"
)

// InvoiceItemResponse represents an invoice line item in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID        `json:"id"`
	Kind        string           `json:"kind"`
	Mode        string           `json:"mode,omitempty"`
	ChargeID    *uuid.UUID       `json:"charge_id,omitempty"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	UnitPrice   *int64           `json:"unit_price_cents,omitempty"`
	UnitName    string           `json:"unit_name,omitempty"`
	MeterStart  *decimal.Decimal `json:"meter_start,omitempty"`
	MeterEnd    *decimal.Decimal `json:"meter_end,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	AmountCents *int64           `json:"amount_cents,omitempty"`
}

// InvoiceResponse represents an invoice in API responses. Status is the
// display status: an issued invoice past its due date reads OVERDUE.
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrganizationID uuid.UUID             `json:"organization_id"`
	InvoiceNumber  string                `json:"invoice_number"`
	LeaseID        uuid.UUID             `json:"lease_id"`
	PeriodStart    time.Time             `json:"period_start"`
	PeriodEnd      time.Time             `json:"period_end"`
	DueDate        time.Time             `json:"due_date"`
	Status         string                `json:"status"`
	StoredStatus   string                `json:"stored_status"`
	TotalCents     int64                 `json:"total_cents"`
	Currency       string                `json:"currency"`
	Items          []InvoiceItemResponse `json:"items"`
	IssuedAt       *time.Time            `json:"issued_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	VoidedAt       *time.Time            `json:"voided_at,omitempty"`
	VoidReason     string                `json:"void_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	LeaseID  *uuid.UUID `form:"lease_id"`
	Status   string     `form:"status"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ConfirmReadingRequest carries a meter reading for one pending item
type ConfirmReadingRequest struct {
	MeterEnd   decimal.Decimal  `json:"meter_end" binding:"required"`
	MeterStart *decimal.Decimal `json:"meter_start,omitempty"`
}

// VoidInvoiceRequest carries the mandatory void reason
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// InvoiceService provides application-level invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	eventBus    shared.EventBus
	clock       shared.Clock
}

// InvoiceServiceOption is a functional option for configuring InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithInvoiceClock injects a clock for the overdue projection
func WithInvoiceClock(clock shared.Clock) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.clock = clock
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	eventBus shared.EventBus,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		invoiceRepo: invoiceRepo,
		eventBus:    eventBus,
		clock:       shared.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(inv), nil
}

// List retrieves a paginated invoice list. Filtering by OVERDUE resolves
// against the due date; no OVERDUE status is ever stored.
func (s *InvoiceService) List(ctx context.Context, organizationID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
		LeaseID: filter.LeaseID,
		Now:     s.clock.Now(),
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		// OVERDUE is a valid filter even though it is never stored
		if !status.IsValid() && status != billing.InvoiceStatusOverdue {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status filter")
		}
		domainFilter.Status = &status
	}

	page, err := s.invoiceRepo.FindAllForOrg(ctx, organizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(page.Items))
	for _, inv := range page.Items {
		responses = append(responses, *s.toResponse(inv))
	}
	return responses, page.Total, nil
}

// ListByLease retrieves every invoice of one lease
func (s *InvoiceService) ListByLease(ctx context.Context, organizationID, leaseID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByLease(ctx, organizationID, leaseID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, *s.toResponse(inv))
	}
	return responses, nil
}

// ConfirmReading records the meter reading for a pending item, addressed by
// the item ID alone, and finalizes the item amount.
func (s *InvoiceService) ConfirmReading(ctx context.Context, organizationID, itemID uuid.UUID, req ConfirmReadingRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByItemID(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}

	expectedVersion := inv.Version
	if err := inv.ConfirmReading(itemID, req.MeterEnd, req.MeterStart); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)
	return s.toResponse(inv), nil
}

// Issue transitions a draft invoice to ISSUED
func (s *InvoiceService) Issue(ctx context.Context, organizationID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, organizationID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Issue()
	})
}

// MarkPaid settles an issued invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, organizationID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, organizationID, invoiceID, func(inv *billing.Invoice) error {
		return inv.MarkPaid()
	})
}

// Void cancels a draft or issued invoice
func (s *InvoiceService) Void(ctx context.Context, organizationID, invoiceID uuid.UUID, req VoidInvoiceRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, organizationID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Void(req.Reason)
	})
}

// OverdueSummary aggregates the organization's issued invoices past due
func (s *InvoiceService) OverdueSummary(ctx context.Context, organizationID uuid.UUID) (*billing.OverdueSummary, error) {
	return s.invoiceRepo.OverdueSummaryForOrg(ctx, organizationID, s.clock.Now())
}

func (s *InvoiceService) transition(ctx context.Context, organizationID, invoiceID uuid.UUID, apply func(*billing.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	expectedVersion := inv.Version
	if err := apply(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)
	return s.toResponse(inv), nil
}

// publishEvents publishes domain events from the aggregate
func (s *InvoiceService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventBus == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	inv.ClearDomainEvents()
}

func (s *InvoiceService) toResponse(inv *billing.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		res := InvoiceItemResponse{
			ID:          item.ID,
			Kind:        string(item.Kind),
			Mode:        string(item.Mode),
			ChargeID:    item.ChargeID,
			Description: item.Description,
			Status:      string(item.Status),
			UnitName:    item.UnitName,
			MeterStart:  item.MeterStart,
			MeterEnd:    item.MeterEnd,
			Quantity:    item.Quantity,
		}
		if !item.UnitPrice.IsZero() {
			price := item.UnitPrice.Cents()
			res.UnitPrice = &price
		}
		if item.Amount != nil {
			cents := item.Amount.Cents()
			res.AmountCents = &cents
		}
		items = append(items, res)
	}

	return &InvoiceResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		InvoiceNumber:  inv.InvoiceNumber,
		LeaseID:        inv.LeaseID,
		PeriodStart:    inv.PeriodStart,
		PeriodEnd:      inv.PeriodEnd,
		DueDate:        inv.DueDate,
		Status:         inv.DisplayStatus(s.clock.Now()).String(),
		StoredStatus:   inv.Status.String(),
		TotalCents:     inv.Total.Cents(),
		Currency:       string(inv.Total.Currency()),
		Items:          items,
		IssuedAt:       inv.IssuedAt,
		PaidAt:         inv.PaidAt,
		VoidedAt:       inv.VoidedAt,
		VoidReason:     inv.VoidReason,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
}
