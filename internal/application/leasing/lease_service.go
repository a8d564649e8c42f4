package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// LeaseChargeResponse represents a recurring charge in API responses
type LeaseChargeResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Mode               string    `json:"mode"`
	FixedAmountCents   int64     `json:"fixed_amount_cents,omitempty"`
	UnitPriceCents     int64     `json:"unit_price_cents,omitempty"`
	UnitName           string    `json:"unit_name,omitempty"`
	BillingCycleMonths int       `json:"billing_cycle_months"`
	IsActive           bool      `json:"is_active"`
}

// EscalationResponse represents the rent escalation rule in API responses
type EscalationResponse struct {
	Type           string          `json:"type"`
	AmountCents    int64           `json:"amount_cents,omitempty"`
	Percent        decimal.Decimal `json:"percent,omitempty"`
	IntervalMonths int             `json:"interval_months,omitempty"`
}

// LeaseResponse represents a lease in API responses
type LeaseResponse struct {
	ID                 uuid.UUID             `json:"id"`
	OrganizationID     uuid.UUID             `json:"organization_id"`
	LeaseNumber        string                `json:"lease_number"`
	RoomID             uuid.UUID             `json:"room_id"`
	TenantID           uuid.UUID             `json:"tenant_id"`
	StartDate          time.Time             `json:"start_date"`
	EndDate            time.Time             `json:"end_date"`
	BillingCycleMonths int                   `json:"billing_cycle_months"`
	BaseRentCents      int64                 `json:"base_rent_cents"`
	DepositCents       int64                 `json:"deposit_cents"`
	Escalation         EscalationResponse    `json:"escalation"`
	Status             string                `json:"status"`
	TerminatedAt       *time.Time            `json:"terminated_at,omitempty"`
	TerminationReason  string                `json:"termination_reason,omitempty"`
	Charges            []LeaseChargeResponse `json:"charges"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	Version            int                   `json:"version"`
}

// CreateChargeRequest describes one recurring charge on lease creation
type CreateChargeRequest struct {
	Name               string `json:"name" binding:"required"`
	Mode               string `json:"mode" binding:"required,oneof=FIXED METERED"`
	FixedAmountCents   int64  `json:"fixed_amount_cents"`
	UnitPriceCents     int64  `json:"unit_price_cents"`
	UnitName           string `json:"unit_name"`
	BillingCycleMonths int    `json:"billing_cycle_months" binding:"required,min=1"`
}

// CreateEscalationRequest describes the rent escalation rule
type CreateEscalationRequest struct {
	Type           string          `json:"type" binding:"required,oneof=NONE FIXED PERCENT"`
	AmountCents    int64           `json:"amount_cents"`
	Percent        decimal.Decimal `json:"percent"`
	IntervalMonths int             `json:"interval_months"`
}

// CreateLeaseRequest represents a request to create a lease
type CreateLeaseRequest struct {
	LeaseNumber        string                   `json:"lease_number" binding:"required"`
	RoomID             uuid.UUID                `json:"room_id" binding:"required"`
	TenantID           uuid.UUID                `json:"tenant_id" binding:"required"`
	StartDate          time.Time                `json:"start_date" binding:"required"`
	EndDate            time.Time                `json:"end_date" binding:"required"`
	BillingCycleMonths int                      `json:"billing_cycle_months" binding:"required,min=1"`
	BaseRentCents      int64                    `json:"base_rent_cents" binding:"required,min=0"`
	DepositCents       int64                    `json:"deposit_cents" binding:"min=0"`
	Escalation         *CreateEscalationRequest `json:"escalation,omitempty"`
	Charges            []CreateChargeRequest    `json:"charges,omitempty"`
}

// TerminateLeaseRequest represents an early termination
type TerminateLeaseRequest struct {
	EffectiveDate time.Time `json:"effective_date" binding:"required"`
	Reason        string    `json:"reason" binding:"required"`
}

// LeaseListFilter defines filtering options for lease list queries
type LeaseListFilter struct {
	Status   string     `form:"status"`
	RoomID   *uuid.UUID `form:"room_id"`
	TenantID *uuid.UUID `form:"tenant_id"`
	Search   string     `form:"search"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// LeaseService provides application-level lease operations
type LeaseService struct {
	leaseRepo  leasing.LeaseRepository
	roomRepo   leasing.RoomRepository
	tenantRepo leasing.TenantRepository
	eventBus   shared.EventBus
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(
	leaseRepo leasing.LeaseRepository,
	roomRepo leasing.RoomRepository,
	tenantRepo leasing.TenantRepository,
	eventBus shared.EventBus,
) *LeaseService {
	return &LeaseService{
		leaseRepo:  leaseRepo,
		roomRepo:   roomRepo,
		tenantRepo: tenantRepo,
		eventBus:   eventBus,
	}
}

// Create creates a new draft lease with its recurring charges
func (s *LeaseService) Create(ctx context.Context, organizationID uuid.UUID, req CreateLeaseRequest) (*LeaseResponse, error) {
	if _, err := s.roomRepo.FindByIDForOrg(ctx, organizationID, req.RoomID); err != nil {
		return nil, err
	}
	if _, err := s.tenantRepo.FindByIDForOrg(ctx, organizationID, req.TenantID); err != nil {
		return nil, err
	}

	escalation := leasing.NoEscalation()
	if req.Escalation != nil {
		escalation = leasing.RentEscalation{
			Type:           leasing.EscalationType(req.Escalation.Type),
			Amount:         valueobject.NewCents(req.Escalation.AmountCents),
			Percent:        req.Escalation.Percent,
			IntervalMonths: req.Escalation.IntervalMonths,
		}
	}

	lease, err := leasing.NewLease(
		organizationID,
		req.LeaseNumber,
		req.RoomID,
		req.TenantID,
		req.StartDate,
		req.EndDate,
		req.BillingCycleMonths,
		valueobject.NewCents(req.BaseRentCents),
		valueobject.NewCents(req.DepositCents),
		escalation,
	)
	if err != nil {
		return nil, err
	}

	for _, c := range req.Charges {
		var charge leasing.LeaseCharge
		switch leasing.ChargeMode(c.Mode) {
		case leasing.ChargeModeFixed:
			charge = leasing.NewFixedCharge(c.Name, valueobject.NewCents(c.FixedAmountCents), c.BillingCycleMonths)
		case leasing.ChargeModeMetered:
			charge = leasing.NewMeteredCharge(c.Name, valueobject.NewCents(c.UnitPriceCents), c.UnitName, c.BillingCycleMonths)
		}
		if err := lease.AddCharge(charge); err != nil {
			return nil, err
		}
	}

	if err := s.leaseRepo.Save(ctx, lease); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lease)
	return toLeaseResponse(lease), nil
}

// GetByID retrieves a lease by ID
func (s *LeaseService) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForOrg(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toLeaseResponse(lease), nil
}

// List retrieves a paginated lease list
func (s *LeaseService) List(ctx context.Context, organizationID uuid.UUID, filter LeaseListFilter) ([]LeaseResponse, int64, error) {
	domainFilter := leasing.LeaseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		RoomID:   filter.RoomID,
		TenantID: filter.TenantID,
	}
	if filter.Status != "" {
		status := leasing.LeaseStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown lease status filter")
		}
		domainFilter.Status = &status
	}

	leases, err := s.leaseRepo.FindAllForOrg(ctx, organizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leaseRepo.CountForOrg(ctx, organizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LeaseResponse, 0, len(leases))
	for i := range leases {
		responses = append(responses, *toLeaseResponse(&leases[i]))
	}
	return responses, total, nil
}

// Activate makes a draft lease billable
func (s *LeaseService) Activate(ctx context.Context, organizationID, id uuid.UUID) (*LeaseResponse, error) {
	return s.transition(ctx, organizationID, id, func(l *leasing.Lease) error {
		return l.Activate()
	})
}

// End closes an active lease at its natural end date
func (s *LeaseService) End(ctx context.Context, organizationID, id uuid.UUID) (*LeaseResponse, error) {
	return s.transition(ctx, organizationID, id, func(l *leasing.Lease) error {
		return l.End()
	})
}

// Terminate cuts an active lease short
func (s *LeaseService) Terminate(ctx context.Context, organizationID, id uuid.UUID, req TerminateLeaseRequest) (*LeaseResponse, error) {
	return s.transition(ctx, organizationID, id, func(l *leasing.Lease) error {
		return l.Terminate(req.EffectiveDate, req.Reason)
	})
}

// AddCharge attaches a recurring charge to an existing lease
func (s *LeaseService) AddCharge(ctx context.Context, organizationID, id uuid.UUID, req CreateChargeRequest) (*LeaseResponse, error) {
	return s.transition(ctx, organizationID, id, func(l *leasing.Lease) error {
		var charge leasing.LeaseCharge
		switch leasing.ChargeMode(req.Mode) {
		case leasing.ChargeModeFixed:
			charge = leasing.NewFixedCharge(req.Name, valueobject.NewCents(req.FixedAmountCents), req.BillingCycleMonths)
		case leasing.ChargeModeMetered:
			charge = leasing.NewMeteredCharge(req.Name, valueobject.NewCents(req.UnitPriceCents), req.UnitName, req.BillingCycleMonths)
		}
		return l.AddCharge(charge)
	})
}

// DeactivateCharge stops a recurring charge from future periods
func (s *LeaseService) DeactivateCharge(ctx context.Context, organizationID, leaseID, chargeID uuid.UUID) (*LeaseResponse, error) {
	return s.transition(ctx, organizationID, leaseID, func(l *leasing.Lease) error {
		return l.DeactivateCharge(chargeID)
	})
}

func (s *LeaseService) transition(ctx context.Context, organizationID, id uuid.UUID, apply func(*leasing.Lease) error) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForOrg(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(lease); err != nil {
		return nil, err
	}
	if err := s.leaseRepo.SaveWithLock(ctx, lease); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lease)
	return toLeaseResponse(lease), nil
}

// publishEvents publishes domain events from the aggregate
func (s *LeaseService) publishEvents(ctx context.Context, lease *leasing.Lease) {
	if s.eventBus == nil {
		return
	}
	for _, event := range lease.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	lease.ClearDomainEvents()
}

func toLeaseResponse(l *leasing.Lease) *LeaseResponse {
	charges := make([]LeaseChargeResponse, 0, len(l.Charges))
	for _, c := range l.Charges {
		charges = append(charges, LeaseChargeResponse{
			ID:                 c.ID,
			Name:               c.Name,
			Mode:               string(c.Mode),
			FixedAmountCents:   c.FixedAmount.Cents(),
			UnitPriceCents:     c.UnitPrice.Cents(),
			UnitName:           c.UnitName,
			BillingCycleMonths: c.BillingCycleMonths,
			IsActive:           c.IsActive,
		})
	}

	return &LeaseResponse{
		ID:                 l.ID,
		OrganizationID:     l.OrganizationID,
		LeaseNumber:        l.LeaseNumber,
		RoomID:             l.RoomID,
		TenantID:           l.TenantID,
		StartDate:          l.StartDate,
		EndDate:            l.EndDate,
		BillingCycleMonths: l.BillingCycleMonths,
		BaseRentCents:      l.BaseRent.Cents(),
		DepositCents:       l.Deposit.Cents(),
		Escalation: EscalationResponse{
			Type:           string(l.Escalation.Type),
			AmountCents:    l.Escalation.Amount.Cents(),
			Percent:        l.Escalation.Percent,
			IntervalMonths: l.Escalation.IntervalMonths,
		},
		Status:            l.Status.String(),
		TerminatedAt:      l.TerminatedAt,
		TerminationReason: l.TerminationReason,
		Charges:           charges,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
		Version:           l.Version,
	}
}
