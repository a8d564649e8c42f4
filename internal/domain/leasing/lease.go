package leasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// LeaseStatus represents the lifecycle status of a lease
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "DRAFT"      // Contract drafted, not yet billable
	LeaseStatusActive     LeaseStatus = "ACTIVE"     // Billable; the billing run materializes invoices
	LeaseStatusEnded      LeaseStatus = "ENDED"      // Ran to its natural end date
	LeaseStatusTerminated LeaseStatus = "TERMINATED" // Cut short before the end date
)

// IsValid checks if the status is a valid LeaseStatus
func (s LeaseStatus) IsValid() bool {
	switch s {
	case LeaseStatusDraft, LeaseStatusActive, LeaseStatusEnded, LeaseStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation of LeaseStatus
func (s LeaseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the lease can no longer change state
func (s LeaseStatus) IsTerminal() bool {
	return s == LeaseStatusEnded || s == LeaseStatusTerminated
}

// EscalationType represents the kind of scheduled rent increase
type EscalationType string

const (
	EscalationNone    EscalationType = "NONE"
	EscalationFixed   EscalationType = "FIXED"
	EscalationPercent EscalationType = "PERCENT"
)

// IsValid checks if the escalation type is valid
func (t EscalationType) IsValid() bool {
	switch t {
	case EscalationNone, EscalationFixed, EscalationPercent:
		return true
	}
	return false
}

// RentEscalation describes the lease's scheduled rent increase rule.
// FIXED adds Amount every IntervalMonths; PERCENT compounds Percent on the
// most recent increased value every IntervalMonths.
type RentEscalation struct {
	Type           EscalationType    `json:"type"`
	Amount         valueobject.Money `json:"amount"`  // FIXED increment per interval
	Percent        decimal.Decimal   `json:"percent"` // PERCENT increase per interval
	IntervalMonths int               `json:"interval_months"`
}

// NoEscalation returns the rule for leases without rent increases
func NoEscalation() RentEscalation {
	return RentEscalation{Type: EscalationNone, IntervalMonths: 12, Percent: decimal.Zero}
}

// Validate checks the escalation rule's internal consistency
func (e RentEscalation) Validate() error {
	if !e.Type.IsValid() {
		return shared.NewDomainError("INVALID_ESCALATION", "Rent escalation type is not valid")
	}
	if e.Type == EscalationNone {
		return nil
	}
	if e.IntervalMonths < 1 {
		return shared.NewDomainError("INVALID_ESCALATION", "Rent escalation interval must be at least one month")
	}
	if e.Type == EscalationFixed && e.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_ESCALATION", "Fixed rent increase cannot be negative")
	}
	if e.Type == EscalationPercent && e.Percent.IsNegative() {
		return shared.NewDomainError("INVALID_ESCALATION", "Percent rent increase cannot be negative")
	}
	return nil
}

// Lease represents a tenancy contract for one room/tenant pair.
// It is the aggregate root owning the lease's recurring charges.
type Lease struct {
	shared.OrgAggregateRoot
	LeaseNumber        string            `json:"lease_number"`
	RoomID             uuid.UUID         `json:"room_id"`
	TenantID           uuid.UUID         `json:"tenant_id"`
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"` // exclusive; periods never start at or after it
	BillingCycleMonths int               `json:"billing_cycle_months"`
	BaseRent           valueobject.Money `json:"base_rent"`
	Deposit            valueobject.Money `json:"deposit"` // billed once, on the first invoice
	Escalation         RentEscalation    `json:"escalation"`
	Status             LeaseStatus       `json:"status"`
	TerminatedAt       *time.Time        `json:"terminated_at,omitempty"`
	TerminationReason  string            `json:"termination_reason,omitempty"`
	Charges            []LeaseCharge     `json:"charges"`
}

// NewLease creates a new lease in DRAFT status
func NewLease(
	organizationID uuid.UUID,
	leaseNumber string,
	roomID uuid.UUID,
	tenantID uuid.UUID,
	startDate, endDate time.Time,
	billingCycleMonths int,
	baseRent valueobject.Money,
	deposit valueobject.Money,
	escalation RentEscalation,
) (*Lease, error) {
	if leaseNumber == "" {
		return nil, shared.NewDomainError("INVALID_LEASE_NUMBER", "Lease number cannot be empty")
	}
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room ID cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	startDate = valueobject.Date(startDate)
	endDate = valueobject.Date(endDate)
	if !startDate.Before(endDate) {
		return nil, shared.NewDomainError("INVALID_LEASE_DATES", "Lease start date must be before end date")
	}
	if billingCycleMonths < 1 {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "Billing cycle must be at least one month")
	}
	if baseRent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RENT", "Base rent cannot be negative")
	}
	if deposit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DEPOSIT", "Deposit cannot be negative")
	}
	if err := escalation.Validate(); err != nil {
		return nil, err
	}

	l := &Lease{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(organizationID),
		LeaseNumber:        leaseNumber,
		RoomID:             roomID,
		TenantID:           tenantID,
		StartDate:          startDate,
		EndDate:            endDate,
		BillingCycleMonths: billingCycleMonths,
		BaseRent:           baseRent,
		Deposit:            deposit,
		Escalation:         escalation,
		Status:             LeaseStatusDraft,
		Charges:            []LeaseCharge{},
	}

	l.AddDomainEvent(NewLeaseCreatedEvent(l))

	return l, nil
}

// Activate transitions the lease from DRAFT to ACTIVE, making it billable
func (l *Lease) Activate() error {
	if l.Status != LeaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot activate lease in %s status", l.Status))
	}
	l.Status = LeaseStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseActivatedEvent(l))

	return nil
}

// End marks the lease as having run to its natural end date
func (l *Lease) End() error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot end lease in %s status", l.Status))
	}
	l.Status = LeaseStatusEnded
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseEndedEvent(l))

	return nil
}

// Terminate cuts the lease short at effectiveDate. Periods starting at or
// after effectiveDate are never billed; already-materialized invoices are
// untouched.
func (l *Lease) Terminate(effectiveDate time.Time, reason string) error {
	if l.Status != LeaseStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot terminate lease in %s status", l.Status))
	}
	effectiveDate = valueobject.Date(effectiveDate)
	if !effectiveDate.After(l.StartDate) {
		return shared.NewDomainError("INVALID_TERMINATION_DATE", "Termination date must be after the lease start date")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Termination reason is required")
	}

	now := time.Now()
	if effectiveDate.Before(l.EndDate) {
		l.EndDate = effectiveDate
	}
	l.Status = LeaseStatusTerminated
	l.TerminatedAt = &now
	l.TerminationReason = reason
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewLeaseTerminatedEvent(l, effectiveDate))

	return nil
}

// AddCharge attaches a recurring charge to the lease
func (l *Lease) AddCharge(charge LeaseCharge) error {
	if l.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot add charges to an ended or terminated lease")
	}
	if err := charge.Validate(); err != nil {
		return err
	}
	l.Charges = append(l.Charges, charge)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// DeactivateCharge disables a charge; the resolver skips inactive charges
// from the next billing period onwards.
func (l *Lease) DeactivateCharge(chargeID uuid.UUID) error {
	for i := range l.Charges {
		if l.Charges[i].ID == chargeID {
			l.Charges[i].IsActive = false
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// ActiveCharges returns the charges currently eligible for billing
func (l *Lease) ActiveCharges() []LeaseCharge {
	active := make([]LeaseCharge, 0, len(l.Charges))
	for _, c := range l.Charges {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active
}

// PeriodAt returns the billing period with the given zero-based index.
// Period ends are anchored to the lease start date, not the clamped period
// start, so a lease starting on the 29th-31st keeps each period's end equal
// to the next period's start across shorter months.
func (l *Lease) PeriodAt(index int) valueobject.Period {
	return valueobject.PeriodOf(l.StartDate, index, l.BillingCycleMonths)
}

// PeriodIndexOf returns the zero-based index of the billing period starting
// at periodStart, or an error if periodStart does not fall on a cycle
// boundary of this lease.
func (l *Lease) PeriodIndexOf(periodStart time.Time) (int, error) {
	months := valueobject.MonthsBetween(l.StartDate, periodStart)
	if months < 0 || months%l.BillingCycleMonths != 0 {
		return 0, shared.NewDomainError("INVALID_PERIOD", fmt.Sprintf("%s is not a billing period boundary of lease %s", periodStart.Format("2006-01-02"), l.LeaseNumber))
	}
	index := months / l.BillingCycleMonths
	if !l.PeriodAt(index).Start.Equal(valueobject.Date(periodStart)) {
		return 0, shared.NewDomainError("INVALID_PERIOD", fmt.Sprintf("%s is not a billing period boundary of lease %s", periodStart.Format("2006-01-02"), l.LeaseNumber))
	}
	return index, nil
}

// IsBillable returns true if the billing run should consider this lease
func (l *Lease) IsBillable() bool {
	return l.Status == LeaseStatusActive
}
