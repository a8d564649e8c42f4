package leasing

import (
	"time"

	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/shared"
)

// LeaseCreatedEvent is raised when a new lease is drafted
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	LeaseID     uuid.UUID `json:"lease_id"`
	LeaseNumber string    `json:"lease_number"`
	RoomID      uuid.UUID `json:"room_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// EventType returns the event type name
func (e *LeaseCreatedEvent) EventType() string {
	return "LeaseCreated"
}

// NewLeaseCreatedEvent creates a new LeaseCreatedEvent
func NewLeaseCreatedEvent(l *Lease) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseCreated", "Lease", l.ID, l.OrganizationID),
		LeaseID:         l.ID,
		LeaseNumber:     l.LeaseNumber,
		RoomID:          l.RoomID,
		TenantID:        l.TenantID,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
	}
}

// LeaseActivatedEvent is raised when a lease becomes billable
type LeaseActivatedEvent struct {
	shared.BaseDomainEvent
	LeaseID     uuid.UUID `json:"lease_id"`
	LeaseNumber string    `json:"lease_number"`
	StartDate   time.Time `json:"start_date"`
}

// EventType returns the event type name
func (e *LeaseActivatedEvent) EventType() string {
	return "LeaseActivated"
}

// NewLeaseActivatedEvent creates a new LeaseActivatedEvent
func NewLeaseActivatedEvent(l *Lease) *LeaseActivatedEvent {
	return &LeaseActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseActivated", "Lease", l.ID, l.OrganizationID),
		LeaseID:         l.ID,
		LeaseNumber:     l.LeaseNumber,
		StartDate:       l.StartDate,
	}
}

// LeaseEndedEvent is raised when a lease runs to its natural end
type LeaseEndedEvent struct {
	shared.BaseDomainEvent
	LeaseID     uuid.UUID `json:"lease_id"`
	LeaseNumber string    `json:"lease_number"`
	EndDate     time.Time `json:"end_date"`
}

// EventType returns the event type name
func (e *LeaseEndedEvent) EventType() string {
	return "LeaseEnded"
}

// NewLeaseEndedEvent creates a new LeaseEndedEvent
func NewLeaseEndedEvent(l *Lease) *LeaseEndedEvent {
	return &LeaseEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseEnded", "Lease", l.ID, l.OrganizationID),
		LeaseID:         l.ID,
		LeaseNumber:     l.LeaseNumber,
		EndDate:         l.EndDate,
	}
}

// LeaseTerminatedEvent is raised when a lease is cut short
type LeaseTerminatedEvent struct {
	shared.BaseDomainEvent
	LeaseID       uuid.UUID `json:"lease_id"`
	LeaseNumber   string    `json:"lease_number"`
	EffectiveDate time.Time `json:"effective_date"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *LeaseTerminatedEvent) EventType() string {
	return "LeaseTerminated"
}

// NewLeaseTerminatedEvent creates a new LeaseTerminatedEvent
func NewLeaseTerminatedEvent(l *Lease, effectiveDate time.Time) *LeaseTerminatedEvent {
	return &LeaseTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseTerminated", "Lease", l.ID, l.OrganizationID),
		LeaseID:         l.ID,
		LeaseNumber:     l.LeaseNumber,
		EffectiveDate:   effectiveDate,
		Reason:          l.TerminationReason,
	}
}
