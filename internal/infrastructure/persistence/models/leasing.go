package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// ApartmentModel is the persistence model for the Apartment aggregate root.
type ApartmentModel struct {
	OrgAggregateModel
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ApartmentModel) TableName() string {
	return "apartments"
}

// ToDomain converts the persistence model to a domain Apartment.
func (m *ApartmentModel) ToDomain() *leasing.Apartment {
	return &leasing.Apartment{
		OrgAggregateRoot: m.ToOrgAggregateRoot(),
		Name:             m.Name,
		Address:          m.Address,
	}
}

// FromDomain populates the persistence model from a domain Apartment.
func (m *ApartmentModel) FromDomain(a *leasing.Apartment) {
	m.FromDomainOrgAggregateRoot(a.OrgAggregateRoot)
	m.Name = a.Name
	m.Address = a.Address
}

// ApartmentModelFromDomain creates a new persistence model from a domain Apartment.
func ApartmentModelFromDomain(a *leasing.Apartment) *ApartmentModel {
	m := &ApartmentModel{}
	m.FromDomain(a)
	return m
}

// RoomModel is the persistence model for the Room aggregate root.
type RoomModel struct {
	OrgAggregateModel
	ApartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	SquareM     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the persistence model to a domain Room.
func (m *RoomModel) ToDomain() *leasing.Room {
	return &leasing.Room{
		OrgAggregateRoot: m.ToOrgAggregateRoot(),
		ApartmentID:      m.ApartmentID,
		Name:             m.Name,
		SquareM:          m.SquareM,
	}
}

// FromDomain populates the persistence model from a domain Room.
func (m *RoomModel) FromDomain(r *leasing.Room) {
	m.FromDomainOrgAggregateRoot(r.OrgAggregateRoot)
	m.ApartmentID = r.ApartmentID
	m.Name = r.Name
	m.SquareM = r.SquareM
}

// RoomModelFromDomain creates a new persistence model from a domain Room.
func RoomModelFromDomain(r *leasing.Room) *RoomModel {
	m := &RoomModel{}
	m.FromDomain(r)
	return m
}

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	OrgAggregateModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200)"`
	Phone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() *leasing.Tenant {
	return &leasing.Tenant{
		OrgAggregateRoot: m.ToOrgAggregateRoot(),
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Tenant.
func (m *TenantModel) FromDomain(t *leasing.Tenant) {
	m.FromDomainOrgAggregateRoot(t.OrgAggregateRoot)
	m.Name = t.Name
	m.Email = t.Email
	m.Phone = t.Phone
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant.
func TenantModelFromDomain(t *leasing.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// LeaseModel is the persistence model for the Lease aggregate root.
// The escalation rule is flattened into columns; charges live in their
// own table and load together with the lease.
type LeaseModel struct {
	OrgAggregateModel
	LeaseNumber              string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_leases_org_number,priority:2"`
	RoomID                   uuid.UUID          `gorm:"type:uuid;not null;index"`
	TenantID                 uuid.UUID          `gorm:"type:uuid;not null;index"`
	StartDate                time.Time          `gorm:"not null"`
	EndDate                  time.Time          `gorm:"not null"`
	BillingCycleMonths       int                `gorm:"not null;default:1"`
	BaseRentCents            valueobject.Money  `gorm:"type:bigint;not null"`
	DepositCents             valueobject.Money  `gorm:"type:bigint;not null"`
	EscalationType           string             `gorm:"type:varchar(20);not null;default:'NONE'"`
	EscalationAmountCents    valueobject.Money  `gorm:"type:bigint;not null;default:0"`
	EscalationPercent        decimal.Decimal    `gorm:"type:decimal(10,6);not null;default:0"`
	EscalationIntervalMonths int                `gorm:"not null;default:12"`
	Status                   leasing.LeaseStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	TerminatedAt             *time.Time
	TerminationReason        string             `gorm:"type:varchar(500)"`
	Charges                  []LeaseChargeModel `gorm:"foreignKey:LeaseID;references:ID"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease.
func (m *LeaseModel) ToDomain() *leasing.Lease {
	charges := make([]leasing.LeaseCharge, len(m.Charges))
	for i, c := range m.Charges {
		charges[i] = c.ToDomain()
	}
	return &leasing.Lease{
		OrgAggregateRoot:   m.ToOrgAggregateRoot(),
		LeaseNumber:        m.LeaseNumber,
		RoomID:             m.RoomID,
		TenantID:           m.TenantID,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		BillingCycleMonths: m.BillingCycleMonths,
		BaseRent:           m.BaseRentCents,
		Deposit:            m.DepositCents,
		Escalation: leasing.RentEscalation{
			Type:           leasing.EscalationType(m.EscalationType),
			Amount:         m.EscalationAmountCents,
			Percent:        m.EscalationPercent,
			IntervalMonths: m.EscalationIntervalMonths,
		},
		Status:            m.Status,
		TerminatedAt:      m.TerminatedAt,
		TerminationReason: m.TerminationReason,
		Charges:           charges,
	}
}

// FromDomain populates the persistence model from a domain Lease.
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainOrgAggregateRoot(l.OrgAggregateRoot)
	m.LeaseNumber = l.LeaseNumber
	m.RoomID = l.RoomID
	m.TenantID = l.TenantID
	m.StartDate = l.StartDate
	m.EndDate = l.EndDate
	m.BillingCycleMonths = l.BillingCycleMonths
	m.BaseRentCents = l.BaseRent
	m.DepositCents = l.Deposit
	m.EscalationType = string(l.Escalation.Type)
	m.EscalationAmountCents = l.Escalation.Amount
	m.EscalationPercent = l.Escalation.Percent
	m.EscalationIntervalMonths = l.Escalation.IntervalMonths
	m.Status = l.Status
	m.TerminatedAt = l.TerminatedAt
	m.TerminationReason = l.TerminationReason
	m.Charges = make([]LeaseChargeModel, len(l.Charges))
	for i, c := range l.Charges {
		m.Charges[i] = LeaseChargeModelFromDomain(l.ID, c)
	}
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease.
func LeaseModelFromDomain(l *leasing.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}

// LeaseChargeModel is the persistence model for a lease's recurring charge.
type LeaseChargeModel struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key"`
	LeaseID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	Name               string             `gorm:"type:varchar(200);not null"`
	Mode               leasing.ChargeMode `gorm:"type:varchar(20);not null"`
	FixedAmountCents   valueobject.Money  `gorm:"type:bigint;not null;default:0"`
	UnitPriceCents     valueobject.Money  `gorm:"type:bigint;not null;default:0"`
	UnitName           string             `gorm:"type:varchar(20)"`
	BillingCycleMonths int                `gorm:"not null;default:1"`
	IsActive           bool               `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LeaseChargeModel) TableName() string {
	return "lease_charges"
}

// ToDomain converts the persistence model to a domain LeaseCharge.
func (m *LeaseChargeModel) ToDomain() leasing.LeaseCharge {
	return leasing.LeaseCharge{
		ID:                 m.ID,
		Name:               m.Name,
		Mode:               m.Mode,
		FixedAmount:        m.FixedAmountCents,
		UnitPrice:          m.UnitPriceCents,
		UnitName:           m.UnitName,
		BillingCycleMonths: m.BillingCycleMonths,
		IsActive:           m.IsActive,
	}
}

// LeaseChargeModelFromDomain creates a persistence model from a domain LeaseCharge.
func LeaseChargeModelFromDomain(leaseID uuid.UUID, c leasing.LeaseCharge) LeaseChargeModel {
	return LeaseChargeModel{
		ID:                 c.ID,
		LeaseID:            leaseID,
		Name:               c.Name,
		Mode:               c.Mode,
		FixedAmountCents:   c.FixedAmount,
		UnitPriceCents:     c.UnitPrice,
		UnitName:           c.UnitName,
		BillingCycleMonths: c.BillingCycleMonths,
		IsActive:           c.IsActive,
	}
}
