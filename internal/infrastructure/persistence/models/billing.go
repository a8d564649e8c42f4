package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The unique index over (lease_id, period_start) is what makes the
// billing run idempotent: a second insert for the same period fails.
type InvoiceModel struct {
	OrgAggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_org_number,priority:2"`
	LeaseID       uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_lease_period,priority:1"`
	PeriodStart   time.Time             `gorm:"not null;uniqueIndex:idx_invoices_lease_period,priority:2"`
	PeriodEnd     time.Time             `gorm:"not null"`
	DueDate       time.Time             `gorm:"not null;index"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	TotalCents    valueobject.Money     `gorm:"type:bigint;not null;default:0"`
	IssuedAt      *time.Time
	PaidAt        *time.Time
	VoidedAt      *time.Time
	VoidReason    string             `gorm:"type:varchar(500)"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	items := make([]billing.InvoiceItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = it.ToDomain()
	}
	return &billing.Invoice{
		OrgAggregateRoot: m.ToOrgAggregateRoot(),
		InvoiceNumber:    m.InvoiceNumber,
		LeaseID:          m.LeaseID,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		DueDate:          m.DueDate,
		Status:           m.Status,
		Total:            m.TotalCents,
		Items:            items,
		IssuedAt:         m.IssuedAt,
		PaidAt:           m.PaidAt,
		VoidedAt:         m.VoidedAt,
		VoidReason:       m.VoidReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOrgAggregateRoot(inv.OrgAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.LeaseID = inv.LeaseID
	m.PeriodStart = inv.PeriodStart
	m.PeriodEnd = inv.PeriodEnd
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.TotalCents = inv.Total
	m.IssuedAt = inv.IssuedAt
	m.PaidAt = inv.PaidAt
	m.VoidedAt = inv.VoidedAt
	m.VoidReason = inv.VoidReason
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModelFromDomain(inv.ID, it)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for a single invoice line.
// Meter readings and quantity stay NULL until the reading is confirmed.
type InvoiceItemModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	Kind        billing.ItemKind   `gorm:"type:varchar(20);not null"`
	Mode        leasing.ChargeMode `gorm:"type:varchar(20)"`
	ChargeID    *uuid.UUID         `gorm:"type:uuid;index"`
	Description string             `gorm:"type:varchar(300);not null"`
	Status      billing.ItemStatus `gorm:"type:varchar(30);not null"`
	UnitPrice   valueobject.Money  `gorm:"type:bigint;not null;default:0"`
	UnitName    string             `gorm:"type:varchar(20)"`
	MeterStart  *decimal.Decimal   `gorm:"type:decimal(14,3)"`
	MeterEnd    *decimal.Decimal   `gorm:"type:decimal(14,3)"`
	Quantity    *decimal.Decimal   `gorm:"type:decimal(14,3)"`
	AmountCents *valueobject.Money `gorm:"type:bigint"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() billing.InvoiceItem {
	return billing.InvoiceItem{
		ID:          m.ID,
		Kind:        m.Kind,
		Mode:        m.Mode,
		ChargeID:    m.ChargeID,
		Description: m.Description,
		Status:      m.Status,
		UnitPrice:   m.UnitPrice,
		UnitName:    m.UnitName,
		MeterStart:  m.MeterStart,
		MeterEnd:    m.MeterEnd,
		Quantity:    m.Quantity,
		Amount:      m.AmountCents,
	}
}

// InvoiceItemModelFromDomain creates a persistence model from a domain InvoiceItem.
func InvoiceItemModelFromDomain(invoiceID uuid.UUID, it billing.InvoiceItem) InvoiceItemModel {
	return InvoiceItemModel{
		ID:          it.ID,
		InvoiceID:   invoiceID,
		Kind:        it.Kind,
		Mode:        it.Mode,
		ChargeID:    it.ChargeID,
		Description: it.Description,
		Status:      it.Status,
		UnitPrice:   it.UnitPrice,
		UnitName:    it.UnitName,
		MeterStart:  it.MeterStart,
		MeterEnd:    it.MeterEnd,
		Quantity:    it.Quantity,
		AmountCents: it.Amount,
	}
}
