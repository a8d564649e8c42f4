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

// BuilderPolicy holds the org-level billing policy applied at invoice
// construction time.
type BuilderPolicy struct {
	// GracePeriodDays is added to the period start to derive the due date.
	// Zero means rent is due on the first day of the period.
	GracePeriodDays int
}

// MeterBaselines maps a lease charge ID to the charge's last confirmed
// meter end reading. The builder pre-fills each new metered item's meter
// start from it; a charge without a baseline starts at zero.
type MeterBaselines map[uuid.UUID]decimal.Decimal

// BuildInvoice assembles a DRAFT invoice for one billing period of a lease.
// Pure: the caller persists the result and deals with the uniqueness
// constraint on (lease, period start).
//
// The invoice carries a RENT item, a one-time DEPOSIT item on the lease's
// first period, and one CHARGE item per charge due in the period. Fixed
// items are born CONFIRMED with final amounts; metered items are born
// PENDING_READING with a nil amount until their reading is confirmed.
func BuildInvoice(lease *leasing.Lease, periodStart time.Time, baselines MeterBaselines, policy BuilderPolicy) (*Invoice, error) {
	periodStart = valueobject.Date(periodStart)
	index, err := lease.PeriodIndexOf(periodStart)
	if err != nil {
		return nil, err
	}
	period := lease.PeriodAt(index)
	if period.End.After(lease.EndDate) {
		return nil, shared.NewDomainError(CodeInvalidPeriod, fmt.Sprintf(
			"Period ending %s extends past the lease end date %s",
			period.End.Format("2006-01-02"), lease.EndDate.Format("2006-01-02")))
	}

	rent, err := RentForPeriod(lease, index)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(lease.OrganizationID),
		InvoiceNumber:    fmt.Sprintf("%s-%04d", lease.LeaseNumber, index+1),
		LeaseID:          lease.ID,
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		DueDate:          period.Start.AddDate(0, 0, policy.GracePeriodDays),
		Status:           InvoiceStatusDraft,
		Items:            []InvoiceItem{},
	}

	inv.Items = append(inv.Items, InvoiceItem{
		ID:          uuid.New(),
		Kind:        ItemKindRent,
		Mode:        leasing.ChargeModeFixed,
		Description: fmt.Sprintf("Rent %s", period),
		Status:      ItemStatusConfirmed,
		Amount:      &rent,
	})

	// Deposits are billed exactly once, at lease inception
	if index == 0 && lease.Deposit.IsPositive() {
		deposit := lease.Deposit
		inv.Items = append(inv.Items, InvoiceItem{
			ID:          uuid.New(),
			Kind:        ItemKindDeposit,
			Description: "Security deposit",
			Status:      ItemStatusConfirmed,
			Amount:      &deposit,
		})
	}

	charges, err := ChargesDueInPeriod(lease, periodStart)
	if err != nil {
		return nil, err
	}
	for _, charge := range charges {
		chargeID := charge.ID
		item := InvoiceItem{
			ID:          uuid.New(),
			Kind:        ItemKindCharge,
			Mode:        charge.Mode,
			ChargeID:    &chargeID,
			Description: charge.Name,
		}
		switch charge.Mode {
		case leasing.ChargeModeFixed:
			amount := charge.FixedAmount
			item.Status = ItemStatusConfirmed
			item.Amount = &amount
		case leasing.ChargeModeMetered:
			start := decimal.Zero
			if prior, ok := baselines[charge.ID]; ok {
				start = prior
			}
			item.Status = ItemStatusPendingReading
			item.UnitPrice = charge.UnitPrice
			item.UnitName = charge.UnitName
			item.MeterStart = &start
		}
		inv.Items = append(inv.Items, item)
	}

	inv.recomputeTotal()

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	for i := range inv.Items {
		if inv.Items[i].Status == ItemStatusPendingReading {
			inv.AddDomainEvent(NewItemPendingReadingEvent(inv, &inv.Items[i]))
		}
	}

	return inv, nil
}
