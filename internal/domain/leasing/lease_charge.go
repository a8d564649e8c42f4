package leasing

import (
	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// ChargeMode distinguishes flat fees from consumption-based fees
type ChargeMode string

const (
	ChargeModeFixed   ChargeMode = "FIXED"   // Flat amount per cycle
	ChargeModeMetered ChargeMode = "METERED" // Unit price times consumed quantity
)

// IsValid checks if the charge mode is valid
func (m ChargeMode) IsValid() bool {
	return m == ChargeModeFixed || m == ChargeModeMetered
}

// LeaseCharge is a recurring fee attached to a lease. A charge has its own
// billing cadence which may be longer than the lease's cycle; it is only
// billed on periods where the cadences align.
type LeaseCharge struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Mode               ChargeMode        `json:"mode"`
	FixedAmount        valueobject.Money `json:"fixed_amount"` // FIXED only
	UnitPrice          valueobject.Money `json:"unit_price"`   // METERED only
	UnitName           string            `json:"unit_name"`    // METERED only, e.g. "m3", "kWh"
	BillingCycleMonths int               `json:"billing_cycle_months"`
	IsActive           bool              `json:"is_active"`
}

// NewFixedCharge creates a flat recurring charge
func NewFixedCharge(name string, amount valueobject.Money, billingCycleMonths int) LeaseCharge {
	return LeaseCharge{
		ID:                 uuid.New(),
		Name:               name,
		Mode:               ChargeModeFixed,
		FixedAmount:        amount,
		BillingCycleMonths: billingCycleMonths,
		IsActive:           true,
	}
}

// NewMeteredCharge creates a consumption-based recurring charge
func NewMeteredCharge(name string, unitPrice valueobject.Money, unitName string, billingCycleMonths int) LeaseCharge {
	return LeaseCharge{
		ID:                 uuid.New(),
		Name:               name,
		Mode:               ChargeModeMetered,
		UnitPrice:          unitPrice,
		UnitName:           unitName,
		BillingCycleMonths: billingCycleMonths,
		IsActive:           true,
	}
}

// Validate checks the charge's internal consistency
func (c LeaseCharge) Validate() error {
	if c.Name == "" {
		return shared.NewDomainError("INVALID_CHARGE", "Charge name cannot be empty")
	}
	if !c.Mode.IsValid() {
		return shared.NewDomainError("INVALID_CHARGE", "Charge mode is not valid")
	}
	if c.BillingCycleMonths < 1 {
		return shared.NewDomainError("INVALID_CHARGE", "Charge billing cycle must be at least one month")
	}
	switch c.Mode {
	case ChargeModeFixed:
		if c.FixedAmount.IsNegative() {
			return shared.NewDomainError("INVALID_CHARGE", "Fixed charge amount cannot be negative")
		}
	case ChargeModeMetered:
		if c.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_CHARGE", "Metered unit price cannot be negative")
		}
		if c.UnitName == "" {
			return shared.NewDomainError("INVALID_CHARGE", "Metered charge requires a unit name")
		}
	}
	return nil
}
