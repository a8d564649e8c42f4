package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// RentForPeriod computes the rent effective in the billing period with the
// given zero-based index, applying the lease's escalation rule.
//
// The escalation interval must be a whole multiple of the billing cycle;
// anything else is a per-lease configuration error. PERCENT escalation
// compounds on the most recent increased value and is rounded to the cent
// exactly once, half away from zero, on the final value - compounding on
// pre-rounded intermediates would drift.
//
// The result is fixed into the invoice at build time; later lease edits
// never touch already-materialized periods.
func RentForPeriod(lease *leasing.Lease, periodIndex int) (valueobject.Money, error) {
	if periodIndex < 0 {
		return valueobject.Money{}, NewConfigurationError(fmt.Sprintf("Period index %d is negative", periodIndex))
	}

	esc := lease.Escalation
	if esc.Type == leasing.EscalationNone {
		return lease.BaseRent, nil
	}

	if esc.IntervalMonths%lease.BillingCycleMonths != 0 {
		return valueobject.Money{}, NewConfigurationError(fmt.Sprintf(
			"Rent increase interval of %d months is not a multiple of the %d month billing cycle",
			esc.IntervalMonths, lease.BillingCycleMonths))
	}
	intervalCycles := esc.IntervalMonths / lease.BillingCycleMonths
	elapsed := int64(periodIndex / intervalCycles)
	if elapsed == 0 {
		return lease.BaseRent, nil
	}

	switch esc.Type {
	case leasing.EscalationFixed:
		return lease.BaseRent.MustAdd(esc.Amount.MultiplyByInt(elapsed)), nil
	case leasing.EscalationPercent:
		factor := one.Add(esc.Percent.Div(hundred)).Pow(decimal.NewFromInt(elapsed))
		raised := lease.BaseRent.Decimal().Mul(factor)
		return valueobject.FromDecimal(raised, lease.BaseRent.Currency()), nil
	default:
		return valueobject.Money{}, NewConfigurationError(fmt.Sprintf("Unknown rent escalation type %q", esc.Type))
	}
}
