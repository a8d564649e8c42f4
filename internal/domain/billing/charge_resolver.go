package billing

import (
	"time"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// ChargesDueInPeriod determines which of the lease's charges fall due in the
// billing period starting at periodStart.
//
// A charge is due when it is active and its own cadence aligns with the
// period boundary: monthsSinceLeaseStart % charge cycle == 0. A charge with
// a longer cycle than the lease's is simply skipped on non-aligned periods;
// there is no partial billing.
func ChargesDueInPeriod(lease *leasing.Lease, periodStart time.Time) ([]leasing.LeaseCharge, error) {
	if _, err := lease.PeriodIndexOf(periodStart); err != nil {
		return nil, err
	}

	months := valueobject.MonthsBetween(lease.StartDate, valueobject.Date(periodStart))
	due := make([]leasing.LeaseCharge, 0, len(lease.Charges))
	for _, charge := range lease.Charges {
		if !charge.IsActive {
			continue
		}
		if months%charge.BillingCycleMonths != 0 {
			continue
		}
		due = append(due, charge)
	}
	return due, nil
}
