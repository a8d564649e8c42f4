package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

func leaseWithCharges(t *testing.T, charges ...leasing.LeaseCharge) *leasing.Lease {
	t.Helper()
	lease, err := leasing.NewLease(
		uuid.New(),
		"L-CHG-001",
		uuid.New(),
		uuid.New(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
		1,
		valueobject.NewCents(85000),
		valueobject.NewCents(0),
		leasing.NoEscalation(),
	)
	require.NoError(t, err)
	for _, c := range charges {
		require.NoError(t, lease.AddCharge(c))
	}
	return lease
}

func chargeNames(charges []leasing.LeaseCharge) []string {
	names := make([]string, 0, len(charges))
	for _, c := range charges {
		names = append(names, c.Name)
	}
	return names
}

func TestChargesDueInPeriod_Cadence(t *testing.T) {
	monthly := leasing.NewFixedCharge("Internet", valueobject.NewCents(3500), 1)
	quarterly := leasing.NewMeteredCharge("Water", valueobject.NewCents(450), "m3", 3)
	yearly := leasing.NewFixedCharge("Building insurance", valueobject.NewCents(18000), 12)
	lease := leaseWithCharges(t, monthly, quarterly, yearly)

	tests := []struct {
		periodStart time.Time
		want        []string
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), []string{"Internet", "Water", "Building insurance"}},
		{time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), []string{"Internet"}},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), []string{"Internet", "Water"}},
		{time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), []string{"Internet", "Water"}},
		{time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), []string{"Internet", "Water", "Building insurance"}},
	}

	for _, tt := range tests {
		due, err := ChargesDueInPeriod(lease, tt.periodStart)
		require.NoError(t, err)
		assert.Equal(t, tt.want, chargeNames(due), "period starting %s", tt.periodStart.Format("2006-01-02"))
	}
}

func TestChargesDueInPeriod_SkipsInactive(t *testing.T) {
	monthly := leasing.NewFixedCharge("Internet", valueobject.NewCents(3500), 1)
	lease := leaseWithCharges(t, monthly)
	require.NoError(t, lease.DeactivateCharge(monthly.ID))

	due, err := ChargesDueInPeriod(lease, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestChargesDueInPeriod_RejectsNonBoundary(t *testing.T) {
	lease := leaseWithCharges(t)

	_, err := ChargesDueInPeriod(lease, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}
