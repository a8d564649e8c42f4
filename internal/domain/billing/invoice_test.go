package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// draftInvoice builds a first-period invoice with a rent item, a deposit
// item and one pending metered water charge.
func draftInvoice(t *testing.T) (*Invoice, *leasing.Lease) {
	t.Helper()
	lease, err := leasing.NewLease(
		uuid.New(),
		"L-INV-001",
		uuid.New(),
		uuid.New(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		1,
		valueobject.NewCents(85000),
		valueobject.NewCents(170000),
		leasing.NoEscalation(),
	)
	require.NoError(t, err)
	require.NoError(t, lease.AddCharge(leasing.NewMeteredCharge("Water", valueobject.NewCents(500), "m3", 1)))

	inv, err := BuildInvoice(lease, lease.StartDate, nil, BuilderPolicy{GracePeriodDays: 14})
	require.NoError(t, err)
	return inv, lease
}

func meteredItem(t *testing.T, inv *Invoice) *InvoiceItem {
	t.Helper()
	for i := range inv.Items {
		if inv.Items[i].Mode == leasing.ChargeModeMetered && inv.Items[i].Kind == ItemKindCharge {
			return &inv.Items[i]
		}
	}
	t.Fatal("no metered item on invoice")
	return nil
}

func TestInvoice_ConfirmReading(t *testing.T) {
	inv, _ := draftInvoice(t)
	item := meteredItem(t, inv)
	start := decimal.NewFromInt(100)

	err := inv.ConfirmReading(item.ID, decimal.NewFromInt(142), &start)
	require.NoError(t, err)

	assert.Equal(t, ItemStatusConfirmed, item.Status)
	require.NotNil(t, item.Quantity)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(42)))
	require.NotNil(t, item.Amount)
	assert.Equal(t, int64(21000), item.Amount.Cents())
	// 850.00 rent + 1700.00 deposit + 210.00 water
	assert.Equal(t, int64(276000), inv.Total.Cents())
	assert.False(t, inv.HasPendingReadings())
}

func TestInvoice_ConfirmReading_Errors(t *testing.T) {
	t.Run("unknown item", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		err := inv.ConfirmReading(uuid.New(), decimal.NewFromInt(10), nil)
		assert.Error(t, err)
	})

	t.Run("non-metered item", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		err := inv.ConfirmReading(inv.Items[0].ID, decimal.NewFromInt(10), nil)
		require.Error(t, err)
		assert.True(t, IsInvalidReading(err))
	})

	t.Run("end below start", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		start := decimal.NewFromInt(100)
		err := inv.ConfirmReading(item.ID, decimal.NewFromInt(99), &start)
		require.Error(t, err)
		assert.True(t, IsInvalidReading(err))
	})

	t.Run("negative reading", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		err := inv.ConfirmReading(item.ID, decimal.NewFromInt(-1), nil)
		require.Error(t, err)
		assert.True(t, IsInvalidReading(err))
	})

	t.Run("already confirmed", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(10), nil))
		err := inv.ConfirmReading(item.ID, decimal.NewFromInt(20), nil)
		require.Error(t, err)
		assert.True(t, IsInvalidReading(err))
	})

	t.Run("not draft", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(10), nil))
		require.NoError(t, inv.Issue())
		err := inv.ConfirmReading(item.ID, decimal.NewFromInt(20), nil)
		require.Error(t, err)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestInvoice_ConfirmReading_ZeroConsumption(t *testing.T) {
	inv, _ := draftInvoice(t)
	item := meteredItem(t, inv)
	start := decimal.NewFromInt(100)

	require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(100), &start))

	assert.Equal(t, ItemStatusConfirmed, item.Status)
	require.NotNil(t, item.Amount)
	assert.Equal(t, int64(0), item.Amount.Cents())
}

func TestInvoice_Issue(t *testing.T) {
	t.Run("blocked while readings pending", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		err := inv.Issue()
		require.Error(t, err)
		assert.True(t, IsPendingItems(err))
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
	})

	t.Run("issues once all items are confirmed", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(42), nil))

		require.NoError(t, inv.Issue())
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		require.NotNil(t, inv.IssuedAt)
	})

	t.Run("cannot issue twice", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(42), nil))
		require.NoError(t, inv.Issue())

		err := inv.Issue()
		require.Error(t, err)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestInvoice_MarkPaid(t *testing.T) {
	t.Run("paid from issued", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(42), nil))
		require.NoError(t, inv.Issue())

		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.PaidAt)
		assert.True(t, inv.Status.IsTerminal())
	})

	t.Run("draft cannot be paid", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		err := inv.MarkPaid()
		require.Error(t, err)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestInvoice_Void(t *testing.T) {
	t.Run("void draft", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		require.NoError(t, inv.Void("billing mistake"))
		assert.Equal(t, InvoiceStatusVoid, inv.Status)
		assert.Equal(t, "billing mistake", inv.VoidReason)
	})

	t.Run("void issued", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(42), nil))
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.Void("lease terminated"))
		assert.Equal(t, InvoiceStatusVoid, inv.Status)
	})

	t.Run("reason required", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		assert.Error(t, inv.Void(""))
	})

	t.Run("paid cannot be voided", func(t *testing.T) {
		inv, _ := draftInvoice(t)
		item := meteredItem(t, inv)
		require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(42), nil))
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.MarkPaid())

		err := inv.Void("too late")
		require.Error(t, err)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestInvoice_DisplayStatus(t *testing.T) {
	inv, _ := draftInvoice(t)
	item := meteredItem(t, inv)
	require.NoError(t, inv.ConfirmReading(item.ID, decimal.NewFromInt(42), nil))

	beforeDue := inv.DueDate.Add(-time.Hour)
	afterDue := inv.DueDate.Add(time.Hour)

	assert.Equal(t, InvoiceStatusDraft, inv.DisplayStatus(afterDue), "draft never shows overdue")

	require.NoError(t, inv.Issue())
	assert.Equal(t, InvoiceStatusIssued, inv.DisplayStatus(beforeDue))
	assert.Equal(t, InvoiceStatusOverdue, inv.DisplayStatus(afterDue))
	assert.True(t, inv.IsOverdue(afterDue))
	assert.Equal(t, InvoiceStatusIssued, inv.Status, "stored status stays ISSUED")

	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, InvoiceStatusPaid, inv.DisplayStatus(afterDue), "paid never shows overdue")
	assert.False(t, inv.IsOverdue(afterDue))
}
