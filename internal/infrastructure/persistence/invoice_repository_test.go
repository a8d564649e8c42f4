package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/domain/shared/valueobject"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_FindByID(t *testing.T) {
	t.Run("returns ErrNotFound for missing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByID(context.Background(), invoiceID)

		assert.Nil(t, invoice)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_LastPeriodEnd(t *testing.T) {
	t.Run("returns the latest billed period end", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		leaseID := uuid.New()
		periodEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT "period_end" FROM "invoices" WHERE lease_id = \$1 ORDER BY period_start DESC,.* LIMIT .*`).
			WithArgs(leaseID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"period_end"}).AddRow(periodEnd))

		got, err := repo.LastPeriodEnd(context.Background(), leaseID)

		require.NoError(t, err)
		assert.True(t, got.Equal(periodEnd))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero time when the lease was never billed", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		leaseID := uuid.New()
		mock.ExpectQuery(`SELECT "period_end" FROM "invoices"`).
			WithArgs(leaseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		got, err := repo.LastPeriodEnd(context.Background(), leaseID)

		require.NoError(t, err)
		assert.True(t, got.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_LastMeterReadings(t *testing.T) {
	t.Run("maps readings by charge", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		leaseID := uuid.New()
		waterID := uuid.New()
		powerID := uuid.New()

		rows := sqlmock.NewRows([]string{"charge_id", "meter_end"}).
			AddRow(waterID, "142.5").
			AddRow(powerID, "1020")
		mock.ExpectQuery(`SELECT DISTINCT ON \(ii\.charge_id\) ii\.charge_id, ii\.meter_end`).
			WithArgs(leaseID, string(billing.InvoiceStatusVoid), string(billing.ItemStatusConfirmed)).
			WillReturnRows(rows)

		baselines, err := repo.LastMeterReadings(context.Background(), leaseID)

		require.NoError(t, err)
		require.Len(t, baselines, 2)
		assert.True(t, baselines[waterID].Equal(decimal.RequireFromString("142.5")))
		assert.True(t, baselines[powerID].Equal(decimal.NewFromInt(1020)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty map without readings", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		leaseID := uuid.New()
		mock.ExpectQuery(`SELECT DISTINCT ON \(ii\.charge_id\)`).
			WithArgs(leaseID, string(billing.InvoiceStatusVoid), string(billing.ItemStatusConfirmed)).
			WillReturnRows(sqlmock.NewRows([]string{"charge_id", "meter_end"}))

		baselines, err := repo.LastMeterReadings(context.Background(), leaseID)

		require.NoError(t, err)
		assert.Empty(t, baselines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_Create(t *testing.T) {
	t.Run("translates a duplicate key into ErrDuplicatePeriod", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv := &billing.Invoice{
			OrgAggregateRoot: shared.NewOrgAggregateRoot(uuid.New()),
			InvoiceNumber:    "L-001-0001",
			LeaseID:          uuid.New(),
			PeriodStart:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			DueDate:          time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:           billing.InvoiceStatusDraft,
			Total:            valueobject.NewCents(85000),
		}

		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Create(context.Background(), inv)

		assert.ErrorIs(t, err, billing.ErrDuplicatePeriod)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("returns concurrency conflict on stale version", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		inv := &billing.Invoice{
			OrgAggregateRoot: shared.NewOrgAggregateRoot(uuid.New()),
			InvoiceNumber:    "L-001-0001",
			LeaseID:          uuid.New(),
			Status:           billing.InvoiceStatusIssued,
		}
		inv.IncrementVersion()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invoices" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), inv, 1)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_OverdueSummaryForOrg(t *testing.T) {
	t.Run("aggregates issued invoices past due", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"count", "total_cents"}).AddRow(3, 255000)
		mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, COALESCE\(SUM\(total_cents\), 0\) AS total_cents FROM "invoices"`).
			WithArgs(orgID, string(billing.InvoiceStatusIssued), now).
			WillReturnRows(rows)

		summary, err := repo.OverdueSummaryForOrg(context.Background(), orgID, now)

		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.Count)
		assert.Equal(t, int64(255000), summary.TotalCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
