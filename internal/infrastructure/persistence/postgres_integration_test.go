//go:build integration

package persistence

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/logger"
	"github.com/consignly/backend/internal/infrastructure/migration"
	"github.com/consignly/backend/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupPostgres starts a disposable postgres container and applies the
// embedded migrations to it.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("consign_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(logger.NewGormLogger(zap.NewNop(), gormlogger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewEmbedded(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.GreaterOrEqual(t, version, uint(1))
	return db
}

func TestPostgres_DuplicateSaleItemIsAlreadyRecorded(t *testing.T) {
	db := setupPostgres(t)
	c := seedConsignor(t, db, uuid.New(), "Kicks Vault")
	sale := seedSale(t, db, c, "100", 0)

	dup := *sale
	dup.ID = uuid.New()
	err := NewGormConsignmentSaleRepository(db).Create(context.Background(), &dup)
	assert.ErrorIs(t, err, consignment.ErrAlreadyRecorded)
}

func TestPostgres_MarkPaidIfPendingRace(t *testing.T) {
	db := setupPostgres(t)
	repos := NewGormRepositories(db)
	c := seedConsignor(t, db, uuid.New(), "Kicks Vault")
	sale := seedSale(t, db, c, "100", 0)
	payout := createPayout(t, repos, c, time.Now())

	const workers = 8
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attempt := *sale
			if err := attempt.MarkPaid(payout.ID, time.Now(), "CASH", ""); err != nil {
				return
			}
			ok, err := repos.Sales().MarkPaidIfPending(context.Background(), &attempt)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one writer moves a sale out of pending")
	unpaid, err := repos.Sales().CountUnpaidByConsignor(context.Background(), c.TenantID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, unpaid)
}

func TestPostgres_PayoutNumbersUniquePerTenant(t *testing.T) {
	db := setupPostgres(t)
	repos := NewGormRepositories(db)
	ctx := context.Background()
	c := seedConsignor(t, db, uuid.New(), "Kicks Vault")
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	first := createPayout(t, repos, c, day)
	assert.Equal(t, "PO-20260314-0001", first.PayoutNumber)

	clash, err := consignment.NewPayoutTransaction(c.TenantID, first.PayoutNumber, c.ID, d("10"), "CASH", day, "")
	require.NoError(t, err)
	assert.ErrorIs(t, repos.Payouts().CreateHeader(ctx, clash), shared.ErrAlreadyExists)

	other := seedConsignor(t, db, uuid.New(), "Elsewhere")
	sameNumber, err := consignment.NewPayoutTransaction(other.TenantID, first.PayoutNumber, other.ID, d("10"), "CASH", day, "")
	require.NoError(t, err)
	assert.NoError(t, repos.Payouts().CreateHeader(ctx, sameNumber))
}

func TestPostgres_OneMainAvatarPerTenant(t *testing.T) {
	db := setupPostgres(t)
	repos := NewGormRepositories(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repos.Avatars().Save(ctx, distribution.NewMainAvatar(tenantID)))
	second := distribution.NewMainAvatar(tenantID)
	second.Name = "Second Main"
	assert.Error(t, repos.Avatars().Save(ctx, second))

	assert.NoError(t, repos.Avatars().Save(ctx, distribution.NewMainAvatar(uuid.New())))
}

func TestPostgres_MigrationsRollBack(t *testing.T) {
	db := setupPostgres(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.NewEmbedded(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Down())

	assert.False(t, db.Migrator().HasTable("consignment_sales"))
	require.NoError(t, m.Up())
	assert.True(t, db.Migrator().HasTable("consignment_sales"))
}

func TestPostgres_SaleDistributionRoundTripIsExact(t *testing.T) {
	db := setupPostgres(t)
	repos := NewGormRepositories(db)
	ctx := context.Background()
	tenantID, saleID := uuid.New(), uuid.New()
	netProfit := d("99.99")

	in := []distribution.Share{
		{ParticipantID: uuid.New(), Name: "Alice", Percentage: d("33.3333")},
		{ParticipantID: uuid.New(), Name: "Bob", Percentage: d("33.3333")},
		{ParticipantID: uuid.New(), Name: "Cleo", Percentage: d("33.3334")},
	}
	rows := distribution.Snapshot(tenantID, saleID, netProfit, distribution.ModeManual, nil, distribution.Distribute(netProfit, in))
	require.NoError(t, repos.SaleDistributions().ReplaceForSale(ctx, tenantID, saleID, rows))

	stored, err := repos.SaleDistributions().FindBySale(ctx, tenantID, saleID)
	require.NoError(t, err)
	total := d("0")
	for i, r := range stored {
		assert.True(t, r.Amount.Equal(rows[i].Amount), "%s stored as %s", rows[i].Amount, r.Amount)
		total = total.Add(r.Amount)
	}
	assert.True(t, total.Equal(netProfit), total.String())
}

func TestPostgres_ConsignorLockSerialisesDeleteAndRecording(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	c := seedConsignor(t, db, uuid.New(), "Kicks Vault")

	// A recording transaction holds the consignor lock while it writes a sale.
	recording := db.Begin()
	_, err := NewGormConsignorRepository(recording).FindByIDForTenantForUpdate(ctx, c.TenantID, c.ID)
	require.NoError(t, err)
	seedSale(t, recording, c, "100", 0)

	deleted := make(chan error, 1)
	go func() {
		deleted <- db.Transaction(func(tx *gorm.DB) error {
			locked, err := NewGormConsignorRepository(tx).FindByIDForTenantForUpdate(ctx, c.TenantID, c.ID)
			if err != nil {
				return err
			}
			unpaid, err := NewGormConsignmentSaleRepository(tx).CountUnpaidByConsignor(ctx, c.TenantID, c.ID)
			if err != nil {
				return err
			}
			if err := locked.EnsureDeletable(unpaid); err != nil {
				return err
			}
			return NewGormConsignorRepository(tx).Delete(ctx, c.TenantID, c.ID)
		})
	}()

	select {
	case err := <-deleted:
		t.Fatalf("delete finished while the consignor was locked: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	require.NoError(t, recording.Commit().Error)

	assert.ErrorIs(t, <-deleted, consignment.ErrConsignorHasUnpaidSales)
	_, err = NewGormConsignorRepository(db).FindByIDForTenant(ctx, c.TenantID, c.ID)
	assert.NoError(t, err)
}

func TestPostgres_RecordingAfterDeleteFindsNoConsignor(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	c := seedConsignor(t, db, uuid.New(), "Kicks Vault")

	deleting := db.Begin()
	_, err := NewGormConsignorRepository(deleting).FindByIDForTenantForUpdate(ctx, c.TenantID, c.ID)
	require.NoError(t, err)

	found := make(chan error, 1)
	go func() {
		found <- db.Transaction(func(tx *gorm.DB) error {
			_, err := NewGormConsignorRepository(tx).FindByIDForTenantForUpdate(ctx, c.TenantID, c.ID)
			return err
		})
	}()

	select {
	case err := <-found:
		t.Fatalf("lock acquired while the delete was in flight: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	require.NoError(t, NewGormConsignorRepository(deleting).Delete(ctx, c.TenantID, c.ID))
	require.NoError(t, deleting.Commit().Error)

	assert.ErrorIs(t, <-found, shared.ErrNotFound)
}
