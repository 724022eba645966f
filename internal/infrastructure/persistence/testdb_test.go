package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with the schema migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger.NewGormLogger(zap.NewNop(), gormlogger.Silent)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&consignment.Consignor{},
		&consignment.Variant{},
		&consignment.ConsignmentSale{},
		&consignment.PayoutTransaction{},
		&consignment.PayoutTransactionItem{},
		&consignment.CustomPaymentMethod{},
		&distribution.Avatar{},
		&distribution.ProfitDistributionTemplate{},
		&distribution.TemplateItem{},
		&distribution.SaleDistribution{},
	))
	return db
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedConsignor(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *consignment.Consignor {
	t.Helper()
	c, err := consignment.NewConsignor(tenantID, name, consignment.PayoutTerms{
		Method:         consignment.PayoutMethodPercentageSplit,
		CommissionRate: d("20"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(c).Error)
	return c
}

// seedSale writes a pending ledger row for a fresh consigned variant.
// age pushes created_at into the past so FIFO order is deterministic.
func seedSale(t *testing.T, db *gorm.DB, c *consignment.Consignor, price string, age time.Duration) *consignment.ConsignmentSale {
	t.Helper()
	v, err := consignment.NewVariant(c.TenantID, "SKU-"+uuid.NewString()[:8], "Jordan 1", "10", d("50"), d(price), &c.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(v).Error)

	split, err := consignment.ComputeSplit(c.SplitInputFor(d(price), v.CostPrice, nil, consignment.CommissionBasisTotal))
	require.NoError(t, err)
	sale, err := consignment.NewConsignmentSale(c.TenantID, uuid.New(), v, c, d(price), consignment.CommissionBasisTotal, split)
	require.NoError(t, err)
	sale.CreatedAt = time.Now().Add(-age)
	require.NoError(t, NewGormConsignmentSaleRepository(db).Create(t.Context(), sale))
	return sale
}
