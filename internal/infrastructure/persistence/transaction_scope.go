package persistence

import (
	"context"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	distributionapp "github.com/consignly/backend/internal/application/distribution"
	"github.com/consignly/backend/internal/application/settlement"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/distribution"
	"gorm.io/gorm"
)

// GormRepositories hands out repositories bound to one *gorm.DB. Built on a
// transaction handle, every repository shares that transaction.
type GormRepositories struct {
	db *gorm.DB
}

// NewGormRepositories creates repositories on the connection pool
func NewGormRepositories(db *gorm.DB) *GormRepositories {
	return &GormRepositories{db: db}
}

// Consignors returns the consignor repository
func (r *GormRepositories) Consignors() consignment.ConsignorRepository {
	return NewGormConsignorRepository(r.db)
}

// Variants returns the variant repository
func (r *GormRepositories) Variants() consignment.VariantRepository {
	return NewGormVariantRepository(r.db)
}

// Sales returns the consignment sale ledger repository
func (r *GormRepositories) Sales() consignment.ConsignmentSaleRepository {
	return NewGormConsignmentSaleRepository(r.db)
}

// Payouts returns the payout transaction repository
func (r *GormRepositories) Payouts() consignment.PayoutTransactionRepository {
	return NewGormPayoutTransactionRepository(r.db)
}

// PayoutNumbers returns the per-tenant daily payout number sequencer
func (r *GormRepositories) PayoutNumbers() consignment.PayoutNumberSequencer {
	return NewGormPayoutNumberSequencer(r.db)
}

// PaymentMethods returns the custom payment method repository
func (r *GormRepositories) PaymentMethods() consignment.CustomPaymentMethodRepository {
	return NewGormCustomPaymentMethodRepository(r.db)
}

// Avatars returns the avatar repository
func (r *GormRepositories) Avatars() distribution.AvatarRepository {
	return NewGormAvatarRepository(r.db)
}

// Templates returns the profit distribution template repository
func (r *GormRepositories) Templates() distribution.TemplateRepository {
	return NewGormTemplateRepository(r.db)
}

// SaleDistributions returns the sale distribution ledger repository
func (r *GormRepositories) SaleDistributions() distribution.SaleDistributionRepository {
	return NewGormSaleDistributionRepository(r.db)
}

// GormTransactionScope runs units of work inside a GORM transaction. If fn
// returns an error the transaction is rolled back, otherwise committed.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *GormRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepositories{db: tx})
	})
}

// Consignment adapts the scope to the consignment services
func (s *GormTransactionScope) Consignment() consignmentapp.TransactionScope {
	return consignmentScope{s}
}

// Distribution adapts the scope to the distribution services
func (s *GormTransactionScope) Distribution() distributionapp.TransactionScope {
	return distributionScope{s}
}

// Settlement adapts the scope to checkout settlement
func (s *GormTransactionScope) Settlement() settlement.TransactionScope {
	return settlementScope{s}
}

type consignmentScope struct{ s *GormTransactionScope }

func (c consignmentScope) Execute(ctx context.Context, fn func(repos consignmentapp.Repositories) error) error {
	return c.s.run(ctx, func(repos *GormRepositories) error { return fn(repos) })
}

type distributionScope struct{ s *GormTransactionScope }

func (d distributionScope) Execute(ctx context.Context, fn func(repos distributionapp.Repositories) error) error {
	return d.s.run(ctx, func(repos *GormRepositories) error { return fn(repos) })
}

type settlementScope struct{ s *GormTransactionScope }

func (st settlementScope) Execute(ctx context.Context, fn func(repos settlement.Repositories) error) error {
	return st.s.run(ctx, func(repos *GormRepositories) error { return fn(repos) })
}

var (
	_ consignmentapp.Repositories  = (*GormRepositories)(nil)
	_ distributionapp.Repositories = (*GormRepositories)(nil)
	_ settlement.Repositories      = (*GormRepositories)(nil)
)
