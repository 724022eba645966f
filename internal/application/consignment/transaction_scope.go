package consignment

import (
	"context"

	"github.com/consignly/backend/internal/domain/consignment"
)

// TransactionScope runs a unit of work against the consignment repositories.
// If fn returns an error the transaction is rolled back, otherwise committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories groups the consignment repositories. Inside Execute they all
// share one database transaction.
type Repositories interface {
	Consignors() consignment.ConsignorRepository
	Variants() consignment.VariantRepository
	Sales() consignment.ConsignmentSaleRepository
	Payouts() consignment.PayoutTransactionRepository
	PayoutNumbers() consignment.PayoutNumberSequencer
	PaymentMethods() consignment.CustomPaymentMethodRepository
}

// StaticRepositories is a fixed repository set
type StaticRepositories struct {
	ConsignorRepo     consignment.ConsignorRepository
	VariantRepo       consignment.VariantRepository
	SaleRepo          consignment.ConsignmentSaleRepository
	PayoutRepo        consignment.PayoutTransactionRepository
	Sequencer         consignment.PayoutNumberSequencer
	PaymentMethodRepo consignment.CustomPaymentMethodRepository
}

// Consignors returns the consignor repository
func (r *StaticRepositories) Consignors() consignment.ConsignorRepository {
	return r.ConsignorRepo
}

// Variants returns the variant repository
func (r *StaticRepositories) Variants() consignment.VariantRepository {
	return r.VariantRepo
}

// Sales returns the consignment sale repository
func (r *StaticRepositories) Sales() consignment.ConsignmentSaleRepository {
	return r.SaleRepo
}

// Payouts returns the payout transaction repository
func (r *StaticRepositories) Payouts() consignment.PayoutTransactionRepository {
	return r.PayoutRepo
}

// PayoutNumbers returns the payout number sequencer
func (r *StaticRepositories) PayoutNumbers() consignment.PayoutNumberSequencer {
	return r.Sequencer
}

// PaymentMethods returns the custom payment method repository
func (r *StaticRepositories) PaymentMethods() consignment.CustomPaymentMethodRepository {
	return r.PaymentMethodRepo
}

// NoOpTransactionScope hands the same repositories to fn without a transaction.
// Used in tests.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}

var (
	_ TransactionScope = (*NoOpTransactionScope)(nil)
	_ Repositories     = (*StaticRepositories)(nil)
)
