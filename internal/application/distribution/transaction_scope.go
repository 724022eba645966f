package distribution

import (
	"context"

	"github.com/consignly/backend/internal/domain/distribution"
)

// TransactionScope runs a unit of work against the distribution repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories groups the distribution repositories
type Repositories interface {
	Avatars() distribution.AvatarRepository
	Templates() distribution.TemplateRepository
	SaleDistributions() distribution.SaleDistributionRepository
}

// StaticRepositories is a fixed repository set
type StaticRepositories struct {
	AvatarRepo           distribution.AvatarRepository
	TemplateRepo         distribution.TemplateRepository
	SaleDistributionRepo distribution.SaleDistributionRepository
}

func (r *StaticRepositories) Avatars() distribution.AvatarRepository { return r.AvatarRepo }

func (r *StaticRepositories) Templates() distribution.TemplateRepository { return r.TemplateRepo }

func (r *StaticRepositories) SaleDistributions() distribution.SaleDistributionRepository {
	return r.SaleDistributionRepo
}

// NoOpTransactionScope executes fn directly against repos. Used in tests.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a scope without transaction support
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}
