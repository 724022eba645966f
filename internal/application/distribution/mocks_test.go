package distribution

import (
	"context"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAvatarRepository is a mock implementation of distribution.AvatarRepository
type MockAvatarRepository struct {
	mock.Mock
}

func (m *MockAvatarRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*distribution.Avatar, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distribution.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]distribution.Avatar, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]distribution.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) FindMain(ctx context.Context, tenantID uuid.UUID) (*distribution.Avatar, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distribution.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]distribution.Avatar, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]distribution.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvatarRepository) Save(ctx context.Context, a *distribution.Avatar) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAvatarRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockTemplateRepository is a mock implementation of distribution.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*distribution.ProfitDistributionTemplate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distribution.ProfitDistributionTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter distribution.TemplateFilter) ([]distribution.ProfitDistributionTemplate, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]distribution.ProfitDistributionTemplate), args.Get(1).(int64), args.Error(2)
}

func (m *MockTemplateRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, t *distribution.ProfitDistributionTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockSaleDistributionRepository is a mock implementation of distribution.SaleDistributionRepository
type MockSaleDistributionRepository struct {
	mock.Mock
}

func (m *MockSaleDistributionRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]distribution.SaleDistribution, error) {
	args := m.Called(ctx, tenantID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]distribution.SaleDistribution), args.Error(1)
}

func (m *MockSaleDistributionRepository) ReplaceForSale(ctx context.Context, tenantID, saleID uuid.UUID, rows []distribution.SaleDistribution) error {
	return m.Called(ctx, tenantID, saleID, rows).Error(0)
}

type testRepos struct {
	avatars   *MockAvatarRepository
	templates *MockTemplateRepository
	rows      *MockSaleDistributionRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		avatars:   new(MockAvatarRepository),
		templates: new(MockTemplateRepository),
		rows:      new(MockSaleDistributionRepository),
	}
}

func (r *testRepos) Repositories() *StaticRepositories {
	return &StaticRepositories{
		AvatarRepo:           r.avatars,
		TemplateRepo:         r.templates,
		SaleDistributionRepo: r.rows,
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newAvatar(tenantID uuid.UUID, name string) *distribution.Avatar {
	a, err := distribution.NewAvatar(tenantID, name, "")
	if err != nil {
		panic(err)
	}
	return a
}
