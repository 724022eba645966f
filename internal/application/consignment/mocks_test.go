package consignment

import (
	"context"
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockConsignorRepository is a mock implementation of consignment.ConsignorRepository
type MockConsignorRepository struct {
	mock.Mock
}

func (m *MockConsignorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Consignor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignor), args.Error(1)
}

func (m *MockConsignorRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Consignor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignor), args.Error(1)
}

func (m *MockConsignorRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.Consignor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignor), args.Error(1)
}

func (m *MockConsignorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignorFilter) ([]consignment.Consignor, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]consignment.Consignor), args.Get(1).(int64), args.Error(2)
}

func (m *MockConsignorRepository) Save(ctx context.Context, c *consignment.Consignor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConsignorRepository) SaveWithLock(ctx context.Context, c *consignment.Consignor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConsignorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockVariantRepository is a mock implementation of consignment.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Variant, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.VariantFilter) ([]consignment.Variant, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]consignment.Variant), args.Get(1).(int64), args.Error(2)
}

func (m *MockVariantRepository) Save(ctx context.Context, v *consignment.Variant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVariantRepository) SaveWithLock(ctx context.Context, v *consignment.Variant) error {
	return m.Called(ctx, v).Error(0)
}

// MockSaleRepository is a mock implementation of consignment.ConsignmentSaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.ConsignmentSale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.ConsignmentSale), args.Error(1)
}

func (m *MockSaleRepository) FindPendingByConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) ([]*consignment.ConsignmentSale, error) {
	args := m.Called(ctx, tenantID, consignorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.ConsignmentSale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignmentSaleFilter) ([]consignment.ConsignmentSale, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.ConsignmentSale), args.Error(1)
}

func (m *MockSaleRepository) Totals(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignmentSaleFilter) (consignment.SaleTotals, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(consignment.SaleTotals), args.Error(1)
}

func (m *MockSaleRepository) ExistsForSaleItem(ctx context.Context, tenantID, saleID, variantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, saleID, variantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) CountUnpaidByConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, consignorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *consignment.ConsignmentSale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSaleRepository) MarkPaidIfPending(ctx context.Context, sale *consignment.ConsignmentSale) (bool, error) {
	args := m.Called(ctx, sale)
	return args.Bool(0), args.Error(1)
}

// MockPayoutRepository is a mock implementation of consignment.PayoutTransactionRepository
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.PayoutTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.PayoutTransaction), args.Error(1)
}

func (m *MockPayoutRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) ([]consignment.PayoutTransaction, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.PayoutTransaction), args.Error(1)
}

func (m *MockPayoutRepository) Totals(ctx context.Context, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) (consignment.PayoutTotals, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(consignment.PayoutTotals), args.Error(1)
}

func (m *MockPayoutRepository) CreateHeader(ctx context.Context, p *consignment.PayoutTransaction) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPayoutRepository) CreateItems(ctx context.Context, items []consignment.PayoutTransactionItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockPayoutRepository) UpdateProcessedAmount(ctx context.Context, p *consignment.PayoutTransaction) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPayoutRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockSequencer is a mock implementation of consignment.PayoutNumberSequencer
type MockSequencer struct {
	mock.Mock
}

func (m *MockSequencer) Next(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error) {
	args := m.Called(ctx, tenantID, date)
	return args.String(0), args.Error(1)
}

// MockPaymentMethodRepository is a mock implementation of consignment.CustomPaymentMethodRepository
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) ExistsByName(ctx context.Context, tenantID, userID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, tenantID, userID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentMethodRepository) Create(ctx context.Context, pm *consignment.CustomPaymentMethod) error {
	return m.Called(ctx, pm).Error(0)
}

func (m *MockPaymentMethodRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]consignment.CustomPaymentMethod, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.CustomPaymentMethod), args.Error(1)
}

// MockLocker is a mock implementation of PayoutLocker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	args := m.Called(ctx, key)
	if !args.Bool(1) {
		return nil, false, args.Error(2)
	}
	return func() { m.MethodCalled("Unlock", key) }, true, args.Error(2)
}

// MockPublisher is a mock implementation of shared.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) bool {
	return strings.TrimPrefix(hash, "hashed:") == password
}

// testRepos bundles the mocks behind the Repositories interface
type testRepos struct {
	consignors *MockConsignorRepository
	variants   *MockVariantRepository
	sales      *MockSaleRepository
	payouts    *MockPayoutRepository
	sequencer  *MockSequencer
	methods    *MockPaymentMethodRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		consignors: new(MockConsignorRepository),
		variants:   new(MockVariantRepository),
		sales:      new(MockSaleRepository),
		payouts:    new(MockPayoutRepository),
		sequencer:  new(MockSequencer),
		methods:    new(MockPaymentMethodRepository),
	}
}

func (r *testRepos) Repositories() *StaticRepositories {
	return &StaticRepositories{
		ConsignorRepo:     r.consignors,
		VariantRepo:       r.variants,
		SaleRepo:          r.sales,
		PayoutRepo:        r.payouts,
		Sequencer:         r.sequencer,
		PaymentMethodRepo: r.methods,
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newConsignor(tenantID uuid.UUID, terms consignment.PayoutTerms) *consignment.Consignor {
	c, err := consignment.NewConsignor(tenantID, "Kicks Vault", terms)
	if err != nil {
		panic(err)
	}
	c.ClearDomainEvents()
	return c
}

func pendingSales(tenantID, consignorID uuid.UUID, payouts ...string) []*consignment.ConsignmentSale {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := make([]*consignment.ConsignmentSale, 0, len(payouts))
	for i, p := range payouts {
		s := &consignment.ConsignmentSale{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			SaleID:              uuid.New(),
			VariantID:           uuid.New(),
			ConsignorID:         consignorID,
			SalePrice:           d(p).Mul(d("1.25")),
			ConsignorPayout:     d(p),
			StoreCommission:     d(p).Mul(d("0.25")),
			PayoutStatus:        consignment.PayoutStatusPending,
		}
		s.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		out = append(out, s)
	}
	return out
}

func saleWithID(id uuid.UUID) interface{} {
	return mock.MatchedBy(func(s *consignment.ConsignmentSale) bool { return s.ID == id })
}
