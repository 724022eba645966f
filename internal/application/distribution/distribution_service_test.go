package distribution

import (
	"context"
	"testing"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDistributionService(repos *testRepos) *DistributionService {
	return NewDistributionService(NewNoOpTransactionScope(repos.Repositories()), zap.NewNop())
}

func capturedRows(repos *testRepos, tenantID, saleID uuid.UUID) *[]distribution.SaleDistribution {
	var rows []distribution.SaleDistribution
	repos.rows.On("ReplaceForSale", mock.Anything, tenantID, saleID, mock.Anything).
		Run(func(args mock.Arguments) {
			rows = args.Get(3).([]distribution.SaleDistribution)
		}).Return(nil)
	return &rows
}

func TestDistributionService_DefaultModeUsesMain(t *testing.T) {
	repos := newTestRepos()
	tenantID, saleID := uuid.New(), uuid.New()
	main := distribution.NewMainAvatar(tenantID)
	repos.avatars.On("FindMain", mock.Anything, tenantID).Return(main, nil)
	rows := capturedRows(repos, tenantID, saleID)

	out, err := newDistributionService(repos).RecordForSale(context.Background(), tenantID, RecordInput{
		SaleID:    saleID,
		NetProfit: d("75.50"),
	})
	require.NoError(t, err)

	require.Len(t, out.Shares, 1)
	assert.Equal(t, main.ID, out.Shares[0].AvatarID)
	assert.True(t, out.Shares[0].Amount.Equal(d("75.50")))
	assert.Equal(t, distribution.ModeDefault, (*rows)[0].Mode)
	assert.Nil(t, (*rows)[0].TemplateID)
}

func TestDistributionService_TemplateMode(t *testing.T) {
	repos := newTestRepos()
	tenantID, saleID := uuid.New(), uuid.New()
	a, b, c := newAvatar(tenantID, "A"), newAvatar(tenantID, "B"), newAvatar(tenantID, "C")
	tpl, err := distribution.NewProfitDistributionTemplate(tenantID, "Three way", "", []distribution.TemplateShare{
		{AvatarID: a.ID, Percentage: d("50")},
		{AvatarID: b.ID, Percentage: d("30")},
		{AvatarID: c.ID, Percentage: d("20")},
	})
	require.NoError(t, err)
	repos.templates.On("FindByIDForTenant", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)
	repos.avatars.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]distribution.Avatar{*a, *b, *c}, nil)
	rows := capturedRows(repos, tenantID, saleID)

	out, err := newDistributionService(repos).RecordForSale(context.Background(), tenantID, RecordInput{
		SaleID:    saleID,
		NetProfit: d("90"),
		Request:   Request{Mode: distribution.ModeTemplate, TemplateID: &tpl.ID},
	})
	require.NoError(t, err)

	require.Len(t, out.Shares, 3)
	assert.True(t, out.Shares[0].Amount.Equal(d("45")))
	assert.True(t, out.Shares[1].Amount.Equal(d("27")))
	assert.True(t, out.Shares[2].Amount.Equal(d("18")))
	assert.Equal(t, "Three way", (*rows)[0].TemplateName)
	assert.Equal(t, "B", (*rows)[1].AvatarName)
}

func TestDistributionService_ManualMismatchWritesNothing(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()

	_, err := newDistributionService(repos).RecordForSale(context.Background(), tenantID, RecordInput{
		SaleID:    uuid.New(),
		NetProfit: d("100"),
		Request: Request{Mode: distribution.ModeManual, Shares: []ShareInput{
			{AvatarID: uuid.New(), Percentage: d("70")},
			{AvatarID: uuid.New(), Percentage: d("20")},
		}},
	})

	assert.ErrorIs(t, err, distribution.ErrPercentageMismatch)
	repos.rows.AssertNotCalled(t, "ReplaceForSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repos.avatars.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestDistributionService_ManualResidualGoesToLast(t *testing.T) {
	repos := newTestRepos()
	tenantID, saleID := uuid.New(), uuid.New()
	a, b, c := newAvatar(tenantID, "A"), newAvatar(tenantID, "B"), newAvatar(tenantID, "C")
	repos.avatars.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{a.ID, b.ID, c.ID}).
		Return([]distribution.Avatar{*c, *a, *b}, nil)
	capturedRows(repos, tenantID, saleID)

	out, err := newDistributionService(repos).RecordForSale(context.Background(), tenantID, RecordInput{
		SaleID:    saleID,
		NetProfit: d("10.01"),
		Request: Request{Mode: distribution.ModeManual, Shares: []ShareInput{
			{AvatarID: a.ID, Percentage: d("33.33")},
			{AvatarID: b.ID, Percentage: d("33.33")},
			{AvatarID: c.ID, Percentage: d("33.34")},
		}},
	})
	require.NoError(t, err)

	total := out.Shares[0].Amount.Add(out.Shares[1].Amount).Add(out.Shares[2].Amount)
	assert.True(t, total.Equal(d("10.01")))
	assert.Equal(t, "C", out.Shares[2].AvatarName)
}

func TestDistributionService_Precheck(t *testing.T) {
	svc := newDistributionService(newTestRepos())

	assert.NoError(t, svc.Precheck(Request{}))
	assert.Error(t, svc.Precheck(Request{Mode: distribution.ModeTemplate}))
	assert.Error(t, svc.Precheck(Request{Mode: "random"}))
	assert.ErrorIs(t, svc.Precheck(Request{Mode: distribution.ModeManual}), distribution.ErrPercentageMismatch)
}

func TestDistributionService_RejectsSubCentNetProfit(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()

	_, err := newDistributionService(repos).RecordForSale(context.Background(), tenantID, RecordInput{
		SaleID:    uuid.New(),
		NetProfit: d("10.005"),
	})

	require.Error(t, err)
	assert.True(t, shared.IsDomainErrorCode(err, distribution.CodeInvalidNetProfit))
	repos.avatars.AssertNotCalled(t, "FindMain", mock.Anything, mock.Anything)
	repos.rows.AssertNotCalled(t, "ReplaceForSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
