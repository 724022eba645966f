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

func TestTemplateService_Create(t *testing.T) {
	tenantID := uuid.New()
	a, b := newAvatar(tenantID, "Partner A"), newAvatar(tenantID, "Partner B")
	input := TemplateInput{
		Name: "Partners 60/40",
		Items: []ShareInput{
			{AvatarID: a.ID, Percentage: d("60")},
			{AvatarID: b.ID, Percentage: d("40")},
		},
	}

	t.Run("saves with avatar names", func(t *testing.T) {
		repos := newTestRepos()
		repos.templates.On("ExistsByName", mock.Anything, tenantID, "Partners 60/40", (*uuid.UUID)(nil)).Return(false, nil)
		repos.avatars.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{a.ID, b.ID}).
			Return([]distribution.Avatar{*a, *b}, nil)
		repos.templates.On("Save", mock.Anything, mock.Anything).Return(nil)

		out, err := NewTemplateService(repos.Repositories(), zap.NewNop()).Create(context.Background(), tenantID, uuid.New(), input)
		require.NoError(t, err)

		require.Len(t, out.Items, 2)
		assert.Equal(t, "Partner A", out.Items[0].AvatarName)
		assert.True(t, out.Items[1].Percentage.Equal(d("40")))
	})

	t.Run("percentages must total 100", func(t *testing.T) {
		repos := newTestRepos()
		bad := input
		bad.Items = []ShareInput{
			{AvatarID: a.ID, Percentage: d("60")},
			{AvatarID: b.ID, Percentage: d("30")},
		}

		_, err := NewTemplateService(repos.Repositories(), zap.NewNop()).Create(context.Background(), tenantID, uuid.New(), bad)
		assert.ErrorIs(t, err, distribution.ErrPercentageMismatch)
		repos.templates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("name taken", func(t *testing.T) {
		repos := newTestRepos()
		repos.templates.On("ExistsByName", mock.Anything, tenantID, "Partners 60/40", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := NewTemplateService(repos.Repositories(), zap.NewNop()).Create(context.Background(), tenantID, uuid.New(), input)
		assert.ErrorIs(t, err, distribution.ErrTemplateNameTaken)
	})

	t.Run("unknown avatar", func(t *testing.T) {
		repos := newTestRepos()
		repos.templates.On("ExistsByName", mock.Anything, tenantID, mock.Anything, (*uuid.UUID)(nil)).Return(false, nil)
		repos.avatars.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]distribution.Avatar{*a}, nil)

		_, err := NewTemplateService(repos.Repositories(), zap.NewNop()).Create(context.Background(), tenantID, uuid.New(), input)
		assert.ErrorIs(t, err, distribution.ErrAvatarNotFound)
		repos.templates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTemplateService_Update(t *testing.T) {
	tenantID := uuid.New()
	a, b := newAvatar(tenantID, "Partner A"), newAvatar(tenantID, "Partner B")
	tpl, err := distribution.NewProfitDistributionTemplate(tenantID, "Solo", "", []distribution.TemplateShare{
		{AvatarID: a.ID, Percentage: d("100")},
	})
	require.NoError(t, err)

	repos := newTestRepos()
	repos.templates.On("FindByIDForTenant", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)
	repos.templates.On("ExistsByName", mock.Anything, tenantID, "Split", &tpl.ID).Return(false, nil)
	repos.avatars.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]distribution.Avatar{*a, *b}, nil)
	repos.templates.On("Save", mock.Anything, tpl).Return(nil)

	out, err := NewTemplateService(repos.Repositories(), zap.NewNop()).Update(context.Background(), tenantID, tpl.ID, TemplateInput{
		Name: "Split",
		Items: []ShareInput{
			{AvatarID: a.ID, Percentage: d("50")},
			{AvatarID: b.ID, Percentage: d("50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Split", out.Name)
	assert.Len(t, out.Items, 2)
}

func TestTemplateService_DeleteUnknown(t *testing.T) {
	repos := newTestRepos()
	tenantID, id := uuid.New(), uuid.New()
	repos.templates.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	err := NewTemplateService(repos.Repositories(), zap.NewNop()).Delete(context.Background(), tenantID, id)
	assert.ErrorIs(t, err, distribution.ErrTemplateNotFound)
}
