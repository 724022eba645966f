package distribution

import (
	"context"
	"errors"
	"testing"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureMainAvatar(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns the existing main avatar", func(t *testing.T) {
		repos := newTestRepos()
		main := distribution.NewMainAvatar(tenantID)
		repos.avatars.On("FindMain", mock.Anything, tenantID).Return(main, nil)

		got, err := EnsureMainAvatar(context.Background(), repos.Repositories(), tenantID, zap.NewNop())
		require.NoError(t, err)
		assert.Same(t, main, got)
		repos.avatars.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates it lazily", func(t *testing.T) {
		repos := newTestRepos()
		repos.avatars.On("FindMain", mock.Anything, tenantID).Return(nil, nil)
		repos.avatars.On("Save", mock.Anything, mock.MatchedBy(func(a *distribution.Avatar) bool {
			return a.IsMain && a.Name == distribution.MainAvatarName
		})).Return(nil)

		got, err := EnsureMainAvatar(context.Background(), repos.Repositories(), tenantID, zap.NewNop())
		require.NoError(t, err)
		assert.True(t, got.IsMain)
		assert.Equal(t, tenantID, got.TenantID)
	})

	t.Run("a concurrent creator wins", func(t *testing.T) {
		repos := newTestRepos()
		winner := distribution.NewMainAvatar(tenantID)
		repos.avatars.On("FindMain", mock.Anything, tenantID).Return(nil, nil).Once()
		repos.avatars.On("Save", mock.Anything, mock.Anything).Return(errors.New("duplicate key")).Once()
		repos.avatars.On("FindMain", mock.Anything, tenantID).Return(winner, nil).Once()

		got, err := EnsureMainAvatar(context.Background(), repos.Repositories(), tenantID, zap.NewNop())
		require.NoError(t, err)
		assert.Same(t, winner, got)
	})
}

func TestAvatarService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("unique name", func(t *testing.T) {
		repos := newTestRepos()
		repos.avatars.On("ExistsByName", mock.Anything, tenantID, "Partner A", (*uuid.UUID)(nil)).Return(false, nil)
		repos.avatars.On("Save", mock.Anything, mock.Anything).Return(nil)

		out, err := NewAvatarService(repos.Repositories(), zap.NewNop()).
			Create(context.Background(), tenantID, uuid.New(), AvatarInput{Name: " Partner A ", Color: "#ff0000"})
		require.NoError(t, err)
		assert.Equal(t, "Partner A", out.Name)
		assert.False(t, out.IsMain)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repos := newTestRepos()
		repos.avatars.On("ExistsByName", mock.Anything, tenantID, "Partner A", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := NewAvatarService(repos.Repositories(), zap.NewNop()).
			Create(context.Background(), tenantID, uuid.New(), AvatarInput{Name: "Partner A"})
		assert.ErrorIs(t, err, distribution.ErrAvatarNameTaken)
		repos.avatars.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAvatarService_Delete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("main avatar is refused", func(t *testing.T) {
		repos := newTestRepos()
		main := distribution.NewMainAvatar(tenantID)
		repos.avatars.On("FindByIDForTenant", mock.Anything, tenantID, main.ID).Return(main, nil)

		err := NewAvatarService(repos.Repositories(), zap.NewNop()).Delete(context.Background(), tenantID, main.ID)
		assert.ErrorIs(t, err, distribution.ErrMainAvatarRequired)
		repos.avatars.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("regular avatar", func(t *testing.T) {
		repos := newTestRepos()
		a := newAvatar(tenantID, "Partner B")
		repos.avatars.On("FindByIDForTenant", mock.Anything, tenantID, a.ID).Return(a, nil)
		repos.avatars.On("Delete", mock.Anything, tenantID, a.ID).Return(nil)

		require.NoError(t, NewAvatarService(repos.Repositories(), zap.NewNop()).Delete(context.Background(), tenantID, a.ID))
	})

	t.Run("unknown avatar", func(t *testing.T) {
		repos := newTestRepos()
		id := uuid.New()
		repos.avatars.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		err := NewAvatarService(repos.Repositories(), zap.NewNop()).Delete(context.Background(), tenantID, id)
		assert.ErrorIs(t, err, distribution.ErrAvatarNotFound)
	})
}

func TestAvatarService_ListCreatesMain(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	repos.avatars.On("FindMain", mock.Anything, tenantID).Return(nil, nil)
	repos.avatars.On("Save", mock.Anything, mock.Anything).Return(nil)
	repos.avatars.On("FindAllForTenant", mock.Anything, tenantID).
		Return([]distribution.Avatar{*distribution.NewMainAvatar(tenantID)}, nil)

	out, err := NewAvatarService(repos.Repositories(), zap.NewNop()).List(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsMain)
	repos.avatars.AssertNumberOfCalls(t, "Save", 1)
}
