package distribution

import (
	"context"
	"errors"
	"fmt"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvatarService manages profit-sharing avatars
type AvatarService struct {
	repos  Repositories
	logger *zap.Logger
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(repos Repositories, logger *zap.Logger) *AvatarService {
	return &AvatarService{repos: repos, logger: logger}
}

// List returns the tenant's avatars, creating the main avatar on first use
func (s *AvatarService) List(ctx context.Context, tenantID uuid.UUID) ([]AvatarResponse, error) {
	if _, err := EnsureMainAvatar(ctx, s.repos, tenantID, s.logger); err != nil {
		return nil, err
	}
	avatars, err := s.repos.Avatars().FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list avatars: %w", err)
	}
	out := make([]AvatarResponse, 0, len(avatars))
	for i := range avatars {
		out = append(out, ToAvatarResponse(&avatars[i]))
	}
	return out, nil
}

// Create adds a regular avatar
func (s *AvatarService) Create(ctx context.Context, tenantID, userID uuid.UUID, in AvatarInput) (*AvatarResponse, error) {
	a, err := distribution.NewAvatar(tenantID, in.Name, in.Color)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, tenantID, a.Name, nil); err != nil {
		return nil, err
	}
	a.SetCreatedBy(userID)
	if err := s.repos.Avatars().Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}
	resp := ToAvatarResponse(a)
	return &resp, nil
}

// Update renames or recolors an avatar. Recorded sale distributions keep the old name.
func (s *AvatarService) Update(ctx context.Context, tenantID, id uuid.UUID, in AvatarInput) (*AvatarResponse, error) {
	a, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(in.Name, in.Color); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, tenantID, a.Name, &a.ID); err != nil {
		return nil, err
	}
	if err := s.repos.Avatars().Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	resp := ToAvatarResponse(a)
	return &resp, nil
}

// Delete removes a regular avatar. The main avatar is refused.
func (s *AvatarService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	a, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := a.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.repos.Avatars().Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	return nil
}

func (s *AvatarService) load(ctx context.Context, tenantID, id uuid.UUID) (*distribution.Avatar, error) {
	a, err := s.repos.Avatars().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, distribution.ErrAvatarNotFound
		}
		return nil, fmt.Errorf("failed to load avatar: %w", err)
	}
	return a, nil
}

func (s *AvatarService) ensureNameFree(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	taken, err := s.repos.Avatars().ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check avatar name: %w", err)
	}
	if taken {
		return distribution.ErrAvatarNameTaken
	}
	return nil
}

// EnsureMainAvatar returns the tenant's main avatar, creating it if missing.
// A concurrent creator winning the unique index is not an error.
func EnsureMainAvatar(ctx context.Context, repos Repositories, tenantID uuid.UUID, logger *zap.Logger) (*distribution.Avatar, error) {
	main, err := repos.Avatars().FindMain(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load main avatar: %w", err)
	}
	if main != nil {
		return main, nil
	}

	main = distribution.NewMainAvatar(tenantID)
	if err := repos.Avatars().Save(ctx, main); err != nil {
		existing, findErr := repos.Avatars().FindMain(ctx, tenantID)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create main avatar: %w", err)
	}
	logger.Info("Main avatar created", zap.String("tenant_id", tenantID.String()))
	return main, nil
}
