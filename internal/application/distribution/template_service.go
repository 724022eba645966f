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

// TemplateService manages named distribution templates
type TemplateService struct {
	repos  Repositories
	logger *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(repos Repositories, logger *zap.Logger) *TemplateService {
	return &TemplateService{repos: repos, logger: logger}
}

// List returns a page of templates
func (s *TemplateService) List(ctx context.Context, tenantID uuid.UUID, filter distribution.TemplateFilter) ([]TemplateResponse, int64, error) {
	filter.Filter = filter.Filter.Normalize()
	templates, total, err := s.repos.Templates().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, ToTemplateResponse(&templates[i], nil))
	}
	return out, total, nil
}

// Get returns one template with its items
func (s *TemplateService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TemplateResponse, error) {
	t, err := LoadTemplate(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, nil)
	return &resp, nil
}

// Create saves a template whose items total 100 percent
func (s *TemplateService) Create(ctx context.Context, tenantID, userID uuid.UUID, in TemplateInput) (*TemplateResponse, error) {
	t, err := distribution.NewProfitDistributionTemplate(tenantID, in.Name, in.Description, in.shares())
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, tenantID, t.Name, nil); err != nil {
		return nil, err
	}
	names, err := AvatarNames(ctx, s.repos, tenantID, t.AvatarIDs())
	if err != nil {
		return nil, err
	}
	t.SetCreatedBy(userID)
	if err := s.repos.Templates().Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	s.logger.Info("Distribution template created",
		zap.String("template_id", t.ID.String()),
		zap.Int("items", len(t.Items)))
	resp := ToTemplateResponse(t, names)
	return &resp, nil
}

// Update replaces a template's name, description and items
func (s *TemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, in TemplateInput) (*TemplateResponse, error) {
	t, err := LoadTemplate(ctx, s.repos, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.Update(in.Name, in.Description, in.shares()); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, tenantID, t.Name, &t.ID); err != nil {
		return nil, err
	}
	names, err := AvatarNames(ctx, s.repos, tenantID, t.AvatarIDs())
	if err != nil {
		return nil, err
	}
	if err := s.repos.Templates().Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	resp := ToTemplateResponse(t, names)
	return &resp, nil
}

// Delete removes a template. Sales recorded with it keep their snapshot.
func (s *TemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := LoadTemplate(ctx, s.repos, tenantID, id); err != nil {
		return err
	}
	if err := s.repos.Templates().Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *TemplateService) ensureNameFree(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	taken, err := s.repos.Templates().ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check template name: %w", err)
	}
	if taken {
		return distribution.ErrTemplateNameTaken
	}
	return nil
}

// LoadTemplate loads a tenant's template, mapping a miss to ErrTemplateNotFound
func LoadTemplate(ctx context.Context, repos Repositories, tenantID, id uuid.UUID) (*distribution.ProfitDistributionTemplate, error) {
	t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, distribution.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return t, nil
}

// AvatarNames resolves avatar ids to names. Any unknown id fails with ErrAvatarNotFound.
func AvatarNames(ctx context.Context, repos Repositories, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	avatars, err := repos.Avatars().FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load avatars: %w", err)
	}
	names := make(map[uuid.UUID]string, len(avatars))
	for _, a := range avatars {
		names[a.ID] = a.Name
	}
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			return nil, shared.NewDomainError(distribution.ErrAvatarNotFound.Code, "Avatar not found: "+id.String())
		}
	}
	return names, nil
}
