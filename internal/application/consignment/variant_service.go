package consignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VariantService manages the stock units sales are recorded against
type VariantService struct {
	repos Repositories
}

// NewVariantService creates a new VariantService
func NewVariantService(repos Repositories) *VariantService {
	return &VariantService{repos: repos}
}

// Create adds a stock unit, consigned when ConsignorID is set
func (s *VariantService) Create(ctx context.Context, tenantID, userID uuid.UUID, in CreateVariantInput) (*VariantResponse, error) {
	if in.ConsignorID != nil {
		if err := s.ensureActiveConsignor(ctx, tenantID, *in.ConsignorID); err != nil {
			return nil, err
		}
	}
	v, err := consignment.NewVariant(tenantID, in.SKU, in.Name, in.Size, in.CostPrice, in.ListPrice, in.ConsignorID)
	if err != nil {
		return nil, err
	}
	v.SetCreatedBy(userID)
	if err := s.repos.Variants().Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save variant: %w", err)
	}
	resp := ToVariantResponse(v)
	return &resp, nil
}

// Reassign moves an unsold unit to a consignor, or back to the store when
// consignorID is nil
func (s *VariantService) Reassign(ctx context.Context, tenantID, id uuid.UUID, consignorID *uuid.UUID) (*VariantResponse, error) {
	v, err := s.repos.Variants().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, consignment.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}

	if consignorID == nil || *consignorID == uuid.Nil {
		err = v.AssignToStore()
	} else {
		if err := s.ensureActiveConsignor(ctx, tenantID, *consignorID); err != nil {
			return nil, err
		}
		err = v.AssignToConsignor(*consignorID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repos.Variants().SaveWithLock(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save variant: %w", err)
	}
	resp := ToVariantResponse(v)
	return &resp, nil
}

// List returns a page of variants
func (s *VariantService) List(ctx context.Context, tenantID uuid.UUID, filter consignment.VariantFilter) ([]VariantResponse, int64, error) {
	filter.Filter = filter.Filter.Normalize()
	variants, total, err := s.repos.Variants().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list variants: %w", err)
	}
	out := make([]VariantResponse, 0, len(variants))
	for i := range variants {
		out = append(out, ToVariantResponse(&variants[i]))
	}
	return out, total, nil
}

func (s *VariantService) ensureActiveConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) error {
	c, err := s.repos.Consignors().FindByIDForTenant(ctx, tenantID, consignorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return consignment.ErrConsignorNotFound
		}
		return fmt.Errorf("failed to load consignor: %w", err)
	}
	if c.IsArchived {
		return consignment.ErrConsignorArchived
	}
	return nil
}
