package distribution

import (
	"context"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AvatarRepository defines the interface for avatar persistence
type AvatarRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Avatar, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Avatar, error)
	// FindMain returns nil, nil when the tenant has no main avatar yet
	FindMain(ctx context.Context, tenantID uuid.UUID) (*Avatar, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Avatar, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, avatar *Avatar) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// TemplateFilter defines filtering options for template queries
type TemplateFilter struct {
	shared.Filter
}

// TemplateRepository defines the interface for distribution template persistence
type TemplateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProfitDistributionTemplate, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TemplateFilter) ([]ProfitDistributionTemplate, int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	// Save writes the header and replaces its items
	Save(ctx context.Context, template *ProfitDistributionTemplate) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SaleDistributionRepository defines persistence for recorded profit snapshots
type SaleDistributionRepository interface {
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]SaleDistribution, error)
	// ReplaceForSale deletes any previous snapshot for the sale and inserts rows
	ReplaceForSale(ctx context.Context, tenantID, saleID uuid.UUID, rows []SaleDistribution) error
}
