package distribution

import (
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemplateItem is one avatar's percentage inside a template
type TemplateItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TemplateID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AvatarID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Percentage decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	SortOrder  int             `gorm:"not null;default:0"`
	CreatedAt  time.Time       `gorm:"not null"`
	Avatar     *Avatar         `gorm:"foreignKey:AvatarID;references:ID"`
}

// TableName returns the table name for GORM
func (TemplateItem) TableName() string {
	return "profit_distribution_template_items"
}

// TemplateShare is the input for one template line
type TemplateShare struct {
	AvatarID   uuid.UUID
	Percentage decimal.Decimal
}

// ProfitDistributionTemplate is a named, reusable set of avatar percentages
type ProfitDistributionTemplate struct {
	shared.TenantAggregateRoot
	Name        string         `gorm:"type:varchar(100);not null"`
	Description string         `gorm:"type:text"`
	Items       []TemplateItem `gorm:"foreignKey:TemplateID;references:ID"`
}

// TableName returns the table name for GORM
func (ProfitDistributionTemplate) TableName() string {
	return "profit_distribution_templates"
}

// NewProfitDistributionTemplate creates a template whose items total 100 percent
func NewProfitDistributionTemplate(tenantID uuid.UUID, name, description string, shares []TemplateShare) (*ProfitDistributionTemplate, error) {
	t := &ProfitDistributionTemplate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
	}
	if err := t.setName(name); err != nil {
		return nil, err
	}
	t.Description = strings.TrimSpace(description)
	if err := t.ReplaceItems(shares); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ProfitDistributionTemplate) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 100 characters")
	}
	t.Name = name
	return nil
}

// Update renames the template and replaces its items
func (t *ProfitDistributionTemplate) Update(name, description string, shares []TemplateShare) error {
	if err := t.setName(name); err != nil {
		return err
	}
	if err := t.ReplaceItems(shares); err != nil {
		return err
	}
	t.Description = strings.TrimSpace(description)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// ReplaceItems swaps in a new item list after validating it
func (t *ProfitDistributionTemplate) ReplaceItems(shares []TemplateShare) error {
	candidate := make([]Share, 0, len(shares))
	for _, s := range shares {
		candidate = append(candidate, Share{ParticipantID: s.AvatarID, Percentage: s.Percentage})
	}
	if err := ValidateShares(candidate); err != nil {
		return err
	}

	now := time.Now()
	items := make([]TemplateItem, 0, len(shares))
	for i, s := range shares {
		items = append(items, TemplateItem{
			ID:         uuid.New(),
			TemplateID: t.ID,
			AvatarID:   s.AvatarID,
			Percentage: s.Percentage,
			SortOrder:  i,
			CreatedAt:  now,
		})
	}
	t.Items = items
	return nil
}

// AvatarIDs lists the avatars referenced by the template
func (t *ProfitDistributionTemplate) AvatarIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Items))
	for _, item := range t.Items {
		ids = append(ids, item.AvatarID)
	}
	return ids
}

// Shares resolves the template into engine shares, naming avatars from names
func (t *ProfitDistributionTemplate) Shares(names map[uuid.UUID]string) []Share {
	shares := make([]Share, 0, len(t.Items))
	for _, item := range t.Items {
		shares = append(shares, Share{
			ParticipantID: item.AvatarID,
			Name:          names[item.AvatarID],
			Percentage:    item.Percentage,
		})
	}
	return shares
}
