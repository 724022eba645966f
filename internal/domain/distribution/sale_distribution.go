package distribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode says where a sale's shares came from
type Mode string

const (
	ModeDefault  Mode = "default"
	ModeTemplate Mode = "template"
	ModeManual   Mode = "manual"
)

// IsValid checks if the mode is valid
func (m Mode) IsValid() bool {
	switch m {
	case ModeDefault, ModeTemplate, ModeManual:
		return true
	}
	return false
}

// OrDefault returns default for an unset mode
func (m Mode) OrDefault() Mode {
	if m == "" {
		return ModeDefault
	}
	return m
}

// SaleDistribution is a snapshot of one avatar's share of a sale's profit.
// Names and percentages are copied so later template or avatar edits never
// change recorded sales.
type SaleDistribution struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AvatarID     uuid.UUID       `gorm:"type:uuid;not null"`
	AvatarName   string          `gorm:"type:varchar(100);not null"`
	Percentage   decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(26,8);not null"`
	NetProfit    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Mode         Mode            `gorm:"type:varchar(20);not null"`
	TemplateID   *uuid.UUID      `gorm:"type:uuid"`
	TemplateName string          `gorm:"type:varchar(100)"`
	SortOrder    int             `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleDistribution) TableName() string {
	return "sale_distributions"
}

// Snapshot turns engine allocations into rows for saleID
func Snapshot(tenantID, saleID uuid.UUID, netProfit decimal.Decimal, mode Mode, template *ProfitDistributionTemplate, allocations []Allocation) []SaleDistribution {
	now := time.Now()
	rows := make([]SaleDistribution, 0, len(allocations))
	for i, a := range allocations {
		row := SaleDistribution{
			ID:         uuid.New(),
			TenantID:   tenantID,
			SaleID:     saleID,
			AvatarID:   a.ParticipantID,
			AvatarName: a.Name,
			Percentage: a.Percentage,
			Amount:     a.Amount,
			NetProfit:  netProfit,
			Mode:       mode.OrDefault(),
			SortOrder:  i,
			CreatedAt:  now,
		}
		if template != nil {
			id := template.ID
			row.TemplateID = &id
			row.TemplateName = template.Name
		}
		rows = append(rows, row)
	}
	return rows
}
