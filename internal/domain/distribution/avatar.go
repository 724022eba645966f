package distribution

import (
	"strings"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MainAvatarName is used when the main avatar has to be created on demand
const MainAvatarName = "Main"

// Avatar is an internal profit-sharing participant, such as a partner or a category
type Avatar struct {
	shared.TenantAggregateRoot
	Name   string `gorm:"type:varchar(100);not null"`
	Color  string `gorm:"type:varchar(20)"`
	IsMain bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Avatar) TableName() string {
	return "avatars"
}

// NewAvatar creates a regular avatar
func NewAvatar(tenantID uuid.UUID, name, color string) (*Avatar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Avatar name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Avatar name cannot exceed 100 characters")
	}
	return &Avatar{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Color:               strings.TrimSpace(color),
	}, nil
}

// NewMainAvatar creates the tenant's default profit recipient
func NewMainAvatar(tenantID uuid.UUID) *Avatar {
	a, _ := NewAvatar(tenantID, MainAvatarName, "")
	a.IsMain = true
	return a
}

// Update changes the display fields
func (a *Avatar) Update(name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Avatar name cannot be empty")
	}
	a.Name = name
	a.Color = strings.TrimSpace(color)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// EnsureDeletable refuses to delete the main avatar
func (a *Avatar) EnsureDeletable() error {
	if a.IsMain {
		return ErrMainAvatarRequired
	}
	return nil
}

// FullShare puts 100 percent of a profit on this avatar
func (a *Avatar) FullShare() Share {
	return Share{ParticipantID: a.ID, Name: a.Name, Percentage: hundred}
}
