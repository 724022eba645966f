package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a BaseEntity with a fresh ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// TenantAggregateRoot is the root of a store-owned aggregate. Version backs
// optimistic locking: a mutation increments it and the repository updates
// only the row still at Version-1.
type TenantAggregateRoot struct {
	BaseEntity
	TenantID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	CreatedBy    *uuid.UUID    `gorm:"type:uuid"`
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewTenantAggregateRoot creates a version 1 aggregate owned by tenantID
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseEntity: NewBaseEntity(),
		TenantID:   tenantID,
		Version:    1,
	}
}

// IncrementVersion marks the aggregate as modified
func (a *TenantAggregateRoot) IncrementVersion() {
	a.Version++
}

// SetCreatedBy records the staff user who created the aggregate
func (a *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	a.CreatedBy = &userID
}

// AddDomainEvent queues an event to publish after commit
func (a *TenantAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *TenantAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events
func (a *TenantAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
