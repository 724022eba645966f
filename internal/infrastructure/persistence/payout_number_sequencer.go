package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const payoutNumberPrefix = "PO"

// GormPayoutNumberSequencer mints PO-YYYYMMDD-NNNN numbers from the highest
// number already issued to the tenant that day. Inside the payout transaction
// a concurrent duplicate is rejected by the (tenant_id, payout_number) unique index.
type GormPayoutNumberSequencer struct {
	db *gorm.DB
}

// NewGormPayoutNumberSequencer creates a new GormPayoutNumberSequencer
func NewGormPayoutNumberSequencer(db *gorm.DB) *GormPayoutNumberSequencer {
	return &GormPayoutNumberSequencer{db: db}
}

// Next returns the next payout number for tenantID on date
func (s *GormPayoutNumberSequencer) Next(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error) {
	dayPrefix := fmt.Sprintf("%s-%s-", payoutNumberPrefix, date.Format("20060102"))

	var last []string
	if err := s.db.WithContext(ctx).
		Model(&consignment.PayoutTransaction{}).
		Where("tenant_id = ? AND payout_number LIKE ?", tenantID, dayPrefix+"%").
		Order("LENGTH(payout_number) DESC, payout_number DESC").
		Limit(1).
		Pluck("payout_number", &last).Error; err != nil {
		return "", fmt.Errorf("failed to read last payout number: %w", err)
	}

	next := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(last[0], dayPrefix))
		if err != nil {
			return "", fmt.Errorf("malformed payout number %q: %w", last[0], err)
		}
		next = n + 1
	}
	return FormatPayoutNumber(date, next), nil
}

// FormatPayoutNumber renders seq for date, zero padded to four digits
func FormatPayoutNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", payoutNumberPrefix, date.Format("20060102"), seq)
}

var _ consignment.PayoutNumberSequencer = (*GormPayoutNumberSequencer)(nil)
