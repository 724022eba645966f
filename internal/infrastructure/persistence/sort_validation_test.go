package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE consignors;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "name", ValidateSortField("name", ConsignorSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", ConsignorSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("portal_password_hash", ConsignorSortFields, "created_at"))
	assert.Equal(t, "payout_date DESC", orderClause("payout_date", "", PayoutSortFields, "created_at"))
	assert.Equal(t, "created_at ASC", orderClause("id; DROP", "asc", PayoutSortFields, "created_at"))
}
