package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(orderBy, allowed, defaultField) + " " + ValidateSortOrder(orderDir)
}

// ConsignorSortFields contains allowed sort fields for consignors
var ConsignorSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"commission_rate": true,
}

// VariantSortFields contains allowed sort fields for variants
var VariantSortFields = map[string]bool{
	"created_at": true,
	"sku":        true,
	"name":       true,
	"list_price": true,
	"sold_at":    true,
}

// ConsignmentSaleSortFields contains allowed sort fields for ledger rows
var ConsignmentSaleSortFields = map[string]bool{
	"created_at":       true,
	"sale_price":       true,
	"consignor_payout": true,
	"store_commission": true,
	"paid_at":          true,
}

// PayoutSortFields contains allowed sort fields for payouts
var PayoutSortFields = map[string]bool{
	"created_at":       true,
	"payout_date":      true,
	"payout_number":    true,
	"total_amount":     true,
	"processed_amount": true,
}

// TemplateSortFields contains allowed sort fields for distribution templates
var TemplateSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
}
