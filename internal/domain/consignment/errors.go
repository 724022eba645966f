package consignment

import (
	"fmt"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes raised by the consignment domain
const (
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeInvalidSplitInput       = "INVALID_SPLIT_INPUT"
	CodeNoPendingPayouts        = "NO_PENDING_PAYOUTS"
	CodeAmountExceedsPending    = "AMOUNT_EXCEEDS_PENDING"
	CodeNoSalesUpdated          = "NO_SALES_UPDATED"
	CodePayoutInProgress        = "PAYOUT_IN_PROGRESS"
	CodeAlreadyRecorded         = "ALREADY_RECORDED"
	CodeConsignorHasUnpaidSales = "CONSIGNOR_HAS_UNPAID_SALES"
	CodeConsignorArchived       = "CONSIGNOR_ARCHIVED"
	CodeVariantNotConsigned     = "VARIANT_NOT_CONSIGNED"
	CodeVariantAlreadySold      = "VARIANT_ALREADY_SOLD"
	CodePortalAccessDenied      = "PORTAL_ACCESS_DENIED"
	CodePayoutLedgerIncomplete  = "PAYOUT_LEDGER_INCOMPLETE"
)

var (
	ErrInvalidAmount           = shared.NewDomainError(CodeInvalidAmount, "Payout amount must be greater than zero")
	ErrConsignorNotFound       = shared.NewDomainError("NOT_FOUND", "Consignor not found")
	ErrVariantNotFound         = shared.NewDomainError("NOT_FOUND", "Variant not found")
	ErrPayoutNotFound          = shared.NewDomainError("NOT_FOUND", "Payout transaction not found")
	ErrNoPendingPayouts        = shared.NewDomainError(CodeNoPendingPayouts, "Consignor has no pending payouts")
	ErrNoSalesUpdated          = shared.NewDomainError(CodeNoSalesUpdated, "No consignment sales were updated; payout was not applied")
	ErrPayoutInProgress        = shared.NewDomainError(CodePayoutInProgress, "Another payout for this consignor is in progress")
	ErrAlreadyRecorded         = shared.NewDomainError(CodeAlreadyRecorded, "Consignment sale already recorded for this item")
	ErrConsignorHasUnpaidSales = shared.NewDomainError(CodeConsignorHasUnpaidSales, "Consignor has unpaid sales and can only be archived")
	ErrConsignorArchived       = shared.NewDomainError(CodeConsignorArchived, "Consignor is archived")
	ErrVariantNotConsigned     = shared.NewDomainError(CodeVariantNotConsigned, "Variant is not consigned by this consignor")
	ErrVariantAlreadySold      = shared.NewDomainError(CodeVariantAlreadySold, "Variant has already been sold")
	ErrPortalAccessDenied      = shared.NewDomainError(CodePortalAccessDenied, "Invalid consignor portal credentials")
)

// NewAmountExceedsPendingError reports a payout request larger than what is owed
func NewAmountExceedsPendingError(requested, pending decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(CodeAmountExceedsPending,
		fmt.Sprintf("Payout amount %s exceeds pending balance %s", requested.StringFixed(2), pending.StringFixed(2)))
}

// NewPayoutLedgerIncompleteError reports a best_effort payout whose sales were
// flipped to paid but whose line items or processed amount were not stored
func NewPayoutLedgerIncompleteError(payoutNumber string, paidSales int, cause error) *shared.DomainError {
	return shared.NewDomainErrorWithCause(CodePayoutLedgerIncomplete,
		fmt.Sprintf("Payout %s marked %d sales paid but its ledger could not be written; reconcile it before retrying", payoutNumber, paidSales),
		cause)
}

func invalidSplit(msg string) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidSplitInput, msg)
}
