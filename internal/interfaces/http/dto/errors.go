package dto

import (
	"net/http"
	"strings"
)

// Error codes are the domain error codes returned verbatim to clients.
// Transport-only codes are declared here; domain packages own the rest.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNoSalesUpdated is used when a payout wrote its header but no ledger row changed
	ErrCodeNoSalesUpdated = "NO_SALES_UPDATED"
	// ErrCodeExportUnavailable is used when no exporter is configured
	ErrCodeExportUnavailable = "EXPORT_UNAVAILABLE"
	// ErrCodePayoutLedgerIncomplete is used when a best_effort payout paid sales
	// but failed to store its line items or processed amount
	ErrCodePayoutLedgerIncomplete = "PAYOUT_LEDGER_INCOMPLETE"
)

// Input error codes
const (
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidAmount is used for a non-positive payout amount
	ErrCodeInvalidAmount = "INVALID_AMOUNT"
	// ErrCodeInvalidSplitInput is used for a negative price or a rate outside 0..100
	ErrCodeInvalidSplitInput = "INVALID_SPLIT_INPUT"
	// ErrCodeInvalidShare is used for a malformed distribution share
	ErrCodeInvalidShare = "INVALID_SHARE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodePortalAccessDenied is used when a portal password does not match
	ErrCodePortalAccessDenied = "PORTAL_ACCESS_DENIED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeAlreadyRecorded     = "ALREADY_RECORDED"
	ErrCodePayoutInProgress    = "PAYOUT_IN_PROGRESS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeConflict            = "CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState            = "INVALID_STATE"
	ErrCodeNoPendingPayouts        = "NO_PENDING_PAYOUTS"
	ErrCodeAmountExceedsPending    = "AMOUNT_EXCEEDS_PENDING"
	ErrCodePercentageMismatch      = "PERCENTAGE_MISMATCH"
	ErrCodeConsignorHasUnpaidSales = "CONSIGNOR_HAS_UNPAID_SALES"
	ErrCodeConsignorArchived       = "CONSIGNOR_ARCHIVED"
	ErrCodeVariantNotConsigned     = "VARIANT_NOT_CONSIGNED"
	ErrCodeVariantAlreadySold      = "VARIANT_ALREADY_SOLD"
	ErrCodeMainAvatarRequired      = "MAIN_AVATAR_REQUIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Input errors -> 400 Bad Request
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidAmount:     http.StatusBadRequest,
	ErrCodeInvalidSplitInput: http.StatusBadRequest,
	ErrCodeInvalidShare:      http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodePortalAccessDenied: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeAlreadyRecorded:     http.StatusConflict,
	ErrCodePayoutInProgress:    http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeNoPendingPayouts:        http.StatusUnprocessableEntity,
	ErrCodeAmountExceedsPending:    http.StatusUnprocessableEntity,
	ErrCodePercentageMismatch:      http.StatusUnprocessableEntity,
	ErrCodeConsignorHasUnpaidSales: http.StatusUnprocessableEntity,
	ErrCodeConsignorArchived:       http.StatusUnprocessableEntity,
	ErrCodeVariantNotConsigned:     http.StatusUnprocessableEntity,
	ErrCodeVariantAlreadySold:      http.StatusUnprocessableEntity,
	ErrCodeMainAvatarRequired:      http.StatusUnprocessableEntity,

	// Server errors
	ErrCodeInternal:          http.StatusInternalServerError,
	ErrCodeNoSalesUpdated:    http.StatusInternalServerError,
	ErrCodeExportUnavailable: http.StatusServiceUnavailable,

	ErrCodePayoutLedgerIncomplete: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* field codes are input errors; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
