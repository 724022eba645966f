package distribution

import (
	"fmt"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes raised by the distribution domain
const (
	CodePercentageMismatch = "PERCENTAGE_MISMATCH"
	CodeInvalidShare       = "INVALID_SHARE"
	CodeMainAvatarRequired = "MAIN_AVATAR_REQUIRED"
	CodeInvalidNetProfit   = "INVALID_NET_PROFIT"
)

var (
	ErrAvatarNotFound     = shared.NewDomainError("NOT_FOUND", "Avatar not found")
	ErrTemplateNotFound   = shared.NewDomainError("NOT_FOUND", "Distribution template not found")
	ErrMainAvatarRequired = shared.NewDomainError(CodeMainAvatarRequired, "The main avatar cannot be deleted or demoted")
	ErrTemplateNameTaken  = shared.NewDomainError("ALREADY_EXISTS", "A distribution template with this name already exists")
	ErrAvatarNameTaken    = shared.NewDomainError("ALREADY_EXISTS", "An avatar with this name already exists")
	ErrInvalidShare       = shared.NewDomainError(CodeInvalidShare, "Invalid distribution share")
	ErrPercentageMismatch = shared.NewDomainError(CodePercentageMismatch, "Distribution percentages must total 100")
)

// NewPercentageMismatchError reports the actual total of a share list
func NewPercentageMismatchError(total decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(CodePercentageMismatch,
		fmt.Sprintf("Distribution percentages must total 100, got %s", total.String()))
}

func invalidShare(msg string) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidShare, msg)
}
