package distribution

import (
	"fmt"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentageScale and NetProfitScale bound the inputs so every distributed
// amount fits AmountScale decimal places and is stored without rounding.
const (
	PercentageScale = 4
	NetProfitScale  = 2
	AmountScale     = PercentageScale + NetProfitScale + 2
)

// Share is one participant's percentage of a sale's net profit
type Share struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	Name          string          `json:"name"`
	Percentage    decimal.Decimal `json:"percentage"`
}

// Allocation is the amount a share resolved to
type Allocation struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	Name          string          `json:"name"`
	Percentage    decimal.Decimal `json:"percentage"`
	Amount        decimal.Decimal `json:"amount"`
}

// TotalPercentage sums the share percentages
func TotalPercentage(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Percentage)
	}
	return total
}

// ValidateShares checks a share list before it is distributed.
// Percentages must be non-negative with at most four decimals, name a
// participant once, and total exactly 100.
func ValidateShares(shares []Share) error {
	if len(shares) == 0 {
		return NewPercentageMismatchError(decimal.Zero)
	}
	seen := make(map[uuid.UUID]struct{}, len(shares))
	for i, s := range shares {
		if s.ParticipantID == uuid.Nil {
			return invalidShare(fmt.Sprintf("Share %d has no participant", i+1))
		}
		if s.Percentage.IsNegative() {
			return invalidShare(fmt.Sprintf("Share %d has a negative percentage", i+1))
		}
		if s.Percentage.GreaterThan(hundred) {
			return invalidShare(fmt.Sprintf("Share %d exceeds 100 percent", i+1))
		}
		if !s.Percentage.Equal(s.Percentage.Truncate(PercentageScale)) {
			return invalidShare(fmt.Sprintf("Share %d has more than %d decimal places", i+1, PercentageScale))
		}
		if _, dup := seen[s.ParticipantID]; dup {
			return invalidShare(fmt.Sprintf("Participant %s appears more than once", s.ParticipantID))
		}
		seen[s.ParticipantID] = struct{}{}
	}
	if total := TotalPercentage(shares); !total.Equal(hundred) {
		return NewPercentageMismatchError(total)
	}
	return nil
}

// ValidateNetProfit rejects a profit figure finer than cents
func ValidateNetProfit(netProfit decimal.Decimal) error {
	if !netProfit.Equal(netProfit.Truncate(NetProfitScale)) {
		return shared.NewDomainError(CodeInvalidNetProfit,
			fmt.Sprintf("Net profit %s has more than %d decimal places", netProfit.String(), NetProfitScale))
	}
	return nil
}

// Distribute splits netProfit across shares. Every share but the last gets
// netProfit * pct / 100 unrounded; the last gets whatever is left so the
// amounts always add back to netProfit. Shares are not validated here.
func Distribute(netProfit decimal.Decimal, shares []Share) []Allocation {
	out := make([]Allocation, len(shares))
	for i, s := range shares {
		out[i] = Allocation{ParticipantID: s.ParticipantID, Name: s.Name, Percentage: s.Percentage, Amount: decimal.Zero}
	}
	if len(shares) == 0 || TotalPercentage(shares).IsZero() {
		return out
	}

	allocated := decimal.Zero
	last := len(shares) - 1
	for i := 0; i < last; i++ {
		amount := netProfit.Mul(shares[i].Percentage).Div(hundred)
		out[i].Amount = amount
		allocated = allocated.Add(amount)
	}
	out[last].Amount = netProfit.Sub(allocated)
	return out
}
