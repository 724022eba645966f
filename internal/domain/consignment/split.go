package consignment

import (
	"github.com/consignly/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CommissionBasis selects what the percentage_split rate is applied to
type CommissionBasis string

const (
	CommissionBasisTotal  CommissionBasis = "total"
	CommissionBasisProfit CommissionBasis = "profit"
)

// IsValid checks if the commission basis is valid
func (b CommissionBasis) IsValid() bool {
	return b == CommissionBasisTotal || b == CommissionBasisProfit
}

// OrDefault returns total for an unset basis
func (b CommissionBasis) OrDefault() CommissionBasis {
	if b == "" {
		return CommissionBasisTotal
	}
	return b
}

// SplitInput describes one sold item for the split calculation.
// Optional parameters are pointers; nil means "use the default".
type SplitInput struct {
	OwnerType        OwnerType
	SalePrice        decimal.Decimal
	CostPrice        decimal.Decimal
	PayoutMethod     PayoutMethod
	CommissionRate   *decimal.Decimal
	FixedMarkup      *decimal.Decimal
	MarkupPercentage *decimal.Decimal
	CommissionBasis  CommissionBasis
}

// SplitResult is how a sale price divides between store and consignor.
// StoreGets + ConsignorGets == SalePrice exactly.
type SplitResult struct {
	StoreGets     decimal.Decimal
	ConsignorGets decimal.Decimal
	EffectiveRate decimal.Decimal
	MarkupAmount  decimal.Decimal
}

func (in SplitInput) validate() error {
	if in.SalePrice.IsNegative() {
		return invalidSplit("Sale price cannot be negative")
	}
	if in.CostPrice.IsNegative() {
		return invalidSplit("Cost price cannot be negative")
	}
	if !in.PayoutMethod.OrDefault().IsValid() {
		return invalidSplit("Unknown payout method: " + string(in.PayoutMethod))
	}
	if !in.CommissionBasis.OrDefault().IsValid() {
		return invalidSplit("Unknown commission basis: " + string(in.CommissionBasis))
	}
	if in.CommissionRate != nil && !isPercent(*in.CommissionRate) {
		return invalidSplit("Commission rate must be between 0 and 100")
	}
	if in.MarkupPercentage != nil && !isPercent(*in.MarkupPercentage) {
		return invalidSplit("Markup percentage must be between 0 and 100")
	}
	if in.FixedMarkup != nil && in.FixedMarkup.IsNegative() {
		return invalidSplit("Fixed markup cannot be negative")
	}
	return nil
}

func valueOr(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if p == nil {
		return def
	}
	return *p
}

// ComputeSplit decides how much of one sale belongs to the store and how much
// to the consignor under the item's payout method.
func ComputeSplit(in SplitInput) (SplitResult, error) {
	if err := in.validate(); err != nil {
		return SplitResult{}, err
	}

	if in.OwnerType != OwnerTypeConsignor {
		return SplitResult{
			StoreGets:     in.SalePrice,
			ConsignorGets: decimal.Zero,
			EffectiveRate: decimal.NewFromInt(100),
			MarkupAmount:  decimal.Zero,
		}, nil
	}

	var (
		storeGets     decimal.Decimal
		consignorGets decimal.Decimal
		markup        = decimal.Zero
		rate          *decimal.Decimal
	)

	switch in.PayoutMethod.OrDefault() {
	case PayoutMethodCostPrice:
		consignorGets = in.CostPrice
		storeGets = in.SalePrice.Sub(consignorGets)

	case PayoutMethodCostPlusFixed:
		markup = valueOr(in.FixedMarkup, decimal.Zero)
		consignorGets = in.CostPrice.Add(markup)
		storeGets = in.SalePrice.Sub(consignorGets)

	case PayoutMethodCostPlusPercentage:
		markup = valueobject.RoundHalfUp(valueobject.Percent(in.CostPrice, valueOr(in.MarkupPercentage, decimal.Zero)))
		consignorGets = in.CostPrice.Add(markup)
		storeGets = in.SalePrice.Sub(consignorGets)

	case PayoutMethodPercentageSplit:
		r := valueOr(in.CommissionRate, DefaultCommissionRate)
		rate = &r
		base := in.SalePrice
		if in.CommissionBasis.OrDefault() == CommissionBasisProfit {
			base = in.SalePrice.Sub(in.CostPrice)
		}
		storeGets = valueobject.RoundHalfUp(valueobject.Percent(base, r))
		consignorGets = in.SalePrice.Sub(storeGets)
	}

	clamped := false
	if consignorGets.GreaterThan(in.SalePrice) {
		consignorGets = in.SalePrice
		storeGets = decimal.Zero
		clamped = true
	}
	storeGets = valueobject.MaxZero(storeGets)
	consignorGets = valueobject.MaxZero(consignorGets)

	result := SplitResult{
		StoreGets:     storeGets,
		ConsignorGets: consignorGets,
		MarkupAmount:  markup,
	}
	switch {
	case rate != nil && !clamped:
		result.EffectiveRate = *rate
	default:
		result.EffectiveRate = valueobject.RatioPercent(storeGets, in.SalePrice)
	}
	return result, nil
}
