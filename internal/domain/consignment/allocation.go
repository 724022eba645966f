package consignment

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AllocationItem is one ledger row a payout settles in full
type AllocationItem struct {
	Sale   *ConsignmentSale
	Amount decimal.Decimal
}

// AllocationPlan is the result of walking the pending backlog with a payout amount
type AllocationPlan struct {
	Requested decimal.Decimal
	Processed decimal.Decimal
	Remaining decimal.Decimal
	Items     []AllocationItem
}

// SaleIDs returns the IDs of the planned sales in settlement order
func (p AllocationPlan) SaleIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.Sale.ID.String())
	}
	return ids
}

// PendingTotal sums ConsignorPayout over the pending rows in sales
func PendingTotal(sales []*ConsignmentSale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if s.IsPending() {
			total = total.Add(s.ConsignorPayout)
		}
	}
	return total
}

// ValidatePayoutAmount rejects non-positive payout requests
func ValidatePayoutAmount(requested decimal.Decimal) error {
	if !requested.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// CheckPendingBalance enforces that there is a pending row to pay and that
// the request does not exceed the pending total. Pending rows whose payouts
// sum to zero leave nothing to pay, so any positive request exceeds them.
func CheckPendingBalance(requested decimal.Decimal, pending []*ConsignmentSale) error {
	if len(pending) == 0 {
		return ErrNoPendingPayouts
	}
	total := PendingTotal(pending)
	if requested.GreaterThan(total) {
		return NewAmountExceedsPendingError(requested, total)
	}
	return nil
}

// SortOldestFirst orders sales by CreatedAt ascending, ties broken by ID
func SortOldestFirst(sales []*ConsignmentSale) []*ConsignmentSale {
	sorted := make([]*ConsignmentSale, len(sales))
	copy(sorted, sales)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID.String() < sorted[j].ID.String()
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// PlanAllocation settles the oldest pending sales first. A sale is paid in
// full or not at all, and the walk stops at the first sale the remaining
// amount cannot cover.
func PlanAllocation(requested decimal.Decimal, pending []*ConsignmentSale) AllocationPlan {
	plan := AllocationPlan{
		Requested: requested,
		Remaining: requested,
		Items:     make([]AllocationItem, 0),
	}

	for _, sale := range SortOldestFirst(pending) {
		if !plan.Remaining.IsPositive() {
			break
		}
		if !sale.IsPending() {
			continue
		}
		if plan.Remaining.LessThan(sale.ConsignorPayout) {
			break
		}
		plan.Items = append(plan.Items, AllocationItem{Sale: sale, Amount: sale.ConsignorPayout})
		plan.Remaining = plan.Remaining.Sub(sale.ConsignorPayout)
	}

	plan.Processed = requested.Sub(plan.Remaining)
	return plan
}
