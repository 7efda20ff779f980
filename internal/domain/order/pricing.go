package order

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals holds the output of the pricing calculator: the items with their
// derived line totals filled in, plus the order subtotal and total.
type Totals struct {
	Items    []OrderItem
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals calculates pricing for the given items and discount policy.
// It is a pure function: the input slice is not mutated and recomputing from
// the returned items yields the same result.
//
//	line_total = round(unit_price * quantity, 2)
//	subtotal   = round(sum(line_total), 2)
//	amount:  discount = min(discount_value, subtotal)
//	percent: discount = min(round(subtotal * discount_value / 100, 2), subtotal)
//	total      = round(max(subtotal - discount, 0), 2)
//
// An empty item list yields a zero subtotal and total regardless of discount.
func ComputeTotals(items []OrderItem, discountType DiscountType, discountValue decimal.Decimal) Totals {
	out := make([]OrderItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		item.LineTotal = item.UnitPrice.Mul(qty).Round(2)
		out[i] = item
		subtotal = subtotal.Add(item.LineTotal)
	}
	subtotal = subtotal.Round(2)

	var discount decimal.Decimal
	switch discountType {
	case DiscountPercent:
		discount = subtotal.Mul(discountValue).Div(hundred).Round(2)
	default:
		discount = discountValue
	}
	// The effective discount never exceeds the subtotal, so over-discounting
	// clamps the total at zero instead of going negative.
	discount = decimal.Min(discount, subtotal)

	total := floorAtZero(subtotal.Sub(discount)).Round(2)

	return Totals{
		Items:    out,
		Subtotal: subtotal,
		Total:    total,
	}
}

// Recompute derives o.Items line totals, o.Subtotal, and o.Total from the
// current items and discount fields.
func (o *Order) Recompute() {
	t := ComputeTotals(o.Items, o.DiscountType, o.DiscountValue)
	o.Items = t.Items
	o.Subtotal = t.Subtotal
	o.Total = t.Total
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
