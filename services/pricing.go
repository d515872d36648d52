// Package services provides the pricing, numbering and document
// composition engine for quotations.
package services

import "github.com/shopspring/decimal"

// MarginType selects how the margin value is applied to the subtotal.
type MarginType string

const (
	MarginPercentage MarginType = "percentage"
	MarginFixed      MarginType = "fixed"
)

// TaxType selects whether prices already contain tax or tax is added on top.
type TaxType string

const (
	TaxIncluded TaxType = "included"
	TaxAdded    TaxType = "added"
)

// MarginPolicy is the markup applied to the pre-margin subtotal.
// Negative values are allowed and act as discounts.
type MarginPolicy struct {
	Type  MarginType
	Value decimal.Decimal
}

// TaxPolicy describes the tax treatment of the margin-adjusted total.
// Rate must be >= 0; the settings layer enforces that bound so the
// included-tax divisor is always >= 1.
type TaxPolicy struct {
	Type TaxType
	Rate decimal.Decimal
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// LineTotal returns quantity * unit price for a single line item.
func LineTotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice)
}

// Subtotal sums the line totals of all items. An empty slice yields zero.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item.Quantity, item.UnitPrice))
	}
	return sum
}

// ApplyMargin applies the margin policy to the subtotal.
func ApplyMargin(subtotal decimal.Decimal, policy MarginPolicy) decimal.Decimal {
	if policy.Type == MarginFixed {
		return subtotal.Add(policy.Value)
	}
	return subtotal.Mul(one.Add(policy.Value.Div(hundred)))
}

// PerItemFinalPrice returns the display price of a single line after margin.
// A percentage margin distributes proportionally per item. A fixed margin is
// a single document-level amount and is NOT distributed per row, so the item
// column deliberately does not sum to the aggregate total in that mode.
func PerItemFinalPrice(item LineItem, policy MarginPolicy) decimal.Decimal {
	total := LineTotal(item.Quantity, item.UnitPrice)
	if policy.Type == MarginFixed {
		return total
	}
	return total.Mul(one.Add(policy.Value.Div(hundred)))
}

// SplitTax splits the margin-adjusted total into net and tax amounts.
// Included: the total already contains tax, so the net is extracted by
// division. Added: tax is computed on top of the total.
func SplitTax(marginAdjusted decimal.Decimal, policy TaxPolicy) (net, tax decimal.Decimal) {
	if policy.Type == TaxAdded {
		return marginAdjusted, marginAdjusted.Mul(policy.Rate).Div(hundred)
	}
	net = marginAdjusted.Div(one.Add(policy.Rate.Div(hundred)))
	return net, marginAdjusted.Sub(net)
}

// GrandTotal returns the final amount owed. With added tax the tax amount
// goes on top; with included tax the margin-adjusted total is already final.
func GrandTotal(marginAdjusted decimal.Decimal, policy TaxPolicy, tax decimal.Decimal) decimal.Decimal {
	if policy.Type == TaxAdded {
		return marginAdjusted.Add(tax)
	}
	return marginAdjusted
}

// QuoteTotals holds every derived monetary figure for a quotation.
type QuoteTotals struct {
	Subtotal       decimal.Decimal
	MarginAdjusted decimal.Decimal
	MarginAmount   decimal.Decimal // MarginAdjusted - Subtotal
	NetAmount      decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// CalcQuoteTotals composes the pricing pipeline in order:
// subtotal -> margin -> tax split -> grand total. It is pure and recomputed
// on every call; callers must never cache the result across mutations.
func CalcQuoteTotals(items []LineItem, margin MarginPolicy, tax TaxPolicy) QuoteTotals {
	subtotal := Subtotal(items)
	adjusted := ApplyMargin(subtotal, margin)
	net, taxAmount := SplitTax(adjusted, tax)

	return QuoteTotals{
		Subtotal:       subtotal,
		MarginAdjusted: adjusted,
		MarginAmount:   adjusted.Sub(subtotal),
		NetAmount:      net,
		TaxAmount:      taxAmount,
		GrandTotal:     GrandTotal(adjusted, tax, taxAmount),
	}
}
