package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sampleItems: 2 x 150 + 1 x 300.5 + 5 x 25.25 = 726.75
func sampleItems() []LineItem {
	return []LineItem{
		{ID: "a", Description: "Outlet installation", Quantity: d("2"), UnitPrice: d("150")},
		{ID: "b", Description: "Panel inspection", Quantity: d("1"), UnitPrice: d("300.5")},
		{ID: "c", Description: "LED spotlight", Quantity: d("5"), UnitPrice: d("25.25")},
	}
}

func assertDecimalEqual(t *testing.T, got, want decimal.Decimal, label string) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

func assertDecimalNear(t *testing.T, got, want decimal.Decimal, label string) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(d("0.0001")) {
		t.Errorf("%s = %s, want ~%s", label, got, want)
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		unitPrice string
		want      string
	}{
		{"whole", "2", "150", "300"},
		{"fractional_price", "5", "25.25", "126.25"},
		{"fractional_qty", "2.5", "100", "250"},
		{"zero_qty", "0", "150", "0"},
		{"zero_price", "3", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(d(tt.qty), d(tt.unitPrice))
			assertDecimalEqual(t, got, d(tt.want), "LineTotal")
		})
	}
}

func TestSubtotal(t *testing.T) {
	got := Subtotal(sampleItems())
	assertDecimalEqual(t, got, d("726.75"), "Subtotal")

	if !Subtotal(nil).IsZero() {
		t.Errorf("Subtotal(nil) = %s, want 0", Subtotal(nil))
	}
}

func TestApplyMargin(t *testing.T) {
	subtotal := d("726.75")

	t.Run("percentage", func(t *testing.T) {
		got := ApplyMargin(subtotal, MarginPolicy{Type: MarginPercentage, Value: d("20")})
		assertDecimalEqual(t, got, d("872.1"), "ApplyMargin")
	})

	t.Run("fixed", func(t *testing.T) {
		got := ApplyMargin(subtotal, MarginPolicy{Type: MarginFixed, Value: d("50")})
		assertDecimalEqual(t, got, d("776.75"), "ApplyMargin")
	})

	t.Run("zero_percentage", func(t *testing.T) {
		got := ApplyMargin(subtotal, MarginPolicy{Type: MarginPercentage, Value: d("0")})
		assertDecimalEqual(t, got, subtotal, "ApplyMargin")
	})

	t.Run("negative_percentage_discount", func(t *testing.T) {
		got := ApplyMargin(d("100"), MarginPolicy{Type: MarginPercentage, Value: d("-10")})
		assertDecimalEqual(t, got, d("90"), "ApplyMargin")
	})
}

func TestPerItemFinalPrice(t *testing.T) {
	item := LineItem{Quantity: d("2"), UnitPrice: d("150")}

	t.Run("percentage_distributes", func(t *testing.T) {
		got := PerItemFinalPrice(item, MarginPolicy{Type: MarginPercentage, Value: d("20")})
		assertDecimalEqual(t, got, d("360"), "PerItemFinalPrice")
	})

	// A fixed margin applies to the document total, not to rows: the
	// per-item price stays the bare line total.
	t.Run("fixed_stays_bare", func(t *testing.T) {
		got := PerItemFinalPrice(item, MarginPolicy{Type: MarginFixed, Value: d("50")})
		assertDecimalEqual(t, got, d("300"), "PerItemFinalPrice")
	})
}

func TestPerItemSumMatchesPercentageTotal(t *testing.T) {
	items := sampleItems()
	policy := MarginPolicy{Type: MarginPercentage, Value: d("20")}

	var sum decimal.Decimal
	for _, item := range items {
		sum = sum.Add(PerItemFinalPrice(item, policy))
	}

	total := ApplyMargin(Subtotal(items), policy)
	assertDecimalNear(t, sum, total, "sum of per-item final prices")
}

func TestSplitTax(t *testing.T) {
	total := d("872.1")

	t.Run("included", func(t *testing.T) {
		net, tax := SplitTax(total, TaxPolicy{Type: TaxIncluded, Rate: d("18")})
		assertDecimalNear(t, net, d("739.0678"), "net")
		assertDecimalNear(t, tax, d("133.0322"), "tax")
		// The two parts always reassemble the original total exactly.
		assertDecimalEqual(t, net.Add(tax), total, "net+tax")
	})

	t.Run("added", func(t *testing.T) {
		net, tax := SplitTax(total, TaxPolicy{Type: TaxAdded, Rate: d("18")})
		assertDecimalEqual(t, net, total, "net")
		assertDecimalEqual(t, tax, d("156.978"), "tax")
	})

	t.Run("zero_rate_included", func(t *testing.T) {
		net, tax := SplitTax(total, TaxPolicy{Type: TaxIncluded, Rate: d("0")})
		assertDecimalEqual(t, net, total, "net")
		if !tax.IsZero() {
			t.Errorf("tax = %s, want 0", tax)
		}
	})
}

func TestGrandTotal(t *testing.T) {
	total := d("872.1")

	t.Run("included_keeps_total", func(t *testing.T) {
		policy := TaxPolicy{Type: TaxIncluded, Rate: d("18")}
		_, tax := SplitTax(total, policy)
		got := GrandTotal(total, policy, tax)
		assertDecimalEqual(t, got, total, "GrandTotal")
	})

	t.Run("added_adds_tax", func(t *testing.T) {
		policy := TaxPolicy{Type: TaxAdded, Rate: d("18")}
		_, tax := SplitTax(total, policy)
		got := GrandTotal(total, policy, tax)
		assertDecimalEqual(t, got, d("1029.078"), "GrandTotal")
	})
}

func TestCalcQuoteTotals(t *testing.T) {
	t.Run("percentage_included", func(t *testing.T) {
		totals := CalcQuoteTotals(sampleItems(),
			MarginPolicy{Type: MarginPercentage, Value: d("20")},
			TaxPolicy{Type: TaxIncluded, Rate: d("18")})

		assertDecimalEqual(t, totals.Subtotal, d("726.75"), "Subtotal")
		assertDecimalEqual(t, totals.MarginAdjusted, d("872.1"), "MarginAdjusted")
		assertDecimalEqual(t, totals.MarginAmount, d("145.35"), "MarginAmount")
		assertDecimalNear(t, totals.NetAmount, d("739.0678"), "NetAmount")
		assertDecimalNear(t, totals.TaxAmount, d("133.0322"), "TaxAmount")
		assertDecimalEqual(t, totals.GrandTotal, d("872.1"), "GrandTotal")
	})

	t.Run("percentage_added", func(t *testing.T) {
		totals := CalcQuoteTotals(sampleItems(),
			MarginPolicy{Type: MarginPercentage, Value: d("20")},
			TaxPolicy{Type: TaxAdded, Rate: d("18")})

		assertDecimalEqual(t, totals.TaxAmount, d("156.978"), "TaxAmount")
		assertDecimalEqual(t, totals.GrandTotal, d("1029.078"), "GrandTotal")
	})

	t.Run("fixed_included", func(t *testing.T) {
		totals := CalcQuoteTotals(sampleItems(),
			MarginPolicy{Type: MarginFixed, Value: d("50")},
			TaxPolicy{Type: TaxIncluded, Rate: d("18")})

		assertDecimalEqual(t, totals.MarginAdjusted, d("776.75"), "MarginAdjusted")
		assertDecimalEqual(t, totals.MarginAmount, d("50"), "MarginAmount")
		assertDecimalEqual(t, totals.GrandTotal, d("776.75"), "GrandTotal")
	})

	t.Run("no_items", func(t *testing.T) {
		totals := CalcQuoteTotals(nil,
			MarginPolicy{Type: MarginPercentage, Value: d("20")},
			TaxPolicy{Type: TaxIncluded, Rate: d("18")})

		if !totals.Subtotal.IsZero() || !totals.GrandTotal.IsZero() {
			t.Errorf("empty quote totals = %+v, want all zero", totals)
		}
	})
}
