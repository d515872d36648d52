package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testSettings() *Settings {
	return &Settings{
		CurrencySymbol:     "$",
		DefaultMarginType:  MarginPercentage,
		DefaultMarginValue: d("20"),
		DefaultTemplate:    "modern",
		TaxType:            TaxIncluded,
		TaxRate:            d("18"),
	}
}

func TestNewQuoteDefaults(t *testing.T) {
	q := NewQuote(testSettings())

	if q.Margin.Type != MarginPercentage || !q.Margin.Value.Equal(d("20")) {
		t.Errorf("margin = %+v, want percentage 20", q.Margin)
	}
	if q.Tax.Type != TaxIncluded || !q.Tax.Rate.Equal(d("18")) {
		t.Errorf("tax = %+v, want included 18", q.Tax)
	}
	if q.CurrencySymbol != "$" {
		t.Errorf("currency = %q, want $", q.CurrencySymbol)
	}
	if q.Template != "modern" {
		t.Errorf("template = %q, want modern", q.Template)
	}
	if q.Finalized {
		t.Error("new quote must not be finalized")
	}
	if len(q.Items) != 0 {
		t.Errorf("new quote has %d items, want 0", len(q.Items))
	}
}

func TestQuoteAddItem(t *testing.T) {
	q := NewQuote(testSettings())

	item := q.AddItem()
	if item.ID == "" {
		t.Error("AddItem() returned item without ID")
	}
	if !item.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("new item quantity = %s, want 1", item.Quantity)
	}
	if len(q.Items) != 1 {
		t.Fatalf("quote has %d items, want 1", len(q.Items))
	}

	second := q.AddItem()
	if second.ID == item.ID {
		t.Error("AddItem() reused an item ID")
	}
}

func TestQuoteRemoveItem(t *testing.T) {
	q := NewQuote(testSettings())
	a := q.AddItem()
	b := q.AddItem()

	q.RemoveItem(a.ID)
	if len(q.Items) != 1 || q.Items[0].ID != b.ID {
		t.Errorf("after remove, items = %+v, want only %s", q.Items, b.ID)
	}

	// Removing an unknown ID is a no-op.
	q.RemoveItem("does-not-exist")
	if len(q.Items) != 1 {
		t.Errorf("remove of unknown ID changed items: %+v", q.Items)
	}
}

func TestQuoteUpdateItem(t *testing.T) {
	q := NewQuote(testSettings())
	item := q.AddItem()

	q.UpdateItem(item.ID, "description", "Cable run")
	q.UpdateItem(item.ID, "quantity", "2.5")
	q.UpdateItem(item.ID, "unit_price", "100")

	got := q.Items[0]
	if got.Description != "Cable run" {
		t.Errorf("description = %q, want Cable run", got.Description)
	}
	if !got.Quantity.Equal(d("2.5")) {
		t.Errorf("quantity = %s, want 2.5", got.Quantity)
	}
	if !got.UnitPrice.Equal(d("100")) {
		t.Errorf("unit_price = %s, want 100", got.UnitPrice)
	}

	// Unparseable numerics coerce to zero instead of failing.
	q.UpdateItem(item.ID, "quantity", "abc")
	if !q.Items[0].Quantity.IsZero() {
		t.Errorf("quantity after bad input = %s, want 0", q.Items[0].Quantity)
	}
}

func TestQuoteComputeTotals(t *testing.T) {
	q := NewQuote(testSettings())
	q.Items = sampleItems()

	totals := q.ComputeTotals()
	assertDecimalEqual(t, totals.Subtotal, d("726.75"), "Subtotal")
	assertDecimalEqual(t, totals.GrandTotal, d("872.1"), "GrandTotal")
}

func TestCoerceDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "5", "5"},
		{"fraction", "25.25", "25.25"},
		{"negative", "-3", "-3"},
		{"empty", "", "0"},
		{"garbage", "abc", "0"},
		{"trailing_garbage", "5x", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceDecimal(tt.input)
			assertDecimalEqual(t, got, d(tt.want), "CoerceDecimal")
		})
	}
}
