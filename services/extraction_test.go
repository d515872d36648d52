package services

import (
	"testing"
)

func TestParseExtractionResponse(t *testing.T) {
	raw := `{
		"items": [
			{"description": "Outlet installation", "quantity": "2", "unitPrice": "150"},
			{"description": "Panel inspection", "quantity": "1", "unitPrice": "300.5"},
			{"description": "", "quantity": "9", "unitPrice": "9"},
			{"description": "Cable run", "quantity": "", "unitPrice": "illegible"}
		],
		"clientName": "Maria Torres"
	}`

	result, err := parseExtractionResponse(raw)
	if err != nil {
		t.Fatalf("parseExtractionResponse() error = %v", err)
	}

	if result.ClientName != "Maria Torres" {
		t.Errorf("client name = %q, want Maria Torres", result.ClientName)
	}
	// The item without a description is dropped.
	if len(result.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(result.Items))
	}
	if result.Items[0].Description != "Outlet installation" {
		t.Errorf("first item = %q", result.Items[0].Description)
	}
}

func TestParseExtractionResponse_EmptyItems(t *testing.T) {
	result, err := parseExtractionResponse(`{"items": [], "clientName": ""}`)
	if err != nil {
		t.Fatalf("parseExtractionResponse() error = %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("got %d items, want 0", len(result.Items))
	}
}

func TestParseExtractionResponse_Invalid(t *testing.T) {
	if _, err := parseExtractionResponse("not json at all"); err == nil {
		t.Fatal("parseExtractionResponse() accepted invalid JSON")
	}
}

func TestExtractedItemCoercion(t *testing.T) {
	t.Run("parsed_values", func(t *testing.T) {
		item := ExtractedItem{Quantity: "2.5", UnitPrice: "150"}
		assertDecimalEqual(t, item.ItemQuantity(), d("2.5"), "ItemQuantity")
		assertDecimalEqual(t, item.ItemUnitPrice(), d("150"), "ItemUnitPrice")
	})

	t.Run("missing_quantity_defaults_to_one", func(t *testing.T) {
		item := ExtractedItem{Quantity: "", UnitPrice: "150"}
		assertDecimalEqual(t, item.ItemQuantity(), d("1"), "ItemQuantity")
	})

	t.Run("illegible_price_is_zero", func(t *testing.T) {
		item := ExtractedItem{Quantity: "1", UnitPrice: "smudged"}
		assertDecimalEqual(t, item.ItemUnitPrice(), d("0"), "ItemUnitPrice")
	})
}
