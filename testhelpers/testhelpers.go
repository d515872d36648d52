// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestSettings creates a settings record for the given user key with
// sensible test defaults and returns it.
func CreateTestSettings(t *testing.T, app *pocketbase.PocketBase, userKey string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		t.Fatalf("failed to find settings collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("user_key", userKey)
	record.Set("company_name", "Test Electrics")
	record.Set("currency_symbol", "$")
	record.Set("default_margin_type", "percentage")
	record.Set("default_margin_value", 20)
	record.Set("default_template", "modern")
	record.Set("theme_color", "#1E293B")
	record.Set("quotation_prefix", "COT-")
	record.Set("quotation_next_number", 1)
	record.Set("tax_type", "included")
	record.Set("tax_rate", 18)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test settings: %v", err)
	}

	return record
}

// CreateTestQuote creates a quotation record linked to a user key and returns it.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, userKey, clientName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("user_key", userKey)
	record.Set("client_name", clientName)
	record.Set("margin_type", "percentage")
	record.Set("margin_value", 20)
	record.Set("tax_type", "included")
	record.Set("tax_rate", 18)
	record.Set("currency_symbol", "$")
	record.Set("template", "modern")
	record.Set("quote_date", "2025-09-02")
	record.Set("finalized", false)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// CreateTestQuoteItem creates a line item under a quotation.
func CreateTestQuoteItem(t *testing.T, app *pocketbase.PocketBase, quoteID string, sortOrder int, description string, qty, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		t.Fatalf("failed to find quotation_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quoteID)
	record.Set("sort_order", sortOrder)
	record.Set("description", description)
	record.Set("quantity", qty)
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation item: %v", err)
	}

	return record
}

// CreateTestPaymentOption creates a payment option linked to a settings record.
func CreateTestPaymentOption(t *testing.T, app *pocketbase.PocketBase, settingsID, kind, name, details string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("payment_options")
	if err != nil {
		t.Fatalf("failed to find payment_options collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("settings", settingsID)
	record.Set("kind", kind)
	record.Set("name", name)
	record.Set("details", details)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test payment option: %v", err)
	}

	return record
}
