package collections_test

import (
	"testing"

	"quotemaker/collections"
	"quotemaker/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"settings",
	"payment_options",
	"quotations",
	"quotation_items",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	collections.Setup(app)

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_SettingsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("settings")

	fields := []string{
		"user_key", "company_name", "company_logo", "company_address",
		"company_phone", "company_email", "company_website",
		"company_document_type", "company_document_number",
		"currency_symbol", "default_margin_type", "default_margin_value",
		"default_template", "theme_color", "header_image",
		"quotation_prefix", "quotation_next_number",
		"tax_type", "tax_rate", "created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("settings: missing field %q", f)
		}
	}

	// tax_type is a select field with the two supported modes
	taxField := col.Fields.GetByName("tax_type")
	if sf, ok := taxField.(*core.SelectField); ok {
		expected := map[string]bool{"included": true, "added": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected tax_type value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing tax_type value: %q", v)
		}
	} else {
		t.Errorf("tax_type field is not a SelectField")
	}

	// default_margin_type is a select with percentage/fixed
	marginField := col.Fields.GetByName("default_margin_type")
	if sf, ok := marginField.(*core.SelectField); ok {
		if len(sf.Values) != 2 {
			t.Errorf("settings.default_margin_type: expected 2 values, got %d", len(sf.Values))
		}
	} else {
		t.Errorf("default_margin_type field is not a SelectField")
	}
}

func TestSetup_PaymentOptionsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("payment_options")

	fields := []string{"settings", "kind", "name", "details", "sort_order"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("payment_options: missing field %q", f)
		}
	}

	// settings relation with cascade delete
	settingsField := col.Fields.GetByName("settings")
	if rf, ok := settingsField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("payment_options.settings: expected CascadeDelete=true")
		}
		if rf.MaxSelect != 1 {
			t.Errorf("payment_options.settings: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
	} else {
		t.Errorf("payment_options.settings is not a RelationField")
	}

	// kind is a select with term/method
	kindField := col.Fields.GetByName("kind")
	if sf, ok := kindField.(*core.SelectField); ok {
		if len(sf.Values) != 2 {
			t.Errorf("payment_options.kind: expected 2 values, got %d", len(sf.Values))
		}
	}
}

func TestSetup_QuotationsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotations")

	fields := []string{
		"user_key", "client_name", "client_phone", "quotation_number",
		"finalized", "margin_type", "margin_value", "tax_type", "tax_rate",
		"currency_symbol", "template", "message", "quote_date",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotations: missing field %q", f)
		}
	}

	// template select with modern/classic
	templateField := col.Fields.GetByName("template")
	if sf, ok := templateField.(*core.SelectField); ok {
		if len(sf.Values) != 2 {
			t.Errorf("quotations.template: expected 2 values, got %d", len(sf.Values))
		}
	}
}

func TestSetup_QuotationItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotation_items")

	fields := []string{"quotation", "sort_order", "description", "quantity", "unit_price"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotation_items: missing field %q", f)
		}
	}

	// quotation relation with cascade delete
	quotationField := col.Fields.GetByName("quotation")
	if rf, ok := quotationField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("quotation_items.quotation: expected CascadeDelete=true")
		}
	}
}

func TestSetup_ItemCascadeDeleteOnQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	quote := testhelpers.CreateTestQuote(t, app, "demo", "Cascade Client")
	item := testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Cascade Item", 1, 100)

	if err := app.Delete(quote); err != nil {
		t.Fatalf("failed to delete quotation: %v", err)
	}

	if _, err := app.FindRecordById("quotation_items", item.Id); err == nil {
		t.Error("quotation_item should have been cascade-deleted with quotation")
	}
}

func TestSetup_PaymentOptionCascadeDeleteOnSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	settings := testhelpers.CreateTestSettings(t, app, "demo")
	option := testhelpers.CreateTestPaymentOption(t, app, settings.Id, "method", "Bank Transfer", "Cta. 191-2345678")

	if err := app.Delete(settings); err != nil {
		t.Fatalf("failed to delete settings: %v", err)
	}

	if _, err := app.FindRecordById("payment_options", option.Id); err == nil {
		t.Error("payment option should have been cascade-deleted with settings")
	}
}
