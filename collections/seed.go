package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type paymentOptionDef struct {
	kind      string
	name      string
	details   string
	sortOrder int
}

type quoteItemDef struct {
	sortOrder   int
	description string
	quantity    float64
	unitPrice   float64
}

type quoteDef struct {
	clientName  string
	clientPhone string
	marginType  string
	marginValue float64
	taxType     string
	taxRate     float64
	template    string
	message     string
	quoteDate   string
	items       []quoteItemDef
}

// Seed populates the collections with a demo workspace: one settings
// record with payment options and a draft quotation. It is safe to call
// on every startup because it returns early if any settings records
// already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if settings already exist ──────────────────
	settingsCol, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("seed: could not find settings collection: %w", err)
	}
	existing, err := app.FindAllRecords(settingsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query settings: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: settings collection is empty – inserting seed data …")

	paymentOptionsCol, err := app.FindCollectionByNameOrId("payment_options")
	if err != nil {
		return fmt.Errorf("seed: could not find payment_options collection: %w", err)
	}
	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("seed: could not find quotations collection: %w", err)
	}
	quotationItemsCol, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		return fmt.Errorf("seed: could not find quotation_items collection: %w", err)
	}

	// ── settings ─────────────────────────────────────────────────────
	s := core.NewRecord(settingsCol)
	s.Set("user_key", "demo")
	s.Set("company_name", "Fernandez Electrical Services")
	s.Set("company_address", "Av. Central 1240, Local 3")
	s.Set("company_phone", "+51 987 654 321")
	s.Set("company_email", "contacto@fernandezelectric.pe")
	s.Set("company_document_type", "RUC")
	s.Set("company_document_number", "20601234567")
	s.Set("currency_symbol", "S/")
	s.Set("default_margin_type", string(services.MarginPercentage))
	s.Set("default_margin_value", 20)
	s.Set("default_template", services.DefaultTemplate)
	s.Set("theme_color", services.DefaultThemeColor)
	s.Set("quotation_prefix", services.DefaultQuotationPrefix)
	s.Set("quotation_next_number", services.DefaultNextNumber)
	s.Set("tax_type", string(services.DefaultTaxType))
	s.Set("tax_rate", services.DefaultTaxRate)
	if err := app.Save(s); err != nil {
		return fmt.Errorf("seed: save settings: %w", err)
	}

	// ── payment options ──────────────────────────────────────────────
	options := []paymentOptionDef{
		{kind: "term", name: "50% Advance", details: "50% on acceptance, 50% on completion", sortOrder: 1},
		{kind: "term", name: "Valid 15 Days", details: "Prices valid for 15 calendar days", sortOrder: 2},
		{kind: "method", name: "Bank Transfer", details: "BCP Cta. 191-2345678-0-90", sortOrder: 1},
		{kind: "method", name: "Yape", details: "+51 987 654 321", sortOrder: 2},
	}
	for _, d := range options {
		r := core.NewRecord(paymentOptionsCol)
		r.Set("settings", s.Id)
		r.Set("kind", d.kind)
		r.Set("name", d.name)
		r.Set("details", d.details)
		r.Set("sort_order", d.sortOrder)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save payment option %q: %w", d.name, err)
		}
	}

	// ── sample quotation ─────────────────────────────────────────────
	q := quoteDef{
		clientName:  "Maria Torres",
		clientPhone: "+51 912 345 678",
		marginType:  string(services.MarginPercentage),
		marginValue: 20,
		taxType:     string(services.DefaultTaxType),
		taxRate:     services.DefaultTaxRate,
		template:    services.DefaultTemplate,
		message:     "Thank you for considering us for your electrical installation.",
		quoteDate:   "2025-09-02",
		items: []quoteItemDef{
			{sortOrder: 1, description: "Electrical outlet installation (double socket)", quantity: 2, unitPrice: 150},
			{sortOrder: 2, description: "Breaker panel inspection and labeling", quantity: 1, unitPrice: 300.5},
			{sortOrder: 3, description: "LED spotlight supply and fitting", quantity: 5, unitPrice: 25.25},
		},
	}

	qr := core.NewRecord(quotationsCol)
	qr.Set("user_key", "demo")
	qr.Set("client_name", q.clientName)
	qr.Set("client_phone", q.clientPhone)
	qr.Set("margin_type", q.marginType)
	qr.Set("margin_value", q.marginValue)
	qr.Set("tax_type", q.taxType)
	qr.Set("tax_rate", q.taxRate)
	qr.Set("currency_symbol", "S/")
	qr.Set("template", q.template)
	qr.Set("message", q.message)
	qr.Set("quote_date", q.quoteDate)
	qr.Set("finalized", false)
	if err := app.Save(qr); err != nil {
		return fmt.Errorf("seed: save quotation: %w", err)
	}

	for _, d := range q.items {
		r := core.NewRecord(quotationItemsCol)
		r.Set("quotation", qr.Id)
		r.Set("sort_order", d.sortOrder)
		r.Set("description", d.description)
		r.Set("quantity", d.quantity)
		r.Set("unit_price", d.unitPrice)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save quotation item %q: %w", d.description, err)
		}
	}

	log.Println("seed: all seed data inserted successfully (1 settings, 4 payment options, 1 quotation)")
	return nil
}
