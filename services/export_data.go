package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"
)

// QuoteExportData holds everything needed to render a quotation document
// (PDF or Excel) and to assemble the delivery payload. All amounts are
// presentation-rounded; the underlying pipeline stays in full precision
// until this point.
type QuoteExportData struct {
	// Company header
	CompanyName           string
	CompanyLogo           string
	CompanyAddress        string
	CompanyPhone          string
	CompanyEmail          string
	CompanyWebsite        string
	CompanyDocumentType   string
	CompanyDocumentNumber string
	ThemeColor            string
	HeaderImage           string
	Template              string

	// Quote header
	QuoteNumber string
	QuoteDate   string

	// Client block
	ClientName  string
	ClientPhone string

	CurrencySymbol string

	LineItems []QuoteExportLineItem

	// Totals block
	Subtotal       float64
	MarginAmount   float64
	MarginAdjusted float64
	NetAmount      float64
	TaxAmount      float64
	TaxRate        float64
	TaxType        TaxType
	GrandTotal     float64
	AmountInWords  string

	// Payment blocks
	PaymentTerms   []PaymentOption
	PaymentMethods []PaymentOption
	Message        string
}

// QuoteExportLineItem is a single rendered table row. FinalPrice is the
// per-item price after margin (percentage margins distribute per row,
// fixed margins do not).
type QuoteExportLineItem struct {
	SINo        int
	Description string
	Qty         float64
	UnitPrice   float64
	LineTotal   float64
	FinalPrice  float64
}

// BuildQuote reconstructs the in-memory quotation model from its persisted
// records. Derived figures are then recomputed by the caller through
// Quote.ComputeTotals, never read back from storage.
func BuildQuote(app *pocketbase.PocketBase, quoteID string) (*Quote, error) {
	record, err := app.FindRecordById("quotations", quoteID)
	if err != nil {
		return nil, fmt.Errorf("export_data: quotation %s not found: %w", quoteID, err)
	}

	itemRecords, err := app.FindRecordsByFilter(
		"quotation_items",
		"quotation = {:quoteId}",
		"sort_order",
		0,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		log.Printf("export_data: could not fetch items for quotation %s: %v", quoteID, err)
		itemRecords = nil
	}

	quote := &Quote{
		Margin: MarginPolicy{
			Type:  MarginType(record.GetString("margin_type")),
			Value: decimal.NewFromFloat(record.GetFloat("margin_value")),
		},
		Tax: TaxPolicy{
			Type: TaxType(record.GetString("tax_type")),
			Rate: decimal.NewFromFloat(record.GetFloat("tax_rate")),
		},
		CurrencySymbol: record.GetString("currency_symbol"),
		ClientName:     record.GetString("client_name"),
		ClientPhone:    record.GetString("client_phone"),
		Template:       record.GetString("template"),
		Number:         record.GetString("quotation_number"),
		Finalized:      record.GetBool("finalized"),
	}
	if quote.Margin.Type != MarginPercentage && quote.Margin.Type != MarginFixed {
		quote.Margin.Type = MarginPercentage
	}
	if quote.Tax.Type != TaxIncluded && quote.Tax.Type != TaxAdded {
		quote.Tax.Type = DefaultTaxType
	}

	for _, item := range itemRecords {
		quote.Items = append(quote.Items, LineItem{
			ID:          item.Id,
			Description: item.GetString("description"),
			Quantity:    decimal.NewFromFloat(item.GetFloat("quantity")),
			UnitPrice:   decimal.NewFromFloat(item.GetFloat("unit_price")),
		})
	}

	return quote, nil
}

// BuildQuoteExportData assembles the render-ready document view model for
// a quotation: company identity from the policy store, the client block,
// the itemized table with per-item final prices, and the totals block.
func BuildQuoteExportData(app *pocketbase.PocketBase, quoteID string) (*QuoteExportData, error) {
	record, err := app.FindRecordById("quotations", quoteID)
	if err != nil {
		return nil, fmt.Errorf("export_data: quotation %s not found: %w", quoteID, err)
	}

	quote, err := BuildQuote(app, quoteID)
	if err != nil {
		return nil, err
	}

	settings, err := LoadSettings(app, record.GetString("user_key"))
	if err != nil {
		return nil, fmt.Errorf("export_data: load settings: %w", err)
	}

	totals := quote.ComputeTotals()

	var lineItems []QuoteExportLineItem
	for i, item := range quote.Items {
		lineItems = append(lineItems, QuoteExportLineItem{
			SINo:        i + 1,
			Description: item.Description,
			Qty:         item.Quantity.InexactFloat64(),
			UnitPrice:   roundDisplay(item.UnitPrice),
			LineTotal:   roundDisplay(LineTotal(item.Quantity, item.UnitPrice)),
			FinalPrice:  roundDisplay(PerItemFinalPrice(item, quote.Margin)),
		})
	}

	template := quote.Template
	if template == "" {
		template = settings.DefaultTemplate
	}
	currency := quote.CurrencySymbol
	if currency == "" {
		currency = settings.CurrencySymbol
	}

	return &QuoteExportData{
		CompanyName:           settings.CompanyName,
		CompanyLogo:           settings.CompanyLogo,
		CompanyAddress:        settings.CompanyAddress,
		CompanyPhone:          settings.CompanyPhone,
		CompanyEmail:          settings.CompanyEmail,
		CompanyWebsite:        settings.CompanyWebsite,
		CompanyDocumentType:   settings.CompanyDocumentType,
		CompanyDocumentNumber: settings.CompanyDocumentNumber,
		ThemeColor:            settings.ThemeColor,
		HeaderImage:           settings.HeaderImage,
		Template:              template,

		QuoteNumber: quote.Number,
		QuoteDate:   record.GetString("quote_date"),

		ClientName:  quote.ClientName,
		ClientPhone: quote.ClientPhone,

		CurrencySymbol: currency,

		LineItems: lineItems,

		Subtotal:       roundDisplay(totals.Subtotal),
		MarginAmount:   roundDisplay(totals.MarginAmount),
		MarginAdjusted: roundDisplay(totals.MarginAdjusted),
		NetAmount:      roundDisplay(totals.NetAmount),
		TaxAmount:      roundDisplay(totals.TaxAmount),
		TaxRate:        quote.Tax.Rate.InexactFloat64(),
		TaxType:        quote.Tax.Type,
		GrandTotal:     roundDisplay(totals.GrandTotal),
		AmountInWords:  AmountInWords(totals.GrandTotal),

		PaymentTerms:   settings.PaymentTerms,
		PaymentMethods: settings.PaymentMethods,
		Message:        record.GetString("message"),
	}, nil
}
