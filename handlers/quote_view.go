package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// quoteResponse shapes a quotation with its items and recomputed totals
// for the JSON API. Totals are always derived from the items, never read
// from storage.
func quoteResponse(app *pocketbase.PocketBase, record *core.Record) (map[string]any, error) {
	quote, err := services.BuildQuote(app, record.Id)
	if err != nil {
		return nil, err
	}
	totals := quote.ComputeTotals()

	// A draft shows the number the counter would assign next; only a
	// finalized quotation carries a permanently bound number.
	number := quote.Number
	if !quote.Finalized {
		settings, err := services.LoadSettings(app, record.GetString("user_key"))
		if err != nil {
			return nil, err
		}
		number = services.FormatQuoteNumber(settings.QuotationPrefix, settings.QuotationNextNumber)
	}

	items := []map[string]any{}
	for i, item := range quote.Items {
		items = append(items, map[string]any{
			"id":          item.ID,
			"sortOrder":   i + 1,
			"description": item.Description,
			"quantity":    item.Quantity.InexactFloat64(),
			"unitPrice":   item.UnitPrice.InexactFloat64(),
			"lineTotal":   services.LineTotal(item.Quantity, item.UnitPrice).InexactFloat64(),
			"finalPrice":  services.PerItemFinalPrice(item, quote.Margin).InexactFloat64(),
		})
	}

	return map[string]any{
		"id":          record.Id,
		"number":      number,
		"finalized":   quote.Finalized,
		"clientName":  quote.ClientName,
		"clientPhone": quote.ClientPhone,
		"quoteDate":   record.GetString("quote_date"),
		"template":    quote.Template,
		"currency":    quote.CurrencySymbol,
		"message":     record.GetString("message"),
		"margin": map[string]any{
			"type":  string(quote.Margin.Type),
			"value": quote.Margin.Value.InexactFloat64(),
		},
		"tax": map[string]any{
			"type": string(quote.Tax.Type),
			"rate": quote.Tax.Rate.InexactFloat64(),
		},
		"items": items,
		"totals": map[string]any{
			"subtotal":       totals.Subtotal.InexactFloat64(),
			"marginAmount":   totals.MarginAmount.InexactFloat64(),
			"marginAdjusted": totals.MarginAdjusted.InexactFloat64(),
			"netAmount":      totals.NetAmount.InexactFloat64(),
			"taxAmount":      totals.TaxAmount.InexactFloat64(),
			"grandTotal":     totals.GrandTotal.InexactFloat64(),
		},
	}, nil
}

// HandleQuoteView returns one quotation with items and derived totals.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		record, err := app.FindRecordById("quotations", quoteId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		resp, err := quoteResponse(app, record)
		if err != nil {
			log.Printf("quote_view: could not build response for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, resp)
	}
}
