package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// HandleQuoteCreate creates a draft quotation pre-filled with the
// workspace defaults. The displayed number is a peek at the sequencer;
// it is only consumed when the quote is finalized.
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := userKey(e)

		settings, err := services.LoadSettings(app, key)
		if err != nil {
			log.Printf("quote_create: could not load settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load settings")
		}

		var body struct {
			ClientName  string `json:"clientName"`
			ClientPhone string `json:"clientPhone"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		col, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			log.Printf("quote_create: could not find quotations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("user_key", key)
		record.Set("client_name", body.ClientName)
		record.Set("client_phone", body.ClientPhone)
		record.Set("margin_type", string(settings.DefaultMarginType))
		record.Set("margin_value", settings.DefaultMarginValue.InexactFloat64())
		record.Set("tax_type", string(settings.TaxType))
		record.Set("tax_rate", settings.TaxRate.InexactFloat64())
		record.Set("currency_symbol", settings.CurrencySymbol)
		record.Set("template", settings.DefaultTemplate)
		record.Set("quote_date", time.Now().Format("2006-01-02"))
		record.Set("finalized", false)

		if err := app.Save(record); err != nil {
			log.Printf("quote_create: could not save quotation: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// Show the number this quote would get if finalized right now.
		nextNumber := services.FormatQuoteNumber(settings.QuotationPrefix, settings.QuotationNextNumber)

		return e.JSON(http.StatusCreated, map[string]any{
			"id":         record.Id,
			"nextNumber": nextNumber,
		})
	}
}
