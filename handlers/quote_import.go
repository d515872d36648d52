package handlers

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// Uploaded documents are small photos or PDFs of item lists.
const maxImportSize = 10 << 20 // 10 MB

// HandleQuoteImport creates a quotation from an uploaded document (photo
// or PDF of an item list) by running it through the extractor.
func HandleQuoteImport(app *pocketbase.PocketBase, extractor *services.Extractor) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if extractor == nil {
			return apiError(e, http.StatusServiceUnavailable, "Document import is not configured")
		}

		key := userKey(e)

		if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid upload")
		}
		file, header, err := e.Request.FormFile("document")
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Missing document file")
		}
		defer file.Close()

		contents, err := io.ReadAll(io.LimitReader(file, maxImportSize))
		if err != nil {
			log.Printf("quote_import: could not read upload: %v", err)
			return apiError(e, http.StatusBadRequest, "Could not read uploaded file")
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		result, err := extractor.ExtractItems(e.Request.Context(), contents, mimeType)
		if err != nil {
			log.Printf("quote_import: extraction failed: %v", err)
			return apiError(e, http.StatusBadGateway, "Could not extract items from the document")
		}

		settings, err := services.LoadSettings(app, key)
		if err != nil {
			log.Printf("quote_import: could not load settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load settings")
		}

		quotationsCol, err := app.FindCollectionByNameOrId("quotations")
		if err != nil {
			log.Printf("quote_import: could not find quotations collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		itemsCol, err := app.FindCollectionByNameOrId("quotation_items")
		if err != nil {
			log.Printf("quote_import: could not find quotation_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(quotationsCol)
		record.Set("user_key", key)
		record.Set("client_name", result.ClientName)
		record.Set("margin_type", string(settings.DefaultMarginType))
		record.Set("margin_value", settings.DefaultMarginValue.InexactFloat64())
		record.Set("tax_type", string(settings.TaxType))
		record.Set("tax_rate", settings.TaxRate.InexactFloat64())
		record.Set("currency_symbol", settings.CurrencySymbol)
		record.Set("template", settings.DefaultTemplate)
		record.Set("quote_date", time.Now().Format("2006-01-02"))
		record.Set("finalized", false)

		if err := app.Save(record); err != nil {
			log.Printf("quote_import: could not save quotation: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		for i, item := range result.Items {
			r := core.NewRecord(itemsCol)
			r.Set("quotation", record.Id)
			r.Set("sort_order", i+1)
			r.Set("description", item.Description)
			r.Set("quantity", item.ItemQuantity().InexactFloat64())
			r.Set("unit_price", item.ItemUnitPrice().InexactFloat64())
			if err := app.Save(r); err != nil {
				log.Printf("quote_import: could not save extracted item %q: %v", item.Description, err)
			}
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":        record.Id,
			"itemCount": len(result.Items),
		})
	}
}
