package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuoteList returns the workspace's quotations, newest first.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := userKey(e)

		records, err := app.FindRecordsByFilter(
			"quotations",
			"user_key = {:userKey}",
			"-created",
			0,
			0,
			map[string]any{"userKey": key},
		)
		if err != nil {
			log.Printf("quote_list: could not query quotations: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		quotes := []map[string]any{}
		for _, rec := range records {
			quotes = append(quotes, map[string]any{
				"id":         rec.Id,
				"number":     rec.GetString("quotation_number"),
				"finalized":  rec.GetBool("finalized"),
				"clientName": rec.GetString("client_name"),
				"quoteDate":  rec.GetString("quote_date"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"quotes": quotes})
	}
}

// HandleQuoteDelete removes a quotation; its items follow via cascade.
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		record, err := app.FindRecordById("quotations", quoteId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("quote_list: could not delete quotation %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}
