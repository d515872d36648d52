package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"quotemaker/services"
)

// HandleQuoteItemAdd appends a line item to a quotation. Numeric fields
// arrive as strings and coerce to zero when unparseable, so a half-typed
// row never blocks saving.
func HandleQuoteItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		if _, err := app.FindRecordById("quotations", quoteId); err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		var body struct {
			Description string `json:"description"`
			Quantity    string `json:"quantity"`
			UnitPrice   string `json:"unitPrice"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		existing, err := app.FindRecordsByFilter(
			"quotation_items",
			"quotation = {:quoteId}",
			"",
			0,
			0,
			map[string]any{"quoteId": quoteId},
		)
		if err != nil {
			log.Printf("quote_items: could not count items for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("quotation_items")
		if err != nil {
			log.Printf("quote_items: could not find quotation_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// An omitted quantity defaults to 1; anything the user actually
		// typed, including "0" and garbage, coerces like every other
		// numeric field.
		quantity := services.CoerceDecimal(body.Quantity)
		if strings.TrimSpace(body.Quantity) == "" {
			quantity = decimal.NewFromInt(1)
		}

		record := core.NewRecord(col)
		record.Set("quotation", quoteId)
		record.Set("sort_order", len(existing)+1)
		record.Set("description", body.Description)
		record.Set("quantity", quantity.InexactFloat64())
		record.Set("unit_price", services.CoerceDecimal(body.UnitPrice).InexactFloat64())

		if err := app.Save(record); err != nil {
			log.Printf("quote_items: could not save item: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, map[string]string{"id": record.Id})
	}
}

// HandleQuoteItemUpdate patches a single field of a line item. Unknown
// fields are rejected so typos do not silently create stray columns.
func HandleQuoteItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemId := e.Request.PathValue("itemId")

		record, err := app.FindRecordById("quotation_items", itemId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		var body struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		switch body.Field {
		case "description":
			record.Set("description", body.Value)
		case "quantity":
			record.Set("quantity", services.CoerceDecimal(body.Value).InexactFloat64())
		case "unit_price":
			record.Set("unit_price", services.CoerceDecimal(body.Value).InexactFloat64())
		default:
			return apiError(e, http.StatusBadRequest, "Unknown field "+body.Field)
		}

		if err := app.Save(record); err != nil {
			log.Printf("quote_items: could not update item %s: %v", itemId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}
}

// HandleQuoteItemDelete removes a line item.
func HandleQuoteItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemId := e.Request.PathValue("itemId")

		record, err := app.FindRecordById("quotation_items", itemId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("quote_items: could not delete item %s: %v", itemId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}
