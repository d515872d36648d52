package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// HandlePaymentOptionAdd creates a payment terms or methods template on
// the workspace settings.
func HandlePaymentOptionAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.LoadSettings(app, userKey(e))
		if err != nil {
			log.Printf("payment_options: could not load settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load settings")
		}

		var body struct {
			Kind    string `json:"kind"`
			Name    string `json:"name"`
			Details string `json:"details"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if body.Kind != "term" && body.Kind != "method" {
			return apiError(e, http.StatusBadRequest, "Kind must be term or method")
		}
		if body.Name == "" {
			return apiError(e, http.StatusBadRequest, "Name is required")
		}

		col, err := app.FindCollectionByNameOrId("payment_options")
		if err != nil {
			log.Printf("payment_options: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		sortOrder := len(settings.PaymentTerms)
		if body.Kind == "method" {
			sortOrder = len(settings.PaymentMethods)
		}

		record := core.NewRecord(col)
		record.Set("settings", settings.ID)
		record.Set("kind", body.Kind)
		record.Set("name", body.Name)
		record.Set("details", body.Details)
		record.Set("sort_order", sortOrder+1)

		if err := app.Save(record); err != nil {
			log.Printf("payment_options: could not save option: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, map[string]string{"id": record.Id})
	}
}

// HandlePaymentOptionDelete removes a payment option.
func HandlePaymentOptionDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		optionId := e.Request.PathValue("optionId")

		record, err := app.FindRecordById("payment_options", optionId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Payment option not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("payment_options: could not delete option %s: %v", optionId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}
