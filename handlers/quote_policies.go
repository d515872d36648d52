package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// HandleQuotePolicies updates the margin and tax policies of a quotation.
// Only the fields present in the body change.
func HandleQuotePolicies(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		record, err := app.FindRecordById("quotations", quoteId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		var body struct {
			MarginType  *string `json:"marginType"`
			MarginValue *string `json:"marginValue"`
			TaxType     *string `json:"taxType"`
			TaxRate     *string `json:"taxRate"`
			Template    *string `json:"template"`
			Message     *string `json:"message"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if body.MarginType != nil {
			mt := services.MarginType(*body.MarginType)
			if mt != services.MarginPercentage && mt != services.MarginFixed {
				return apiError(e, http.StatusBadRequest, "Margin type must be percentage or fixed")
			}
			record.Set("margin_type", string(mt))
		}
		if body.MarginValue != nil {
			record.Set("margin_value", services.CoerceDecimal(*body.MarginValue).InexactFloat64())
		}
		if body.TaxType != nil {
			tt := services.TaxType(*body.TaxType)
			if tt != services.TaxIncluded && tt != services.TaxAdded {
				return apiError(e, http.StatusBadRequest, "Tax type must be included or added")
			}
			record.Set("tax_type", string(tt))
		}
		if body.TaxRate != nil {
			rate := services.CoerceDecimal(*body.TaxRate)
			if rate.IsNegative() {
				return apiError(e, http.StatusBadRequest, "Tax rate must be zero or positive")
			}
			record.Set("tax_rate", rate.InexactFloat64())
		}
		if body.Template != nil {
			record.Set("template", *body.Template)
		}
		if body.Message != nil {
			record.Set("message", *body.Message)
		}

		if err := app.Save(record); err != nil {
			log.Printf("quote_policies: could not save quotation %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		resp, err := quoteResponse(app, record)
		if err != nil {
			log.Printf("quote_policies: could not build response for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, resp)
	}
}
