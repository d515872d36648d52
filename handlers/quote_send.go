package handlers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// HandleQuoteSend finalizes a quotation and delivers it: the number is
// peeked, the PDF rendered, the payload delivered, and only then is the
// number committed and bound to the record. A quotation that is already
// finalized keeps its number and is simply re-delivered.
func HandleQuoteSend(app *pocketbase.PocketBase, deliverer services.Deliverer) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		record, err := app.FindRecordById("quotations", quoteId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		alreadyFinalized := record.GetBool("finalized")

		settings, err := services.LoadSettings(app, record.GetString("user_key"))
		if err != nil {
			log.Printf("quote_send: could not load settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load settings")
		}

		var seq *services.Sequencer
		number := record.GetString("quotation_number")
		if !alreadyFinalized {
			seq, err = services.NewSequencer(app, settings.ID)
			if err != nil {
				log.Printf("quote_send: could not init sequencer: %v", err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			number, err = seq.Peek()
			if err != nil {
				log.Printf("quote_send: could not peek number: %v", err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		data, err := services.BuildQuoteExportData(app, quoteId)
		if err != nil {
			log.Printf("quote_send: could not build export data for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		data.QuoteNumber = number

		pdf, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_send: could not generate PDF for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Could not generate PDF")
		}

		payload := services.BuildQuotePayload(data, base64.StdEncoding.EncodeToString(pdf))

		if deliverer == nil {
			return apiError(e, http.StatusServiceUnavailable, "No delivery channel is configured")
		}
		if err := deliverer.Deliver(e.Request.Context(), payload); err != nil {
			log.Printf("quote_send: delivery failed for %s: %v", quoteId, err)
			return apiError(e, http.StatusBadGateway, "Delivery failed. The quotation was not finalized.")
		}

		// Delivery succeeded; consume the number only for a first send.
		if !alreadyFinalized {
			if _, err := seq.Commit(); err != nil {
				if errors.Is(err, services.ErrNumberingConflict) {
					log.Printf("quote_send: numbering conflict for %s: %v", quoteId, err)
					return apiError(e, http.StatusConflict,
						"The quotation number was taken by another session. Please try again.")
				}
				log.Printf("quote_send: could not commit number for %s: %v", quoteId, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}

			record.Set("quotation_number", number)
			record.Set("finalized", true)
			if err := app.Save(record); err != nil {
				log.Printf("quote_send: could not mark %s finalized: %v", quoteId, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"number":    number,
			"delivered": true,
		})
	}
}
