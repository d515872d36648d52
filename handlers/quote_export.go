package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

// HandleQuoteExportPDF streams the quotation as a PDF download. A PDF is a
// customer-facing artifact, so a first download finalizes the quotation:
// the number is peeked, the PDF rendered, and only then is the number
// committed and bound to the record. A finalized quotation re-downloads
// with its bound number without touching the counter.
func HandleQuoteExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		record, err := app.FindRecordById("quotations", quoteId)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		alreadyFinalized := record.GetBool("finalized")
		number := record.GetString("quotation_number")

		var seq *services.Sequencer
		if !alreadyFinalized {
			settings, err := services.LoadSettings(app, record.GetString("user_key"))
			if err != nil {
				log.Printf("quote_export: could not load settings: %v", err)
				return apiError(e, http.StatusInternalServerError, "Could not load settings")
			}
			seq, err = services.NewSequencer(app, settings.ID)
			if err != nil {
				log.Printf("quote_export: could not init sequencer: %v", err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			number, err = seq.Peek()
			if err != nil {
				log.Printf("quote_export: could not peek number: %v", err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		data, err := services.BuildQuoteExportData(app, quoteId)
		if err != nil {
			log.Printf("quote_export: could not build export data for %s: %v", quoteId, err)
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}
		data.QuoteNumber = number

		pdf, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_export: could not generate PDF for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Could not generate PDF")
		}

		// The artifact exists; consume the number on a first download only.
		if !alreadyFinalized {
			if _, err := seq.Commit(); err != nil {
				if errors.Is(err, services.ErrNumberingConflict) {
					log.Printf("quote_export: numbering conflict for %s: %v", quoteId, err)
					return apiError(e, http.StatusConflict,
						"The quotation number was taken by another session. Please try again.")
				}
				log.Printf("quote_export: could not commit number for %s: %v", quoteId, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}

			record.Set("quotation_number", number)
			record.Set("finalized", true)
			if err := app.Save(record); err != nil {
				log.Printf("quote_export: could not mark %s finalized: %v", quoteId, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		filename := exportFilename(data, "pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return e.Blob(http.StatusOK, "application/pdf", pdf)
	}
}

// HandleQuoteExportExcel streams the quotation as an Excel download. The
// workbook is a working copy, not a customer-facing artifact, so it never
// consumes a quotation number; drafts download unnumbered.
func HandleQuoteExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteId := e.Request.PathValue("quoteId")

		data, err := services.BuildQuoteExportData(app, quoteId)
		if err != nil {
			log.Printf("quote_export: could not build export data for %s: %v", quoteId, err)
			return apiError(e, http.StatusNotFound, "Quotation not found")
		}

		xlsx, err := services.GenerateQuoteExcel(data)
		if err != nil {
			log.Printf("quote_export: could not generate Excel for %s: %v", quoteId, err)
			return apiError(e, http.StatusInternalServerError, "Could not generate Excel file")
		}

		filename := exportFilename(data, "xlsx")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return e.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx)
	}
}

// exportFilename names the download after the quote number, falling back
// to a generic name for drafts that have no number yet.
func exportFilename(data *services.QuoteExportData, ext string) string {
	if data.QuoteNumber != "" {
		return data.QuoteNumber + "." + ext
	}
	return "quotation-draft." + ext
}
