package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemaker/services"
)

func settingsResponse(s *services.Settings) map[string]any {
	return map[string]any{
		"companyName":           s.CompanyName,
		"companyLogo":           s.CompanyLogo,
		"companyAddress":        s.CompanyAddress,
		"companyPhone":          s.CompanyPhone,
		"companyEmail":          s.CompanyEmail,
		"companyWebsite":        s.CompanyWebsite,
		"companyDocumentType":   s.CompanyDocumentType,
		"companyDocumentNumber": s.CompanyDocumentNumber,
		"currencySymbol":        s.CurrencySymbol,
		"defaultMarginType":     string(s.DefaultMarginType),
		"defaultMarginValue":    s.DefaultMarginValue.InexactFloat64(),
		"defaultTemplate":       s.DefaultTemplate,
		"themeColor":            s.ThemeColor,
		"headerImage":           s.HeaderImage,
		"quotationPrefix":       s.QuotationPrefix,
		"nextNumber":            services.FormatQuoteNumber(s.QuotationPrefix, s.QuotationNextNumber),
		"taxType":               string(s.TaxType),
		"taxRate":               s.TaxRate.InexactFloat64(),
		"paymentTerms":          s.PaymentTerms,
		"paymentMethods":        s.PaymentMethods,
	}
}

// HandleSettingsView returns the workspace settings, creating defaults on
// first access.
func HandleSettingsView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.LoadSettings(app, userKey(e))
		if err != nil {
			log.Printf("settings: could not load settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load settings")
		}
		return e.JSON(http.StatusOK, settingsResponse(settings))
	}
}

// HandleSettingsSave updates the workspace settings. The numbering counter
// is not writable through this endpoint.
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings, err := services.LoadSettings(app, userKey(e))
		if err != nil {
			log.Printf("settings: could not load settings: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load settings")
		}

		var body struct {
			CompanyName           *string `json:"companyName"`
			CompanyLogo           *string `json:"companyLogo"`
			CompanyAddress        *string `json:"companyAddress"`
			CompanyPhone          *string `json:"companyPhone"`
			CompanyEmail          *string `json:"companyEmail"`
			CompanyWebsite        *string `json:"companyWebsite"`
			CompanyDocumentType   *string `json:"companyDocumentType"`
			CompanyDocumentNumber *string `json:"companyDocumentNumber"`
			CurrencySymbol        *string `json:"currencySymbol"`
			DefaultMarginType     *string `json:"defaultMarginType"`
			DefaultMarginValue    *string `json:"defaultMarginValue"`
			DefaultTemplate       *string `json:"defaultTemplate"`
			ThemeColor            *string `json:"themeColor"`
			HeaderImage           *string `json:"headerImage"`
			QuotationPrefix       *string `json:"quotationPrefix"`
			TaxType               *string `json:"taxType"`
			TaxRate               *string `json:"taxRate"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		setString := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		setString(&settings.CompanyName, body.CompanyName)
		setString(&settings.CompanyLogo, body.CompanyLogo)
		setString(&settings.CompanyAddress, body.CompanyAddress)
		setString(&settings.CompanyPhone, body.CompanyPhone)
		setString(&settings.CompanyEmail, body.CompanyEmail)
		setString(&settings.CompanyWebsite, body.CompanyWebsite)
		setString(&settings.CompanyDocumentType, body.CompanyDocumentType)
		setString(&settings.CompanyDocumentNumber, body.CompanyDocumentNumber)
		setString(&settings.CurrencySymbol, body.CurrencySymbol)
		setString(&settings.DefaultTemplate, body.DefaultTemplate)
		setString(&settings.ThemeColor, body.ThemeColor)
		setString(&settings.HeaderImage, body.HeaderImage)
		setString(&settings.QuotationPrefix, body.QuotationPrefix)

		if body.DefaultMarginType != nil {
			settings.DefaultMarginType = services.MarginType(*body.DefaultMarginType)
		}
		if body.DefaultMarginValue != nil {
			settings.DefaultMarginValue = services.CoerceDecimal(*body.DefaultMarginValue)
		}
		if body.TaxType != nil {
			settings.TaxType = services.TaxType(*body.TaxType)
		}
		if body.TaxRate != nil {
			settings.TaxRate = services.CoerceDecimal(*body.TaxRate)
		}

		if err := services.SaveSettings(app, settings); err != nil {
			log.Printf("settings: could not save settings: %v", err)
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, settingsResponse(settings))
	}
}
