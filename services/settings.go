package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// Defaults applied when a settings field is absent from a previously
// persisted record. The upgrade is deterministic and never overwrites a
// field that is already present.
const (
	DefaultQuotationPrefix = "COT-"
	DefaultNextNumber      = 1
	DefaultTaxRate         = 18
	DefaultTaxType         = TaxIncluded
	DefaultTemplate        = "modern"
	DefaultCurrencySymbol  = "$"
	DefaultThemeColor      = "#1E293B"
)

// PaymentOption is a named, reusable payment terms or methods template.
// The engine performs no computation on it; it only flows into the
// composed document and the delivery payload.
type PaymentOption struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Settings is the policy store for one user: company identity, pricing
// defaults, and the quotation numbering state it exclusively owns.
type Settings struct {
	ID      string
	UserKey string

	CompanyName           string
	CompanyLogo           string
	CompanyAddress        string
	CompanyPhone          string
	CompanyEmail          string
	CompanyWebsite        string
	CompanyDocumentType   string
	CompanyDocumentNumber string

	CurrencySymbol     string
	DefaultMarginType  MarginType
	DefaultMarginValue decimal.Decimal
	DefaultTemplate    string
	ThemeColor         string
	HeaderImage        string

	QuotationPrefix     string
	QuotationNextNumber int

	TaxType TaxType
	TaxRate decimal.Decimal

	PaymentTerms   []PaymentOption
	PaymentMethods []PaymentOption
}

// LoadSettings returns the settings for the given user key, creating a
// default record when none exists yet. Fields absent from a previously
// persisted record are filled from the defaults table on the way out, so
// callers always see a complete Settings value.
func LoadSettings(app *pocketbase.PocketBase, userKey string) (*Settings, error) {
	record, err := findSettingsRecord(app, userKey)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record, err = createDefaultSettings(app, userKey)
		if err != nil {
			return nil, err
		}
	}

	s := settingsFromRecord(record)

	terms, methods, err := loadPaymentOptions(app, record.Id)
	if err != nil {
		// Missing payment options should not make settings unloadable.
		log.Printf("settings: could not load payment options for %s: %v", record.Id, err)
	}
	s.PaymentTerms = terms
	s.PaymentMethods = methods

	return s, nil
}

// SaveSettings validates and persists the mutable settings fields. The
// numbering counter is only writable through the Sequencer and is left
// untouched here.
func SaveSettings(app *pocketbase.PocketBase, s *Settings) error {
	if s.TaxRate.IsNegative() {
		return fmt.Errorf("settings: tax rate must be >= 0, got %s", s.TaxRate)
	}
	if s.DefaultMarginType != MarginPercentage && s.DefaultMarginType != MarginFixed {
		return fmt.Errorf("settings: unknown margin type %q", s.DefaultMarginType)
	}
	if s.TaxType != TaxIncluded && s.TaxType != TaxAdded {
		return fmt.Errorf("settings: unknown tax type %q", s.TaxType)
	}

	record, err := app.FindRecordById("settings", s.ID)
	if err != nil {
		return fmt.Errorf("settings: load record %s: %w", s.ID, err)
	}

	record.Set("company_name", s.CompanyName)
	record.Set("company_logo", s.CompanyLogo)
	record.Set("company_address", s.CompanyAddress)
	record.Set("company_phone", s.CompanyPhone)
	record.Set("company_email", s.CompanyEmail)
	record.Set("company_website", s.CompanyWebsite)
	record.Set("company_document_type", s.CompanyDocumentType)
	record.Set("company_document_number", s.CompanyDocumentNumber)
	record.Set("currency_symbol", s.CurrencySymbol)
	record.Set("default_margin_type", string(s.DefaultMarginType))
	record.Set("default_margin_value", s.DefaultMarginValue.InexactFloat64())
	record.Set("default_template", s.DefaultTemplate)
	record.Set("theme_color", s.ThemeColor)
	record.Set("header_image", s.HeaderImage)
	record.Set("quotation_prefix", s.QuotationPrefix)
	record.Set("tax_type", string(s.TaxType))
	record.Set("tax_rate", s.TaxRate.InexactFloat64())

	if err := app.Save(record); err != nil {
		return fmt.Errorf("settings: persist record %s: %w", s.ID, err)
	}
	return nil
}

// findSettingsRecord returns the settings record for a user key, or nil
// when none exists.
func findSettingsRecord(app *pocketbase.PocketBase, userKey string) (*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"settings",
		"user_key = {:userKey}",
		"",
		1,
		0,
		map[string]any{"userKey": userKey},
	)
	if err != nil {
		return nil, fmt.Errorf("settings: query settings for %q: %w", userKey, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func createDefaultSettings(app *pocketbase.PocketBase, userKey string) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return nil, fmt.Errorf("settings: find settings collection: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("user_key", userKey)
	ApplySettingsDefaults(record)

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("settings: create defaults for %q: %w", userKey, err)
	}
	return record, nil
}

// ApplySettingsDefaults fills every absent field on a settings record from
// the defaults table and reports whether anything changed. Present fields
// are never downgraded or dropped. It is the single upgrade point for
// records persisted by older versions.
func ApplySettingsDefaults(record *core.Record) bool {
	changed := false

	setIfEmpty := func(field, value string) {
		if record.GetString(field) == "" {
			record.Set(field, value)
			changed = true
		}
	}

	// A record persisted before the tax fields existed has an empty
	// tax_type. Only then does the zero tax_rate mean "absent"; an explicit
	// zero rate on an upgraded record survives untouched.
	if record.GetString("tax_type") == "" {
		record.Set("tax_type", string(DefaultTaxType))
		record.Set("tax_rate", DefaultTaxRate)
		changed = true
	}

	setIfEmpty("quotation_prefix", DefaultQuotationPrefix)
	setIfEmpty("currency_symbol", DefaultCurrencySymbol)
	setIfEmpty("default_margin_type", string(MarginPercentage))
	setIfEmpty("default_template", DefaultTemplate)
	setIfEmpty("theme_color", DefaultThemeColor)

	if record.GetInt("quotation_next_number") < 1 {
		record.Set("quotation_next_number", DefaultNextNumber)
		changed = true
	}

	return changed
}

func settingsFromRecord(record *core.Record) *Settings {
	marginType := MarginType(record.GetString("default_margin_type"))
	if marginType != MarginPercentage && marginType != MarginFixed {
		marginType = MarginPercentage
	}
	taxType := TaxType(record.GetString("tax_type"))
	if taxType != TaxIncluded && taxType != TaxAdded {
		taxType = DefaultTaxType
	}

	nextNumber := record.GetInt("quotation_next_number")
	if nextNumber < 1 {
		nextNumber = DefaultNextNumber
	}

	prefix := record.GetString("quotation_prefix")
	if prefix == "" {
		prefix = DefaultQuotationPrefix
	}
	template := record.GetString("default_template")
	if template == "" {
		template = DefaultTemplate
	}
	currency := record.GetString("currency_symbol")
	if currency == "" {
		currency = DefaultCurrencySymbol
	}

	return &Settings{
		ID:      record.Id,
		UserKey: record.GetString("user_key"),

		CompanyName:           record.GetString("company_name"),
		CompanyLogo:           record.GetString("company_logo"),
		CompanyAddress:        record.GetString("company_address"),
		CompanyPhone:          record.GetString("company_phone"),
		CompanyEmail:          record.GetString("company_email"),
		CompanyWebsite:        record.GetString("company_website"),
		CompanyDocumentType:   record.GetString("company_document_type"),
		CompanyDocumentNumber: record.GetString("company_document_number"),

		CurrencySymbol:     currency,
		DefaultMarginType:  marginType,
		DefaultMarginValue: decimal.NewFromFloat(record.GetFloat("default_margin_value")),
		DefaultTemplate:    template,
		ThemeColor:         record.GetString("theme_color"),
		HeaderImage:        record.GetString("header_image"),

		QuotationPrefix:     prefix,
		QuotationNextNumber: nextNumber,

		TaxType: taxType,
		TaxRate: decimal.NewFromFloat(record.GetFloat("tax_rate")),
	}
}

// loadPaymentOptions returns the terms and methods linked to a settings
// record, ordered by sort_order.
func loadPaymentOptions(app *pocketbase.PocketBase, settingsID string) (terms, methods []PaymentOption, err error) {
	records, err := app.FindRecordsByFilter(
		"payment_options",
		"settings = {:settingsId}",
		"sort_order",
		0,
		0,
		map[string]any{"settingsId": settingsID},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("settings: query payment options: %w", err)
	}

	for _, rec := range records {
		opt := PaymentOption{
			ID:      rec.Id,
			Name:    rec.GetString("name"),
			Details: rec.GetString("details"),
		}
		switch rec.GetString("kind") {
		case "method":
			methods = append(methods, opt)
		default:
			terms = append(terms, opt)
		}
	}
	return terms, methods, nil
}
