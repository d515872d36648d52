package services

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// quoteTheme carries the colors derived from the selected template and the
// settings theme color.
type quoteTheme struct {
	accent  *props.Color
	muted   *props.Color
	tableBg *props.Color
	altBg   *props.Color
}

// GenerateQuotePDF renders the quotation document with maroto/v2 and
// returns the raw PDF bytes. The "modern" template uses the settings theme
// color for headers; "classic" stays monochrome.
func GenerateQuotePDF(data *QuoteExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)
	theme := themeFor(data)

	addQuoteHeader(m, data, theme)
	addClientBlock(m, data, theme)
	addItemsTable(m, data, theme)
	addTotalsBlock(m, data, theme)
	addAmountInWords(m, data)
	addPaymentBlocks(m, data, theme)
	addMessage(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func themeFor(data *QuoteExportData) quoteTheme {
	muted := &props.Color{Red: 100, Green: 100, Blue: 100}
	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	if data.Template == "classic" {
		charcoal := &props.Color{Red: 33, Green: 37, Blue: 41}
		return quoteTheme{accent: charcoal, muted: muted, tableBg: charcoal, altBg: altBg}
	}

	accent := parseHexColor(data.ThemeColor)
	return quoteTheme{accent: accent, muted: muted, tableBg: accent, altBg: altBg}
}

// parseHexColor converts "#RRGGBB" into a maroto color, falling back to
// the default slate accent for malformed input.
func parseHexColor(s string) *props.Color {
	fallback := &props.Color{Red: 30, Green: 41, Blue: 59}
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}

	r, errR := strconv.ParseUint(s[1:3], 16, 8)
	g, errG := strconv.ParseUint(s[3:5], 16, 8)
	b, errB := strconv.ParseUint(s[5:7], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return fallback
	}

	return &props.Color{Red: int(r), Green: int(g), Blue: int(b)}
}

func addQuoteHeader(m core.Maroto, data *QuoteExportData, theme quoteTheme) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: theme.accent,
				}),
			),
			col.New(6).Add(
				text.New("QUOTATION", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: theme.accent,
				}),
			),
		),
	)

	contactLine := joinNonEmpty([]string{data.CompanyAddress, data.CompanyPhone, data.CompanyEmail, data.CompanyWebsite}, " | ")
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(contactLine, props.Text{
					Size:  8,
					Align: align.Left,
					Color: theme.muted,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("No: %s", data.QuoteNumber), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	if data.CompanyDocumentType != "" && data.CompanyDocumentNumber != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(6).Add(
					text.New(fmt.Sprintf("%s: %s", data.CompanyDocumentType, data.CompanyDocumentNumber), props.Text{
						Size:  8,
						Align: align.Left,
						Color: theme.muted,
					}),
				),
				col.New(6).Add(
					text.New(fmtField("Date", data.QuoteDate), props.Text{
						Size:  8,
						Align: align.Right,
						Color: theme.muted,
					}),
				),
			),
		)
	} else if data.QuoteDate != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(fmtField("Date", data.QuoteDate), props.Text{
						Size:  8,
						Align: align.Right,
						Color: theme.muted,
					}),
				),
			),
		)
	}

	m.AddRows(row.New(3))
}

func addClientBlock(m core.Maroto, data *QuoteExportData, theme quoteTheme) {
	if data.ClientName == "" && data.ClientPhone == "" {
		return
	}

	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: theme.muted,
	}

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("CLIENT", labelStyle)),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(data.ClientName, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(6).Add(text.New(fmtField("Phone", data.ClientPhone), props.Text{
				Size:  8,
				Align: align.Left,
			})),
		),
	)

	m.AddRows(row.New(3))
}

func addItemsTable(m core.Maroto, data *QuoteExportData, theme quoteTheme) {
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: theme.tableBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("No", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(&headerCell),
		),
	)

	for i, item := range data.LineItems {
		bodyText := props.Text{Size: 7, Align: align.Center}
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: theme.altBg}
		}

		colNo := col.New(1).Add(text.New(fmt.Sprintf("%d", item.SINo), bodyText))
		colDesc := col.New(5).Add(text.New(item.Description, bodyTextLeft))
		colQty := col.New(2).Add(text.New(FormatQty(decimal.NewFromFloat(item.Qty)), bodyTextRight))
		colPrice := col.New(2).Add(text.New(FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(item.UnitPrice)), bodyTextRight))
		colAmount := col.New(2).Add(text.New(FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(item.FinalPrice)), bodyTextRight))

		if cellStyle != nil {
			colNo = colNo.WithStyle(cellStyle)
			colDesc = colDesc.WithStyle(cellStyle)
			colQty = colQty.WithStyle(cellStyle)
			colPrice = colPrice.WithStyle(cellStyle)
			colAmount = colAmount.WithStyle(cellStyle)
		}

		m.AddRows(row.New(7).Add(colNo, colDesc, colQty, colPrice, colAmount))
	}

	m.AddRows(row.New(2))
}

func addTotalsBlock(m core.Maroto, data *QuoteExportData, theme quoteTheme) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	addSummaryRow := func(label, value string) {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	addSummaryRow("Subtotal", FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(data.Subtotal)))
	if data.MarginAmount != 0 {
		addSummaryRow("Margin", FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(data.MarginAmount)))
	}

	if data.TaxType == TaxAdded {
		addSummaryRow(fmt.Sprintf("Tax %.0f%%", data.TaxRate),
			FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(data.TaxAmount)))
	} else {
		addSummaryRow("Net Amount", FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(data.NetAmount)))
		addSummaryRow(fmt.Sprintf("Included Tax %.0f%%", data.TaxRate),
			FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(data.TaxAmount)))
	}

	grandStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	grandCell := &props.Cell{BackgroundColor: theme.tableBg}

	grandLabel := "Grand Total"
	if data.TaxType == TaxIncluded {
		grandLabel = "Grand Total (incl. tax)"
	}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New(grandLabel, grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(data.GrandTotal)), grandStyle)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

func addAmountInWords(m core.Maroto, data *QuoteExportData) {
	if data.AmountInWords == "" {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Amount in Words: %s", data.AmountInWords), props.Text{
					Size:  8,
					Style: fontstyle.BoldItalic,
					Align: align.Left,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

func addPaymentBlocks(m core.Maroto, data *QuoteExportData, theme quoteTheme) {
	if len(data.PaymentTerms) == 0 && len(data.PaymentMethods) == 0 {
		return
	}

	sectionLabel := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: theme.accent,
	}
	optionLabel := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: theme.muted,
	}
	optionValue := props.Text{
		Size:  8,
		Align: align.Left,
	}

	addOptions := func(title string, options []PaymentOption) {
		if len(options) == 0 {
			return
		}
		m.AddRows(
			row.New(7).Add(col.New(12).Add(text.New(title, sectionLabel))),
		)
		for _, opt := range options {
			m.AddRows(
				row.New(6).Add(col.New(12).Add(text.New(opt.Name, optionLabel))),
			)
			if opt.Details != "" {
				m.AddRows(
					row.New(7).Add(col.New(12).Add(text.New(opt.Details, optionValue))),
				)
			}
		}
	}

	addOptions("PAYMENT TERMS", data.PaymentTerms)
	addOptions("PAYMENT METHODS", data.PaymentMethods)

	m.AddRows(row.New(3))
}

func addMessage(m core.Maroto, data *QuoteExportData) {
	if data.Message == "" {
		return
	}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New(data.Message, props.Text{
				Size:  8,
				Align: align.Left,
			})),
		),
	)
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	result := ""
	for i, p := range nonEmpty {
		if i > 0 {
			result += sep
		}
		result += p
	}
	return result
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
