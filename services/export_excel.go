package services

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// GenerateQuoteExcel creates an Excel workbook from the given export data
// and returns the file contents as a byte slice.
func GenerateQuoteExcel(data *QuoteExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars by the format.
	sheetName := data.QuoteNumber
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quotation"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 44, 10, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows (1-4) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge company name: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.CompanyName))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge quote number: %w", err)
	}
	f.SetCellValue(sheetName, "A2", "Quotation: "+data.QuoteNumber)
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	if data.QuoteDate != "" {
		if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
			return nil, fmt.Errorf("merge date: %w", err)
		}
		f.SetCellValue(sheetName, "A3", "Date: "+data.QuoteDate)
		f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)
	}

	if data.ClientName != "" {
		if err := f.MergeCell(sheetName, "A4", lastCol+"4"); err != nil {
			return nil, fmt.Errorf("merge client: %w", err)
		}
		f.SetCellValue(sheetName, "A4", "Client: "+sanitizeExcelCell(data.ClientName))
		f.SetCellStyle(sheetName, "A4", lastCol+"4", subtitleStyle)
	}

	// ── Row 6: column headers ───────────────────────────────────────────

	headers := []string{"No", "Description", "Qty", "Unit Price", "Amount"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s6", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A6", lastCol+"6", headerStyle)

	// ── Data rows (starting row 7) ──────────────────────────────────────

	row := 7
	for _, item := range data.LineItems {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, item.SINo)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(item.Description))
		f.SetCellValue(sheetName, "C"+rowStr, item.Qty)
		f.SetCellValue(sheetName, "D"+rowStr, FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(item.UnitPrice)))
		f.SetCellValue(sheetName, "E"+rowStr, FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(item.FinalPrice)))

		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)

		row++
	}

	// ── Summary rows ────────────────────────────────────────────────────

	row++

	addSummary := func(label string, amount float64) {
		summaryRow := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+summaryRow, label)
		f.SetCellStyle(sheetName, "D"+summaryRow, "D"+summaryRow, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+summaryRow, FormatAmount(data.CurrencySymbol, decimal.NewFromFloat(amount)))
		f.SetCellStyle(sheetName, "E"+summaryRow, "E"+summaryRow, summaryValueStyle)
		row++
	}

	addSummary("Subtotal:", data.Subtotal)
	if data.MarginAmount != 0 {
		addSummary("Margin:", data.MarginAmount)
	}
	if data.TaxType == TaxAdded {
		addSummary(fmt.Sprintf("Tax (%.1f%%):", data.TaxRate), data.TaxAmount)
		addSummary("Grand Total:", data.GrandTotal)
	} else {
		addSummary("Net Amount:", data.NetAmount)
		addSummary(fmt.Sprintf("Included Tax (%.1f%%):", data.TaxRate), data.TaxAmount)
		addSummary("Grand Total (incl. tax):", data.GrandTotal)
	}

	if data.AmountInWords != "" {
		summaryRow := fmt.Sprintf("%d", row+1)
		if err := f.MergeCell(sheetName, "A"+summaryRow, lastCol+summaryRow); err != nil {
			return nil, fmt.Errorf("merge amount in words: %w", err)
		}
		f.SetCellValue(sheetName, "A"+summaryRow, "Amount in Words: "+data.AmountInWords)
		f.SetCellStyle(sheetName, "A"+summaryRow, lastCol+summaryRow, subtitleStyle)
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
