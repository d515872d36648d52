package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a decimal amount for display: currency symbol,
// thousands grouping, always exactly two decimal places. Rounding happens
// here, at presentation time only.
func FormatAmount(symbol string, amount decimal.Decimal) string {
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	raw := amount.StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := symbol + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}

// FormatQty renders a quantity without trailing zero noise, e.g. "5" and
// "2.5" rather than "5.00".
func FormatQty(qty decimal.Decimal) string {
	return qty.String()
}

// AmountInWords converts an amount to English words for the document's
// totals block, e.g. 1029.18 -> "One Thousand Twenty Nine and 18/100 Only".
func AmountInWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "Negative " + AmountInWords(amount.Neg())
	}

	rounded := amount.Round(2)
	whole := rounded.IntPart()
	cents := rounded.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()

	words := "Zero"
	if whole > 0 {
		words = wordsUnderTrillion(whole)
	}
	if cents > 0 {
		return fmt.Sprintf("%s and %02d/100 Only", words, cents)
	}
	return words + " Only"
}

var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
}

func wordsUnderTrillion(n int64) string {
	var parts []string

	for _, scale := range scales {
		if n >= scale.value {
			parts = append(parts, wordsUnderThousand(n/scale.value)+" "+scale.name)
			n %= scale.value
		}
	}
	if n > 0 {
		parts = append(parts, wordsUnderThousand(n))
	}

	return strings.Join(parts, " ")
}

func wordsUnderThousand(n int64) string {
	if n >= 100 {
		result := ones[n/100] + " Hundred"
		if n%100 != 0 {
			result += " " + wordsUnderHundred(n%100)
		}
		return result
	}
	return wordsUnderHundred(n)
}

func wordsUnderHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// roundDisplay rounds to two decimals as a float for export surfaces that
// carry plain numbers (Excel cells, delivery payloads).
func roundDisplay(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
