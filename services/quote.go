package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single editable row of a quotation.
type LineItem struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Quote is the in-memory editable state of one quotation. Derived figures
// are always recomputed from the current items and policies via
// ComputeTotals; nothing monetary is cached on the struct.
type Quote struct {
	Items          []LineItem
	Margin         MarginPolicy
	Tax            TaxPolicy
	CurrencySymbol string
	ClientName     string
	ClientPhone    string
	Template       string

	// Number is the display number assigned from the counter at creation
	// time. It is only permanently bound once Finalize succeeds.
	Number    string
	Finalized bool
}

// NewQuote creates an empty quotation pre-populated with the policy
// store's defaults.
func NewQuote(settings *Settings) *Quote {
	return &Quote{
		Margin: MarginPolicy{
			Type:  settings.DefaultMarginType,
			Value: settings.DefaultMarginValue,
		},
		Tax: TaxPolicy{
			Type: settings.TaxType,
			Rate: settings.TaxRate,
		},
		CurrencySymbol: settings.CurrencySymbol,
		Template:       settings.DefaultTemplate,
	}
}

// AddItem appends a fresh line item (quantity 1, price 0) and returns it.
func (q *Quote) AddItem() *LineItem {
	q.Items = append(q.Items, LineItem{
		ID:       uuid.NewString(),
		Quantity: one,
	})
	return &q.Items[len(q.Items)-1]
}

// RemoveItem deletes the item with the given id. Removing an unknown id is
// a no-op, not an error.
func (q *Quote) RemoveItem(id string) {
	for i, item := range q.Items {
		if item.ID == id {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			return
		}
	}
}

// UpdateItem applies a field-level edit to the item with the given id.
// Numeric fields coerce unparseable input to zero instead of failing, so
// arithmetic downstream stays total. Unknown ids and fields are ignored.
func (q *Quote) UpdateItem(id, field, value string) {
	for i := range q.Items {
		if q.Items[i].ID != id {
			continue
		}
		switch field {
		case "description":
			q.Items[i].Description = value
		case "quantity":
			q.Items[i].Quantity = CoerceDecimal(value)
		case "unit_price":
			q.Items[i].UnitPrice = CoerceDecimal(value)
		}
		return
	}
}

// SetMarginPolicy replaces the margin policy wholesale.
func (q *Quote) SetMarginPolicy(policy MarginPolicy) {
	q.Margin = policy
}

// SetTaxPolicy replaces the tax policy wholesale.
func (q *Quote) SetTaxPolicy(policy TaxPolicy) {
	q.Tax = policy
}

// ComputeTotals recomputes every derived figure from current state.
func (q *Quote) ComputeTotals() QuoteTotals {
	return CalcQuoteTotals(q.Items, q.Margin, q.Tax)
}

// Finalize permanently binds a quotation number by consuming the counter
// through the sequencer. Calling Finalize on an already-finalized quote is
// an idempotent no-op that returns the bound number without touching the
// counter. Callers must only invoke this after the artifact (PDF or
// delivery message) has actually been produced.
func (q *Quote) Finalize(seq *Sequencer) (string, error) {
	if q.Finalized {
		return q.Number, nil
	}

	number, err := seq.Peek()
	if err != nil {
		return "", err
	}
	if _, err := seq.Commit(); err != nil {
		return "", err
	}

	q.Number = number
	q.Finalized = true
	return number, nil
}

// CoerceDecimal parses a decimal from user input, treating anything
// unparseable (including empty input) as zero. Invalid numbers are coerced
// at this boundary and never propagated.
func CoerceDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
