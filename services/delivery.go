package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// QuotePayload is the outbound representation of a finalized quotation:
// everything a delivery channel needs to present the quote, plus the
// rendered document encoded as base64.
type QuotePayload struct {
	Client struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"client"`

	Company struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"company"`

	Quote struct {
		Number     string             `json:"number"`
		Date       string             `json:"date"`
		Items      []QuotePayloadItem `json:"items"`
		Subtotal   float64            `json:"subtotal"`
		NetAmount  float64            `json:"netAmount"`
		TaxAmount  float64            `json:"taxAmount"`
		TaxRate    float64            `json:"taxRate"`
		TaxType    string             `json:"taxType"`
		GrandTotal float64            `json:"grandTotal"`
		Currency   string             `json:"currency"`
		Terms      []PaymentOption    `json:"terms,omitempty"`
		Methods    []PaymentOption    `json:"methods,omitempty"`
		Message    string             `json:"message,omitempty"`
	} `json:"quote"`

	// Document is the base64-encoded PDF. The filename tells the receiving
	// channel what to call the attachment.
	Document         string `json:"document,omitempty"`
	DocumentFilename string `json:"documentFilename,omitempty"`
}

// QuotePayloadItem is one line of the payload's item list, already
// presentation-rounded.
type QuotePayloadItem struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// BuildQuotePayload maps the export view model into the delivery payload.
// document is the base64-encoded rendered PDF; pass "" to send without an
// attachment.
func BuildQuotePayload(data *QuoteExportData, document string) *QuotePayload {
	p := &QuotePayload{}

	p.Client.Name = data.ClientName
	p.Client.Phone = data.ClientPhone

	p.Company.Name = data.CompanyName
	p.Company.Phone = data.CompanyPhone
	p.Company.Email = data.CompanyEmail

	p.Quote.Number = data.QuoteNumber
	p.Quote.Date = data.QuoteDate
	for _, item := range data.LineItems {
		p.Quote.Items = append(p.Quote.Items, QuotePayloadItem{
			Description: item.Description,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			Amount:      item.FinalPrice,
		})
	}
	p.Quote.Subtotal = data.Subtotal
	p.Quote.NetAmount = data.NetAmount
	p.Quote.TaxAmount = data.TaxAmount
	p.Quote.TaxRate = data.TaxRate
	p.Quote.TaxType = string(data.TaxType)
	p.Quote.GrandTotal = data.GrandTotal
	p.Quote.Currency = data.CurrencySymbol
	p.Quote.Terms = data.PaymentTerms
	p.Quote.Methods = data.PaymentMethods
	p.Quote.Message = data.Message

	if document != "" {
		p.Document = document
		p.DocumentFilename = data.QuoteNumber + ".pdf"
	}

	return p
}

// Deliverer sends a finalized quotation payload to an outbound channel.
type Deliverer interface {
	Deliver(ctx context.Context, payload *QuotePayload) error
}

// WebhookDeliverer posts the payload as JSON to a configured endpoint,
// typically a messaging bridge.
type WebhookDeliverer struct {
	URL    string
	Client *http.Client
}

// NewWebhookDeliverer creates a deliverer for the given endpoint with a
// bounded request timeout.
func NewWebhookDeliverer(url string) *WebhookDeliverer {
	return &WebhookDeliverer{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Deliver posts the payload and treats any non-2xx response as a failure.
func (w *WebhookDeliverer) Deliver(ctx context.Context, payload *QuotePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("delivery: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("delivery: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("delivery: post to %s: %w", w.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delivery: endpoint returned %s", resp.Status)
	}
	return nil
}
