package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// ExtractedItem is one line item parsed out of an uploaded document.
// Quantity and unit price arrive as strings so malformed model output
// degrades to zero instead of failing the whole import.
type ExtractedItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

// ExtractionResult is the structured output of a document extraction run.
// An empty item list is a valid result (the document had no recognizable
// line items).
type ExtractionResult struct {
	Items      []ExtractedItem `json:"items"`
	ClientName string          `json:"clientName"`
}

const defaultExtractionModel = "gemini-2.5-flash"

// Extractor turns uploaded documents (images or PDFs of handwritten or
// printed lists) into structured line items using a multimodal model.
type Extractor struct {
	client *genai.Client
	model  string
}

// NewExtractor wraps a genai client. The model defaults to
// gemini-2.5-flash and can be overridden with QUOTE_EXTRACTION_MODEL.
func NewExtractor(client *genai.Client) *Extractor {
	model := os.Getenv("QUOTE_EXTRACTION_MODEL")
	if model == "" {
		model = defaultExtractionModel
	}
	return &Extractor{client: client, model: model}
}

var extractionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {
						Type:        genai.TypeString,
						Description: "The item name or description.",
					},
					"quantity": {
						Type:        genai.TypeString,
						Description: "The quantity as a plain number, e.g. \"2\" or \"1.5\".",
					},
					"unitPrice": {
						Type:        genai.TypeString,
						Description: "The per-unit price as a plain number without currency symbols.",
					},
				},
				Required: []string{"description"},
			},
		},
		"clientName": {
			Type:        genai.TypeString,
			Description: "The client name if the document mentions one, otherwise empty.",
		},
	},
	Required: []string{"items"},
}

const extractionPrompt = `Extract the list of items from this document.
For each item return its description, quantity and unit price.
If a quantity or price is missing or unreadable, return an empty string for it.
Also return the client name if the document mentions one.`

// ExtractItems sends the document to the model and parses its structured
// response. mimeType describes the uploaded bytes, e.g. "image/jpeg" or
// "application/pdf".
func (e *Extractor) ExtractItems(ctx context.Context, data []byte, mimeType string) (*ExtractionResult, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			{Text: extractionPrompt},
			{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extractionSchema,
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("extraction: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("extraction: model returned no candidates")
	}

	return parseExtractionResponse(resp.Candidates[0].Content.Parts[0].Text)
}

// parseExtractionResponse decodes the model's JSON output and drops items
// with no description.
func parseExtractionResponse(raw string) (*ExtractionResult, error) {
	var result ExtractionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("extraction: parse model response: %w", err)
	}

	filtered := result.Items[:0]
	for _, item := range result.Items {
		if item.Description == "" {
			continue
		}
		filtered = append(filtered, item)
	}
	result.Items = filtered

	return &result, nil
}

// ItemQuantity returns the parsed quantity, defaulting to one so an
// extracted item is never created with zero quantity by accident.
func (i ExtractedItem) ItemQuantity() decimal.Decimal {
	q := CoerceDecimal(i.Quantity)
	if q.IsZero() {
		return one
	}
	return q
}

// ItemUnitPrice returns the parsed unit price, zero when unreadable.
func (i ExtractedItem) ItemUnitPrice() decimal.Decimal {
	return CoerceDecimal(i.UnitPrice)
}
