package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"quotemaker/services"
	"quotemaker/testhelpers"
)

func TestHandleQuoteImport_NotConfigured(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleQuoteImport(app, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes/import", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestHandleQuoteImport_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// The request fails before any model call, so a client-less extractor
	// is enough to get past the configuration guard.
	handler := HandleQuoteImport(app, services.NewExtractor(nil))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("note", "no file attached"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/quotes/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
