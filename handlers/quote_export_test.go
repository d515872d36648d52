package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotemaker/testhelpers"
)

func TestHandleQuoteExportPDF_FinalizesOnFirstDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := testhelpers.CreateTestSettings(t, app, "demo")
	quote := testhelpers.CreateTestQuote(t, app, "demo", "Maria Torres")
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Outlet installation", 2, 150)

	handler := HandleQuoteExportPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/export/pdf", nil)
	req.SetPathValue("quoteId", quote.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "COT-0001.pdf") {
		t.Errorf("content disposition = %q, want COT-0001.pdf", cd)
	}
	if body := rec.Body.Bytes(); len(body) < 5 || string(body[:5]) != "%PDF-" {
		t.Error("body does not start with PDF header")
	}

	// The downloaded PDF is an artifact: the number is consumed and bound.
	record, err := app.FindRecordById("quotations", quote.Id)
	if err != nil {
		t.Fatalf("reload quotation: %v", err)
	}
	if !record.GetBool("finalized") {
		t.Error("quotation not marked finalized after PDF download")
	}
	if record.GetString("quotation_number") != "COT-0001" {
		t.Errorf("bound number = %q, want COT-0001", record.GetString("quotation_number"))
	}
	settingsRecord, err := app.FindRecordById("settings", settings.Id)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if got := settingsRecord.GetInt("quotation_next_number"); got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}
}

func TestHandleQuoteExportPDF_RedownloadKeepsNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := testhelpers.CreateTestSettings(t, app, "demo")
	quote := testhelpers.CreateTestQuote(t, app, "demo", "Maria Torres")
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Outlet installation", 2, 150)

	handler := HandleQuoteExportPDF(app)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/export/pdf", nil)
		req.SetPathValue("quoteId", quote.Id)
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("download #%d error: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("download #%d status = %d: %s", i+1, rec.Code, rec.Body.String())
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "COT-0001.pdf") {
			t.Errorf("download #%d disposition = %q, want COT-0001.pdf", i+1, cd)
		}
	}

	// Only the first download consumed a number.
	settingsRecord, err := app.FindRecordById("settings", settings.Id)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if got := settingsRecord.GetInt("quotation_next_number"); got != 2 {
		t.Errorf("counter after re-download = %d, want 2", got)
	}
}

func TestHandleQuoteExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestSettings(t, app, "demo")
	quote := testhelpers.CreateTestQuote(t, app, "demo", "Maria Torres")
	quote.Set("quotation_number", "COT-0007")
	quote.Set("finalized", true)
	if err := app.Save(quote); err != nil {
		t.Fatalf("save quote: %v", err)
	}
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Outlet installation", 2, 150)

	handler := HandleQuoteExportExcel(app)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/export/excel", nil)
	req.SetPathValue("quoteId", quote.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "COT-0007.xlsx") {
		t.Errorf("content disposition = %q, want COT-0007.xlsx", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty response body")
	}
}

func TestHandleQuoteExportExcel_DraftDoesNotConsumeNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := testhelpers.CreateTestSettings(t, app, "demo")
	quote := testhelpers.CreateTestQuote(t, app, "demo", "Maria Torres")
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Outlet installation", 2, 150)

	handler := HandleQuoteExportExcel(app)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+quote.Id+"/export/excel", nil)
	req.SetPathValue("quoteId", quote.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "quotation-draft.xlsx") {
		t.Errorf("content disposition = %q, want draft filename", cd)
	}

	// A working-copy export leaves the draft and the counter alone.
	record, err := app.FindRecordById("quotations", quote.Id)
	if err != nil {
		t.Fatalf("reload quotation: %v", err)
	}
	if record.GetBool("finalized") {
		t.Error("Excel export finalized the quotation")
	}
	settingsRecord, err := app.FindRecordById("settings", settings.Id)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if got := settingsRecord.GetInt("quotation_next_number"); got != 1 {
		t.Errorf("counter = %d, want 1", got)
	}
}

func TestHandleQuoteExportPDF_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleQuoteExportPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/missing/export/pdf", nil)
	req.SetPathValue("quoteId", "missing")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
