package main

import (
	"context"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"google.golang.org/genai"

	"quotemaker/collections"
	"quotemaker/handlers"
	"quotemaker/services"
)

func main() {
	app := pocketbase.New()

	// Create collections, seed data and run migrations on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateSettingsDefaults(app); err != nil {
			log.Printf("Warning: settings migration failed: %v", err)
		}
		return se.Next()
	})

	// Optional integrations: document extraction and outbound delivery.
	var extractor *services.Extractor
	if os.Getenv("GEMINI_API_KEY") != "" {
		client, err := genai.NewClient(context.Background(), nil)
		if err != nil {
			log.Printf("Warning: could not init genai client, document import disabled: %v", err)
		} else {
			extractor = services.NewExtractor(client)
		}
	}

	var deliverer services.Deliverer
	if url := os.Getenv("QUOTE_DELIVERY_WEBHOOK"); url != "" {
		deliverer = services.NewWebhookDeliverer(url)
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Quotation CRUD ───────────────────────────────────────
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(app))
		se.Router.POST("/api/quotes/import", handlers.HandleQuoteImport(app, extractor))
		se.Router.GET("/api/quotes/{quoteId}", handlers.HandleQuoteView(app))
		se.Router.PATCH("/api/quotes/{quoteId}", handlers.HandleQuotePolicies(app))
		se.Router.DELETE("/api/quotes/{quoteId}", handlers.HandleQuoteDelete(app))

		// ── Line items ───────────────────────────────────────────
		se.Router.POST("/api/quotes/{quoteId}/items", handlers.HandleQuoteItemAdd(app))
		se.Router.PATCH("/api/items/{itemId}", handlers.HandleQuoteItemUpdate(app))
		se.Router.DELETE("/api/items/{itemId}", handlers.HandleQuoteItemDelete(app))

		// ── Export & send ────────────────────────────────────────
		se.Router.GET("/api/quotes/{quoteId}/export/pdf", handlers.HandleQuoteExportPDF(app))
		se.Router.GET("/api/quotes/{quoteId}/export/excel", handlers.HandleQuoteExportExcel(app))
		se.Router.POST("/api/quotes/{quoteId}/send", handlers.HandleQuoteSend(app, deliverer))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/api/settings", handlers.HandleSettingsView(app))
		se.Router.POST("/api/settings", handlers.HandleSettingsSave(app))
		se.Router.POST("/api/settings/payment-options", handlers.HandlePaymentOptionAdd(app))
		se.Router.DELETE("/api/settings/payment-options/{optionId}", handlers.HandlePaymentOptionDelete(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
