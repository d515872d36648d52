package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the settings, payment_options,
// quotations and quotation_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	settings := ensureCollection(app, "settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "user_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_logo", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_address", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_website", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_document_type", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_document_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency_symbol", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "default_margin_type",
			Required:  false,
			Values:    []string{"percentage", "fixed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "default_margin_value", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "default_template",
			Required:  false,
			Values:    []string{"modern", "classic"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "theme_color", Required: false})
		c.Fields.Add(&core.TextField{Name: "header_image", Required: false})
		c.Fields.Add(&core.TextField{Name: "quotation_prefix", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quotation_next_number", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "tax_type",
			Required:  false,
			Values:    []string{"included", "added"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "payment_options", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "settings",
			Required:      true,
			CollectionId:  settings.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "kind",
			Required:  true,
			Values:    []string{"term", "method"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "details", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "user_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "client_phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "quotation_number", Required: false})
		c.Fields.Add(&core.BoolField{Name: "finalized", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "margin_type",
			Required:  false,
			Values:    []string{"percentage", "fixed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "margin_value", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "tax_type",
			Required:  false,
			Values:    []string{"included", "added"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency_symbol", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "template",
			Required:  false,
			Values:    []string{"modern", "classic"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "message", Required: false})
		c.Fields.Add(&core.TextField{Name: "quote_date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quotation_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
