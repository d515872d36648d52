package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"quotemaker/services"
)

// MigrateSettingsDefaults upgrades settings records persisted by older
// versions: fields that did not exist yet are filled with their defaults,
// fields already present are left untouched. Safe to call on every startup.
func MigrateSettingsDefaults(app *pocketbase.PocketBase) error {
	settingsCol, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("migrate_settings: could not find settings collection: %w", err)
	}

	records, err := app.FindAllRecords(settingsCol)
	if err != nil {
		return fmt.Errorf("migrate_settings: could not query settings: %w", err)
	}

	upgraded := 0
	for _, record := range records {
		if !services.ApplySettingsDefaults(record) {
			continue
		}
		if err := app.Save(record); err != nil {
			log.Printf("migrate_settings: failed to upgrade settings %s: %v\n", record.Id, err)
			continue
		}
		upgraded++
	}

	if upgraded > 0 {
		log.Printf("migrate_settings: upgraded %d settings record(s) to current defaults\n", upgraded)
	}
	return nil
}
