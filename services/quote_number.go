package services

import (
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// ErrNumberingConflict is returned by Commit when the persisted counter
// moved since this session last read it (another session consumed the
// number). The caller should re-peek and retry.
var ErrNumberingConflict = errors.New("quotation number was consumed by another session")

// FormatQuoteNumber constructs the display number from the counter state,
// e.g. prefix "COT-" and counter 1 produce "COT-0001".
func FormatQuoteNumber(prefix string, nextNumber int) string {
	return fmt.Sprintf("%s%04d", prefix, nextNumber)
}

// Sequencer mediates access to the quotation counter persisted on the
// settings record. Peek shows the number any number of times without
// consuming it; Commit consumes it exactly once via a compare-and-swap
// against the value this session last saw.
type Sequencer struct {
	app        *pocketbase.PocketBase
	settingsID string
	lastSeen   int
}

// NewSequencer binds a sequencer to a settings record and takes an initial
// read of the counter as the compare-and-swap baseline.
func NewSequencer(app *pocketbase.PocketBase, settingsID string) (*Sequencer, error) {
	s := &Sequencer{app: app, settingsID: settingsID}
	if _, err := s.Peek(); err != nil {
		return nil, err
	}
	return s, nil
}

// Peek returns the formatted number that the next successful Commit will
// consume. It re-reads the persisted counter on every call and never
// mutates it, so it is safe to call whenever a quotation is created or
// displayed.
func (s *Sequencer) Peek() (string, error) {
	record, err := s.app.FindRecordById("settings", s.settingsID)
	if err != nil {
		return "", fmt.Errorf("quote_number: load settings %s: %w", s.settingsID, err)
	}

	next := record.GetInt("quotation_next_number")
	if next < 1 {
		next = 1
	}
	s.lastSeen = next

	return FormatQuoteNumber(record.GetString("quotation_prefix"), next), nil
}

// Commit consumes the current number by advancing the persisted counter by
// exactly one. If the persisted value no longer matches what this session
// last peeked, Commit fails with ErrNumberingConflict and writes nothing.
// A failed save leaves the counter untouched so the caller can retry
// without losing or duplicating a number. Returns the new counter value.
func (s *Sequencer) Commit() (int, error) {
	record, err := s.app.FindRecordById("settings", s.settingsID)
	if err != nil {
		return 0, fmt.Errorf("quote_number: load settings %s: %w", s.settingsID, err)
	}

	current := record.GetInt("quotation_next_number")
	if current < 1 {
		current = 1
	}
	if current != s.lastSeen {
		return 0, fmt.Errorf("quote_number: expected counter %d, found %d: %w",
			s.lastSeen, current, ErrNumberingConflict)
	}

	record.Set("quotation_next_number", current+1)
	if err := s.app.Save(record); err != nil {
		return 0, fmt.Errorf("quote_number: persist counter: %w", err)
	}

	s.lastSeen = current + 1
	return current + 1, nil
}
