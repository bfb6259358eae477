package protocol

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/tick_entry.schema.json
var tickEntrySchemaJSON string

const tickEntrySchemaURL = "https://molopl.dev/addons/schemas/tick_entry.schema.json"

var tickEntrySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString(tickEntrySchemaURL, tickEntrySchemaJSON)
})

// ValidateEntry checks one raw journal line against the tick entry schema.
func ValidateEntry(line []byte) error {
	s, err := tickEntrySchema()
	if err != nil {
		return fmt.Errorf("compile tick entry schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(line, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}

// ParseEntry validates line and decodes it into a TickEntry.
func ParseEntry(line []byte) (TickEntry, error) {
	var entry TickEntry
	if err := ValidateEntry(line); err != nil {
		return entry, err
	}
	if err := json.Unmarshal(line, &entry); err != nil {
		return entry, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return entry, nil
}
