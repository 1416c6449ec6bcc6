package journal

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteFile persists the journal entries as JSON so a later invocation can
// analyze them. All state is otherwise in-memory and lost on exit.
func (j *Journal) WriteFile(path string) error {
	data, err := json.MarshalIndent(j.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}
	return nil
}

// ReadFile loads entries previously written by WriteFile.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode journal file %s: %w", path, err)
	}
	return entries, nil
}
