package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// WriteJSON writes v as indented JSON to path, creating parent folders. The
// file is written to a temporary sibling first and renamed into place.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("json: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			log.Printf("error removing temp file %s: %v", tmp.Name(), err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("json: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
