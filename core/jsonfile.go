package core

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// readJSONFile decodes path into v. A missing or empty file returns
// os.ErrNotExist so callers can fall back to defaults.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return os.ErrNotExist
	}
	return json.Unmarshal(data, v)
}

// writeJSONAtomic writes v to path via a temp file in the same directory
// followed by a rename, so a reader or a crash never observes a partial file.
func writeJSONAtomic(path string, v interface{}) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp_*.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
