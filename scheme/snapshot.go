package scheme

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadSnapshot decodes a cached scheme JSON document and validates it.
func ReadSnapshot(r io.Reader) (*Scheme, error) {
	var s Scheme
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scheme snapshot: %w", err)
	}
	if s.Cells == nil {
		s.Cells = make(map[string]Cell)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSnapshot reads a cached scheme JSON file.
func LoadSnapshot(path string) (*Scheme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scheme snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// WriteSnapshot encodes s as indented JSON.
func WriteSnapshot(w io.Writer, s *Scheme) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SaveSnapshot writes s to path, replacing the file atomically.
func SaveSnapshot(path string, s *Scheme) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scheme-*.json")
	if err != nil {
		return fmt.Errorf("failed to create scheme snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write scheme snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write scheme snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
