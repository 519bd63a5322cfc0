package tables

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML tables file on top of the built-in defaults.
// Fields absent from the file keep their default value; maps are merged key
// by key and lists are replaced wholesale. An empty path returns Default().
func Load(path string) (*Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tables file %s: %w", path, err)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tables file %s: %w", path, err)
	}

	return t, nil
}

// Write encodes t as YAML.
func Write(w io.Writer, t *Tables) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode tables: %w", err)
	}
	return enc.Close()
}
