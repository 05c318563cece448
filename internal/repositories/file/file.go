// Package file reads and writes region catalogs and user profiles stored as
// JSON or YAML documents.
package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

func detectFormat(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported file extension %q, expected .json, .yaml or .yml", filepath.Ext(path))
	}
}

func decodeFile(path string, out any) error {
	f, err := detectFormat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch f {
	case formatYAML:
		// Fields added upstream are ignored so a newer record stays usable.
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err = dec.Decode(out); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func encodeFile(path string, in any) error {
	f, err := detectFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(in)
	default:
		data, err = json.MarshalIndent(in, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
