package casefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a case file encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the encoding from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported case file %q (expected .json, .yaml or .yml)", path)
}

// LoadFromFile loads a case definition from a JSON or YAML file
func LoadFromFile(path string) (*Case, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a case
func Parse(data []byte, format Format) (*Case, error) {
	c := New()

	switch format {
	case JSON:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
	case YAML:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown case format %q", format)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
