// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE is a CUE (or JSON) document, compiled as-is.
	FormatCUE DocumentFormat = "cue"
	// FormatYAML is a YAML document.
	FormatYAML DocumentFormat = "yaml"
	// FormatTOML is a TOML document.
	FormatTOML DocumentFormat = "toml"
)

// ErrUnsupportedFormat is the sentinel error returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DocumentFormat names the syntax a document is written in.
type DocumentFormat string

// FormatOf returns the document format implied by the file extension.
func FormatOf(filename string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue", ".json":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%s: %w (expected .cue, .json, .yaml, .yml or .toml)", filename, ErrUnsupportedFormat)
	}
}

// Normalize returns data in a form CUE can compile. CUE and JSON documents are
// returned unchanged; YAML and TOML documents are decoded and re-encoded as JSON.
func Normalize(filename string, data []byte) ([]byte, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	switch format {
	case FormatCUE:
		return data, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: invalid YAML: %w", filename, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: invalid TOML: %w", filename, err)
		}
	}

	if doc == nil {
		doc = map[string]any{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return out, nil
}
