package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is the exchange format version written by Export.
const DocumentVersion = 1

// Document is the top-level structure of an export/import file.
type Document struct {
	Version    int           `json:"version" yaml:"version"`
	ExportedAt string        `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Activities []ActivityDoc `json:"activities" yaml:"activities"`
	Vacations  []VacationDoc `json:"vacations,omitempty" yaml:"vacations,omitempty"`
}

// ConfigDoc holds the structural config fields shared by activities and
// their snapshots. ParentRef names another activity's Ref.
type ConfigDoc struct {
	Kind        string   `json:"kind" yaml:"kind"`
	Schedule    string   `json:"schedule" yaml:"schedule"`
	Slots       []string `json:"slots,omitempty" yaml:"slots,omitempty"`
	Target      *float64 `json:"target,omitempty" yaml:"target,omitempty"`
	Aggregation string   `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	ParentRef   string   `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
}

// ActivityDoc is one activity with its history.
type ActivityDoc struct {
	Ref         string `json:"ref" yaml:"ref"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	ConfigDoc   `yaml:",inline"`
	CreatedDate string        `json:"created_date" yaml:"created_date"`
	StoppedAt   string        `json:"stopped_at,omitempty" yaml:"stopped_at,omitempty"`
	Snapshots   []SnapshotDoc `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
	Logs        []LogDoc      `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// SnapshotDoc is a frozen config and the inclusive window it applied to.
type SnapshotDoc struct {
	ConfigDoc      `yaml:",inline"`
	EffectiveFrom  string `json:"effective_from" yaml:"effective_from"`
	EffectiveUntil string `json:"effective_until" yaml:"effective_until"`
}

type LogDoc struct {
	Date       string   `json:"date" yaml:"date"`
	Slot       string   `json:"slot,omitempty" yaml:"slot,omitempty"`
	Status     string   `json:"status" yaml:"status"`
	Value      *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	SkipReason string   `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	Source     string   `json:"source,omitempty" yaml:"source,omitempty"`
}

type VacationDoc struct {
	Date string `json:"date" yaml:"date"`
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected json or yaml)", s)
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode serializes doc in the given format.
func Encode(doc *Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Decode parses data in the given format. Unknown fields are rejected.
func Decode(data []byte, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	}
	return &doc, nil
}

// LoadDocument reads and parses an exchange file, choosing the format from
// its extension.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, FormatFromPath(path))
}
