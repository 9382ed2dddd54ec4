package openapi

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Version is the OpenAPI version written to generated documents.
const Version = "3.0.2"

// Format identifies an output serialization.
type Format string

const (
	// FormatJSON writes indented JSON
	FormatJSON Format = "json"
	// FormatYAML writes YAML
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("openapi: unsupported format %q (expected json or yaml)", s)
	}
}

// Info is the document metadata.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`
}

// SecurityScheme describes an HTTP authentication scheme.
type SecurityScheme struct {
	Type   string `yaml:"type" json:"type"`
	Scheme string `yaml:"scheme,omitempty" json:"scheme,omitempty"`
}

// Components holds the reusable objects of the document.
type Components struct {
	Schemas         *OrderedMap[*Schema]         `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	SecuritySchemes *OrderedMap[*SecurityScheme] `yaml:"securitySchemes,omitempty" json:"securitySchemes,omitempty"`
}

// Document is an OpenAPI 3.0 document without operations.
type Document struct {
	OpenAPI    string         `yaml:"openapi" json:"openapi"`
	Info       *Info          `yaml:"info" json:"info"`
	Paths      map[string]any `yaml:"paths" json:"paths"`
	Components *Components    `yaml:"components,omitempty" json:"components,omitempty"`
}

// NewDocument wraps schemas in a document carrying the vendor's two
// authentication schemes.
func NewDocument(info *Info, schemas *OrderedMap[*Schema]) *Document {
	security := NewOrderedMap[*SecurityScheme]()
	security.Set("basicAuth", &SecurityScheme{Type: "http", Scheme: "basic"})
	security.Set("bearerAuth", &SecurityScheme{Type: "http", Scheme: "bearer"})
	return &Document{
		OpenAPI: Version,
		Info:    info,
		Paths:   map[string]any{},
		Components: &Components{
			Schemas:         schemas,
			SecuritySchemes: security,
		},
	}
}

// Marshal serializes the document in the requested format.
func (d *Document) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatJSON, "":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}
