package source

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/dgallion1/flowguide/internal/flowchart"
	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk or on-wire encoding of a flowchart document.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// SupportedExtensions lists file extensions the catalog picks up.
var SupportedExtensions = map[string]Format{
	".json":  FormatJSON,
	".jsonc": FormatJSONC,
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
}

// FormatFor picks a format from a locator's extension, falling back to the
// response content type, then to JSON.
func FormatFor(locator, contentType string) Format {
	// Strip any query string before looking at the extension.
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}
	if f, ok := SupportedExtensions[strings.ToLower(path.Ext(locator))]; ok {
		return f
	}
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch {
			case strings.Contains(mt, "yaml"):
				return FormatYAML
			case strings.Contains(mt, "jsonc"):
				return FormatJSONC
			}
		}
	}
	return FormatJSON
}

// Decode parses data as a flowchart document. Any decode failure, and a
// document without a root, is reported as flowchart.ErrMalformedTree.
func Decode(data []byte, format Format) (*flowchart.Document, error) {
	var doc flowchart.Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: parsing yaml: %v", flowchart.ErrMalformedTree, err)
		}
	case FormatJSONC:
		data = jsonc.ToJSON(data)
		fallthrough
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: parsing json: %v", flowchart.ErrMalformedTree, err)
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root", flowchart.ErrMalformedTree)
	}
	return &doc, nil
}
