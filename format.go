// FILE: lixenwraith/cascade/format.go
package cascade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

const (
	FormatTOML   Format = "toml"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatDotEnv Format = "dotenv"
)

// DefaultExtensions is the order in which document files are looked up for
// each layer. The first existing file wins.
var DefaultExtensions = []string{".yaml", ".yml", ".toml", ".json", ".jsonc"}

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTOML, FormatJSON, FormatYAML, FormatDotEnv:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	base := filepath.Base(path)
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return FormatDotEnv
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing into a map
func detectFormatFromContent(data []byte) Format {
	var probe map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &probe); err == nil {
		return FormatJSON
	}
	probe = nil
	if err := toml.Unmarshal(data, &probe); err == nil {
		return FormatTOML
	}
	probe = nil
	if err := yaml.Unmarshal(data, &probe); err == nil {
		return FormatYAML
	}
	return ""
}

// decodeDocument parses data read from path. Whitespace-only input yields an
// empty document in every format.
func decodeDocument(path string, data []byte) (Document, error) {
	doc := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return Document(doc), nil
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w '%s' as TOML: %w", ErrConfigParse, path, err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w '%s' as JSON: %w", ErrConfigParse, path, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w '%s' as YAML: %w", ErrConfigParse, path, err)
		}
	default:
		return nil, fmt.Errorf("%w for file '%s'", ErrUnknownFormat, path)
	}

	// A top-level null decodes to a nil map.
	if doc == nil {
		doc = make(map[string]any)
	}

	return Document(normalize(doc).(map[string]any)), nil
}

// encodeDocument serialises doc in the given format.
func encodeDocument(format Format, doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(map[string]any(doc)); err != nil {
			return nil, fmt.Errorf("failed to marshal document to TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(map[string]any(doc), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(map[string]any(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document to YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: cannot encode document as %q", ErrUnknownFormat, format)
	}
}

// normalize rewrites decoder output so nested maps are map[string]any,
// sequences are []any and JSON numbers are int64 or float64.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}
