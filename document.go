// FILE: lixenwraith/cascade/document.go
package cascade

import (
	"strings"
)

// PathSeparator separates segments in document paths, as in
// "db/connection/default/host".
const PathSeparator = "/"

// Document is a nested configuration tree produced by the structured
// pipeline. Nested mappings are always map[string]any and sequences []any.
type Document map[string]any

// Get returns the value at path. An empty path returns the whole document.
func (d Document) Get(path string) (any, bool) {
	path = strings.Trim(path, PathSeparator)
	if path == "" {
		return map[string]any(d), true
	}

	current := any(map[string]any(d))
	for _, segment := range strings.Split(path, PathSeparator) {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// Has reports whether path resolves to a value.
func (d Document) Has(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// Set stores value at path, creating intermediate maps. A segment holding a
// non-map value is replaced by a new map.
func (d Document) Set(path string, value any) {
	segments := strings.Split(strings.Trim(path, PathSeparator), PathSeparator)
	current := map[string]any(d)

	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// Merge returns overlay deep-merged onto d. Neither document is modified.
func (d Document) Merge(overlay Document) Document {
	return Document(DeepMerge(d, overlay))
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	return Document(cloneMap(d))
}

// Flatten converts the document to leaf paths joined with PathSeparator.
// Sequences are leaves.
func (d Document) Flatten() map[string]any {
	return flattenMap(d, "")
}

func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + PathSeparator + key
		}

		if nestedMap, isMap := value.(map[string]any); isMap && len(nestedMap) > 0 {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// Marshal encodes the document as TOML, JSON or YAML.
func (d Document) Marshal(format Format) ([]byte, error) {
	return encodeDocument(format, d)
}
