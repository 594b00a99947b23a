// FILE: lixenwraith/cascade/merge.go
package cascade

// DeepMerge returns a new tree holding overlay applied onto base.
// For every key in overlay: if both sides hold a map the two are merged
// recursively, otherwise overlay's value replaces base's. Sequences are
// replaced whole. Neither input is modified.
func DeepMerge(base, overlay map[string]any) map[string]any {
	result := cloneMap(base)
	for key, value := range overlay {
		if overlayMap, ok := value.(map[string]any); ok {
			if baseMap, ok := result[key].(map[string]any); ok {
				result[key] = DeepMerge(baseMap, overlayMap)
				continue
			}
		}
		result[key] = cloneValue(value)
	}
	return result
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return val
		}
		return cloneMap(val)
	case []any:
		if val == nil {
			return val
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
