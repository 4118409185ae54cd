package components

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// payload returns the nested data map of a whole-card payload, or props
// itself when it is already unwrapped.
func payload(props map[string]any) map[string]any {
	if data, ok := props["data"].(map[string]any); ok {
		return data
	}
	return props
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// num reads a finite number. NaN and infinities, which string props such as
// "Inf" parse to, are rejected.
func num(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numbers(v any) []float64 {
	items, _ := v.([]any)
	out := make([]float64, 0, len(items))
	for _, it := range items {
		if f, ok := num(it); ok {
			out = append(out, f)
		}
	}
	return out
}

// point is one labelled value.
type point struct {
	Label string
	Value float64
}

// points reads a labelled series from props. It accepts either
// {"data": [{"label": ..., "value": ...}]} or parallel "labels" and "values"
// arrays.
func points(props map[string]any) []point {
	if items, ok := props["data"].([]any); ok {
		out := make([]point, 0, len(items))
		for _, it := range items {
			rec, ok := it.(map[string]any)
			if !ok {
				continue
			}
			v, ok := num(rec["value"])
			if !ok && rec["value"] != nil {
				continue
			}
			out = append(out, point{Label: str(rec, "label", "name"), Value: v})
		}
		return out
	}

	labels, _ := props["labels"].([]any)
	values := numbers(props["values"])
	out := make([]point, len(values))
	for i, v := range values {
		out[i].Value = v
		if i < len(labels) {
			out[i].Label = fmt.Sprint(labels[i])
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
