// Package configval converts loosely typed configuration values, as
// decoded from TOML or set programmatically, into the types the
// ConfigStore getters promise. Every conversion yields the zero value
// for a type it does not recognise.
package configval

import "math"

// String returns v if it is a string.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int accepts any Go integer and truncates floats. TOML integers decode
// as int64.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case uint:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	}
	return 0
}

// Float accepts floats and integers.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int, int64, int32, uint:
		return float64(Int(n))
	}
	return 0
}

// Bool returns v if it is a bool.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Strings accepts []string as is. TOML arrays decode as []any, whose
// non-string elements are skipped.
func Strings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
