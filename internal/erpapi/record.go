// internal/erpapi/record.go
package erpapi

import (
	"strconv"
	"strings"
)

// Record is one loosely-typed row as the ERP API returns it. The upsert
// engines map it into typed structs; these helpers absorb the API's habit
// of sending numbers as strings (sometimes with comma decimals) or nulls.
type Record map[string]any

func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Str returns the trimmed string value, "" when absent or null.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// F64 returns the numeric value, 0 when absent, null or unparseable.
func (r Record) F64(key string) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		// the ERP sometimes sends "12,5"
		s = strings.ReplaceAll(s, ",", ".")
		f, _ := strconv.ParseFloat(s, 64)
		return f
	default:
		return 0
	}
}

// I64 truncates F64; integer counters in the API arrive as JSON numbers.
func (r Record) I64(key string) int64 {
	return int64(r.F64(key))
}

// StrPtr returns nil for absent/null/empty values, otherwise the trimmed
// string — for columns where the cache keeps NULL instead of "".
func (r Record) StrPtr(key string) *string {
	s := r.Str(key)
	if s == "" {
		return nil
	}
	return &s
}

// F64Ptr returns nil when the field is absent or null; decimals keep NULL
// semantics in the cache, unlike counters which default to 0.
func (r Record) F64Ptr(key string) *float64 {
	if !r.Has(key) {
		return nil
	}
	f := r.F64(key)
	return &f
}
