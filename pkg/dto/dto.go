// Package dto normalizes raw store records into canonical models. The two
// stores disagree on field naming, so every canonical field resolves in
// order: canonical key, then known legacy aliases, then an empty default.
// Canonical DTOs always populate every recognized field; downstream
// consumers never branch on field presence.
package dto

import (
	"fmt"
	"strconv"

	"github.com/Ramsey-B/fern/pkg/stores"
)

// text resolves a string field by trying keys in order.
func text(r stores.RawRecord, keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(s, 10)
		case int:
			return strconv.Itoa(s)
		case bool:
			return strconv.FormatBool(s)
		default:
			return fmt.Sprintf("%v", s)
		}
	}
	return ""
}

// number resolves a numeric field by trying keys in order.
func number(r stores.RawRecord, keys ...string) float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		case int:
			return float64(n)
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// list resolves a string-slice field by trying keys in order. Scalars decoded
// from JSON arrive as []any.
func list(r stores.RawRecord, keys ...string) []string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch vs := v.(type) {
		case []string:
			if len(vs) > 0 {
				return vs
			}
		case []any:
			out := make([]string, 0, len(vs))
			for _, item := range vs {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

// rowOf returns the row handle or zero for directory records.
func rowOf(r stores.RawRecord) int64 {
	row, ok := r.Row()
	if !ok {
		return 0
	}
	return row
}
