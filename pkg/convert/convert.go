// Package convert holds the shared "trim empty to absent" normalization
// helpers. Every optional string or list field in the system goes through
// these, so an empty string and an absent value always mean the same thing.
package convert

import (
	"strconv"
	"strings"
	"time"
)

// OptionalString normalizes a loosely-typed value to a trimmed string.
// Returns "" (absent) for nil, empty, whitespace-only, and unsupported
// types. Numbers and booleans are stringified; times use RFC 3339.
func OptionalString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// OptionalStringList normalizes a value that may be a single string or a
// list into a deduplicated list of trimmed, non-empty strings. Returns nil
// when nothing remains. Non-string list members are dropped.
func OptionalStringList(v any) []string {
	var raw []any
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		raw = []any{t}
	case []any:
		raw = t
	case []string:
		raw = make([]any, len(t))
		for i, s := range t {
			raw[i] = s
		}
	default:
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// OptionalExtra constrains a dynamic attribute bag to JSON-representable
// values (string, bool, number, nested map/slice of same). Anything else is
// dropped. Returns nil for empty bags.
func OptionalExtra(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		if cv, ok := constrain(val); ok {
			out[k] = cv
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func constrain(v any) (any, bool) {
	switch t := v.(type) {
	case string, bool, float64, int, int64:
		return t, true
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if cv, ok := constrain(val); ok {
				out[k] = cv
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			if cv, ok := constrain(val); ok {
				out = append(out, cv)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
