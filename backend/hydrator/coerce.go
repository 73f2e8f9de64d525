package hydrator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Coercion helpers for loosely-typed remote documents. Every helper tolerates
// any input type and never panics; a value that cannot be coerced resolves to
// the caller's default (booleans), to "absent" (numbers, pointers), or is
// dropped (array entries).

func asBool(v interface{}, def bool) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(value) {
		case "true":
			return true
		case "false":
			return false
		}
	case float64:
		return value != 0
	case int:
		return value != 0
	case int64:
		return value != 0
	case json.Number:
		if f, err := value.Float64(); err == nil {
			return f != 0
		}
	}
	return def
}

// asNumber resolves to nil, not zero, for non-parseable values.
func asNumber(v interface{}) *float64 {
	switch value := v.(type) {
	case float64:
		return &value
	case float32:
		f := float64(value)
		return &f
	case int:
		f := float64(value)
		return &f
	case int64:
		f := float64(value)
		return &f
	case json.Number:
		if f, err := value.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return &f
		}
	}
	return nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// stringList drops non-string entries. A list that filters down to nothing is
// reported as absent (nil).
func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func asMapSlice(v interface{}) []map[string]interface{} {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []map[string]interface{}
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
