package scraper

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is one dataset item of arbitrary shape. Actors rename fields
// between versions, so every accessor takes a list of candidate keys and
// returns the first usable one.
type Record map[string]any

// truthy reports whether v carries a value: not nil, not an empty string,
// not zero, not false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case bool:
		return x
	}
	return true
}

// first returns the first truthy value among keys.
func (r Record) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v := r[k]; truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// str returns the first truthy value among keys rendered as a string.
func (r Record) str(keys ...string) string {
	v, ok := r.first(keys...)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// count returns the first non-null counter among keys. Zero is a known
// value here; only a missing or null field is unknown.
func (r Record) count(keys ...string) *int64 {
	for _, k := range keys {
		if n, ok := toInt(r[k]); ok {
			return &n
		}
	}
	return nil
}

// obj returns the first nested object among keys, or an empty Record.
func (r Record) obj(keys ...string) Record {
	for _, k := range keys {
		if m, ok := r[k].(map[string]any); ok {
			return m
		}
	}
	return Record{}
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		if f, err := x.Float64(); err == nil {
			return int64(math.Round(f)), true
		}
	case float64:
		return int64(math.Round(x)), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// epochMillis reads a timestamp that may be epoch seconds or milliseconds,
// as a number or a numeric string. Values below 1e10 are seconds.
func epochMillis(v any) (int64, bool) {
	n, ok := toInt(v)
	if !ok {
		return 0, false
	}
	if n < 10_000_000_000 {
		n *= 1000
	}
	return n, true
}
