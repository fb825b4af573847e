package config

import (
	"sort"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/ast"
)

// normalize converts decoded values to what a machine stores:
// every integer is int64, lists are []any.
func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case []any:
		r := make([]any, len(v))

		for i, x := range v {
			r[i] = normalize(x)
		}

		return r
	case []int64:
		r := make([]any, len(v))

		for i, x := range v {
			r[i] = x
		}

		return r
	default:
		return v
	}
}

// ParseAssignments parses "a=206,b=40" as given on a command line.
// Values are read as numbers or booleans, anything else is a symbol.
func ParseAssignments(s string) (map[string]any, error) {
	r := make(map[string]any)

	if strings.TrimSpace(s) == "" {
		return r, nil
	}

	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)

		if !ok || k == "" {
			return nil, errors.New("bad assignment: %q", kv)
		}

		r[k] = scalar(strings.TrimSpace(v))
	}

	return r, nil
}

func scalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	switch strings.ToLower(s) {
	case "true", "#t":
		return true
	case "false", "#f":
		return false
	}

	return ast.Symbol(s)
}

// SplitList splits a comma separated flag value.
func SplitList(s string) (r []string) {
	for _, x := range strings.Split(s, ",") {
		x = strings.TrimSpace(x)
		if x != "" {
			r = append(r, x)
		}
	}

	return r
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
