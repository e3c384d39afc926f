package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// Parse reads a JSON or YAML document into generic maps and slices.
// Documents starting with '{' or '[' are treated as JSON.
func Parse(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", model.ErrInvalidFormat)
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		obj, err := oj.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid JSON file: %v", model.ErrInvalidFormat, err)
		}
		return obj, nil
	}
	var obj any
	if err := yaml.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML file: %v", model.ErrInvalidFormat, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: empty document", model.ErrInvalidFormat)
	}
	return normalizeYAML(obj), nil
}

// lookup returns the first match of path in obj
func lookup(obj any, path string) (any, bool) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}
	res := x.Get(obj)
	if len(res) == 0 {
		return nil, false
	}
	return res[0], true
}

// decodeInto converts a generic value into target via its JSON form
func decodeInto(v, target any) error {
	return json.Unmarshal([]byte(oj.JSON(v)), target)
}

// yaml.v3 produces map[any]any for maps with non-string keys
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeYAML(item)
		}
		return t
	case map[any]any:
		ret := make(map[string]any, len(t))
		for k, item := range t {
			ret[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return ret
	case []any:
		for i, item := range t {
			t[i] = normalizeYAML(item)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// normalizeKey folds a document key for matching: lower case,
// no separators
func normalizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '.':
			return -1
		}
		return r
	}, strings.ToLower(key))
}

// toInt accepts integral numbers and numeric strings
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
