package node

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

// Fields holds decoded input values keyed by field name. After Decode every
// declared input is present, with int fields stored as int and float fields as float64.
type Fields map[string]interface{}

func (f Fields) Int(name string) int {
	v, _ := f[name].(int)
	return v
}

func (f Fields) Float(name string) float64 {
	v, _ := f[name].(float64)
	return v
}

// Key is a stable representation of the fields, used for caching.
func (f Fields) Key() string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, f[name]))
	}
	return strings.Join(parts, ",")
}

// Decode checks raw values against the declared inputs and fills in defaults.
func Decode(inputs []InputField, raw map[string]interface{}) (Fields, error) {
	declared := make(map[string]InputField, len(inputs))
	for _, in := range inputs {
		declared[in.Name] = in
	}
	for name := range raw {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", entity.ErrInvalidInput, name)
		}
	}

	fields := make(Fields, len(inputs))
	for _, in := range inputs {
		value, ok := raw[in.Name]
		if !ok || value == nil {
			value = in.Default
		}

		var err error
		switch in.Kind {
		case KindInt:
			fields[in.Name], err = toInt(value)
		case KindFloat:
			fields[in.Name], err = toFloat(value)
		default:
			err = fmt.Errorf("unsupported kind %q", in.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", entity.ErrInvalidInput, in.Name, err)
		}
	}
	return fields, nil
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %s", v)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}
