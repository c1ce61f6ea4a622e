package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Property values arrive from key bindings, text inputs and decoded JSON, so
// the coercions accept the loose forms each of those produce.

func asString(path string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", invalid(path, v)
}

func asBool(path string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, invalid(path, v)
		}
		return parsed, nil
	}
	return false, invalid(path, v)
}

func asInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, invalid(path, v)
		}
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, invalid(path, v)
		}
		return parsed, nil
	}
	return 0, invalid(path, v)
}

// asOptionalInt maps nil and "" to nil.
func asOptionalInt(path string, v any) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if p, ok := v.(*int); ok {
		if p == nil {
			return nil, nil
		}
		n := *p
		return &n, nil
	}
	n, err := asInt(path, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func asOptionalFloat(path string, v any) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case *float64:
		if n == nil {
			return nil, nil
		}
		f := *n
		return &f, nil
	case string:
		if strings.TrimSpace(n) == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, invalid(path, v)
		}
		return &f, nil
	}
	return nil, invalid(path, v)
}

func invalid(path string, v any) error {
	return fmt.Errorf("%w: %s = %v (%T)", ErrInvalidValue, path, v, v)
}

func unknown(path string) error {
	return fmt.Errorf("%w: %s", ErrUnknownProperty, path)
}
