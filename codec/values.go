package codec

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Normalize converts decoder specific values into the shared shape:
// json.Number and sized integers become int64 (uint64 when too large),
// float32 becomes float64, map[any]any becomes map[string]any and
// []byte becomes string.
func Normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return u
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return normalizeUint(uint64(val))
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return normalizeUint(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	case []any:
		for i := range val {
			val[i] = Normalize(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = Normalize(val[k])
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[fmt.Sprint(Normalize(k))] = Normalize(e)
		}
		return m
	}
	return v
}

func normalizeUint(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

// Int64 converts numeric values, and numeric strings, to int64.
// Floats are accepted when integral.
func Int64(v any) (int64, bool) {
	switch n := Normalize(v).(type) {
	case int64:
		return n, true
	case uint64:
		return 0, false
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n <= math.MaxInt64 {
			return int64(n), true
		}
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// Float64 converts numeric values, and numeric strings, to float64.
func Float64(v any) (float64, bool) {
	switch n := Normalize(v).(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// Bool converts booleans and the numbers 0 and 1.
func Bool(v any) (bool, bool) {
	switch b := Normalize(v).(type) {
	case bool:
		return b, true
	case int64:
		return b != 0, b == 0 || b == 1
	}
	return false, false
}

// String returns strings as is and formats any other non nil value.
func String(v any) (string, bool) {
	switch s := Normalize(v).(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(s), true
	}
}
