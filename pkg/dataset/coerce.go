package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errNotNumber   = errors.New("not a number")
	errNotInteger  = errors.New("not an integer")
	errNotFinite   = errors.New("not a finite number")
	errOutOfRange  = errors.New("out of integer range")
	errNegative    = errors.New("negative value")
	errNotTime     = errors.New("not a date/time")
	errUnsupported = errors.New("unsupported value type")
)

// timeLayouts are tried in order. Fractional seconds are accepted by all of
// them; values without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nullTimeTokens are placeholders dataframe exports write for missing dates.
var nullTimeTokens = map[string]struct{}{
	"NaT":  {},
	"NaN":  {},
	"nan":  {},
	"None": {},
	"null": {},
}

// coerce converts v to the Go type matching t. nil stays nil.
func coerce(v any, t FieldType) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t {
	case TypeInt:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, errNotInteger
		}
		// float64(math.MaxInt) rounds up to 2^63, which does not fit.
		if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
			return nil, errOutOfRange
		}
		return int(f), nil
	case TypeFloat:
		return toFloat(v)
	case TypeTime:
		return toTime(v)
	default:
		return toString(v), nil
	}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	default:
		return 0, errUnsupported
	}

	if math.IsNaN(f) {
		return 0, errNotNumber
	}
	if math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// checkNonNegative rejects typed numbers below zero.
func checkNonNegative(v any) error {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return errNegative
		}
	case float64:
		if n < 0 {
			return errNegative
		}
	}
	return nil
}

func toTime(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if _, null := nullTimeTokens[s]; null {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), nil
			}
		}
		return nil, errNotTime
	default:
		return nil, errUnsupported
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

// isZero reports whether v is a numeric zero, including numeric strings.
func isZero(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	f, err := toFloat(v)
	return err == nil && f == 0
}
