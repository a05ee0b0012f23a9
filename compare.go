package dspager

import (
	"cmp"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// compareValues orders two field values. Numbers compare numerically across
// integer and float kinds, strings and byte slices lexically, times
// chronologically and booleans as false < true. nil sorts before anything
// else. Other combinations fall back to comparing their fmt.Sprint forms.
func compareValues(a, b any) int {
	a, b = indirectValue(a), indirectValue(b)
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch at := a.(type) {
	case string:
		if bt, ok := b.(string); ok {
			return strings.Compare(at, bt)
		}
	case []byte:
		if bt, ok := b.([]byte); ok {
			return strings.Compare(string(at), string(bt))
		}
	case time.Time:
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	case bool:
		if bt, ok := b.(bool); ok {
			switch {
			case at == bt:
				return 0
			case !at:
				return -1
			default:
				return 1
			}
		}
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(av) && isInt(bv):
		return cmp.Compare(av.Int(), bv.Int())
	case isUint(av) && isUint(bv):
		return cmp.Compare(av.Uint(), bv.Uint())
	case isNumber(av) && isNumber(bv):
		return cmp.Compare(toFloat(av), toFloat(bv))
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func indirectValue(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	return rv.Interface()
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// compileLike translates the SQL LIKE pattern into an anchored regexp. '%'
// matches any sequence, '_' matches one character and '\' escapes the next
// character.
func compileLike(pattern string) *regexp.Regexp {
	var expr strings.Builder
	expr.WriteString("(?s)^")

	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			expr.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			expr.WriteString(".*")
		case r == '_':
			expr.WriteString(".")
		default:
			expr.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	expr.WriteString("$")

	return regexp.MustCompile(expr.String())
}

// likeMatch reports whether s matches the SQL LIKE pattern.
func likeMatch(pattern, s string) bool {
	return compileLike(pattern).MatchString(s)
}

// coerceValue converts a textual filter value to the kind of the row value,
// the way a SQL backend casts a bound parameter to the column type. Values
// that do not parse are returned unchanged.
func coerceValue(value, right any) any {
	var text string
	switch rt := indirectValue(right).(type) {
	case string:
		text = rt
	case []byte:
		text = string(rt)
	default:
		return right
	}

	value = indirectValue(value)
	if _, isTime := value.(time.Time); isTime {
		return parseAnyValue(right)
	}

	text = strings.TrimSpace(text)
	rv := reflect.ValueOf(value)
	if isInt(rv) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
	}
	if isUint(rv) {
		if n, err := strconv.ParseUint(text, 10, 64); err == nil {
			return n
		}
	}
	if isNumber(rv) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	}
	if rv.Kind() == reflect.Bool {
		if b, err := strconv.ParseBool(text); err == nil {
			return b
		}
	}

	return right
}

// matchComparison evaluates "left comparison right".
func matchComparison(comparison Comparison, left, right any) bool {
	switch comparison {
	case ComparisonEqual:
		return compareValues(left, right) == 0
	case ComparisonNotEqual:
		return compareValues(left, right) != 0
	case ComparisonGreaterThan:
		return compareValues(left, right) > 0
	case ComparisonLessThan:
		return compareValues(left, right) < 0
	case ComparisonGreaterEqual:
		return compareValues(left, right) >= 0
	case ComparisonLessEqual:
		return compareValues(left, right) <= 0
	case ComparisonLike:
		left = indirectValue(left)
		return left != nil && likeMatch(fmt.Sprint(right), fmt.Sprint(left))
	case ComparisonNotLike:
		left = indirectValue(left)
		return left != nil && !likeMatch(fmt.Sprint(right), fmt.Sprint(left))
	default:
		return false
	}
}
