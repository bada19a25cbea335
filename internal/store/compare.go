package store

import (
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

func (op Op) holds(got, want reflect.Value) bool {
	c, ok := compare(got, want)
	switch op {
	case OpNe:
		return !ok || c != 0
	case OpLt:
		return ok && c < 0
	case OpGt:
		return ok && c > 0
	default:
		return ok && c == 0
	}
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// compare orders two column values the way SQL would for the types models
// use. Nil behaves like NULL: it equals only nil and is smaller than anything.
// ok is false when the values are not comparable.
func compare(a, b reflect.Value) (int, bool) {
	a, b = deref(a), deref(b)
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0, true
	case !a.IsValid():
		return -1, false
	case !b.IsValid():
		return 1, false
	}

	if a.Type() == timeType && b.Type() == timeType {
		return a.Interface().(time.Time).Compare(b.Interface().(time.Time)), true
	}
	if af, ok := number(a); ok {
		bf, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	switch a.Kind() {
	case reflect.String:
		if b.Kind() != reflect.String {
			return 0, false
		}
		return strings.Compare(a.String(), b.String()), true
	case reflect.Bool:
		if b.Kind() != reflect.Bool {
			return 0, false
		}
		x, y := a.Bool(), b.Bool()
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	if a.Type() == b.Type() && a.Type().Comparable() && a.Interface() == b.Interface() {
		return 0, true
	}
	return 0, false
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
