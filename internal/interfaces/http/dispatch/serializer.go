package dispatch

import (
	"fmt"
	"reflect"
	"time"
)

// Serializable values control their own wire representation.
type Serializable interface {
	APIData() any
}

// Serialize converts an endpoint body into a JSON-ready value. Scalars pass
// through, slices, arrays and maps are converted element-wise, Serializable
// values are replaced by their APIData and plain structs are left to
// encoding/json.
func Serialize(v any) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(Serializable); ok {
		return Serialize(s.APIData())
	}
	switch v.(type) {
	case time.Time, *time.Time, []byte:
		return v
	}
	return serializeValue(reflect.ValueOf(v))
}

func serializeValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Serialize(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Serialize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Serialize(iter.Value().Interface())
		}
		return out
	default:
		return rv.Interface()
	}
}
