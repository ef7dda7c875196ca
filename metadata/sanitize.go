package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mohae/deepcopy"
)

// Sanitize returns a deep copy of doc that is safe to serialize and store. Keys starting with "__" are internal
// to the extraction tool and are dropped. Values JSON cannot represent, such as funcs or channels, are replaced by
// their printed form.
func Sanitize(doc Document) Document {
	if doc == nil {
		return nil
	}
	copied, ok := deepcopy.Copy(doc).(Document)
	if !ok {
		return Document{}
	}
	cleanMap(copied)
	return copied
}

// cleanMap edits m in place, which is only ever the deep copy.
func cleanMap(m map[string]any) {
	for k, v := range m {
		if strings.HasPrefix(k, "__") {
			delete(m, k)
			continue
		}
		m[k] = cleanValue(v)
	}
}

func cleanValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x
	case map[string]any:
		cleanMap(x)
		return x
	case Document:
		cleanMap(x)
		return map[string]any(x)
	case []any:
		for i := range x {
			x[i] = cleanValue(x[i])
		}
		return x
	}
	// Other slices and string-keyed maps are rebuilt as []any and map[string]any so their elements can be cleaned.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = cleanValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = cleanValue(iter.Value().Interface())
			}
			return out
		}
	}
	return fmt.Sprintf("%v", v)
}
