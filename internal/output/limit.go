package output

import (
	"context"
	"reflect"
)

// ApplyLimit truncates slice data to --result-limit items when a limit is set.
// The input is never modified.
func ApplyLimit(ctx context.Context, data interface{}) interface{} {
	limit := LimitFromContext(ctx)
	if data == nil || limit <= 0 {
		return data
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return data
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return data
	}
	if limit >= v.Len() {
		return data
	}

	// Copy to avoid aliasing the caller's backing array
	sliceType := v.Type()
	if v.Kind() == reflect.Array {
		sliceType = reflect.SliceOf(v.Type().Elem())
	}
	out := reflect.MakeSlice(sliceType, limit, limit)
	reflect.Copy(out, v.Slice(0, limit))
	return out.Interface()
}
