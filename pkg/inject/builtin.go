package inject

import "reflect"

// IsBuiltin reports whether t is a scalar the container never constructs:
// bool, numeric and string kinds, plus pointers to and slices of them.
// Constructor parameters of these types receive their zero value.
func IsBuiltin(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice:
		return isScalar(t.Elem().Kind())
	default:
		return isScalar(t.Kind())
	}
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}
	return false
}
