/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"reflect"
)

// basicFor maps a basic kind to its predeclared unnamed-equivalent type.
// Struct, interface and func kinds are absent on purpose: they have no
// derivable widening step.
var basicFor = map[reflect.Kind]reflect.Type{
	reflect.Bool:       reflect.TypeOf(false),
	reflect.Int:        reflect.TypeOf(int(0)),
	reflect.Int8:       reflect.TypeOf(int8(0)),
	reflect.Int16:      reflect.TypeOf(int16(0)),
	reflect.Int32:      reflect.TypeOf(int32(0)),
	reflect.Int64:      reflect.TypeOf(int64(0)),
	reflect.Uint:       reflect.TypeOf(uint(0)),
	reflect.Uint8:      reflect.TypeOf(uint8(0)),
	reflect.Uint16:     reflect.TypeOf(uint16(0)),
	reflect.Uint32:     reflect.TypeOf(uint32(0)),
	reflect.Uint64:     reflect.TypeOf(uint64(0)),
	reflect.Uintptr:    reflect.TypeOf(uintptr(0)),
	reflect.Float32:    reflect.TypeOf(float32(0)),
	reflect.Float64:    reflect.TypeOf(float64(0)),
	reflect.Complex64:  reflect.TypeOf(complex64(0)),
	reflect.Complex128: reflect.TypeOf(complex128(0)),
	reflect.String:     reflect.TypeOf(""),
}

// Underlying returns the unnamed type structurally identical to the named
// type t, the single honest widening step Go offers (type Celsius float64
// widens to float64). ok is false when no step exists: t is nil, already
// unnamed, predeclared (int widens to nothing), or of a kind with no
// derivable underlying type (struct, interface, func).
func Underlying(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Name() == "" {
		return nil, false
	}

	var u reflect.Type
	switch t.Kind() {
	case reflect.Ptr:
		u = reflect.PtrTo(t.Elem())
	case reflect.Slice:
		u = reflect.SliceOf(t.Elem())
	case reflect.Array:
		u = reflect.ArrayOf(t.Len(), t.Elem())
	case reflect.Map:
		u = reflect.MapOf(t.Key(), t.Elem())
	case reflect.Chan:
		u = reflect.ChanOf(t.ChanDir(), t.Elem())
	default:
		u = basicFor[t.Kind()]
	}

	// Predeclared types (int, string, ...) are named yet already are their
	// own underlying type. No step in that case.
	if u == nil || u == t {
		return nil, false
	}
	return u, true
}
