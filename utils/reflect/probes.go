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

// AnyType is the empty interface type, the universal root every type is
// assignable to.
var AnyType = reflect.TypeOf((*any)(nil)).Elem()

var emptyStructType = reflect.TypeOf(struct{}{})

// IsSequence reports whether t is an ordered element container, i.e. a
// slice or an array.
func IsSequence(t reflect.Type) bool {
	if t == nil {
		return false
	}
	k := t.Kind()
	return k == reflect.Slice || k == reflect.Array
}

// IsSet reports whether t is the conventional Go set shape map[T]struct{}.
func IsSet(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Map && t.Elem() == emptyStructType
}

// IsNilable reports whether values of t can be nil.
func IsNilable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return true
	}
	return false
}

// IsNilValue reports whether v is the untyped nil or a nil value of a
// nilable kind. Conversions treat both as the absent source.
func IsNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return IsNilable(rv.Type()) && rv.IsNil()
}

// Zero returns the zero value of t boxed in an interface, or nil for a
// nil type.
func Zero(t reflect.Type) any {
	if t == nil {
		return nil
	}
	return reflect.Zero(t).Interface()
}
