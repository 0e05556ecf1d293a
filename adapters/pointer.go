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

package adapters

import (
	"reflect"

	"dirpx.dev/cvx/apis"
)

// pointerDeref converts from a pointer source by dereferencing and
// re-dispatching the pointed-to value. Nil pointer sources never reach
// this rule: the service resolves them to the target's zero value first.
func pointerDeref() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.pointer-deref",
		Matches: func(src, dst reflect.Type) bool {
			return src != nil && src.Kind() == reflect.Ptr
		},
		Fn: func(c apis.Converter, src any, _, dstType reflect.Type) (any, error) {
			return c.Convert(reflect.ValueOf(src).Elem().Interface(), dstType)
		},
	}
}

// pointerAlloc converts to a pointer target by converting to the pointee
// type and allocating the result. Pointer sources are left to pointerDeref,
// which re-enters here after one dereference when both sides are pointers.
func pointerAlloc() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.pointer-alloc",
		Matches: func(src, dst reflect.Type) bool {
			return src != nil && dst != nil &&
				src.Kind() != reflect.Ptr && dst.Kind() == reflect.Ptr
		},
		Fn: func(c apis.Converter, src any, _, dstType reflect.Type) (any, error) {
			elem, err := c.Convert(src, dstType.Elem())
			if err != nil {
				return nil, err
			}
			out := reflect.New(dstType.Elem())
			setValue(out.Elem(), elem)
			return out.Interface(), nil
		},
	}
}
