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
	"fmt"
	"reflect"

	"dirpx.dev/cvx/apis"
	uref "dirpx.dev/cvx/utils/reflect"
)

// sequenceToSequence converts slices and arrays into slices and arrays,
// preserving length and element order. Identical element types are copied
// without per-element dispatch; everything else is converted one by one
// through the service, so rules registered for the element pair apply even
// when the elements happen to be assignable. The first element failure
// aborts the whole conversion.
func sequenceToSequence() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.sequence",
		Matches: func(src, dst reflect.Type) bool {
			return uref.IsSequence(src) && uref.IsSequence(dst)
		},
		Fn: convertSequence,
	}
}

func convertSequence(c apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)
	n := sv.Len()

	out, err := newSequence(dstType, n)
	if err != nil {
		return nil, err
	}

	fast := srcType.Elem() == dstType.Elem()
	for i := 0; i < n; i++ {
		if fast {
			out.Index(i).Set(sv.Index(i))
			continue
		}
		elem, err := c.Convert(sv.Index(i).Interface(), dstType.Elem())
		if err != nil {
			return nil, err
		}
		setValue(out.Index(i), elem)
	}

	return out.Interface(), nil
}

// sequenceToSet converts slices and arrays into the conventional Go set
// shape map[T]struct{}. Duplicate post-conversion elements collapse per
// set semantics.
func sequenceToSet() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.sequence-to-set",
		Matches: func(src, dst reflect.Type) bool {
			return uref.IsSequence(src) && uref.IsSet(dst)
		},
		Fn: convertSequenceToSet,
	}
}

func convertSequenceToSet(c apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)
	n := sv.Len()
	out := reflect.MakeMapWithSize(dstType, n)
	member := reflect.ValueOf(struct{}{})

	fast := srcType.Elem() == dstType.Key()
	for i := 0; i < n; i++ {
		if fast {
			out.SetMapIndex(sv.Index(i), member)
			continue
		}
		elem, err := c.Convert(sv.Index(i).Interface(), dstType.Key())
		if err != nil {
			return nil, err
		}
		out.SetMapIndex(valueFor(elem, dstType.Key()), member)
	}

	return out.Interface(), nil
}

// setToSequence converts a set into a slice or an array. Iteration order of
// the source set is unspecified, so element order in the result is too.
func setToSequence() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.set-to-sequence",
		Matches: func(src, dst reflect.Type) bool {
			return uref.IsSet(src) && uref.IsSequence(dst)
		},
		Fn: convertSetToSequence,
	}
}

func convertSetToSequence(c apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)
	n := sv.Len()

	out, err := newSequence(dstType, n)
	if err != nil {
		return nil, err
	}

	fast := srcType.Key() == dstType.Elem()
	i := 0
	for it := sv.MapRange(); it.Next(); i++ {
		if fast {
			out.Index(i).Set(it.Key())
			continue
		}
		elem, err := c.Convert(it.Key().Interface(), dstType.Elem())
		if err != nil {
			return nil, err
		}
		setValue(out.Index(i), elem)
	}

	return out.Interface(), nil
}

// newSequence allocates the target slice or array. Array targets must match
// the source length exactly; a silently truncated or padded array would
// lose data.
func newSequence(dstType reflect.Type, n int) (reflect.Value, error) {
	if dstType.Kind() == reflect.Array {
		if dstType.Len() != n {
			return reflect.Value{}, fmt.Errorf("cvx(adapters): cannot fit %d elements into %s", n, dstType)
		}
		return reflect.New(dstType).Elem(), nil
	}
	return reflect.MakeSlice(dstType, n, n), nil
}

// setValue assigns a converted element, tolerating the nil a conversion to
// a nilable element type may produce.
func setValue(dst reflect.Value, v any) {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	dst.Set(reflect.ValueOf(v))
}

// valueFor boxes a converted element as a reflect.Value of type t.
func valueFor(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}
