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

// scalarToCollection wraps a single converted value into a one-element
// sequence or set.
func scalarToCollection() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.scalar-to-collection",
		Matches: func(src, dst reflect.Type) bool {
			if src == nil || dst == nil {
				return false
			}
			scalar := !uref.IsSequence(src) && src.Kind() != reflect.Map
			return scalar && (uref.IsSequence(dst) || uref.IsSet(dst))
		},
		Fn: wrapScalar,
	}
}

func wrapScalar(c apis.Converter, src any, _, dstType reflect.Type) (any, error) {
	if uref.IsSet(dstType) {
		elem, err := c.Convert(src, dstType.Key())
		if err != nil {
			return nil, err
		}
		out := reflect.MakeMapWithSize(dstType, 1)
		out.SetMapIndex(valueFor(elem, dstType.Key()), reflect.ValueOf(struct{}{}))
		return out.Interface(), nil
	}

	elem, err := c.Convert(src, dstType.Elem())
	if err != nil {
		return nil, err
	}
	out, err := newSequence(dstType, 1)
	if err != nil {
		return nil, err
	}
	setValue(out.Index(0), elem)
	return out.Interface(), nil
}

// collectionToScalar unwraps a one-element sequence or set into a single
// converted value. Collections of any other size fail with a size mismatch:
// silently taking the first element would hide data loss.
func collectionToScalar() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.collection-to-scalar",
		Matches: func(src, dst reflect.Type) bool {
			if src == nil || dst == nil {
				return false
			}
			scalar := !uref.IsSequence(dst) && dst.Kind() != reflect.Map
			return scalar && (uref.IsSequence(src) || uref.IsSet(src))
		},
		Fn: unwrapScalar,
	}
}

func unwrapScalar(c apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)
	if n := sv.Len(); n != 1 {
		return nil, fmt.Errorf("cvx(adapters): cannot unwrap %s of %d elements into single %s", srcType, n, dstType)
	}

	if uref.IsSet(srcType) {
		it := sv.MapRange()
		it.Next()
		return c.Convert(it.Key().Interface(), dstType)
	}
	return c.Convert(sv.Index(0).Interface(), dstType)
}
