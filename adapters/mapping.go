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

// mapToMap converts maps into maps, converting keys and values
// independently. Identical key or value types copy without dispatch; any
// other key or value goes through the service, so element-pair rules apply.
// Set-to-set conversions fall out of this adapter, since a set is a map
// with struct{} values.
//
// When two distinct source keys convert to the same target key, the entry
// iterated last wins. Go map iteration order is unspecified, so which entry
// that is, is unspecified too; only the single-entry outcome is guaranteed.
func mapToMap() apis.FamilyRule {
	return apis.FamilyRule{
		Name: "adapter.map",
		Matches: func(src, dst reflect.Type) bool {
			return src != nil && dst != nil &&
				src.Kind() == reflect.Map && dst.Kind() == reflect.Map
		},
		Fn: convertMap,
	}
}

func convertMap(c apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)
	out := reflect.MakeMapWithSize(dstType, sv.Len())

	fastKey := srcType.Key() == dstType.Key()
	fastVal := srcType.Elem() == dstType.Elem()

	for it := sv.MapRange(); it.Next(); {
		key := it.Key()
		if !fastKey {
			converted, err := c.Convert(key.Interface(), dstType.Key())
			if err != nil {
				return nil, err
			}
			key = valueFor(converted, dstType.Key())
		}

		val := it.Value()
		if !fastVal {
			converted, err := c.Convert(val.Interface(), dstType.Elem())
			if err != nil {
				return nil, err
			}
			val = valueFor(converted, dstType.Elem())
		}

		out.SetMapIndex(key, val)
	}

	return out.Interface(), nil
}
