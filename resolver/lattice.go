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

package resolver

import (
	"reflect"

	"dirpx.dev/cvx/apis"
	uref "dirpx.dev/cvx/utils/reflect"
)

// NewLattice constructs the default apis.Lattice. The chain for a type t is:
// t itself, the underlying type of a named t when one is derivable, the
// registered interface keys t implements in first-registration order, and
// the universal any type last. Duplicates keep their first occurrence.
//
// Interface steps come from reg because Go cannot enumerate the open set of
// interfaces a type implements; only interfaces somebody registered a rule
// against can ever match anyway.
func NewLattice(reg apis.Registry) apis.Lattice {
	return lattice{reg: reg}
}

// lattice is an immutable view over the registry's interface keys.
type lattice struct {
	reg apis.Registry
}

// Enumerate returns the generalization chain for t, most specific first.
func (l lattice) Enumerate(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}

	chain := make([]reflect.Type, 0, 4)
	chain = append(chain, t)
	if u, ok := uref.Underlying(t); ok {
		chain = append(chain, u)
	}
	if l.reg != nil {
		for _, key := range l.reg.InterfaceKeys() {
			if t.Implements(key) {
				chain = append(chain, key)
			}
		}
	}
	chain = append(chain, uref.AnyType)

	return dedupTypes(chain)
}

// dedupTypes removes duplicates in place, keeping the first occurrence.
func dedupTypes(in []reflect.Type) []reflect.Type {
	seen := make(map[reflect.Type]struct{}, len(in))
	out := in[:0]
	for _, t := range in {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
