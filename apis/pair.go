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

package apis

import "reflect"

// TypePair identifies a conversion from a source type to a target type.
// It is the unit of rule registration, removal, cache keying, and error
// reporting. TypePair is comparable: two pairs are equal exactly when both
// sides denote the same runtime types, so it can be used directly as a map
// key.
type TypePair struct {
	// Source is the type being converted from.
	Source reflect.Type
	// Target is the type being converted to.
	Target reflect.Type
}

// PairOf builds a TypePair from a source and a target type.
func PairOf(source, target reflect.Type) TypePair {
	return TypePair{Source: source, Target: target}
}

// Reverse returns the pair with source and target swapped.
func (p TypePair) Reverse() TypePair {
	return TypePair{Source: p.Target, Target: p.Source}
}

// IsZero reports whether either side of the pair is missing.
func (p TypePair) IsZero() bool {
	return p.Source == nil || p.Target == nil
}

// String renders the pair as "source -> target", e.g. "string -> int".
func (p TypePair) String() string {
	src, dst := "<nil>", "<nil>"
	if p.Source != nil {
		src = p.Source.String()
	}
	if p.Target != nil {
		dst = p.Target.String()
	}
	return src + " -> " + dst
}
