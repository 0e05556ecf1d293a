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

// Package adapters provides the composite family rules: conversions between
// sequences, sets, maps, pointers, and between scalars and one-element
// collections.
//
// Each adapter is a stateless family rule with a kind-based predicate. The
// actual element, key and value conversions are delegated back to the
// dispatching service through the apis.Converter callback, so every nested
// element goes through the same resolution path as a top-level call and the
// recursion depth budget is enforced uniformly.
//
// Element-level failures propagate unchanged: an adapter never swallows or
// rewraps the error of a nested conversion, and never returns a partially
// converted collection.
package adapters

import (
	"dirpx.dev/cvx/apis"
	"go.uber.org/multierr"
)

// RegisterAll registers every composite adapter with reg. Registration
// failures are combined and returned as one error.
func RegisterAll(reg apis.Registry) error {
	return multierr.Combine(
		reg.AddFamily(sequenceToSequence()),
		reg.AddFamily(sequenceToSet()),
		reg.AddFamily(setToSequence()),
		reg.AddFamily(mapToMap()),
		reg.AddFamily(scalarToCollection()),
		reg.AddFamily(collectionToScalar()),
		reg.AddFamily(pointerDeref()),
		reg.AddFamily(pointerAlloc()),
	)
}
