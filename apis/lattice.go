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

// Lattice enumerates the generalization chain of a type, most specific
// first. Resolution walks these chains pairwise to find the closest
// registered rule for a pair.
type Lattice interface {
	// Enumerate returns the chain for t: t itself, then progressively more
	// general stand-ins, ending with the universal any type. The slice is
	// freshly allocated on each call and safe for the caller to mutate.
	Enumerate(t reflect.Type) []reflect.Type
}
