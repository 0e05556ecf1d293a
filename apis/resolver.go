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

// Resolver finds the single best rule for a type pair by walking both type
// lattices against the registry, most specific pairing first. Results,
// including the absence of a rule, are cached until the registry mutates.
type Resolver interface {
	// Resolve returns the best rule for converting src to dst, or false when
	// no registered rule applies. Resolve itself never fails: a missing rule
	// is a normal outcome here, turned into an error only by the Service.
	Resolve(src, dst reflect.Type) (*Rule, bool)
}
