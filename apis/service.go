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

// Converter is the execution surface handed to family rules and fallbacks so
// they can convert nested elements through the same dispatch path as the top
// level call. Implementations carry recursion depth across nested calls.
type Converter interface {
	// CanConvert reports whether a conversion from src to dst would succeed
	// at the dispatch level: a rule resolves, the types are assignable, or a
	// fallback claims the pair. It never executes a conversion.
	CanConvert(src, dst reflect.Type) bool

	// Convert converts v to the dst type, deriving the source type from v
	// itself. A nil v yields the zero value of dst without consulting rules.
	Convert(v any, dst reflect.Type) (any, error)

	// ConvertTyped converts v to dst while asserting that v's dynamic type
	// matches the declared src. A mismatch fails before any rule runs.
	ConvertTyped(v any, src, dst reflect.Type) (any, error)
}

// Service is the top-level conversion entry point. It resolves rules through
// a Resolver, executes them, applies fallbacks for unruled pairs, and wraps
// rule failures with pair context.
type Service interface {
	Converter
}
