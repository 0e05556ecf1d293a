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

// Config carries read-only knobs that shape how the default components are
// built. It is passed by value and should be treated as immutable by
// implementations.
type Config struct {
	// IncludeDefaults controls whether the builder seeds the registry with
	// the stock converter set (text, numeric, time, identifiers). If false,
	// the registry starts empty.
	IncludeDefaults bool

	// IncludeAdapters controls whether the builder registers the composite
	// adapters (sequences, maps, singletons, pointers). Without them nested
	// conversion only reaches pairs covered by explicit rules.
	IncludeAdapters bool

	// MaxDepth limits conversion recursion through nested composites.
	// Acts as a safety guard against cyclic or pathological nesting.
	MaxDepth int
}
