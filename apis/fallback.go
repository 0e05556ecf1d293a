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

// Fallback is a last-resort conversion consulted by the Service only after
// resolution and assignability both come up empty. Fallbacks run in the
// order the Service holds them; the first to claim a pair wins.
type Fallback interface {
	// TryConvert attempts the conversion. handled reports whether this
	// fallback claims the pair at all: (_, false, nil) means "not mine, ask
	// the next one", while (_, true, err) means the pair was claimed and the
	// attempt failed for good.
	TryConvert(c Converter, src any, srcType, dstType reflect.Type) (out any, handled bool, err error)
}

// FallbackFunc adapts a plain function to the Fallback interface.
type FallbackFunc func(c Converter, src any, srcType, dstType reflect.Type) (any, bool, error)

// TryConvert implements Fallback.
func (f FallbackFunc) TryConvert(c Converter, src any, srcType, dstType reflect.Type) (any, bool, error) {
	return f(c, src, srcType, dstType)
}
