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

package converters

import (
	"reflect"

	"go.uber.org/multierr"
	"golang.org/x/text/language"

	"dirpx.dev/cvx/apis"
)

var tagType = reflect.TypeOf(language.Tag{})

// registerLocale registers the BCP 47 language tag printer/parser pair.
// Parsing is strict: a tag language.Parse cannot make sense of fails the
// conversion instead of degrading to the best-effort match.
func registerLocale(reg apis.Registry) error {
	return multierr.Combine(
		direct(reg, "locale.string-to-tag", stringType, tagType, func(src any) (any, error) {
			return language.Parse(src.(string))
		}),
		direct(reg, "locale.tag-to-string", tagType, stringType, func(src any) (any, error) {
			return src.(language.Tag).String(), nil
		}),
	)
}
