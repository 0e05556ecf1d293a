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
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"dirpx.dev/cvx/apis"
)

var mapStringAnyType = reflect.TypeOf(map[string]any(nil))

// registerStructured registers the structured-text document rules between
// strings and generic string-keyed maps, in YAML form (which covers plain
// JSON documents as well, since YAML is a superset).
func registerStructured(reg apis.Registry) error {
	return multierr.Combine(
		direct(reg, "structured.string-to-map", stringType, mapStringAnyType, func(src any) (any, error) {
			out := map[string]any{}
			if err := yaml.Unmarshal([]byte(src.(string)), &out); err != nil {
				return nil, err
			}
			return out, nil
		}),
		direct(reg, "structured.map-to-string", mapStringAnyType, stringType, func(src any) (any, error) {
			b, err := yaml.Marshal(src.(map[string]any))
			if err != nil {
				return nil, err
			}
			return strings.TrimSuffix(string(b), "\n"), nil
		}),
	)
}
