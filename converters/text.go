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
	"strconv"
	"strings"

	"dirpx.dev/cvx/apis"
	"go.uber.org/multierr"
)

// registerText registers the plain text rules: bytes, booleans, and the
// comma-separated list form.
func registerText(reg apis.Registry) error {
	return multierr.Combine(
		direct(reg, "text.string-to-bytes", stringType, bytesType, func(src any) (any, error) {
			return []byte(src.(string)), nil
		}),
		direct(reg, "text.bytes-to-string", bytesType, stringType, func(src any) (any, error) {
			return string(src.([]byte)), nil
		}),
		direct(reg, "text.string-to-bool", stringType, boolType, func(src any) (any, error) {
			return strconv.ParseBool(src.(string))
		}),
		direct(reg, "text.bool-to-string", boolType, stringType, func(src any) (any, error) {
			return strconv.FormatBool(src.(bool)), nil
		}),
		direct(reg, "text.string-to-list", stringType, stringsType, func(src any) (any, error) {
			s := src.(string)
			if s == "" {
				return []string{}, nil
			}
			parts := strings.Split(s, ",")
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			return parts, nil
		}),
		direct(reg, "text.list-to-string", stringsType, stringType, func(src any) (any, error) {
			return strings.Join(src.([]string), ","), nil
		}),
	)
}
