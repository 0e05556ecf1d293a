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

	"github.com/blang/semver/v4"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"dirpx.dev/cvx/apis"
)

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	versionType = reflect.TypeOf(semver.Version{})
)

// registerIdentifier registers the identifier printer/parser pairs: UUIDs
// and semantic versions.
func registerIdentifier(reg apis.Registry) error {
	return multierr.Combine(
		direct(reg, "ident.string-to-uuid", stringType, uuidType, func(src any) (any, error) {
			return uuid.Parse(src.(string))
		}),
		direct(reg, "ident.uuid-to-string", uuidType, stringType, func(src any) (any, error) {
			return src.(uuid.UUID).String(), nil
		}),
		direct(reg, "ident.bytes-to-uuid", bytesType, uuidType, func(src any) (any, error) {
			return uuid.FromBytes(src.([]byte))
		}),
		direct(reg, "ident.string-to-semver", stringType, versionType, func(src any) (any, error) {
			return semver.Parse(src.(string))
		}),
		direct(reg, "ident.semver-to-string", versionType, stringType, func(src any) (any, error) {
			return src.(semver.Version).String(), nil
		}),
	)
}
