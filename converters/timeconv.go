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
	"time"

	"dirpx.dev/cvx/apis"
	"go.uber.org/multierr"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// registerTime registers the time rules: RFC 3339 instants, durations in
// their canonical string form, and Unix-second integers.
func registerTime(reg apis.Registry) error {
	return multierr.Combine(
		direct(reg, "time.string-to-time", stringType, timeType, func(src any) (any, error) {
			return time.Parse(time.RFC3339, src.(string))
		}),
		direct(reg, "time.time-to-string", timeType, stringType, func(src any) (any, error) {
			return src.(time.Time).Format(time.RFC3339), nil
		}),
		direct(reg, "time.string-to-duration", stringType, durationType, func(src any) (any, error) {
			return time.ParseDuration(src.(string))
		}),
		direct(reg, "time.duration-to-string", durationType, stringType, func(src any) (any, error) {
			return src.(time.Duration).String(), nil
		}),
		direct(reg, "time.unix-to-time", int64Type, timeType, func(src any) (any, error) {
			return time.Unix(src.(int64), 0).UTC(), nil
		}),
		direct(reg, "time.time-to-unix", timeType, int64Type, func(src any) (any, error) {
			return src.(time.Time).Unix(), nil
		}),
	)
}
