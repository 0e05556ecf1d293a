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

// Package converters provides the stock conversion rule library: text,
// numeric, time, identifier (UUID, semver), locale, structured-text and
// encoding.TextMarshaler/TextUnmarshaler rules.
//
// The package is a plain registrant. It talks to the registry through the
// four registration operations and never calls the resolver or the service;
// wiring it up is the builder's job (or the caller's, via RegisterAll).
package converters

import (
	"reflect"

	"dirpx.dev/cvx/apis"
	"go.uber.org/multierr"
)

var (
	stringType  = reflect.TypeOf("")
	bytesType   = reflect.TypeOf([]byte(nil))
	boolType    = reflect.TypeOf(false)
	stringsType = reflect.TypeOf([]string(nil))
	int64Type   = reflect.TypeOf(int64(0))
)

// RegisterAll registers the complete stock rule set with reg. Registration
// failures are combined and returned as one error; a partial registration
// is not rolled back.
func RegisterAll(reg apis.Registry) error {
	return multierr.Combine(
		registerText(reg),
		registerNumeric(reg),
		registerTime(reg),
		registerIdentifier(reg),
		registerLocale(reg),
		registerStructured(reg),
		registerEncoding(reg),
	)
}

// direct registers fn for (src, dst) under a diagnostics name.
func direct(reg apis.Registry, name string, src, dst reflect.Type, fn apis.DirectFunc) error {
	return reg.AddNamedDirect(name, apis.PairOf(src, dst), fn)
}
