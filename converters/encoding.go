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
	"encoding"
	"fmt"
	"reflect"

	"go.uber.org/multierr"

	"dirpx.dev/cvx/apis"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// registerEncoding registers the encoding.TextMarshaler/TextUnmarshaler
// rules. They make any type following the stdlib text convention (domain
// enums with Parse/String pairs typically do) convertible from and to text
// without a per-type registration:
//
//   - a family rule unmarshals string and []byte sources into any value
//     target T whose *T implements encoding.TextUnmarshaler;
//   - a factory under (string, TextUnmarshaler) mints direct rules for
//     pointer targets, exercising the factory path of the resolver;
//   - a family rule marshals any encoding.TextMarshaler source into
//     string-kind targets.
func registerEncoding(reg apis.Registry) error {
	return multierr.Combine(
		reg.AddFamily(apis.FamilyRule{
			Name: "encoding.unmarshal-text",
			Matches: func(src, dst reflect.Type) bool {
				if src == nil || dst == nil || !isTextSource(src) {
					return false
				}
				return dst.Kind() != reflect.Ptr && reflect.PtrTo(dst).Implements(textUnmarshalerType)
			},
			Fn: unmarshalText,
		}),
		reg.AddFamily(apis.FamilyRule{
			Name: "encoding.marshal-text",
			Matches: func(src, dst reflect.Type) bool {
				return src != nil && dst != nil &&
					dst.Kind() == reflect.String && src.Implements(textMarshalerType)
			},
			Fn: marshalText,
		}),
		reg.AddFactory(stringType, textUnmarshalerType, mintUnmarshaler),
	)
}

func isTextSource(t reflect.Type) bool {
	return t.Kind() == reflect.String ||
		(t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8)
}

func unmarshalText(_ apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	var text []byte
	if srcType.Kind() == reflect.String {
		text = []byte(reflect.ValueOf(src).String())
	} else {
		text = reflect.ValueOf(src).Bytes()
	}

	p := reflect.New(dstType)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText(text); err != nil {
		return nil, err
	}
	return p.Elem().Interface(), nil
}

func marshalText(_ apis.Converter, src any, _, dstType reflect.Type) (any, error) {
	b, err := src.(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(string(b)).Convert(dstType).Interface(), nil
}

// mintUnmarshaler mints direct string-to-*T rules for pointer targets whose
// pointee follows the TextUnmarshaler convention. Value targets are covered
// by the family rule above; declining them here keeps the factory honest
// about what it can construct.
func mintUnmarshaler(target reflect.Type) (apis.DirectFunc, bool) {
	if target.Kind() != reflect.Ptr || !target.Implements(textUnmarshalerType) {
		return nil, false
	}
	elem := target.Elem()
	return func(src any) (any, error) {
		s, ok := src.(string)
		if !ok {
			return nil, fmt.Errorf("cvx(converters): expected string source, got %T", src)
		}
		p := reflect.New(elem)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return p.Interface(), nil
	}, true
}
