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

package service

import (
	"fmt"
	"reflect"

	"dirpx.dev/cvx/apis"
)

var (
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// DefaultFallbacks returns the stock fallback chain in its consultation
// order: build a struct from a map-like source, build a struct from another
// struct, and last, render Stringer/error sources into textual targets.
func DefaultFallbacks() []apis.Fallback {
	return []apis.Fallback{
		NewMapToStructFallback(),
		NewStructToStructFallback(),
		NewStringerFallback(),
	}
}

// NewMapToStructFallback builds struct targets from string-keyed maps: each
// exported target field named by a map key is filled with the recursively
// converted entry value. Absent fields stay zero; unknown keys are ignored.
func NewMapToStructFallback() apis.Fallback {
	return mapToStructFallback{}
}

type mapToStructFallback struct{}

// TryConvert implements apis.Fallback.
func (mapToStructFallback) TryConvert(c apis.Converter, src any, srcType, dstType reflect.Type) (any, bool, error) {
	if srcType.Kind() != reflect.Map || srcType.Key().Kind() != reflect.String || dstType.Kind() != reflect.Struct {
		return nil, false, nil
	}

	sv := reflect.ValueOf(src)
	out := reflect.New(dstType).Elem()

	for i := 0; i < dstType.NumField(); i++ {
		field := dstType.Field(i)
		if !field.IsExported() {
			continue
		}
		entry := sv.MapIndex(reflect.ValueOf(field.Name).Convert(srcType.Key()))
		if !entry.IsValid() {
			continue
		}
		converted, err := c.Convert(entry.Interface(), field.Type)
		if err != nil {
			return nil, true, err
		}
		setField(out.Field(i), converted, field.Type)
	}

	return out.Interface(), true, nil
}

// NewStructToStructFallback builds struct targets from struct sources by
// exported field name: every target field with a same-named source field is
// filled with the recursively converted source value.
func NewStructToStructFallback() apis.Fallback {
	return structToStructFallback{}
}

type structToStructFallback struct{}

// TryConvert implements apis.Fallback.
func (structToStructFallback) TryConvert(c apis.Converter, src any, srcType, dstType reflect.Type) (any, bool, error) {
	if srcType.Kind() != reflect.Struct || dstType.Kind() != reflect.Struct {
		return nil, false, nil
	}

	sv := reflect.ValueOf(src)
	out := reflect.New(dstType).Elem()

	for i := 0; i < dstType.NumField(); i++ {
		field := dstType.Field(i)
		if !field.IsExported() {
			continue
		}
		srcField, ok := srcType.FieldByName(field.Name)
		if !ok || !srcField.IsExported() {
			continue
		}
		converted, err := c.Convert(sv.FieldByIndex(srcField.Index).Interface(), field.Type)
		if err != nil {
			return nil, true, err
		}
		setField(out.Field(i), converted, field.Type)
	}

	return out.Interface(), true, nil
}

// NewStringerFallback renders fmt.Stringer and error sources into targets
// of string kind, honoring named string targets.
func NewStringerFallback() apis.Fallback {
	return stringerFallback{}
}

type stringerFallback struct{}

// TryConvert implements apis.Fallback.
func (stringerFallback) TryConvert(_ apis.Converter, src any, srcType, dstType reflect.Type) (any, bool, error) {
	if dstType.Kind() != reflect.String {
		return nil, false, nil
	}

	var s string
	switch {
	case srcType.Implements(errorType):
		s = src.(error).Error()
	case srcType.Implements(stringerType):
		s = src.(fmt.Stringer).String()
	default:
		return nil, false, nil
	}

	return reflect.ValueOf(s).Convert(dstType).Interface(), true, nil
}

// setField assigns a converted value to a struct field, tolerating the nil
// a conversion to a nilable field type may produce.
func setField(field reflect.Value, v any, t reflect.Type) {
	if v == nil {
		field.Set(reflect.Zero(t))
		return
	}
	field.Set(reflect.ValueOf(v))
}
