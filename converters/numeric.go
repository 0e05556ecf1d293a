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
	"fmt"
	"math"
	"reflect"
	"strconv"

	"dirpx.dev/cvx/apis"
	"go.uber.org/multierr"
)

// registerNumeric registers three family rules covering every numeric kind:
// parsing from strings, formatting to strings, and cross-kind numeric
// conversion with overflow checks. Working at the kind level means named
// numeric types (type Port uint16) are covered without per-type rules.
func registerNumeric(reg apis.Registry) error {
	return multierr.Combine(
		reg.AddFamily(apis.FamilyRule{
			Name: "numeric.parse",
			Matches: func(src, dst reflect.Type) bool {
				return src != nil && dst != nil && src.Kind() == reflect.String && isNumericKind(dst.Kind())
			},
			Fn: parseNumber,
		}),
		reg.AddFamily(apis.FamilyRule{
			Name: "numeric.format",
			Matches: func(src, dst reflect.Type) bool {
				return src != nil && dst != nil && isNumericKind(src.Kind()) && dst.Kind() == reflect.String
			},
			Fn: formatNumber,
		}),
		reg.AddFamily(apis.FamilyRule{
			Name: "numeric.cross",
			Matches: func(src, dst reflect.Type) bool {
				return src != nil && dst != nil && isNumericKind(src.Kind()) && isNumericKind(dst.Kind())
			},
			Fn: crossNumber,
		}),
	)
}

func isNumericKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Complex128 && k != reflect.Uintptr
}

func isIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isComplexKind(k reflect.Kind) bool {
	return k == reflect.Complex64 || k == reflect.Complex128
}

// parseNumber parses a string-kind source into any numeric-kind target,
// bit-size aware so that out-of-range literals fail instead of wrapping.
func parseNumber(_ apis.Converter, src any, _, dstType reflect.Type) (any, error) {
	s := reflect.ValueOf(src).String()
	out := reflect.New(dstType).Elem()

	switch k := dstType.Kind(); {
	case isIntKind(k):
		i, err := strconv.ParseInt(s, 10, dstType.Bits())
		if err != nil {
			return nil, err
		}
		out.SetInt(i)
	case isUintKind(k):
		u, err := strconv.ParseUint(s, 10, dstType.Bits())
		if err != nil {
			return nil, err
		}
		out.SetUint(u)
	case isFloatKind(k):
		f, err := strconv.ParseFloat(s, dstType.Bits())
		if err != nil {
			return nil, err
		}
		out.SetFloat(f)
	case isComplexKind(k):
		c, err := strconv.ParseComplex(s, dstType.Bits())
		if err != nil {
			return nil, err
		}
		out.SetComplex(c)
	default:
		return nil, fmt.Errorf("cvx(converters): %s is not a numeric kind", dstType)
	}

	return out.Interface(), nil
}

// formatNumber formats any numeric-kind source into a string-kind target.
func formatNumber(_ apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)

	var s string
	switch k := srcType.Kind(); {
	case isIntKind(k):
		s = strconv.FormatInt(sv.Int(), 10)
	case isUintKind(k):
		s = strconv.FormatUint(sv.Uint(), 10)
	case isFloatKind(k):
		s = strconv.FormatFloat(sv.Float(), 'g', -1, srcType.Bits())
	case isComplexKind(k):
		s = strconv.FormatComplex(sv.Complex(), 'g', -1, srcType.Bits())
	default:
		return nil, fmt.Errorf("cvx(converters): %s is not a numeric kind", srcType)
	}

	return reflect.ValueOf(s).Convert(dstType).Interface(), nil
}

// crossNumber converts between numeric kinds, failing on overflow, sign
// loss and fractional truncation rather than silently corrupting values.
func crossNumber(_ apis.Converter, src any, srcType, dstType reflect.Type) (any, error) {
	sv := reflect.ValueOf(src)
	out := reflect.New(dstType).Elem()
	sk, dk := srcType.Kind(), dstType.Kind()

	if isComplexKind(sk) || isComplexKind(dk) {
		if !isComplexKind(sk) || !isComplexKind(dk) {
			return nil, fmt.Errorf("cvx(converters): cannot convert between complex %s and real %s", srcType, dstType)
		}
		c := sv.Complex()
		if out.OverflowComplex(c) {
			return nil, overflowErr(src, dstType)
		}
		out.SetComplex(c)
		return out.Interface(), nil
	}

	switch {
	case isIntKind(sk) && isIntKind(dk):
		i := sv.Int()
		if out.OverflowInt(i) {
			return nil, overflowErr(src, dstType)
		}
		out.SetInt(i)

	case isIntKind(sk) && isUintKind(dk):
		i := sv.Int()
		if i < 0 {
			return nil, fmt.Errorf("cvx(converters): negative value %d does not fit %s", i, dstType)
		}
		u := uint64(i)
		if out.OverflowUint(u) {
			return nil, overflowErr(src, dstType)
		}
		out.SetUint(u)

	case isUintKind(sk) && isIntKind(dk):
		u := sv.Uint()
		if u > math.MaxInt64 {
			return nil, overflowErr(src, dstType)
		}
		i := int64(u)
		if out.OverflowInt(i) {
			return nil, overflowErr(src, dstType)
		}
		out.SetInt(i)

	case isUintKind(sk) && isUintKind(dk):
		u := sv.Uint()
		if out.OverflowUint(u) {
			return nil, overflowErr(src, dstType)
		}
		out.SetUint(u)

	case isFloatKind(dk):
		var f float64
		switch {
		case isIntKind(sk):
			f = float64(sv.Int())
		case isUintKind(sk):
			f = float64(sv.Uint())
		default:
			f = sv.Float()
		}
		if out.OverflowFloat(f) {
			return nil, overflowErr(src, dstType)
		}
		out.SetFloat(f)

	case isFloatKind(sk):
		f := sv.Float()
		if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("cvx(converters): %v has no exact %s representation", f, dstType)
		}
		if isIntKind(dk) {
			if f < math.MinInt64 || f > math.MaxInt64 {
				return nil, overflowErr(src, dstType)
			}
			i := int64(f)
			if out.OverflowInt(i) {
				return nil, overflowErr(src, dstType)
			}
			out.SetInt(i)
		} else {
			if f < 0 {
				return nil, fmt.Errorf("cvx(converters): negative value %v does not fit %s", f, dstType)
			}
			if f > math.MaxUint64 {
				return nil, overflowErr(src, dstType)
			}
			u := uint64(f)
			if out.OverflowUint(u) {
				return nil, overflowErr(src, dstType)
			}
			out.SetUint(u)
		}

	default:
		return nil, fmt.Errorf("cvx(converters): cannot convert %s to %s", srcType, dstType)
	}

	return out.Interface(), nil
}

func overflowErr(v any, dstType reflect.Type) error {
	return fmt.Errorf("cvx(converters): value %v overflows %s", v, dstType)
}
