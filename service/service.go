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
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/cvx/apis"
	"dirpx.dev/cvx/config"
	cvxerrors "dirpx.dev/cvx/errors"
	uref "dirpx.dev/cvx/utils/reflect"
)

var (
	// ErrNilTarget is returned when a conversion is requested without a
	// target type.
	ErrNilTarget = errors.New("cvx(service): nil target type provided")
	// ErrDepthExceeded is the cause of the ConversionFailed error produced
	// when nested conversion recursion passes Config.MaxDepth.
	ErrDepthExceeded = errors.New("cvx(service): conversion recursion depth exceeded")
)

// New constructs the apis.Service dispatching through reg and res, applying
// fallbacks in order when resolution finds nothing. A nil res disables rule
// resolution (bypass and fallbacks still apply); a non-positive MaxDepth
// falls back to the default.
func New(reg apis.Registry, res apis.Resolver, cfg apis.Config, fallbacks ...apis.Fallback) apis.Service {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	fbs := make([]apis.Fallback, 0, len(fallbacks))
	for _, f := range fallbacks {
		if f != nil {
			fbs = append(fbs, f)
		}
	}
	return &dispatcher{reg: reg, res: res, cfg: cfg, fallbacks: fbs}
}

// dispatcher is the Service implementation. It owns the order of outcomes:
// nil short-circuit, contract check, resolved rule, assignability bypass,
// fallback chain, and finally the not-found report.
type dispatcher struct {
	reg       apis.Registry
	res       apis.Resolver
	cfg       apis.Config
	fallbacks []apis.Fallback
}

// CanConvert reports whether a conversion from src to dst would find a path:
// an unknown source is optimistically convertible, assignability always
// works, and otherwise a rule must resolve. Fallbacks are not probed here;
// they depend on the concrete value.
func (d *dispatcher) CanConvert(src, dst reflect.Type) bool {
	if dst == nil {
		return false
	}
	if src == nil {
		return true
	}
	if src.AssignableTo(dst) {
		return true
	}
	if d.res == nil {
		return false
	}
	_, ok := d.res.Resolve(src, dst)
	return ok
}

// Convert converts v to the dst type, inferring the source type from v. A
// nil v (untyped or a nil value of a nilable kind) yields the zero value of
// dst without consulting any rule.
func (d *dispatcher) Convert(v any, dst reflect.Type) (any, error) {
	if dst == nil {
		return nil, ErrNilTarget
	}
	if uref.IsNilValue(v) {
		return uref.Zero(dst), nil
	}
	return d.convertTyped(0, v, reflect.TypeOf(v), dst)
}

// ConvertTyped converts v to dst under the declared source type src. A nil
// src is inferred from v; a non-nil v that is not an instance of src is a
// contract violation, never a coercion.
func (d *dispatcher) ConvertTyped(v any, src, dst reflect.Type) (any, error) {
	return d.convertTyped(0, v, src, dst)
}

// convertTyped is the dispatch core shared by the public entry points and
// by nested conversions, which arrive with an increased depth.
func (d *dispatcher) convertTyped(depth int, v any, src, dst reflect.Type) (any, error) {
	if dst == nil {
		return nil, ErrNilTarget
	}
	if uref.IsNilValue(v) {
		return uref.Zero(dst), nil
	}

	actual := reflect.TypeOf(v)
	if src == nil {
		src = actual
	} else if !actual.AssignableTo(src) {
		return nil, &cvxerrors.TypeMismatchError{Declared: src, Actual: actual, Value: v}
	}

	if depth > d.cfg.MaxDepth {
		return nil, &cvxerrors.ConversionFailedError{Source: src, Target: dst, Value: v, Cause: ErrDepthExceeded}
	}

	if d.res != nil {
		if rule, ok := d.res.Resolve(src, dst); ok {
			return d.execute(depth, rule, v, src, dst)
		}
	}

	// No rule: identity assignability is the cheapest honest answer.
	if src.AssignableTo(dst) {
		return v, nil
	}

	next := converterAt{d: d, depth: depth + 1}
	for _, f := range d.fallbacks {
		out, handled, err := f.TryConvert(next, v, src, dst)
		if !handled {
			continue
		}
		if err != nil {
			return nil, d.failure(v, src, dst, err)
		}
		return d.checked(out, v, src, dst)
	}

	return nil, &cvxerrors.NoRuleFoundError{Source: src, Target: dst, Value: v}
}

// execute runs a resolved rule and polices its outcome.
func (d *dispatcher) execute(depth int, rule *apis.Rule, v any, src, dst reflect.Type) (any, error) {
	var out any
	var err error

	switch rule.Kind {
	case apis.RuleDirect:
		out, err = rule.Fn(v)
	case apis.RuleFamily:
		out, err = rule.Fam(converterAt{d: d, depth: depth + 1}, v, src, dst)
	default:
		// Factories are consumed by the resolver; one here is a wiring bug.
		err = fmt.Errorf("cvx(service): unexecutable rule kind %s", rule.Kind)
	}

	if err != nil {
		return nil, d.failure(v, src, dst, err)
	}
	return d.checked(out, v, src, dst)
}

// checked verifies that out is usable as a dst value before handing it to
// the caller. Rules are registered by callers; their word is not taken.
func (d *dispatcher) checked(out any, v any, src, dst reflect.Type) (any, error) {
	if out == nil {
		if uref.IsNilable(dst) {
			return out, nil
		}
		return nil, d.failure(v, src, dst, fmt.Errorf("cvx(service): rule produced nil for non-nilable %s", dst))
	}
	if t := reflect.TypeOf(out); !t.AssignableTo(dst) {
		return nil, d.failure(v, src, dst, fmt.Errorf("cvx(service): rule produced %s, not assignable to %s", t, dst))
	}
	return out, nil
}

// failure wraps a rule or fallback error with pair context, exactly once:
// an error that already is a conversion error keeps its original pair and
// propagates unchanged, so the first failing element stays identifiable.
func (d *dispatcher) failure(v any, src, dst reflect.Type, err error) error {
	switch err.(type) {
	case *cvxerrors.ConversionFailedError, *cvxerrors.NoRuleFoundError, *cvxerrors.TypeMismatchError:
		return err
	}
	return &cvxerrors.ConversionFailedError{Source: src, Target: dst, Value: v, Cause: err}
}

// converterAt is the Converter handed to family rules and fallbacks. It
// re-enters the dispatcher carrying the recursion depth of the enclosing
// conversion.
type converterAt struct {
	d     *dispatcher
	depth int
}

// CanConvert implements apis.Converter.
func (c converterAt) CanConvert(src, dst reflect.Type) bool {
	return c.d.CanConvert(src, dst)
}

// Convert implements apis.Converter.
func (c converterAt) Convert(v any, dst reflect.Type) (any, error) {
	if dst == nil {
		return nil, ErrNilTarget
	}
	if uref.IsNilValue(v) {
		return uref.Zero(dst), nil
	}
	return c.d.convertTyped(c.depth, v, reflect.TypeOf(v), dst)
}

// ConvertTyped implements apis.Converter.
func (c converterAt) ConvertTyped(v any, src, dst reflect.Type) (any, error) {
	return c.d.convertTyped(c.depth, v, src, dst)
}
