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

package cvx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/cvx/apis"
	"dirpx.dev/cvx/builder"
	"dirpx.dev/cvx/config"
	cvxerrors "dirpx.dev/cvx/errors"
)

// init initializes the global cvx state.
func init() {
	// Initialize state with default cfg, reg, res, and svc.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, nil, nil)
	s.svc = b.BuildService(s.cfg, s.reg, s.res, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("cvx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("cvx: builder returned nil resolver")
	// ErrNilService is returned when a builder returns a nil service.
	ErrNilService = errors.New("cvx: builder returned nil service")
)

// Error types produced by conversions, aliased here so callers can assert
// them without importing the errors package.
type (
	// NoRuleFoundError reports that no rule, bypass or fallback covered
	// the requested type pair.
	NoRuleFoundError = cvxerrors.NoRuleFoundError
	// ConversionFailedError reports that a resolved rule ran and failed;
	// the original cause is preserved.
	ConversionFailedError = cvxerrors.ConversionFailedError
	// TypeMismatchError reports a declared source type that does not match
	// the actual value.
	TypeMismatchError = cvxerrors.TypeMismatchError
)

// Convert converts v to the dst type using the global cvx service,
// inferring the source type from v itself. A nil v yields the zero value of
// dst. This is a convenience wrapper around the global svc.
func Convert(v any, dst reflect.Type) (any, error) {
	return st.Load().svc.Convert(v, dst)
}

// ConvertTyped converts v to dst under the declared source type src using
// the global cvx service. This is a convenience wrapper around the global
// svc.
func ConvertTyped(v any, src, dst reflect.Type) (any, error) {
	return st.Load().svc.ConvertTyped(v, src, dst)
}

// CanConvert reports whether the global cvx service can convert from src to
// dst. A nil src means the source type is unknown and is answered
// optimistically. This is a convenience wrapper around the global svc.
func CanConvert(src, dst reflect.Type) bool {
	return st.Load().svc.CanConvert(src, dst)
}

// As converts v to type T using the global cvx service.
func As[T any](v any) (T, error) {
	var zero T
	out, err := st.Load().svc.Convert(v, reflect.TypeOf(&zero).Elem())
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	return out.(T), nil
}

// AddDirect registers a direct conversion rule for exactly pair with the
// global cvx registry. This is a convenience wrapper around the global reg.
func AddDirect(pair apis.TypePair, fn apis.DirectFunc) error {
	return st.Load().reg.AddDirect(pair, fn)
}

// AddNamedDirect is AddDirect with a diagnostics label.
func AddNamedDirect(name string, pair apis.TypePair, fn apis.DirectFunc) error {
	return st.Load().reg.AddNamedDirect(name, pair, fn)
}

// AddFamily registers a family conversion rule with the global cvx registry.
// This is a convenience wrapper around the global reg.
func AddFamily(rule apis.FamilyRule) error {
	return st.Load().reg.AddFamily(rule)
}

// AddFactory registers a factory under (source, targetFamily) with the
// global cvx registry. This is a convenience wrapper around the global reg.
func AddFactory(source, targetFamily reflect.Type, mint apis.MintFunc) error {
	return st.Load().reg.AddFactory(source, targetFamily, mint)
}

// Remove removes the direct rule for the exact pair, and any family rule
// declared for exactly that pair, from the global cvx registry. This is a
// convenience wrapper around the global reg.
func Remove(pair apis.TypePair) {
	st.Load().reg.Remove(pair)
}

// SetAll explicitly sets all global cvx state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, svc apis.Service, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, old.res, next)
	} else {
		npres = true
	}

	// Service
	nsvc := svc
	npsvc := false
	if nsvc == nil {
		nsvc = nbld.BuildService(ncfg, nreg, nres, old.svc, next)
	} else {
		npsvc = true
	}

	// Ensure non-nil reg, res, and svc.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	if nsvc == nil {
		panic(ErrNilService)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  next,
			reg:  nreg,
			res:  nres,
			svc:  nsvc,
			bld:  nbld,
			preg: npreg,
			pres: npres,
			psvc: npsvc,
		},
	)
}

// Config returns the global cvx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global cvx configuration to cfg.
// It rebuilds the unpinned global reg, res, and svc using the new
// configuration. This is a convenience wrapper around the global state.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg, res, and svc based on the new cfg and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, nreg, old.res, old.ext)
	}
	nsvc := old.svc
	if !old.psvc {
		nsvc = b.BuildService(cfg, nreg, nres, old.svc, old.ext)
	}

	// Ensure non-nil reg, res, and svc.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	if nsvc == nil {
		panic(ErrNilService)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  old.ext,
			reg:  nreg,
			res:  nres,
			svc:  nsvc,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
			psvc: old.psvc,
		},
	)
}

// Registry returns the global cvx reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global cvx reg to reg and pins it.
// It rebuilds the unpinned global res and svc over the new reg.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new res and svc based on the old cfg and new reg.
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, reg, old.res, old.ext)
	}
	nsvc := old.svc
	if !old.psvc {
		nsvc = b.BuildService(old.cfg, reg, nres, old.svc, old.ext)
	}

	// Ensure non-nil res and svc.
	if nres == nil {
		panic(ErrNilResolver)
	}
	if nsvc == nil {
		panic(ErrNilService)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  reg,
			res:  nres,
			svc:  nsvc,
			bld:  b,
			preg: true,
			pres: old.pres,
			psvc: old.psvc,
		},
	)
}

// Resolver returns the global cvx res.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets the global cvx res to res and pins it.
// It rebuilds the unpinned global svc over the new res.
// This is a convenience wrapper around the global state.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new svc based on the old cfg and new res.
	nsvc := old.svc
	if !old.psvc {
		nsvc = b.BuildService(old.cfg, old.reg, res, old.svc, old.ext)
	}

	// Ensure non-nil svc.
	if nsvc == nil {
		panic(ErrNilService)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  res,
			svc:  nsvc,
			bld:  b,
			preg: old.preg,
			pres: true,
			psvc: old.psvc,
		},
	)
}

// Service returns the global cvx svc.
func Service() apis.Service {
	return st.Load().svc
}

// SetService sets the global cvx svc to svc and pins it.
// This is a convenience wrapper around the global state.
func SetService(svc apis.Service) {
	if svc == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  old.res,
			svc:  svc,
			bld:  old.bld,
			preg: old.preg,
			pres: old.pres,
			psvc: true,
		},
	)
}

// Builder returns the global cvx bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global cvx bld to b.
// It rebuilds the unpinned global reg, res, and svc using the new builder.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg, res, and svc based on the new bld and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.res, old.ext)
	}
	nsvc := old.svc
	if !old.psvc {
		nsvc = b.BuildService(old.cfg, nreg, nres, old.svc, old.ext)
	}

	// Ensure non-nil reg, res, and svc.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	if nsvc == nil {
		panic(ErrNilService)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  nreg,
			res:  nres,
			svc:  nsvc,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
			psvc: old.psvc,
		},
	)
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg, res, and svc based on the new ext and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.res, ext)
	}
	nsvc := old.svc
	if !old.psvc {
		nsvc = b.BuildService(old.cfg, nreg, nres, old.svc, ext)
	}

	// Ensure non-nil reg, res, and svc.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	if nsvc == nil {
		panic(ErrNilService)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			res:  nres,
			svc:  nsvc,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
			psvc: old.psvc,
		},
	)
}

// ExtAs returns the global cvx extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global cvx reg is pinned (immutable).
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes the global cvx reg immutable.
func PinRegistry() {
	setPins(func(s *state) { s.preg = true })
}

// UnpinRegistry makes the global cvx reg mutable again.
func UnpinRegistry() {
	setPins(func(s *state) { s.preg = false })
}

// IsResolverPinned returns whether the global cvx res is pinned (immutable).
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver makes the global cvx res immutable.
func PinResolver() {
	setPins(func(s *state) { s.pres = true })
}

// UnpinResolver makes the global cvx res mutable again.
func UnpinResolver() {
	setPins(func(s *state) { s.pres = false })
}

// IsServicePinned returns whether the global cvx svc is pinned (immutable).
func IsServicePinned() bool {
	return st.Load().psvc
}

// PinService makes the global cvx svc immutable.
func PinService() {
	setPins(func(s *state) { s.psvc = true })
}

// UnpinService makes the global cvx svc mutable again.
func UnpinService() {
	setPins(func(s *state) { s.psvc = false })
}

// setPins publishes a copy of the current state with pin flags adjusted.
func setPins(mut func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Copy, adjust pins, and store the new state atomically.
	next := *old
	mut(&next)
	st.Store(&next)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global cvx state.
var st atomic.Pointer[state]

// state is the global cvx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global cvx configuration.
	cfg apis.Config
	// ext is the global cvx extension configuration.
	ext any
	// reg is the global cvx reg.
	reg apis.Registry
	// res is the global cvx res.
	res apis.Resolver
	// svc is the global cvx svc.
	svc apis.Service
	// bld is the global cvx bld.
	bld apis.Builder
	// preg indicates whether the reg is pinned (immutable).
	preg bool
	// pres indicates whether the res is pinned (immutable).
	pres bool
	// psvc indicates whether the svc is pinned (immutable).
	psvc bool
}
