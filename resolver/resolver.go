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

package resolver

import (
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/cvx/apis"
)

// New constructs an apis.Resolver over reg. A nil lat falls back to the
// default lattice over reg. The resolver is safe for concurrent use; steady
// state reads take no exclusive lock.
func New(reg apis.Registry, lat apis.Lattice) apis.Resolver {
	if lat == nil {
		lat = NewLattice(reg)
	}
	return &resolver{reg: reg, lat: lat}
}

// resolver caches resolution outcomes in version-tagged shards. A shard is
// valid only while its version matches the registry's; any mutation strands
// the whole shard and the next lookup starts a fresh one, so readers see
// either the fully-old or the fully-new rule set, never a mix.
type resolver struct {
	reg apis.Registry
	lat apis.Lattice

	shard atomic.Pointer[cacheShard]
}

// cacheShard is one generation of the resolution cache.
type cacheShard struct {
	version uint64
	entries sync.Map // apis.TypePair -> cacheEntry
}

// cacheEntry remembers an outcome. A nil rule is the remembered absence of
// a rule, so repeated misses skip the lattice walk too.
type cacheEntry struct {
	rule *apis.Rule
}

// Resolve returns the best rule for converting src to dst, or false when no
// registered rule applies.
func (r *resolver) Resolve(src, dst reflect.Type) (*apis.Rule, bool) {
	if r.reg == nil || src == nil || dst == nil {
		return nil, false
	}

	pair := apis.PairOf(src, dst)
	shard := r.currentShard()
	if v, ok := shard.entries.Load(pair); ok {
		e := v.(cacheEntry)
		return e.rule, e.rule != nil
	}

	rule := r.search(src, dst)
	// A store into a shard that lost its validity meanwhile lands in a
	// stranded generation and is recomputed on the next lookup.
	shard.entries.Store(pair, cacheEntry{rule: rule})
	return rule, rule != nil
}

// currentShard returns a shard tagged with the registry's current version,
// installing a fresh one when the cached generation went stale.
func (r *resolver) currentShard() *cacheShard {
	v := r.reg.Version()
	for {
		s := r.shard.Load()
		if s != nil && s.version == v {
			return s
		}
		fresh := &cacheShard{version: v}
		if r.shard.CompareAndSwap(s, fresh) {
			return fresh
		}
	}
}

// search runs the full resolution algorithm: a source-major double walk of
// both type lattices against the registry's candidates, then the factories.
func (r *resolver) search(src, dst reflect.Type) *apis.Rule {
	sources := r.lat.Enumerate(src)
	targets := r.lat.Enumerate(dst)

	// Most specific source level first; within one source level, most
	// specific target first. Family predicates are re-checked against the
	// original requested types: a conditional rule reasons about the real
	// request even when discovered under a widened pair.
	for _, s := range sources {
		for _, t := range targets {
			for _, cand := range r.reg.CandidatesFor(apis.PairOf(s, t)) {
				if cand.Kind == apis.RuleFamily && cand.Matches != nil && !cand.Matches(src, dst) {
					continue
				}
				return cand
			}
		}
	}

	// Factories only after the lattice walk exhausts. A factory matches by
	// assignability (src into its source key, dst into its target family),
	// and the first one that mints wins. The minted rule is cached by the
	// caller under the exact requested pair like any other outcome.
	for _, fac := range r.reg.Factories() {
		key := fac.Pairs[0]
		if !src.AssignableTo(key.Source) || !dst.AssignableTo(key.Target) {
			continue
		}
		fn, ok := fac.Mint(dst)
		if !ok {
			continue
		}
		return &apis.Rule{
			Kind:  apis.RuleDirect,
			Name:  fac.Name,
			Pairs: []apis.TypePair{apis.PairOf(src, dst)},
			Fn:    fn,
		}
	}

	return nil
}
