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

package registry

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/cvx/apis"
)

var (
	// ErrNilType is returned when a registration key contains a nil reflect.Type.
	ErrNilType = errors.New("cvx(registry): nil reflect.Type provided")
	// ErrNilFunc is returned when a nil conversion func is provided.
	ErrNilFunc = errors.New("cvx(registry): nil conversion func provided")
	// ErrUnboundedFamily indicates a family registration with neither declared
	// pairs nor a predicate. Such a rule would claim every pair.
	ErrUnboundedFamily = errors.New("cvx(registry): family rule declares no pairs and no predicate")
)

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{
		directs:   make(map[apis.TypePair]*apis.Rule),
		factories: make(map[apis.TypePair]*apis.Rule),
		ifaceSeen: make(map[reflect.Type]struct{}),
	}
}

// familyEntry pairs a stored family rule with its declared-pair set for
// candidate lookup. declared is nil when the rule declares no pairs and is
// consulted for every request.
type familyEntry struct {
	rule     *apis.Rule
	declared map[apis.TypePair]struct{}
}

// registry is the Registry implementation: three indices guarded by one
// RWMutex, plus an atomic version counter readable without any lock.
type registry struct {
	// mu guards all indices. Reads are shared, mutations exclusive.
	mu sync.RWMutex
	// directs maps exact pairs to Direct rules.
	directs map[apis.TypePair]*apis.Rule
	// families holds family rules in registration order. Candidate lookup
	// walks it backwards so newer rules win ties.
	families []familyEntry
	// factories maps (source, targetFamily) keys to Factory rules;
	// factoryOrder preserves registration order, since resolution consults
	// factories deterministically.
	factories    map[apis.TypePair]*apis.Rule
	factoryOrder []apis.TypePair
	// ifaceKeys lists interface types seen in registration keys, first-seen
	// order, deduped via ifaceSeen. Keys accumulate until Reset: retracting
	// them on Remove would need reference counting, and a dead key costs at
	// most one empty lattice step.
	ifaceKeys []reflect.Type
	ifaceSeen map[reflect.Type]struct{}
	// version counts mutations. Stored under mu, loaded lock-free.
	version atomic.Uint64
}

// AddDirect registers fn for exactly pair, replacing any previous Direct
// rule for the same pair.
func (r *registry) AddDirect(pair apis.TypePair, fn apis.DirectFunc) error {
	return r.AddNamedDirect("", pair, fn)
}

// AddNamedDirect is AddDirect with a diagnostics label.
func (r *registry) AddNamedDirect(name string, pair apis.TypePair, fn apis.DirectFunc) error {
	if pair.Source == nil || pair.Target == nil {
		return ErrNilType
	}
	if fn == nil {
		return ErrNilFunc
	}

	rule := &apis.Rule{
		Kind:  apis.RuleDirect,
		Name:  name,
		Pairs: []apis.TypePair{pair},
		Fn:    fn,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.directs[pair] = rule
	r.harvestLocked(pair.Source, pair.Target)
	r.version.Add(1)
	return nil
}

// AddFamily appends rule to the family list. The most recently added family
// wins ties against older families for the same pair.
func (r *registry) AddFamily(rule apis.FamilyRule) error {
	if rule.Fn == nil {
		return ErrNilFunc
	}
	if len(rule.Pairs) == 0 && rule.Matches == nil {
		return ErrUnboundedFamily
	}
	for _, p := range rule.Pairs {
		if p.Source == nil || p.Target == nil {
			return ErrNilType
		}
	}

	stored := &apis.Rule{
		Kind:    apis.RuleFamily,
		Name:    rule.Name,
		Pairs:   append([]apis.TypePair(nil), rule.Pairs...),
		Matches: rule.Matches,
		Fam:     rule.Fn,
	}
	var declared map[apis.TypePair]struct{}
	if len(rule.Pairs) > 0 {
		declared = make(map[apis.TypePair]struct{}, len(rule.Pairs))
		for _, p := range rule.Pairs {
			declared[p] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.families = append(r.families, familyEntry{rule: stored, declared: declared})
	for _, p := range stored.Pairs {
		r.harvestLocked(p.Source, p.Target)
	}
	r.version.Add(1)
	return nil
}

// AddFactory registers mint under the (source, targetFamily) key, replacing
// any previous factory for the same key.
func (r *registry) AddFactory(source, targetFamily reflect.Type, mint apis.MintFunc) error {
	if source == nil || targetFamily == nil {
		return ErrNilType
	}
	if mint == nil {
		return ErrNilFunc
	}

	key := apis.PairOf(source, targetFamily)
	rule := &apis.Rule{
		Kind:  apis.RuleFactory,
		Pairs: []apis.TypePair{key},
		Mint:  mint,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[key]; !exists {
		r.factoryOrder = append(r.factoryOrder, key)
	}
	r.factories[key] = rule
	r.harvestLocked(source, targetFamily)
	r.version.Add(1)
	return nil
}

// Remove deletes the Direct rule for the exact pair, if any, and any family
// whose declared pair set is exactly {pair}. Broader or undeclared families
// stay. A request that removes nothing does not bump the version.
func (r *registry) Remove(pair apis.TypePair) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	if _, ok := r.directs[pair]; ok {
		delete(r.directs, pair)
		changed = true
	}

	if len(r.families) > 0 {
		kept := r.families[:0]
		for _, fe := range r.families {
			if len(fe.declared) == 1 {
				if _, only := fe.declared[pair]; only {
					changed = true
					continue
				}
			}
			kept = append(kept, fe)
		}
		r.families = kept
	}

	if changed {
		r.version.Add(1)
	}
}

// CandidatesFor returns the rules that may serve pair, highest priority
// first: the exact Direct rule, then families declaring the pair or
// declaring nothing, newest first. Factories are consulted separately.
func (r *registry) CandidatesFor(pair apis.TypePair) []*apis.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*apis.Rule
	if d, ok := r.directs[pair]; ok {
		out = append(out, d)
	}
	for i := len(r.families) - 1; i >= 0; i-- {
		fe := r.families[i]
		if fe.declared == nil {
			out = append(out, fe.rule)
			continue
		}
		if _, ok := fe.declared[pair]; ok {
			out = append(out, fe.rule)
		}
	}
	return out
}

// Factories returns all factory rules in registration order.
func (r *registry) Factories() []*apis.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*apis.Rule, 0, len(r.factoryOrder))
	for _, key := range r.factoryOrder {
		out = append(out, r.factories[key])
	}
	return out
}

// InterfaceKeys returns the interface types seen in registration keys,
// first-seen order, deduped.
func (r *registry) InterfaceKeys() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]reflect.Type(nil), r.ifaceKeys...)
}

// Version returns the mutation counter. Lock-free; resolution caches
// validate against it on every lookup.
func (r *registry) Version() uint64 {
	return r.version.Load()
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified
// for Direct rules; families and factories appear in registration order).
func (r *registry) Entries() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]apis.Entry, 0, len(r.directs)+len(r.families)+len(r.factoryOrder))
	for _, d := range r.directs {
		entries = append(entries, entryOf(d))
	}
	for _, fe := range r.families {
		entries = append(entries, entryOf(fe.rule))
	}
	for _, key := range r.factoryOrder {
		entries = append(entries, entryOf(r.factories[key]))
	}
	return entries
}

func entryOf(rule *apis.Rule) apis.Entry {
	return apis.Entry{
		Kind:  rule.Kind,
		Pairs: append([]apis.TypePair(nil), rule.Pairs...),
		Name:  rule.Name,
	}
}

// Count returns the number of registered rules across all three indices.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.directs) + len(r.families) + len(r.factoryOrder)
}

// Rules returns the full rule set including conversion funcs, suitable for
// migrating into a freshly built registry: Direct rules first (map order),
// then families and factories in registration order. Replaying the slice
// through the Add operations reproduces this registry's behavior, tie
// breaks included.
func (r *registry) Rules() []*apis.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]*apis.Rule, 0, len(r.directs)+len(r.families)+len(r.factoryOrder))
	for _, d := range r.directs {
		rules = append(rules, d)
	}
	for _, fe := range r.families {
		rules = append(rules, fe.rule)
	}
	for _, key := range r.factoryOrder {
		rules = append(rules, r.factories[key])
	}
	return rules
}

// Reset clears all registered rules and bumps the version so dependent
// caches drop their state.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.directs = make(map[apis.TypePair]*apis.Rule)
	r.families = nil
	r.factories = make(map[apis.TypePair]*apis.Rule)
	r.factoryOrder = nil
	r.ifaceKeys = nil
	r.ifaceSeen = make(map[reflect.Type]struct{})
	r.version.Add(1)
}

// harvestLocked records interface types appearing in registration keys.
// Empty interfaces are skipped: the universal root is appended to every
// lattice anyway and must stay its last step.
func (r *registry) harvestLocked(types ...reflect.Type) {
	for _, t := range types {
		if t == nil || t.Kind() != reflect.Interface || t.NumMethod() == 0 {
			continue
		}
		if _, seen := r.ifaceSeen[t]; seen {
			continue
		}
		r.ifaceSeen[t] = struct{}{}
		r.ifaceKeys = append(r.ifaceKeys, t)
	}
}
