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

package apis

import "reflect"

// Registry stores conversion rules indexed by type pair. It is populated at
// wiring time and read heavily afterwards; implementations must support
// concurrent reads and must bump Version on every mutation so resolvers can
// discard stale caches.
type Registry interface {
	// AddDirect registers fn for exactly pair, replacing any previous Direct
	// rule for the same pair.
	AddDirect(pair TypePair, fn DirectFunc) error

	// AddNamedDirect is AddDirect with a diagnostics label.
	AddNamedDirect(name string, pair TypePair, fn DirectFunc) error

	// AddFamily appends rule to the family list. The most recently added
	// family wins ties against older families for the same pair.
	AddFamily(rule FamilyRule) error

	// AddFactory registers mint under the (source, targetFamily) key,
	// replacing any previous factory for the same key. A source of the
	// universal any type acts as a wildcard, since every type is assignable
	// to it.
	AddFactory(source, targetFamily reflect.Type, mint MintFunc) error

	// Remove deletes the Direct rule for the exact pair, if any, and any
	// Family rule whose declared pair set is exactly {pair}. Families with
	// broader declared sets or with no declared set are not touched.
	Remove(pair TypePair)

	// CandidatesFor returns the rules that may serve pair, highest priority
	// first: the exact-pair Direct rule, then Family rules that declare the
	// pair or declare no pairs at all, most recently registered first.
	// Factory rules are never returned here; the resolver consults them
	// separately via Factories, because a factory matches by assignability
	// to its target family, not by pair equality.
	CandidatesFor(pair TypePair) []*Rule

	// Factories returns all factory rules in registration order.
	Factories() []*Rule

	// InterfaceKeys returns the interface types mentioned on either side of
	// any registered key, in first-registration order with duplicates
	// removed. The resolver uses them to extend type lattices, since Go
	// cannot enumerate the open set of interfaces a type implements.
	// Keys accumulate until Reset: removing the last rule keyed by an
	// interface does not retract the key, it merely leaves a lattice step
	// that matches nothing.
	InterfaceKeys() []reflect.Type

	// Version returns a counter that increases on every mutation, including
	// Reset. A resolution cache is valid only for the version it was built
	// against.
	Version() uint64

	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry

	// Count returns the number of registered rules.
	Count() int

	// Reset clears all registered rules.
	Reset()
}

// Entry is a single rule in a Registry diagnostics snapshot.
type Entry struct {
	// Kind is the rule variant.
	Kind RuleKind
	// Pairs holds the registration keys; empty for families registered
	// without a declared pair set.
	Pairs []TypePair
	// Name is the optional diagnostics label.
	Name string
}
