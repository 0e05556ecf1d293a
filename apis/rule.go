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

// RuleKind discriminates the closed set of rule variants. The resolver and
// service switch on it explicitly; there is no open subtyping of rules.
type RuleKind uint8

const (
	// RuleDirect is a conversion bound to exactly one type pair.
	RuleDirect RuleKind = iota + 1
	// RuleFamily is a conversion usable for a set of type pairs, either
	// declared up front or decided by a predicate at resolution time.
	RuleFamily
	// RuleFactory mints Direct conversions on demand for concrete target
	// types assignable to a declared target family.
	RuleFactory
)

// String returns the lowercase kind name, or "unknown" for invalid values.
func (k RuleKind) String() string {
	switch k {
	case RuleDirect:
		return "direct"
	case RuleFamily:
		return "family"
	case RuleFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// DirectFunc converts a single value. It may fail; the service wraps the
// failure, preserving it as the cause.
type DirectFunc func(src any) (any, error)

// FamilyFunc converts src into a value of dstType. srcType and dstType are
// always the originally requested types, not the widened types the rule was
// discovered under. The Converter c is the dispatcher callback for nested
// conversions (element-wise collection work) and carries the recursion
// budget of the enclosing call.
type FamilyFunc func(c Converter, src any, srcType, dstType reflect.Type) (any, error)

// Predicate reconfirms a family rule against the originally requested types.
// A declared pair set is only a lookup hint; the predicate is the final word
// on applicability.
type Predicate func(srcType, dstType reflect.Type) bool

// MintFunc produces a DirectFunc converting to the concrete target type, or
// reports false when the factory cannot serve it.
type MintFunc func(target reflect.Type) (DirectFunc, bool)

// FamilyRule describes a conversion usable for several type pairs. It is the
// registration form accepted by Registry.AddFamily.
type FamilyRule struct {
	// Name optionally labels the rule in diagnostics snapshots.
	Name string
	// Pairs optionally declares the exact pairs served. When present it is
	// consulted for fast candidate lookup; when absent the rule is consulted
	// for every pair and Matches decides.
	Pairs []TypePair
	// Matches optionally narrows applicability. It is evaluated against the
	// original requested types even when the rule was found via a widened
	// pair.
	Matches Predicate
	// Fn performs the conversion.
	Fn FamilyFunc
}

// Rule is the closed tagged variant over the three rule kinds. Exactly the
// fields of the active Kind are populated.
type Rule struct {
	// Kind selects the active variant.
	Kind RuleKind
	// Name optionally labels the rule in diagnostics snapshots.
	Name string
	// Pairs holds the registration keys: exactly one pair for Direct rules,
	// the declared hint set (possibly empty) for Family rules, and exactly
	// one (source, targetFamily) pair for Factory rules.
	Pairs []TypePair
	// Matches narrows Family rules; nil means always applicable.
	Matches Predicate
	// Fn executes a Direct rule.
	Fn DirectFunc
	// Fam executes a Family rule.
	Fam FamilyFunc
	// Mint asks a Factory rule for a Direct conversion.
	Mint MintFunc
}
