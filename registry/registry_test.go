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

package registry_test

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"dirpx.dev/cvx/apis"
	"dirpx.dev/cvx/registry"
)

var _ apis.Registry = registry.New()

var (
	stringType = reflect.TypeOf("")
	intType    = reflect.TypeOf(0)
	boolType   = reflect.TypeOf(false)
)

type warmer interface{ Warm() }

var warmerType = reflect.TypeOf((*warmer)(nil)).Elem()

func strToInt(src any) (any, error) {
	return strconv.Atoi(src.(string))
}

func pairSI() apis.TypePair { return apis.PairOf(stringType, intType) }

func famRule(name string, pairs ...apis.TypePair) apis.FamilyRule {
	return apis.FamilyRule{
		Name:  name,
		Pairs: pairs,
		Fn: func(_ apis.Converter, src any, _, _ reflect.Type) (any, error) {
			return src, nil
		},
	}
}

func TestAddDirect_ExactCandidate(t *testing.T) {
	reg := registry.New()

	if err := reg.AddDirect(pairSI(), strToInt); err != nil {
		t.Fatalf("AddDirect: %v", err)
	}

	got := reg.CandidatesFor(pairSI())
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	if got[0].Kind != apis.RuleDirect {
		t.Fatalf("kind = %v, want direct", got[0].Kind)
	}

	out, err := got[0].Fn("42")
	if err != nil {
		t.Fatalf("rule fn: %v", err)
	}
	if out != 42 {
		t.Fatalf("rule fn = %v, want 42", out)
	}

	// No candidate for an unrelated pair.
	if c := reg.CandidatesFor(apis.PairOf(intType, stringType)); len(c) != 0 {
		t.Fatalf("reverse pair candidates = %d, want 0", len(c))
	}
}

func TestAddDirect_ReplacesSamePair(t *testing.T) {
	reg := registry.New()

	_ = reg.AddDirect(pairSI(), func(any) (any, error) { return 1, nil })
	_ = reg.AddDirect(pairSI(), func(any) (any, error) { return 2, nil })

	got := reg.CandidatesFor(pairSI())
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1 (replaced, not stacked)", len(got))
	}
	out, _ := got[0].Fn(nil)
	if out != 2 {
		t.Fatalf("rule fn = %v, want 2 (latest registration)", out)
	}
	if reg.Count() != 1 {
		t.Fatalf("count = %d, want 1", reg.Count())
	}
}

func TestAddDirect_Validation(t *testing.T) {
	reg := registry.New()

	if err := reg.AddDirect(apis.TypePair{}, strToInt); !errors.Is(err, registry.ErrNilType) {
		t.Fatalf("zero pair: err = %v, want ErrNilType", err)
	}
	if err := reg.AddDirect(apis.TypePair{Source: stringType}, strToInt); !errors.Is(err, registry.ErrNilType) {
		t.Fatalf("nil target: err = %v, want ErrNilType", err)
	}
	if err := reg.AddDirect(pairSI(), nil); !errors.Is(err, registry.ErrNilFunc) {
		t.Fatalf("nil fn: err = %v, want ErrNilFunc", err)
	}
	if reg.Count() != 0 {
		t.Fatalf("count after failed adds = %d, want 0", reg.Count())
	}
}

func TestAddNamedDirect_LabelInEntries(t *testing.T) {
	reg := registry.New()

	if err := reg.AddNamedDirect("atoi", pairSI(), strToInt); err != nil {
		t.Fatalf("AddNamedDirect: %v", err)
	}

	entries := reg.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Name != "atoi" || entries[0].Kind != apis.RuleDirect {
		t.Fatalf("entry = %+v, want named direct", entries[0])
	}
}

func TestAddFamily_DeclaredPairsOnly(t *testing.T) {
	reg := registry.New()

	if err := reg.AddFamily(famRule("f", pairSI())); err != nil {
		t.Fatalf("AddFamily: %v", err)
	}

	if c := reg.CandidatesFor(pairSI()); len(c) != 1 {
		t.Fatalf("declared pair candidates = %d, want 1", len(c))
	}
	if c := reg.CandidatesFor(apis.PairOf(boolType, intType)); len(c) != 0 {
		t.Fatalf("undeclared pair candidates = %d, want 0", len(c))
	}
}

func TestAddFamily_NewestWinsTies(t *testing.T) {
	reg := registry.New()

	_ = reg.AddFamily(famRule("older", pairSI()))
	_ = reg.AddFamily(famRule("newer", pairSI()))

	got := reg.CandidatesFor(pairSI())
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if got[0].Name != "newer" || got[1].Name != "older" {
		t.Fatalf("order = [%s %s], want [newer older]", got[0].Name, got[1].Name)
	}
}

func TestAddFamily_UndeclaredConsultedEverywhere(t *testing.T) {
	reg := registry.New()

	open := apis.FamilyRule{
		Name:    "open",
		Matches: func(_, _ reflect.Type) bool { return true },
		Fn: func(_ apis.Converter, src any, _, _ reflect.Type) (any, error) {
			return src, nil
		},
	}
	if err := reg.AddFamily(open); err != nil {
		t.Fatalf("AddFamily(open): %v", err)
	}

	for _, pair := range []apis.TypePair{
		pairSI(),
		apis.PairOf(boolType, stringType),
		apis.PairOf(intType, boolType),
	} {
		if c := reg.CandidatesFor(pair); len(c) != 1 || c[0].Name != "open" {
			t.Fatalf("pair %v: candidates = %v, want the open family", pair, c)
		}
	}
}

func TestAddFamily_DirectOutranksFamilies(t *testing.T) {
	reg := registry.New()

	_ = reg.AddFamily(famRule("fam", pairSI()))
	_ = reg.AddNamedDirect("dir", pairSI(), strToInt)

	got := reg.CandidatesFor(pairSI())
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if got[0].Kind != apis.RuleDirect {
		t.Fatalf("first candidate kind = %v, want direct", got[0].Kind)
	}
}

func TestAddFamily_Validation(t *testing.T) {
	reg := registry.New()

	err := reg.AddFamily(apis.FamilyRule{Fn: nil, Pairs: []apis.TypePair{pairSI()}})
	if !errors.Is(err, registry.ErrNilFunc) {
		t.Fatalf("nil fn: err = %v, want ErrNilFunc", err)
	}

	err = reg.AddFamily(apis.FamilyRule{
		Fn: func(_ apis.Converter, src any, _, _ reflect.Type) (any, error) { return src, nil },
	})
	if !errors.Is(err, registry.ErrUnboundedFamily) {
		t.Fatalf("no pairs, no predicate: err = %v, want ErrUnboundedFamily", err)
	}

	err = reg.AddFamily(famRule("bad", apis.TypePair{Source: stringType}))
	if !errors.Is(err, registry.ErrNilType) {
		t.Fatalf("nil pair side: err = %v, want ErrNilType", err)
	}
}

func TestAddFactory_OrderAndReplacement(t *testing.T) {
	reg := registry.New()

	mint := func(reflect.Type) (apis.DirectFunc, bool) { return nil, false }
	if err := reg.AddFactory(stringType, warmerType, mint); err != nil {
		t.Fatalf("AddFactory: %v", err)
	}
	if err := reg.AddFactory(intType, warmerType, mint); err != nil {
		t.Fatalf("AddFactory: %v", err)
	}

	facs := reg.Factories()
	if len(facs) != 2 {
		t.Fatalf("factories = %d, want 2", len(facs))
	}
	if facs[0].Pairs[0].Source != stringType || facs[1].Pairs[0].Source != intType {
		t.Fatalf("factory order = [%v %v], want registration order", facs[0].Pairs[0], facs[1].Pairs[0])
	}

	// Same key replaces in place, order preserved.
	replaced := func(reflect.Type) (apis.DirectFunc, bool) {
		return func(any) (any, error) { return "minted", nil }, true
	}
	if err := reg.AddFactory(stringType, warmerType, replaced); err != nil {
		t.Fatalf("AddFactory replace: %v", err)
	}
	facs = reg.Factories()
	if len(facs) != 2 {
		t.Fatalf("factories after replace = %d, want 2", len(facs))
	}
	fn, ok := facs[0].Mint(intType)
	if !ok {
		t.Fatal("replaced factory declined to mint")
	}
	out, _ := fn(nil)
	if out != "minted" {
		t.Fatalf("minted fn = %v, want replacement behavior", out)
	}

	// Factories never leak into pair candidates.
	if c := reg.CandidatesFor(apis.PairOf(stringType, warmerType)); len(c) != 0 {
		t.Fatalf("factory appeared in CandidatesFor: %v", c)
	}
}

func TestAddFactory_Validation(t *testing.T) {
	reg := registry.New()

	mint := func(reflect.Type) (apis.DirectFunc, bool) { return nil, false }
	if err := reg.AddFactory(nil, warmerType, mint); !errors.Is(err, registry.ErrNilType) {
		t.Fatalf("nil source: err = %v, want ErrNilType", err)
	}
	if err := reg.AddFactory(stringType, nil, mint); !errors.Is(err, registry.ErrNilType) {
		t.Fatalf("nil family: err = %v, want ErrNilType", err)
	}
	if err := reg.AddFactory(stringType, warmerType, nil); !errors.Is(err, registry.ErrNilFunc) {
		t.Fatalf("nil mint: err = %v, want ErrNilFunc", err)
	}
}

func TestRemove_ExactSemantics(t *testing.T) {
	reg := registry.New()

	other := apis.PairOf(boolType, stringType)
	_ = reg.AddDirect(pairSI(), strToInt)
	_ = reg.AddFamily(famRule("single", pairSI()))
	_ = reg.AddFamily(famRule("broad", pairSI(), other))
	open := apis.FamilyRule{
		Name:    "open",
		Matches: func(_, _ reflect.Type) bool { return true },
		Fn: func(_ apis.Converter, src any, _, _ reflect.Type) (any, error) {
			return src, nil
		},
	}
	_ = reg.AddFamily(open)

	reg.Remove(pairSI())

	got := reg.CandidatesFor(pairSI())
	names := make([]string, 0, len(got))
	for _, rule := range got {
		names = append(names, rule.Name)
	}
	// Direct gone, "single" gone, "broad" and "open" survive (newest first).
	if len(got) != 2 || names[0] != "open" || names[1] != "broad" {
		t.Fatalf("candidates after remove = %v, want [open broad]", names)
	}
}

func TestVersion_BumpsOnMutations(t *testing.T) {
	reg := registry.New()
	v0 := reg.Version()

	_ = reg.AddDirect(pairSI(), strToInt)
	v1 := reg.Version()
	if v1 <= v0 {
		t.Fatalf("version after AddDirect = %d, want > %d", v1, v0)
	}

	_ = reg.AddFamily(famRule("f", pairSI()))
	v2 := reg.Version()
	if v2 <= v1 {
		t.Fatalf("version after AddFamily = %d, want > %d", v2, v1)
	}

	reg.Remove(pairSI())
	v3 := reg.Version()
	if v3 <= v2 {
		t.Fatalf("version after Remove = %d, want > %d", v3, v2)
	}

	// Removing an absent pair is a no-op and must not invalidate caches.
	reg.Remove(apis.PairOf(boolType, boolType))
	if got := reg.Version(); got != v3 {
		t.Fatalf("version after no-op Remove = %d, want %d", got, v3)
	}

	reg.Reset()
	if got := reg.Version(); got <= v3 {
		t.Fatalf("version after Reset = %d, want > %d", got, v3)
	}
}

func TestInterfaceKeys_HarvestedFromKeys(t *testing.T) {
	reg := registry.New()

	// Interface on the target side of a direct rule.
	_ = reg.AddDirect(apis.PairOf(stringType, warmerType), func(src any) (any, error) {
		return nil, nil
	})
	// Plain types contribute nothing.
	_ = reg.AddDirect(pairSI(), strToInt)
	// The empty interface never becomes a key.
	anyType := reflect.TypeOf((*any)(nil)).Elem()
	_ = reg.AddDirect(apis.PairOf(anyType, stringType), func(src any) (any, error) {
		return "", nil
	})
	// Duplicates collapse.
	_ = reg.AddFamily(famRule("dup", apis.PairOf(warmerType, stringType)))

	keys := reg.InterfaceKeys()
	if len(keys) != 1 || keys[0] != warmerType {
		t.Fatalf("interface keys = %v, want [warmer]", keys)
	}
}

func TestEntriesAndCount(t *testing.T) {
	reg := registry.New()

	_ = reg.AddDirect(pairSI(), strToInt)
	_ = reg.AddFamily(famRule("f", pairSI()))
	_ = reg.AddFactory(stringType, warmerType, func(reflect.Type) (apis.DirectFunc, bool) { return nil, false })

	if reg.Count() != 3 {
		t.Fatalf("count = %d, want 3", reg.Count())
	}

	kinds := map[apis.RuleKind]int{}
	for _, e := range reg.Entries() {
		kinds[e.Kind]++
	}
	if kinds[apis.RuleDirect] != 1 || kinds[apis.RuleFamily] != 1 || kinds[apis.RuleFactory] != 1 {
		t.Fatalf("entry kinds = %v, want one of each", kinds)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	reg := registry.New()

	_ = reg.AddDirect(apis.PairOf(stringType, warmerType), func(src any) (any, error) { return nil, nil })
	_ = reg.AddFamily(famRule("f", pairSI()))
	_ = reg.AddFactory(stringType, warmerType, func(reflect.Type) (apis.DirectFunc, bool) { return nil, false })

	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("count after reset = %d, want 0", reg.Count())
	}
	if got := reg.Entries(); len(got) != 0 {
		t.Fatalf("entries after reset = %v, want none", got)
	}
	if got := reg.InterfaceKeys(); len(got) != 0 {
		t.Fatalf("interface keys after reset = %v, want none", got)
	}
	if got := reg.Factories(); len(got) != 0 {
		t.Fatalf("factories after reset = %v, want none", got)
	}
}
