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
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/cvx/apis"
	"dirpx.dev/cvx/registry"
)

// A few named types to give each worker its own pair space.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}

// TestConcurrentAddAndCandidates verifies that mutation and candidate
// lookups are race-free and consistent under concurrent use.
func TestConcurrentAddAndCandidates(t *testing.T) {
	reg := registry.New()

	sources := []reflect.Type{
		reflect.TypeOf(T0{}), reflect.TypeOf(T1{}), reflect.TypeOf(T2{}),
		reflect.TypeOf(T3{}), reflect.TypeOf(T4{}), reflect.TypeOf(T5{}),
		reflect.TypeOf(T6{}), reflect.TypeOf(T7{}),
	}
	pairs := make([]apis.TypePair, len(sources))
	for i, s := range sources {
		pairs[i] = apis.PairOf(s, stringType)
	}

	identity := func(src any) (any, error) { return src, nil }

	// Register once (sequential) to establish baseline.
	for _, p := range pairs {
		if err := reg.AddDirect(p, identity); err != nil {
			t.Fatalf("AddDirect(%v): %v", p, err)
		}
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers.
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				p := pairs[i%len(pairs)]
				if c := reg.CandidatesFor(p); len(c) == 0 {
					// A replace-in-place writer never leaves a gap.
					t.Errorf("no candidates for %v", p)
					return
				}
				_ = reg.Version()
				_ = reg.Count()
				_ = reg.Entries()
				_ = reg.Factories()
				_ = reg.InterfaceKeys()
			}
		}()
	}

	// Writers replace the same pairs in place.
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(pairs)
				_ = reg.AddDirect(pairs[j], identity)
			}
		}(w)
	}

	wg.Wait()

	// Final consistency checks.
	if reg.Count() != len(pairs) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(pairs))
	}
	for _, p := range pairs {
		if c := reg.CandidatesFor(p); len(c) != 1 {
			t.Fatalf("candidates for %v: got %d want 1", p, len(c))
		}
	}
}

// TestConcurrentRemoveAndVersion verifies Remove against concurrent version
// reads: every observed version is monotonic.
func TestConcurrentRemoveAndVersion(t *testing.T) {
	reg := registry.New()
	identity := func(src any) (any, error) { return src, nil }
	pair := apis.PairOf(reflect.TypeOf(T0{}), stringType)

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		last := reg.Version()
		for {
			select {
			case <-stop:
				return
			default:
			}
			v := reg.Version()
			if v < last {
				t.Errorf("version went backwards: %d -> %d", last, v)
				return
			}
			last = v
		}
	}()

	for i := 0; i < 2000; i++ {
		_ = reg.AddDirect(pair, identity)
		reg.Remove(pair)
	}
	close(stop)
	wg.Wait()

	if got := reg.CandidatesFor(pair); len(got) != 0 {
		t.Fatalf("candidates after final remove = %d, want 0", len(got))
	}
}

// TestEntriesSnapshotSurvivesReset ensures Entries returns a copy that stays
// usable after Reset.
func TestEntriesSnapshotSurvivesReset(t *testing.T) {
	reg := registry.New()
	identity := func(src any) (any, error) { return src, nil }

	_ = reg.AddNamedDirect("a", apis.PairOf(reflect.TypeOf(T0{}), stringType), identity)
	_ = reg.AddNamedDirect("b", apis.PairOf(reflect.TypeOf(T1{}), stringType), identity)

	snap := reg.Entries()
	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", reg.Count())
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	if snap[0].Name == "" || snap[1].Name == "" {
		t.Fatalf("snapshot contents invalid after reset")
	}
}
