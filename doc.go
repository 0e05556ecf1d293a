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

// Package cvx provides a global, process-wide value conversion service.
//
// cvx is responsible for answering "can a value of type X become a value of
// type Y?" and for performing that transformation, without the caller ever
// naming a concrete conversion routine. Callers register rules once, at
// wiring time, and then convert anywhere: configuration binding, message
// decoding, request mapping, test fixtures, etc.
//
// # Design
//
// The core of cvx is a read-mostly global snapshot (state). The snapshot
// holds five things:
//
//   - Config: knobs that control how the default components are built
//     (whether the stock converter set and the composite adapters are
//     seeded, and how deep nested conversions may recurse).
//
//   - Registry: a process-wide store of conversion rules indexed by type
//     pair. Three rule variants exist: direct rules bound to exactly one
//     (source, target) pair, family rules claiming a set of pairs (declared
//     up front or decided by a predicate), and factories that mint direct
//     rules on demand for concrete targets of a declared family. The
//     registry can be written to at runtime (AddDirect, AddFamily,
//     AddFactory, Remove).
//
//   - Resolver: a read-only object that answers "which rule converts X to
//     Y?". It walks both types' generalization chains (the type itself, its
//     underlying type, registered interfaces, and finally any) most
//     specific pairing first, so an exact-pair rule always beats a widened
//     one and a rule for the concrete type beats a rule for its interface.
//     Outcomes, including "no rule exists", are cached until the registry
//     mutates. The resolver is concurrency-safe and lock-free for reads.
//
//   - Service: the dispatcher executing conversions. It short-circuits nil
//     sources to zero values, rejects declared/actual type mismatches,
//     executes the resolved rule, bypasses unruled assignable pairs, and
//     falls back to structural conversion (map-to-struct, struct-to-struct,
//     Stringer-to-text) before reporting failure with typed errors.
//
//   - Builder: a pluggable factory that knows how to construct Registry,
//     Resolver and Service instances for a given Config (and optional
//     extension data). The Builder is also allowed to reuse/migrate state
//     from previous instances.
//
// All of these live inside a single immutable struct called state.
// The package holds an atomic pointer to the current state. Readers load
// that pointer, use it, and never mutate it. Writers build a brand-new
// state and atomically swap it in.
//
// This means cvx conversions are lock-free on the hot path:
//
//	n, err := cvx.As[int]("42")
//	ok := cvx.CanConvert(reflect.TypeOf(""), reflect.TypeOf(0))
//
// and concurrent callers always see a consistent snapshot.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Read helpers:
//
//     Convert(v any, dst reflect.Type) (any, error)
//     ConvertTyped(v any, src, dst reflect.Type) (any, error)
//     CanConvert(src, dst reflect.Type) bool
//     As[T any](v any) (T, error)
//     Registry() apis.Registry
//     Resolver() apis.Resolver
//     Service() apis.Service
//
//     These are safe for concurrent use without additional locking.
//     They always read from the latest published snapshot.
//
//  2. Mutation helpers:
//
//     AddDirect / AddNamedDirect / AddFamily / AddFactory / Remove
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetRegistry(reg apis.Registry)
//     SetResolver(res apis.Resolver)
//     SetService(svc apis.Service)
//     UnpinRegistry() / UnpinResolver() / UnpinService()
//     SetAll(...)
//
//     Rule registration goes straight to the current registry; the
//     resolver notices the mutation through the registry's version
//     counter and drops its cache. The Set* helpers acquire an internal
//     build lock, derive a new snapshot (rebuilding or reusing layers as
//     needed), and then atomically publish that snapshot.
//
//     Semantics in short:
//
//     - Config affects how the default layers are built. Calling
//     SetConfig() may trigger a rebuild of Registry, Resolver and/or
//     Service, unless they are explicitly "pinned".
//
//     - Builder controls how the layers are constructed. Swapping the
//     Builder lets you replace resolution or dispatch logic at runtime.
//
//     - Ext is an opaque extension payload. It is not interpreted by
//     cvx itself. It is simply passed down to the Builder so custom
//     builders (in other binaries) can carry extra policy/state.
//
//     - SetRegistry() / SetResolver() / SetService() directly overwrite
//     the corresponding layer in the snapshot and "pin" it. Once a
//     layer is pinned, cvx will stop rebuilding that layer
//     automatically until you call the matching Unpin helper.
//
//     - SetAll(...) is the "hard reset" API. It lets a process replace
//     Builder, Config, Ext, Registry, Resolver, Service in one shot.
//     This is mainly used by tests to get a clean deterministic state
//     between test cases.
//
//  3. Introspection:
//
//     ExtAs[T]() (T, bool)
//     // plus Registry().Entries(), etc.
//
//     These let callers examine the currently published snapshot for
//     debugging, metrics exposition, or documentation.
//
// # Concurrency model
//
// Reads (Convert, ConvertTyped, CanConvert, As, accessor functions) are
// wait-free at the snapshot level: they load the current *state atomically
// and never take locks. The Registry serializes its rare mutations behind
// an RWMutex; the Resolver caches resolution outcomes in atomically
// replaced generations validated against the registry's version counter,
// so readers observe either the fully-old or the fully-new rule set, never
// a half-invalidated cache.
//
// Writes (SetConfig, SetBuilder, SetExt, SetRegistry, SetResolver,
// SetService, etc.) take a short build mutex, assemble a brand-new state
// struct, and then publish it via an atomic pointer swap. This gives the
// calling binary a predictable "last write wins" behavior without forcing
// per-conversion locking.
//
// # Pinning
//
// cvx supports the concept of "pinning" a layer:
//
//   - When you call SetRegistry(reg), that exact Registry becomes the
//     process-wide registry and is considered pinned. Further calls to
//     SetConfig() will not attempt to rebuild a new Registry until you
//     explicitly UnpinRegistry().
//
//   - SetResolver(res) and SetService(svc) pin their layers the same way.
//
// Pinning is there for advanced scenarios where you want full control over
// one layer while still letting other layers evolve. For example, you may
// lock a custom Service that records conversion metrics while still
// allowing the rule set underneath to be reconfigured.
//
// # Extension config
//
// The snapshot also carries an "ext" field. This is an opaque interface{}
// (any) value owned by the embedding binary. cvx does not interpret ext.
// The active Builder receives ext on each rebuild, so out-of-tree builders
// can inject custom rule sets or dispatch policy without hacking the cvx
// core.
//
// # Errors
//
// Conversions fail with exactly three typed errors, aliased at the root:
// NoRuleFoundError (nothing covered the pair), ConversionFailedError (a
// rule ran and failed; the cause is preserved through errors.Unwrap), and
// TypeMismatchError (the declared source type contradicts the actual
// value). All three are recoverable call-site errors; CanConvert never
// errors at all.
//
// # Usage pattern in a binary
//
// A typical component does:
//
//  1. Let cvx init with default builder/config. The default rule set
//     covers text, numeric, time, identifier and composite conversions.
//
//  2. Register domain rules up front:
//
//     cvx.AddDirect(apis.PairOf(reflect.TypeOf(""), reflect.TypeOf(Level(0))), parseLevel)
//
//  3. Convert wherever values cross type boundaries:
//
//     lvl, err := cvx.As[Level]("warning")
//
//  4. In tests, call cvx.SetAll(...) to get deterministic snapshots
//     and to inject a mock Builder.
//
// # Scope
//
// cvx is intentionally small. It does not try to be a serialization
// framework or a schema mapper. It only solves one job:
//
//	"Given a value and a requested type, find the best registered way
//	 to turn one into the other, and apply it."
//
// Everything else (wire formats, schema evolution, code generation)
// belongs to other layers.
package cvx
