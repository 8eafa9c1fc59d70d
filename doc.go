/*
   Copyright 2025 The TOLA Authors.

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

// Package caps provides a global, process-wide capability registry and
// query engine.
//
// caps answers one question: "does this Go value or type have that named
// capability?" A capability is any named fact worth checking for presence
// or absence: built-in facts a type provably has ("fmt.stringer",
// "kind.comparable", "method.clone"), or domain facts a program declares
// explicitly ("marker.audited", "render.markdown", "safety.concurrent").
// Answers feed dispatch decisions, precondition checks, and diagnostics.
//
// # Design
//
// The core of caps is a read-mostly global snapshot (state). The snapshot
// holds four things:
//
//   - Config: rules that control how subject types are normalized and
//     named (how deep to unwrap pointers/slices/maps, whether builtin
//     types are allowed as subjects) and whether the built-in trait table
//     is consulted at all.
//
//   - Registry: a process-wide mapping from Go types to explicitly
//     granted capability sets. This is how a program states facts that
//     reflection cannot discover: user-defined markers, concurrency-safety
//     claims, domain roles. The registry can be written to at runtime
//     (Grant).
//
//   - Detector: a read-only object that answers "does this value or type
//     carry that capability?". The detector typically tries multiple
//     strategies, in priority order:
//     1. If the value implements apis.Carrier, answer from its own
//     declared capability names.
//     2. If the type holds a grant in the Registry, answer from that set.
//     3. Otherwise, fall back to a reflection probe over the built-in
//     trait table (interface checks and kind predicates, memoized).
//     A strategy can only affirm: a false answer falls through to the
//     next strategy, and negation is applied by query evaluation on top.
//     Detector is expected to be concurrency-safe for reads.
//
//   - Builder: a pluggable factory that knows how to construct Registry
//     and Detector instances for a given Config (and optional extension
//     data). The Builder is also allowed to reuse/migrate state from
//     previous Registry/Detector instances.
//
// All of these live inside a single immutable struct called state.
// The package holds an atomic pointer to the current state. Readers load
// that pointer, use it, and never mutate it. Writers build a brand-new
// state and atomically swap it in.
//
// This means caps lookups are lock-free on the hot path:
//
//	ok := caps.Has(obj, "fmt.stringer")
//	all := caps.Of(obj)
//
// and concurrent callers always see a consistent snapshot.
//
// # Membership machinery
//
// Underneath, capability names are never compared as raw strings. Each
// name is encoded once (package identity) into a 64-bit routing key (an
// FNV-1a hash consumed as sixteen 4-bit symbols) plus a tiered, fixed-size
// identity fingerprint that tie-breaks routing collisions. Capability sets
// (package capset) are immutable 16-way tries keyed by those symbols, with
// structural sharing across Insert/Remove/Union/Intersect. Boolean queries
// (package query) combine membership tests with ! & | and evaluate against
// any membership source: a realized capset.Set or the live detector.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Read helpers:
//
//     Has(v any, name string) bool
//     HasType(t reflect.Type, name string) bool
//     Of(v any) capset.Set
//     OfType(t reflect.Type) capset.Set
//     Check(v any, expr string) (bool, error)
//     Require(v any, expr string) error
//     CapabilityOf(t reflect.Type) (capset.Capability, error)
//     Registry() apis.Registry
//     Detector() apis.Detector
//
//     These are safe for concurrent use without additional locking.
//     They always read from the latest published snapshot. Check and
//     Require evaluate a boolean capability expression such as
//     "method.clone & !kind.copyable"; parsed expressions are memoized.
//
//  2. Mutation helpers:
//
//     Grant(t reflect.Type, names ...string) error
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetRegistry(reg apis.Registry)
//     SetDetector(det apis.Detector)
//     UnpinRegistry()
//     UnpinDetector()
//     SetAll(...)
//
//     Grant writes through to the current registry. Each of the others
//     acquires an internal build lock, derives a new snapshot (rebuilding
//     or reusing Registry / Detector as needed), and then atomically
//     publishes that snapshot.
//
//     Semantics in short:
//
//     - Config affects how subjects are normalized and whether built-in
//     probing happens. Calling SetConfig() may trigger a rebuild of
//     Registry and/or Detector, unless they are explicitly "pinned".
//
//     - Builder controls how Registry and Detector are constructed.
//     Swapping the Builder lets you replace detection logic (different
//     strategies, different trait tables) at runtime.
//
//     - Ext is an opaque extension payload. It is not interpreted by
//     caps itself. It is simply passed down to the Builder so custom
//     builders (in other binaries) can carry extra policy/state.
//
//     - SetRegistry() / SetDetector() directly overwrite the current
//     Registry / Detector in the snapshot and "pin" them. Once a
//     layer is pinned, caps will stop rebuilding that layer
//     automatically until you call UnpinRegistry()/UnpinDetector().
//
//     - SetAll(...) is the "hard reset" API. It lets a process replace
//     Builder, Config, Ext, Registry, Detector in one shot. This is
//     mainly used by tests to get a clean deterministic state
//     between test cases.
//
//  3. Introspection:
//
//     ExtAs[T]() (T, bool)
//     // plus Registry().Entries(), Of(v).Walk(...), etc.
//
//     These let callers examine the currently published snapshot for
//     debugging, diagnostics, or documentation. Walking a realized
//     capability set is the only runtime traversal the core performs; it
//     reads immutable structure and is safe from any goroutine.
//
// # Concurrency model
//
// Reads (Has, HasType, Of, OfType, Check, Require, Registry, Detector)
// are wait-free with respect to the snapshot: they load the current
// *state atomically and never take locks. The Detector and Registry
// returned by that state must themselves be concurrency-safe for reads.
//
// Writes (SetConfig, SetBuilder, SetExt, SetRegistry, SetDetector, etc.)
// take a short build mutex, assemble a brand-new state struct, and then
// publish it via an atomic pointer swap. This gives the calling binary
// a predictable "last write wins" behavior without forcing per-lookup
// locking.
//
// # Detection limits
//
// Reflection probes answer only what they can prove about the exact
// subject type. Two consequences are deliberate and permanent:
//
//   - A capability with no reflectable evidence (a user-defined marker,
//     a concurrency-safety claim) reports absent until some code grants
//     it explicitly. Detection never guesses.
//
//   - Probing answers for the concrete type that is asked about. Code
//     that is generic over T and wants capability answers for T must
//     either ask about the concrete reflect.Type it was instantiated
//     with, or require its callers to pass a capability set along. There
//     is no implicit discovery of a type parameter's bounds.
//
// # Pinning
//
// caps supports the concept of "pinning" a layer:
//
//   - When you call SetRegistry(reg), that exact Registry becomes the
//     process-wide registry and is considered pinned. Further calls to
//     SetConfig() will not attempt to rebuild a new Registry until you
//     explicitly UnpinRegistry().
//
//   - When you call SetDetector(det), that Detector is pinned and will
//     not be rebuilt automatically until UnpinDetector().
//
// Pinning is there for advanced scenarios where you want full control
// over one layer while still letting other layers evolve. For example,
// you may lock a custom Detector with an extra strategy while still
// allowing the rest of the system to change Config values.
//
// # Extension config
//
// The snapshot also carries an "ext" field. This is an opaque interface{}
// (any) value owned by the embedding binary. caps does not interpret ext.
// The active Builder receives ext on each rebuild, so out-of-tree builders
// can inject custom strategies or trait tables without hacking the caps
// core.
//
// # Usage pattern in a binary
//
// A typical component does:
//
//  1. Let caps init with default builder/config.
//
//  2. Optionally grant domain facts up front:
//
//     caps.Grant(reflect.TypeOf(PaymentIntent{}), "marker.audited")
//     caps.Grant(reflect.TypeOf(Snapshot{}),      "safety.concurrent")
//
//  3. Query wherever behavior depends on a capability:
//
//     if caps.Has(v, "method.clone") { ... }
//     if err := caps.Require(v, "marker.audited & !kind.nilable"); err != nil { ... }
//
//  4. In tests, call caps.SetAll(...) to get deterministic snapshots
//     and to inject a mock Builder.
//
// # Scope
//
// caps is intentionally small. It does not try to be a general DI
// container or a type system extension. It only solves one job:
//
//	"Given any Go value or type, answer named capability queries about
//	 it: provable facts automatically, declared facts explicitly."
//
// Everything else (lifecycle, injection, authz, routing, etc.) belongs to
// higher layers.
package caps
