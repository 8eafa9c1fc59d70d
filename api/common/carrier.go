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

package common

// Carrier lets a type declare the capabilities it carries.
//
// # Overview
//
// Carrier is the primary, zero-reflection fast path for answering capability
// questions inside the caps detection subsystem. When a value implements
// Carrier, detection logic MUST consult this interface before any other
// strategy (registry grants, reflection probes) for that value, and an
// affirmative answer from it MUST short-circuit the rest of the chain.
//
// Semantically, Carrier is a type-level contract: CapabilityNames describes
// what the *kind* of value can do, not what a particular instance currently
// can. The returned names are expected to be independent of instance state
// and to remain stable across program executions, deployments, and process
// restarts, as long as the underlying domain model does not change. For
// state-dependent capabilities, see Holder.
//
// # Performance
//
// Implementations are intended to be extremely cheap:
//
//   - SHOULD be constant-time and amortized O(1).
//   - SHOULD avoid building the slice per call; returning a precomputed
//     package-level slice is RECOMMENDED.
//   - MUST NOT perform blocking operations or I/O.
//   - MUST be safe to call from multiple goroutines concurrently.
//
// # Usage
//
// Typical usage is to declare a small set of domain-specific capability
// names that queries, registries, and diagnostics can rely on:
//
//	type Renderer struct {
//	    Target string
//	}
//
//	func (Renderer) CapabilityNames() []string {
//	    return []string{"render.hot", "render.batch"}
//	}
//
//	r := Renderer{Target: "gpu"}
//	ok := caps.Has(r, "render.hot") // true via the Carrier fast path.
//
// # Naming guidelines
//
// Each returned capability name is expected to be:
//
//   - Stable across program executions (MUST).
//   - Unique within the application's capability namespace (SHOULD).
//   - Short and human-readable (SHOULD; <64 bytes RECOMMENDED, which also
//     keeps the encoded identity lossless).
//   - Expressed in a conventional format, such as lowercase, dot-separated
//     segments (MAY, but strongly RECOMMENDED).
type Carrier interface {
	// CapabilityNames returns the capability names the type claims.
	//
	// # Contract
	//
	//   - Every returned name MUST be non-empty.
	//   - The returned list MUST be deterministic for a given concrete type.
	//   - The returned list MUST NOT depend on mutable instance state
	//     (for example, field values that vary per object).
	//   - Order is not significant and duplicates are ignored by consumers,
	//     but implementations SHOULD return each name once.
	//   - The implementation MUST be safe for concurrent calls from multiple
	//     goroutines.
	//
	// # Performance and side-effects
	//
	//   - Implementations SHOULD avoid per-call allocations; returning a
	//     precomputed slice is RECOMMENDED. Consumers MUST NOT mutate the
	//     returned slice.
	//   - Implementations MUST NOT perform blocking operations, system
	//     calls, or I/O.
	//   - If names need to be derived, they SHOULD be precomputed and cached
	//     at type initialization time.
	//
	// # Semantics
	//
	// The returned names feed capability detection, boolean query
	// evaluation, and diagnostics. Callers MAY treat the set as stable
	// across the lifetime of the process, but they MUST NOT assume that
	// different applications or binaries use the same capability vocabulary
	// unless explicitly coordinated.
	CapabilityNames() []string
}

// TypeCarrier provides generic, type-aware capability declarations for
// values of type T.
//
// # Overview
//
// TypeCarrier is a generic, type-parametric declaration interface. It
// allows different declaration strategies to be expressed in terms of a Go
// type parameter T, while still producing capability names that the caps
// detection subsystem, registries, or diagnostics can consume.
//
// Unlike Carrier, which is typically implemented as a method on the domain
// type itself, TypeCarrier[T] separates:
//
//   - The *subject* being described (a value of type T), and
//   - The *strategy* that decides which capabilities it carries.
//
// This is useful when:
//
//   - The same declaration policy should be reused across multiple types.
//   - Capability assignment needs to be configured or injected (for
//     example, per module, per subsystem, or per environment).
//   - You want to experiment with different capability policies without
//     changing the domain types.
//
// Implementations MAY inspect both the static type T and the dynamic type
// (when T is an interface), as well as selected aspects of the value v.
// However, for use with detection, the result SHOULD be primarily
// type-level and stable for a given concrete type.
//
// # Usage
//
// A typical pattern is a generic struct implementing TypeCarrier for any T:
//
//	type TagCarrier[T any] struct{ Tag string }
//
//	func (c TagCarrier[T]) CapabilityNames(v T) []string {
//	    return []string{"tagged." + c.Tag}
//	}
//
//	var tc TypeCarrier[*Order] = TagCarrier[*Order]{Tag: "billing"}
//	names := tc.CapabilityNames(&Order{}) // ["tagged.billing"]
type TypeCarrier[T any] interface {
	// CapabilityNames returns the capability names for a value of type T.
	//
	// # Contract
	//
	//   - Returned names MUST follow the same rules that apply to Carrier
	//     (non-empty, deterministic, conventionally formatted).
	//   - The result MUST be deterministic for a given input v.
	//   - For type-level declarations the result SHOULD depend only on the
	//     concrete type of v (including its dynamic type when T is an
	//     interface), not on its mutable instance state.
	//   - Implementations MUST be safe for concurrent calls from multiple
	//     goroutines.
	//
	// # Performance and side-effects
	//
	//   - Implementations SHOULD keep per-call cost low (ideally O(1) with
	//     respect to v) and SHOULD avoid unnecessary heap allocations.
	//   - Implementations MUST NOT perform blocking operations or I/O.
	//   - If deriving names requires reflection or string building, reusable
	//     components SHOULD be precomputed and cached.
	CapabilityNames(v T) []string
}

// CarrierFunc adapts a plain function to the Carrier interface.
//
// # Overview
//
// CarrierFunc is a convenience adapter that allows standalone functions
// with signature `func() []string` to satisfy the Carrier interface. This
// is useful when the capability list is naturally expressed as a function
// (for example, when it must be assembled from build tags or feature
// flags at startup, or when declaration behavior is passed as a
// dependency) rather than as a method on the domain type itself.
//
// Using CarrierFunc does not change the semantics of Carrier: the function
// is still expected to return stable, type-level capability names that do
// not depend on mutable instance state.
//
// # Usage
//
//	func rendererCapabilities() []string { return []string{"render.hot"} }
//
//	var c Carrier = CarrierFunc(rendererCapabilities)
//	names := c.CapabilityNames() // ["render.hot"]
//
// # Contract
//
//   - A CarrierFunc MUST return deterministic, non-empty names.
//   - CarrierFunc implementations MUST be safe to call from multiple
//     goroutines concurrently.
//   - CarrierFunc SHOULD avoid heap allocations and expensive work on the
//     hot path, just like any other Carrier implementation.
//   - CarrierFunc MUST NOT perform blocking operations or I/O.
type CarrierFunc func() []string

// CapabilityNames implements Carrier for CarrierFunc.
//
// Calling CapabilityNames on a CarrierFunc is equivalent to invoking the
// underlying function value directly; all contractual requirements of
// Carrier apply to the wrapped function. If the function performs caching
// or precomputation, that logic SHOULD be concurrency-safe (for example,
// package-level initialization or sync.Once) so repeated calls remain
// cheap and predictable.
func (f CarrierFunc) CapabilityNames() []string {
	return f()
}
