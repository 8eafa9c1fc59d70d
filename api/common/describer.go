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

// Describer augments Carrier with human-oriented metadata per capability.
//
// # Overview
//
// Describer is a higher-level contract that extends Carrier with
// additional, human-readable metadata about each declared capability.
// While Carrier focuses on compact, canonical names (for detection,
// queries, and registries), Describer provides context that is useful for:
//
//   - Documentation and capability browsers.
//   - Debugging and introspection tools (for example, inspection CLIs).
//   - Administrative and developer-facing UIs.
//   - Contract evolution and compatibility checks.
//
// All methods on Describer are type-level: they describe the declared
// capability vocabulary, not any particular instance. Implementations
// SHOULD return values that are stable for a given version of the type's
// contract and do not depend on mutable runtime state.
//
// # Usage
//
//	type Renderer struct{}
//
//	func (Renderer) CapabilityNames() []string { return []string{"render.hot"} }
//
//	func (Renderer) DescribeCapability(name string) string {
//	    if name == "render.hot" {
//	        return "Re-renders in place without a frame swap"
//	    }
//	    return ""
//	}
//
//	func (Renderer) CapabilityCategory(name string) string { return "rendering" }
//	func (Renderer) CapabilityVersion(name string) string  { return "v1" }
//
// This metadata can then be consumed by higher-level tooling to generate
// documentation, group capabilities, or display human-friendly descriptions
// alongside canonical names.
//
// # Contract
//
//   - All methods MUST be safe for concurrent use by multiple goroutines.
//   - All methods SHOULD be inexpensive and ideally allocation-free on the
//     hot path (for example, returning string literals or map lookups over
//     precomputed tables).
//   - Implementations MUST NOT perform blocking operations or I/O.
//   - All methods MUST tolerate names outside CapabilityNames and return
//     the empty string for them rather than panicking.
//   - Returned values SHOULD be deterministic for a given type and contract
//     version; changes SHOULD correspond to deliberate contract changes
//     rather than transient runtime conditions.
type Describer interface {
	Carrier

	// DescribeCapability returns a human-readable description of the named
	// capability.
	//
	// # Semantics
	//
	// The description is intended to be a concise, human-oriented summary
	// of what holding the capability means for this type. It is typically
	// used in documentation browsers, admin consoles, and introspection
	// views.
	//
	// Recommended properties:
	//
	//   - SHOULD be a short, single-sentence description.
	//   - SHOULD be stable for a given version of the contract.
	//   - SHOULD be understandable without knowledge of internal naming
	//     conventions.
	//
	// Localization:
	//
	//   - Implementations MAY return a description in a default locale
	//     (for example, English) if the system is not localization-aware.
	//   - If multiple locales are supported, higher-level infrastructure
	//     SHOULD handle locale selection; this interface models only the
	//     default, locale-agnostic description.
	//
	// # Contract
	//
	//   - The returned string MAY be empty when no description exists for
	//     name; callers SHOULD fall back to the name itself.
	//   - The implementation MUST be safe for concurrent calls and MUST NOT
	//     perform blocking I/O or long-running computations.
	DescribeCapability(name string) string

	// CapabilityCategory returns a coarse-grained grouping for the named
	// capability.
	//
	// # Semantics
	//
	// Categories organize capabilities in UIs, documentation, or dashboards
	// and are typically drawn from a small, controlled vocabulary such as:
	//
	//   - "rendering"
	//   - "transport"
	//   - "storage"
	//   - "lifecycle"
	//
	// Recommended properties:
	//
	//   - SHOULD be short (a single word or slug).
	//   - SHOULD be stable across versions of the same contract.
	//   - SHOULD come from an application-wide controlled set so grouping
	//     stays consistent.
	//
	// # Contract
	//
	//   - The returned string MAY be empty when the capability has no
	//     well-defined category; tooling SHOULD then group it under an
	//     "uncategorized" bucket.
	//   - The implementation MUST be safe for concurrent calls and SHOULD
	//     avoid allocations on the hot path.
	CapabilityCategory(name string) string

	// CapabilityVersion returns a contract version for the named capability.
	//
	// # Semantics
	//
	// The version conveys changes in what holding the capability promises.
	// Typical representations include:
	//
	//   - Simple labels: "v1", "v2".
	//   - Semantic versions: "v1.2.0".
	//   - Date-based versions: "2024-01-15".
	//
	// This value can be used by compatibility checks, migration tooling,
	// and clients that adapt to different contract versions.
	//
	// Recommended properties:
	//
	//   - MUST change when the externally visible meaning of the capability
	//     changes incompatibly.
	//   - SHOULD remain constant across deployments of the same build.
	//   - SHOULD be machine-comparable where ordering checks matter.
	//
	// # Contract
	//
	//   - The returned string MAY be empty when versioning is not modeled;
	//     callers SHOULD treat the empty string as "version unknown" rather
	//     than "no version".
	//   - The implementation MUST be safe for concurrent use and MUST NOT
	//     perform blocking I/O or heavyweight computations.
	//   - Implementations SHOULD return a constant or precomputed version
	//     string tied to the contract definition rather than deriving it at
	//     runtime.
	CapabilityVersion(name string) string
}
