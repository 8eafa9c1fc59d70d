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

// Holder extends Carrier with capabilities held by a particular instance.
//
// # Overview
//
// Holder is an extended declaration contract that combines:
//
//   - Type-level capability names (via Carrier.CapabilityNames), and
//   - Instance-level capabilities (via InstanceCapabilities).
//
// This is particularly useful when a capability is a fact about current
// state rather than about the type: a connection that is currently
// encrypted, a buffer that is currently read-only, a handle that has been
// sealed. Detection layers MAY union both levels when answering for a
// value, but MUST consult only the type level when answering for a type.
//
// The two levels are conceptually orthogonal:
//
//   - CapabilityNames describes what every value of the type can do
//     (for example, "transport.stream").
//   - InstanceCapabilities describes what this value can do right now
//     (for example, "transport.encrypted" after a TLS upgrade).
//
// # Usage
//
// A typical pattern is to implement both levels on the same domain type:
//
//	type Conn struct {
//	    tlsDone bool
//	}
//
//	func (Conn) CapabilityNames() []string { return []string{"transport.stream"} }
//
//	func (c Conn) InstanceCapabilities() []string {
//	    if c.tlsDone {
//	        return []string{"transport.encrypted"}
//	    }
//	    return nil
//	}
//
// Callers MAY use the type level for schema-like grouping and the instance
// level for gating operations on a specific value.
type Holder interface {
	Carrier

	// InstanceCapabilities returns capabilities this instance currently
	// holds, beyond the type-level names.
	//
	// # Semantics
	//
	// InstanceCapabilities is the instance-level counterpart to
	// CapabilityNames:
	//
	//   - CapabilityNames identifies what the *type* can do.
	//   - InstanceCapabilities identifies what this particular value can do
	//     in its current state.
	//
	// The returned names are expected to be:
	//
	//   - Accurate at the time of the call (MUST); they MAY change between
	//     calls as the instance's state changes.
	//   - Drawn from the same naming vocabulary as type-level names
	//     (SHOULD), so queries can combine both without translation.
	//
	// Implementations MAY return nil or an empty slice to indicate that the
	// instance holds nothing beyond its type-level names. Callers MUST
	// treat nil and empty as equivalent.
	//
	// # Contract
	//
	//   - InstanceCapabilities MUST be safe for concurrent calls from
	//     multiple goroutines; if the underlying state is mutable, the
	//     implementation MUST synchronize access to it.
	//   - InstanceCapabilities SHOULD avoid heap allocations on the hot
	//     path (for example, by returning precomputed slices per state).
	//   - InstanceCapabilities MUST NOT perform blocking operations or I/O.
	//   - InstanceCapabilities MUST be reasonably cheap; if a capability is
	//     derived from expensive state, the answer SHOULD be cached and
	//     invalidated on state transitions.
	//
	// # Usage in detection
	//
	// Detection layers MAY union (CapabilityNames, InstanceCapabilities)
	// when answering value queries, and diagnostics MAY report the two
	// levels separately. Infrastructure MUST NOT consult
	// InstanceCapabilities when answering for a reflect.Type, since no
	// instance exists on that path.
	InstanceCapabilities() []string
}
