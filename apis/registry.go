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

package apis

import (
	"reflect"

	"tola.dev/caps/capset"
)

// Registry is the explicit-registration store: a process-wide mapping from
// (nearest named) Go types to the capability sets they were granted.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Grant adds the named capabilities to a type's set. Grants are
	// additive: re-granting an already-held capability is a no-op.
	// A name appearing twice in one call is an error.
	Grant(t reflect.Type, names ...string) error
	// Revoke removes the named capabilities from a type's set.
	// Revoking an absent capability or an unknown type is a no-op.
	Revoke(t reflect.Type, names ...string) error
	// Lookup returns a type's granted capability set if any grant exists.
	Lookup(t reflect.Type) (set capset.Set, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of types carrying at least one grant.
	Count() int
	// Reset clears all grants.
	Reset()
}

// Entry is a single (type, capability set) association in a Registry snapshot.
type Entry struct {
	// Type is the granted reflect.Type.
	Type reflect.Type
	// Set holds the capabilities granted to Type.
	Set capset.Set
}
