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

// Package capset provides immutable sets of named capabilities backed by a
// 16-way trie keyed on the capability routing key.
//
// A Set value is never mutated: Insert, Remove, Union and Intersect return
// new Sets that share structure with their inputs. The zero Set is empty
// and ready to use. Sets are safe for concurrent readers without locking,
// which is what the registry and detector layers rely on.
//
// Membership is decided by encoded identity, not by raw name. Two names
// that encode to the same (RoutingKey, Identity) pair are the same
// capability as far as a Set is concerned; identity.Identify chooses
// lossless tiers for names up to 64 bytes precisely so that this only
// matters for very long, nearly identical names.
package capset

import (
	"errors"
	"fmt"
	"sort"

	"tola.dev/caps/identity"
)

// MaxDepth is the number of trie levels, one per routing key symbol.
// Beyond it the key stream repeats, so deeper discrimination is
// impossible and full-key collisions are kept in small identity-keyed
// buckets instead.
const MaxDepth = identity.KeyNibbles

// ErrDuplicateName rejects constructing a set from a name list that
// mentions the same name twice.
var ErrDuplicateName = errors.New("caps(capset): duplicate capability name")

// Capability is a named capability together with its encoded routing key
// and identity. Construct values with Cap; the zero Capability carries a
// zero key and identity and belongs to no Set.
type Capability struct {
	name string
	key  identity.RoutingKey
	id   identity.Identity
}

// Cap encodes name into a Capability.
func Cap(name string) Capability {
	return Capability{
		name: name,
		key:  identity.Route(name),
		id:   identity.Identify(name),
	}
}

// Name returns the name the capability was constructed from.
func (c Capability) Name() string { return c.name }

// Key returns the capability's routing key.
func (c Capability) Key() identity.RoutingKey { return c.key }

// Identity returns the capability's encoded identity.
func (c Capability) Identity() identity.Identity { return c.id }

// Equal reports whether both capabilities encode to the same routing key
// and identity. Names are not compared: beyond the lossless identity
// tiers, distinct names may legally encode to the same capability.
func (c Capability) Equal(o Capability) bool {
	return c.key == o.key && c.id == o.id
}

func (c Capability) String() string { return c.name }

// Set is an immutable capability set. The zero value is the empty set.
type Set struct {
	root node
}

// New builds a Set from capabilities. It fails with ErrDuplicateName when
// two arguments carry the same name; distinct names that merely collide in
// encoding are accepted and merge silently, as Insert would.
func New(caps ...Capability) (Set, error) {
	seen := make(map[string]struct{}, len(caps))
	s := Set{}
	for _, c := range caps {
		if _, dup := seen[c.name]; dup {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicateName, c.name)
		}
		seen[c.name] = struct{}{}
		s = s.Insert(c)
	}
	return s, nil
}

// NewNames builds a Set from names, encoding each with Cap.
func NewNames(names ...string) (Set, error) {
	caps := make([]Capability, len(names))
	for i, name := range names {
		caps[i] = Cap(name)
	}
	return New(caps...)
}

// Of is like New but panics on duplicate names. It is intended for
// package-level set literals.
func Of(names ...string) Set {
	s, err := NewNames(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// Insert returns a Set that additionally contains c. Inserting a
// capability whose identity is already present is a no-op and returns the
// receiver unchanged.
func (s Set) Insert(c Capability) Set {
	root := insert(s.root, c, 0, false)
	if root == s.root {
		return s
	}
	return Set{root: root}
}

// Remove returns a Set without the capability carrying c's identity.
// Removing an absent capability returns the receiver unchanged. Interior
// nodes emptied by removal are not compacted.
func (s Set) Remove(c Capability) Set {
	root := remove(s.root, c, 0)
	if root == s.root {
		return s
	}
	return Set{root: root}
}

// Contains reports whether the set holds a capability with c's identity.
func (s Set) Contains(c Capability) bool {
	_, ok := get(s.root, c, 0)
	return ok
}

// Has is Contains for a raw name.
func (s Set) Has(name string) bool {
	return s.Contains(Cap(name))
}

// Get returns the stored capability matching c's identity. The stored
// instance may carry a different name than c when names collide in
// encoding.
func (s Set) Get(c Capability) (Capability, bool) {
	return get(s.root, c, 0)
}

// Union returns the set of capabilities present in either set. When both
// sets hold a capability with the same identity, the receiver's instance
// wins.
func (s Set) Union(o Set) Set {
	return Set{root: union(s.root, o.root, 0)}
}

// Intersect returns the set of capabilities present in both sets, keeping
// the receiver's instances.
func (s Set) Intersect(o Set) Set {
	return Set{root: intersect(s.root, o.root, 0)}
}

// IsSuperset reports whether the receiver contains every capability of o.
// Every set is a superset of the empty set.
func (s Set) IsSuperset(o Set) bool {
	return superset(s.root, o.root, 0)
}

// Walk calls fn for each capability in routing key symbol order until fn
// returns false.
func (s Set) Walk(fn func(Capability) bool) {
	walk(s.root, fn)
}

// Names returns the names of all capabilities in the set, sorted.
func (s Set) Names() []string {
	var names []string
	walk(s.root, func(c Capability) bool {
		names = append(names, c.name)
		return true
	})
	sort.Strings(names)
	return names
}

// Size returns the number of capabilities in the set.
func (s Set) Size() int {
	n := 0
	walk(s.root, func(Capability) bool {
		n++
		return true
	})
	return n
}

// IsEmpty reports whether the set holds no capabilities. A set that went
// through Insert and Remove may retain empty interior nodes; IsEmpty looks
// through them.
func (s Set) IsEmpty() bool {
	return walk(s.root, func(Capability) bool { return false })
}

func (s Set) String() string {
	return fmt.Sprintf("capset.Set%v", s.Names())
}
