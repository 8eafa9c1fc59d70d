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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"tola.dev/caps/apis"
	"tola.dev/caps/capset"
	"tola.dev/caps/config"
	uref "tola.dev/caps/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("caps(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty capability name is provided.
	ErrEmptyName = errors.New("caps(registry): empty capability name provided")
)

// New constructs a Registry that normalizes subject types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here (IncludeBuiltins is irrelevant).
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
// Grants accumulate per normalized type as immutable capset.Set values,
// so readers always observe a consistent set without locking.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to the granted capability set.
	m sync.Map // map[reflect.Type]capset.Set
	// count tracks the number of types carrying grants.
	count int
}

// Grant adds capabilities to the nearest named type of t. Grants are
// additive; re-granting a held capability is a no-op. A name appearing
// twice in one call is rejected with capset.ErrDuplicateName and nothing
// is granted.
func (r *registry) Grant(t reflect.Type, names ...string) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	for _, name := range names {
		if name == "" {
			return ErrEmptyName
		}
	}
	if len(names) == 0 {
		return nil
	}

	delta, err := capset.NewNames(names...)
	if err != nil {
		return err
	}

	// Normalize to the nearest named type according to r.cfg.
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	// Fast read path: a re-grant of capabilities already held needs no lock.
	if v, ok := r.m.Load(b); ok && v.(capset.Set).IsSuperset(delta) {
		return nil
	}

	// Write path: guard with a mutex so concurrent grants to the same type
	// never lose each other's capabilities.
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.m.Load(b); ok {
		r.m.Store(b, v.(capset.Set).Union(delta))
		return nil
	}
	r.m.Store(b, delta)
	r.count++
	return nil
}

// Revoke removes capabilities from the nearest named type of t. Revoking
// an absent capability, or from a type with no grants, is a no-op. A type
// whose last capability is revoked drops out of the registry entirely.
func (r *registry) Revoke(t reflect.Type, names ...string) error {
	if t == nil {
		return ErrNilType
	}
	for _, name := range names {
		if name == "" {
			return ErrEmptyName
		}
	}
	if len(names) == 0 {
		return nil
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.m.Load(b)
	if !ok {
		return nil
	}
	set := v.(capset.Set)
	for _, name := range names {
		set = set.Remove(capset.Cap(name))
	}
	if set.IsEmpty() {
		r.m.Delete(b)
		r.count--
		return nil
	}
	r.m.Store(b, set)
	return nil
}

// Lookup returns the capability set granted to a type, if any.
func (r *registry) Lookup(t reflect.Type) (capset.Set, bool) {
	if t == nil {
		return capset.Set{}, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return capset.Set{}, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(capset.Set), true
	}
	return capset.Set{}, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Set:  value.(capset.Set),
		})
		return true
	})
	return entries
}

// Count returns the number of types carrying grants.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all grants. The map is drained in place so concurrent
// readers keep a valid view throughout.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Range(func(key, _ any) bool {
		r.m.Delete(key)
		return true
	})
	r.count = 0
}
