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

package registry_test

import (
	"errors"
	"reflect"
	"testing"

	"tola.dev/caps/capset"
	"tola.dev/caps/config"
	"tola.dev/caps/registry"
)

func TestGrant_IdempotentAndLookup(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	// pointer -> nearest named = T1
	err := reg.Grant(reflect.TypeOf(&T1{}), "render.markdown")
	if err != nil {
		t.Fatalf("Grant(&T1{}): unexpected error: %v", err)
	}
	// idempotent re-grant of the same capability
	if err := reg.Grant(reflect.TypeOf(&T1{}), "render.markdown"); err != nil {
		t.Fatalf("Grant(&T1{}) idempotent: unexpected error: %v", err)
	}

	// lookup by exact type
	if set, ok := reg.Lookup(reflect.TypeOf(&T1{})); !ok || !set.Has("render.markdown") {
		t.Fatalf("Lookup(&T1{}): got (%v,%v), want set with render.markdown", set.Names(), ok)
	}
	// lookup by elem/slice/etc should hit the same base
	if set, ok := reg.Lookup(reflect.TypeOf([]T1{})); !ok || !set.Has("render.markdown") {
		t.Fatalf("Lookup([]T1{}): got (%v,%v), want set with render.markdown", set.Names(), ok)
	}

	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
}

func TestGrant_Additive(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if err := reg.Grant(reflect.TypeOf(&T1{}), "render.markdown"); err != nil {
		t.Fatalf("Grant: unexpected error: %v", err)
	}
	// Same normalized type (nearest named T1), more capabilities: grants accumulate.
	if err := reg.Grant(reflect.TypeOf([]*T1{}), "safety.concurrent", "marker.audited"); err != nil {
		t.Fatalf("Grant more: unexpected error: %v", err)
	}

	set, ok := reg.Lookup(reflect.TypeOf(T1{}))
	if !ok {
		t.Fatalf("Lookup(T1{}): missing entry")
	}
	for _, name := range []string{"render.markdown", "safety.concurrent", "marker.audited"} {
		if !set.Has(name) {
			t.Fatalf("Lookup(T1{}): set %v missing %q", set.Names(), name)
		}
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 (one type, several grants)", reg.Count())
	}
}

func TestGrant_DuplicateNameInCall(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	err := reg.Grant(reflect.TypeOf(&T1{}), "render.markdown", "render.markdown")
	if !errors.Is(err, capset.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got: %v", err)
	}

	// The failed call must not grant anything.
	if _, ok := reg.Lookup(reflect.TypeOf(&T1{})); ok {
		t.Fatalf("Lookup after failed Grant: expected no entry")
	}
	if reg.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", reg.Count())
	}
}

func TestGrant_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if err := reg.Grant(nil, "x"); err != registry.ErrNilType {
		t.Fatalf("nil type: want ErrNilType, got %v", err)
	}
	if err := reg.Grant(reflect.TypeOf(&T1{}), ""); err != registry.ErrEmptyName {
		t.Fatalf("empty name: want ErrEmptyName, got %v", err)
	}
	if err := reg.Grant(reflect.TypeOf(&T1{}), "x", ""); err != registry.ErrEmptyName {
		t.Fatalf("empty name among valid: want ErrEmptyName, got %v", err)
	}

	// Granting no names is a no-op, not an error.
	if err := reg.Grant(reflect.TypeOf(&T1{})); err != nil {
		t.Fatalf("zero names: unexpected error: %v", err)
	}
	if reg.Count() != 0 {
		t.Fatalf("Count() after no-op grant = %d, want 0", reg.Count())
	}
}

func TestGrant_MaxUnwrapLimit(t *testing.T) {
	// Set MaxUnwrap = 1 so **T1 fails to reach a named type.
	cfg := config.DefaultConfig()
	cfg.MaxUnwrap = 1
	reg := registry.New(cfg)

	type PtrPtrT1 = **T1
	var x PtrPtrT1
	if err := reg.Grant(reflect.TypeOf(x), "render.markdown"); err == nil {
		t.Fatalf("MaxUnwrap=1: expected normalization error, got nil")
	}

	// With enough unwraps it should succeed.
	cfg2 := config.DefaultConfig()
	cfg2.MaxUnwrap = 8
	reg2 := registry.New(cfg2)
	if err := reg2.Grant(reflect.TypeOf(x), "render.markdown"); err != nil {
		t.Fatalf("MaxUnwrap=8: unexpected error: %v", err)
	}
}

func TestMapPreference_ElementVsKey(t *testing.T) {
	// Prefer element (default): map[string]T2 -> nearest named = T2
	cfgElem := config.DefaultConfig()
	cfgElem.MapPreferElem = true
	regElem := registry.New(cfgElem)

	mapType := reflect.TypeOf(map[string]T2{})
	if err := regElem.Grant(mapType, "domain.T2"); err != nil {
		t.Fatalf("Grant(map[string]T2): %v", err)
	}
	if set, ok := regElem.Lookup(mapType); !ok || !set.Has("domain.T2") {
		t.Fatalf("Lookup(map[string]T2): got (%v,%v), want set with domain.T2", set.Names(), ok)
	}
	// The grant landed on T2 itself.
	if set, ok := regElem.Lookup(reflect.TypeOf(T2{})); !ok || !set.Has("domain.T2") {
		t.Fatalf("Lookup(T2{}): got (%v,%v), want set with domain.T2", set.Names(), ok)
	}

	// Prefer key: map[string]T2 -> nearest named = string (builtin is "named" by reflect)
	cfgKey := config.DefaultConfig()
	cfgKey.MapPreferElem = false
	regKey := registry.New(cfgKey)

	if err := regKey.Grant(mapType, "builtin.string"); err != nil {
		t.Fatalf("Grant(map[string]T2) prefer key: %v", err)
	}
	if set, ok := regKey.Lookup(mapType); !ok || !set.Has("builtin.string") {
		t.Fatalf("Lookup(map[string]T2) prefer key: got (%v,%v), want set with builtin.string", set.Names(), ok)
	}
}

func TestRevoke(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if err := reg.Grant(reflect.TypeOf(&T1{}), "render.markdown", "safety.concurrent"); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	// Revoking one capability keeps the rest.
	if err := reg.Revoke(reflect.TypeOf(&T1{}), "render.markdown"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	set, ok := reg.Lookup(reflect.TypeOf(&T1{}))
	if !ok || set.Has("render.markdown") || !set.Has("safety.concurrent") {
		t.Fatalf("after Revoke: got (%v,%v)", set.Names(), ok)
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}

	// Revoking an absent capability is a no-op.
	if err := reg.Revoke(reflect.TypeOf(&T1{}), "render.markdown"); err != nil {
		t.Fatalf("Revoke absent: %v", err)
	}

	// Revoking the last capability drops the type entirely.
	if err := reg.Revoke(reflect.TypeOf(&T1{}), "safety.concurrent"); err != nil {
		t.Fatalf("Revoke last: %v", err)
	}
	if _, ok := reg.Lookup(reflect.TypeOf(&T1{})); ok {
		t.Fatalf("Lookup after revoking everything: expected no entry")
	}
	if reg.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", reg.Count())
	}

	// Revoking from a type with no grants is a no-op.
	if err := reg.Revoke(reflect.TypeOf(&T2{}), "whatever"); err != nil {
		t.Fatalf("Revoke unknown type: %v", err)
	}
}

func TestRevoke_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if err := reg.Revoke(nil, "x"); err != registry.ErrNilType {
		t.Fatalf("nil type: want ErrNilType, got %v", err)
	}
	if err := reg.Revoke(reflect.TypeOf(&T1{}), ""); err != registry.ErrEmptyName {
		t.Fatalf("empty name: want ErrEmptyName, got %v", err)
	}
	if err := reg.Revoke(reflect.TypeOf(&T1{})); err != nil {
		t.Fatalf("zero names: unexpected error: %v", err)
	}
}

func TestEntriesAndReset(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	_ = reg.Grant(reflect.TypeOf(&T1{}), "domain.T1")
	_ = reg.Grant(reflect.TypeOf(&T2{}), "domain.T2")

	entries := reg.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries len = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Type == nil || e.Set.IsEmpty() {
			t.Fatalf("entry invalid: %+v", e)
		}
	}
	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}

	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("after Reset, Count() = %d, want 0", reg.Count())
	}
	if set, ok := reg.Lookup(reflect.TypeOf(&T1{})); ok || !set.IsEmpty() {
		t.Fatalf("Lookup after Reset: got (%v,%v), want (empty,false)", set.Names(), ok)
	}
}

func TestLookupNilAndUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if set, ok := reg.Lookup(nil); ok || !set.IsEmpty() {
		t.Fatalf("Lookup(nil): got (%v,%v), want (empty,false)", set.Names(), ok)
	}
	if set, ok := reg.Lookup(reflect.TypeOf(&T1{})); ok || !set.IsEmpty() {
		t.Fatalf("Lookup(unknown): got (%v,%v), want (empty,false)", set.Names(), ok)
	}
}
