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

package strategy_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	apis "tola.dev/caps/apis"
	capsregistry "tola.dev/caps/registry"
	"tola.dev/caps/strategy"
)

// Local test types.
type A struct{}
type G[T any] struct{}

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		IncludeBuiltins: true,
		MaxUnwrap:       8,
		MapPreferElem:   true,
		ProbeBuiltins:   true,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestRegistryStrategy_WithRealRegistry_ByValue(t *testing.T) {
	conf := cfg()
	reg := capsregistry.New(conf)

	if err := reg.Grant(reflect.TypeOf(A{}), "render.markdown"); err != nil {
		t.Fatalf("Grant(A): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	cases := []struct {
		name string
		val  any
	}{
		{"plain", A{}},
		{"ptr", &A{}},
		{"slice", []A{}},
		{"array", [2]A{}},
		{"chan", make(chan A)},
		{"map_prefer_elem", map[string]A{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !s.TryDetect(tc.val, "render.markdown", conf) {
				t.Fatalf("TryDetect(%T, render.markdown) = false, want true", tc.val)
			}
			if s.TryDetect(tc.val, "marker.audited", conf) {
				t.Fatalf("TryDetect(%T, marker.audited) = true, want false", tc.val)
			}
		})
	}

	// Unknown type -> miss.
	if s.TryDetect(G[int]{}, "render.markdown", conf) {
		t.Fatalf("TryDetect(G[int]{}) = true, want false")
	}
	// Nil value -> miss.
	if s.TryDetect(nil, "render.markdown", conf) {
		t.Fatalf("TryDetect(nil) = true, want false")
	}
}

func TestRegistryStrategy_WithRealRegistry_ByType(t *testing.T) {
	conf := cfg()
	reg := capsregistry.New(conf)

	if err := reg.Grant(reflect.TypeOf(A{}), "render.markdown", "safety.concurrent"); err != nil {
		t.Fatalf("Grant(A): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf([2]A{}),
		reflect.TypeOf((chan A)(nil)),
		reflect.TypeOf(map[string]A{}),
	}

	for _, tt := range types {
		if !s.TryDetectType(tt, "render.markdown", conf) {
			t.Fatalf("TryDetectType(%v, render.markdown) = false, want true", tt)
		}
		if !s.TryDetectType(tt, "safety.concurrent", conf) {
			t.Fatalf("TryDetectType(%v, safety.concurrent) = false, want true", tt)
		}
		if s.TryDetectType(tt, "marker.audited", conf) {
			t.Fatalf("TryDetectType(%v, marker.audited) = true, want false", tt)
		}
	}

	// Unknown type -> miss.
	if s.TryDetectType(reflect.TypeOf(G[int]{}), "render.markdown", conf) {
		t.Fatalf("TryDetectType(G[int]) = true, want false")
	}
	// Nil type -> miss.
	if s.TryDetectType(nil, "render.markdown", conf) {
		t.Fatalf("TryDetectType(nil) = true, want false")
	}
}

func TestRegistryStrategy_Capabilities(t *testing.T) {
	conf := cfg()
	reg := capsregistry.New(conf)

	if err := reg.Grant(reflect.TypeOf(A{}), "render.markdown", "safety.concurrent"); err != nil {
		t.Fatalf("Grant(A): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	set := s.Capabilities(&A{}, conf)
	if set.Size() != 2 || !set.Has("render.markdown") || !set.Has("safety.concurrent") {
		t.Fatalf("Capabilities(&A{}) = %v, want both grants", set.Names())
	}

	set = s.CapabilitiesType(reflect.TypeOf([]A{}), conf)
	if set.Size() != 2 {
		t.Fatalf("CapabilitiesType([]A) = %v, want both grants", set.Names())
	}

	if got := s.Capabilities(G[int]{}, conf); !got.IsEmpty() {
		t.Fatalf("Capabilities(unknown) = %v, want empty", got.Names())
	}
	if got := s.CapabilitiesType(nil, conf); !got.IsEmpty() {
		t.Fatalf("CapabilitiesType(nil) = %v, want empty", got.Names())
	}
}

func TestRegistryStrategy_MapPreferKey(t *testing.T) {
	// With MapPreferElem=false, map subjects resolve to their key type.
	conf := cfg(func(c *apis.Config) {
		c.MapPreferElem = false
	})
	reg := capsregistry.New(conf)

	if err := reg.Grant(reflect.TypeOf(""), "domain.string"); err != nil {
		t.Fatalf("Grant(string): %v", err)
	}
	if err := reg.Grant(reflect.TypeOf(A{}), "domain.A"); err != nil {
		t.Fatalf("Grant(A): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	mapType := reflect.TypeOf(map[string]A{})
	if !s.TryDetectType(mapType, "domain.string", conf) {
		t.Fatalf("prefer key: want domain.string affirmed")
	}
	if s.TryDetectType(mapType, "domain.A", conf) {
		t.Fatalf("prefer key: domain.A should not be affirmed")
	}
}

// A small concurrency smoke test for RegistryStrategy over a live registry.
func TestRegistryStrategy_Concurrent(t *testing.T) {
	conf := cfg()
	reg := capsregistry.New(conf)

	if err := reg.Grant(reflect.TypeOf(A{}), "render.markdown"); err != nil {
		t.Fatalf("Grant(A): %v", err)
	}
	if err := reg.Grant(reflect.TypeOf(""), "domain.string"); err != nil {
		t.Fatalf("Grant(string): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(""),
	}
	want := []string{
		"render.markdown",
		"render.markdown",
		"render.markdown",
		"render.markdown",
		"domain.string",
	}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(types)
				if !s.TryDetectType(types[idx], want[idx], conf) {
					errCh <- want[idx]
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent mismatch: capability %q not affirmed", e)
	}
}
