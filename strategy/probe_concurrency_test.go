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
	"tola.dev/caps/strategy"
	"tola.dev/caps/traits"
)

// Named types for stable probe subjects.
type Foo struct{}
type Bar[T any] struct{ X T }

// TestProbeStrategy_ConcurrentDetect_NoRace verifies that TryDetect/TryDetectType
// are race-free and return stable answers under heavy concurrency. The cache
// must never flip an answer once computed.
func TestProbeStrategy_ConcurrentDetect_NoRace(t *testing.T) {
	s := strategy.NewProbeStrategy()
	cc := apis.Config{
		IncludeBuiltins: true,
		MapPreferElem:   true,
		MaxUnwrap:       8,
		ProbeBuiltins:   true,
	}

	vals := []any{
		Foo{}, &Foo{}, []Foo{}, [2]Foo{}, make(chan Foo),
		Bar[int]{}, &Bar[string]{},
		123, "abc", []byte{1, 2, 3}, map[string]int{"a": 1},
	}
	tys := []reflect.Type{
		reflect.TypeOf(Foo{}),
		reflect.TypeOf(&Foo{}),
		reflect.TypeOf([]Foo{}),
		reflect.TypeOf(map[string]int{}),
		reflect.TypeOf(Bar[int]{}),
	}
	names := []string{
		traits.Comparable, traits.Copyable, traits.Nilable,
		traits.Numeric, traits.Ordered, traits.Iterable,
		traits.Stringer, traits.Reader, traits.Cloneable,
	}

	// Single-thread baseline: every (subject, trait) answer observed once.
	wantV := make(map[int]map[string]bool, len(vals))
	for i, v := range vals {
		wantV[i] = make(map[string]bool, len(names))
		for _, name := range names {
			wantV[i][name] = s.TryDetect(v, name, cc)
		}
	}
	wantT := make(map[int]map[string]bool, len(tys))
	for i, tt := range tys {
		wantT[i] = make(map[string]bool, len(names))
		for _, name := range names {
			wantT[i][name] = s.TryDetectType(tt, name, cc)
		}
	}

	// Concurrent hammer: answers must match the baseline exactly.
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				vi := (i + id) % len(vals)
				name := names[(i+id)%len(names)]
				if got := s.TryDetect(vals[vi], name, cc); got != wantV[vi][name] {
					t.Errorf("TryDetect(%T, %s) flipped: got %v, want %v", vals[vi], name, got, wantV[vi][name])
					return
				}
				ti := (i + id) % len(tys)
				if got := s.TryDetectType(tys[ti], name, cc); got != wantT[ti][name] {
					t.Errorf("TryDetectType(%v, %s) flipped: got %v, want %v", tys[ti], name, got, wantT[ti][name])
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

// TestProbeStrategy_ConcurrentCapabilities_Stable verifies that full-table
// scans agree with the single-threaded scan while other goroutines populate
// the cache.
func TestProbeStrategy_ConcurrentCapabilities_Stable(t *testing.T) {
	s := strategy.NewProbeStrategy()
	cc := apis.Config{IncludeBuiltins: true, MapPreferElem: true, MaxUnwrap: 8, ProbeBuiltins: true}

	subjects := []reflect.Type{
		reflect.TypeOf(Foo{}),
		reflect.TypeOf(Bar[int]{}),
		reflect.TypeOf(""),
		reflect.TypeOf(map[string]int{}),
	}
	want := make([][]string, len(subjects))
	for i, tt := range subjects {
		want[i] = s.CapabilitiesType(tt, cc).Names()
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				si := (i + id) % len(subjects)
				got := s.CapabilitiesType(subjects[si], cc).Names()
				if !reflect.DeepEqual(got, want[si]) {
					t.Errorf("CapabilitiesType(%v) unstable: got %v, want %v", subjects[si], got, want[si])
					return
				}
			}
		}(w)
	}
	wg.Wait()
}
