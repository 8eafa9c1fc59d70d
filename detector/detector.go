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

package detector

import (
	"reflect"

	"tola.dev/caps/apis"
	"tola.dev/caps/capset"
)

// New constructs an apis.Detector that tries the given strategies in order.
// Nil strategies are ignored. The returned detector is safe for concurrent
// use provided strategies themselves are safe for concurrent TryDetect calls.
func New(strategies ...apis.Strategy) apis.Detector {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving detector over a set of strategies.
// Strategies combine with OR semantics: the first to affirm a capability
// wins, and a false answer falls through to the next strategy. Negation is
// never a strategy concern; query evaluation applies it on top of the
// combined answer.
type chain struct {
	strats []apis.Strategy
}

// Detect runs strategies in order until one affirms the capability for v.
// Returns false if no strategy could affirm it.
func (d chain) Detect(v any, name string, cfg apis.Config) bool {
	for _, s := range d.strats {
		if s.TryDetect(v, name, cfg) {
			return true
		}
	}
	return false
}

// DetectType runs strategies in order until one affirms the capability for
// the type t. Returns false if no strategy could affirm it. Instance-only
// evidence (apis.Carrier) is unavailable on this path.
func (d chain) DetectType(t reflect.Type, name string, cfg apis.Config) bool {
	for _, s := range d.strats {
		if s.TryDetectType(t, name, cfg) {
			return true
		}
	}
	return false
}

// Capabilities unions every capability any strategy can affirm for v.
func (d chain) Capabilities(v any, cfg apis.Config) capset.Set {
	var out capset.Set
	for _, s := range d.strats {
		out = out.Union(s.Capabilities(v, cfg))
	}
	return out
}

// CapabilitiesType unions every capability any strategy can affirm for the
// type t.
func (d chain) CapabilitiesType(t reflect.Type, cfg apis.Config) capset.Set {
	var out capset.Set
	for _, s := range d.strats {
		out = out.Union(s.CapabilitiesType(t, cfg))
	}
	return out
}
