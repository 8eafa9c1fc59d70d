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

package strategy

import (
	"reflect"
	"sync"

	"tola.dev/caps/apis"
	"tola.dev/caps/capset"
	"tola.dev/caps/traits"
)

// NewProbeStrategy creates an apis.Strategy that answers from the built-in
// trait table via reflection, with memoization.
func NewProbeStrategy() apis.Strategy {
	return probeStrategy{}
}

// probeStrategy is the universal fallback for detectable capabilities. It
// probes the exact subject type: containers are never unwrapped here, and
// probing T never consults *T's method set. Config.ProbeBuiltins gates the
// whole strategy.
type probeStrategy struct{}

// Ensure probeStrategy implements apis.Strategy.
var _ apis.Strategy = (*probeStrategy)(nil)

// probeKey memoizes per (type, capability). Probe answers are pure facts
// about the type, so no config knob belongs in the key; gating happens
// before the cache is consulted.
type probeKey struct {
	t    reflect.Type
	name string
}

// probeCache caches probe answers by (type, capability).
var probeCache sync.Map // key: probeKey, val: bool

// TryDetect probes v's exact type for the named built-in trait.
func (probeStrategy) TryDetect(v any, name string, cfg apis.Config) bool {
	if v == nil {
		return false
	}
	return byTrait(reflect.TypeOf(v), name, cfg)
}

// TryDetectType probes t for the named built-in trait.
func (probeStrategy) TryDetectType(t reflect.Type, name string, cfg apis.Config) bool {
	if t == nil {
		return false
	}
	return byTrait(t, name, cfg)
}

// Capabilities probes v's exact type against the whole trait table.
func (probeStrategy) Capabilities(v any, cfg apis.Config) capset.Set {
	if v == nil {
		return capset.Set{}
	}
	return tableCapabilities(reflect.TypeOf(v), cfg)
}

// CapabilitiesType probes t against the whole trait table.
func (probeStrategy) CapabilitiesType(t reflect.Type, cfg apis.Config) capset.Set {
	if t == nil {
		return capset.Set{}
	}
	return tableCapabilities(t, cfg)
}

// byTrait answers one (type, capability) question with memoization.
func byTrait(t reflect.Type, name string, cfg apis.Config) bool {
	if !cfg.ProbeBuiltins {
		return false
	}
	key := probeKey{t: t, name: name}
	if v, ok := probeCache.Load(key); ok {
		return v.(bool)
	}

	ans := false
	if tr, ok := traits.Lookup(name); ok {
		ans = tr.Probe(t)
	}
	probeCache.Store(key, ans)
	return ans
}

// tableCapabilities collects every built-in trait t provably has.
func tableCapabilities(t reflect.Type, cfg apis.Config) capset.Set {
	var s capset.Set
	if !cfg.ProbeBuiltins {
		return s
	}
	for _, tr := range traits.Builtin() {
		if byTrait(t, tr.Name, cfg) {
			s = s.Insert(capset.Cap(tr.Name))
		}
	}
	return s
}
