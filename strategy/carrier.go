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

	"tola.dev/caps/apis"
	"tola.dev/caps/capset"
)

// NewCarrierStrategy creates an apis.Strategy that uses apis.Carrier.
func NewCarrierStrategy() apis.Strategy {
	return &carrierStrategy{}
}

// carrierStrategy is a zero-cost fast path: if v implements apis.Carrier,
// answer from its declared capability names and stop the chain.
type carrierStrategy struct{}

// Ensure carrierStrategy implements apis.Strategy.
var _ apis.Strategy = (*carrierStrategy)(nil)

// TryDetect checks whether v declares the named capability via apis.Carrier.
// Declared names are matched by encoded identity, the same membership rule
// capability sets use.
func (*carrierStrategy) TryDetect(v any, name string, _ apis.Config) bool {
	if v == nil {
		return false
	}
	c, ok := v.(apis.Carrier)
	if !ok {
		return false
	}
	want := capset.Cap(name)
	for _, declared := range c.CapabilityNames() {
		if capset.Cap(declared).Equal(want) {
			return true
		}
	}
	return false
}

// TryDetectType always returns false: Carrier requires an instance.
func (*carrierStrategy) TryDetectType(_ reflect.Type, _ string, _ apis.Config) bool {
	// No instance -> cannot consult Carrier.
	return false
}

// Capabilities returns the set of capabilities v declares. Duplicate
// declarations merge silently.
func (*carrierStrategy) Capabilities(v any, _ apis.Config) capset.Set {
	var s capset.Set
	if v == nil {
		return s
	}
	c, ok := v.(apis.Carrier)
	if !ok {
		return s
	}
	for _, declared := range c.CapabilityNames() {
		s = s.Insert(capset.Cap(declared))
	}
	return s
}

// CapabilitiesType always returns the empty set: Carrier requires an instance.
func (*carrierStrategy) CapabilitiesType(_ reflect.Type, _ apis.Config) capset.Set {
	return capset.Set{}
}
