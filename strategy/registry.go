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

// NewRegistryStrategy creates an apis.Strategy that answers from explicit
// grants held by reg.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults a provided apis.Registry (reflection-free beyond
// the type lookup itself).
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryDetect looks up v's granted set and checks membership.
func (s *registryStrategy) TryDetect(v any, name string, cfg apis.Config) bool {
	if v == nil {
		return false
	}
	return s.TryDetectType(reflect.TypeOf(v), name, cfg)
}

// TryDetectType looks up t's granted set and checks membership.
func (s *registryStrategy) TryDetectType(t reflect.Type, name string, _ apis.Config) bool {
	if t == nil || s.reg == nil {
		return false
	}
	set, ok := s.reg.Lookup(t)
	if !ok {
		return false
	}
	return set.Has(name)
}

// Capabilities returns the full granted set for v's type.
func (s *registryStrategy) Capabilities(v any, cfg apis.Config) capset.Set {
	if v == nil {
		return capset.Set{}
	}
	return s.CapabilitiesType(reflect.TypeOf(v), cfg)
}

// CapabilitiesType returns the full granted set for t.
func (s *registryStrategy) CapabilitiesType(t reflect.Type, _ apis.Config) capset.Set {
	if t == nil || s.reg == nil {
		return capset.Set{}
	}
	set, ok := s.reg.Lookup(t)
	if !ok {
		return capset.Set{}
	}
	return set
}
