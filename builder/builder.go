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

package builder

import (
	"tola.dev/caps/apis"
	"tola.dev/caps/detector"
	"tola.dev/caps/registry"
	"tola.dev/caps/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration and pre-existing registry. If a pre-existing registry is
// provided, its grants are migrated into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Grant(e.Type, e.Set.Names()...)
		}
	}
	return nreg
}

// BuildDetector builds and returns a new apis.Detector based on the provided
// configuration and registry. The default chain consults, in order: values
// declaring their own capabilities (Carrier), explicit grants (Registry),
// and the built-in trait table (Probe).
func (b *builder) BuildDetector(cfg apis.Config, reg apis.Registry, _ apis.Detector, _ any) apis.Detector {
	return detector.New(
		strategy.NewCarrierStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewProbeStrategy(),
	)
}
