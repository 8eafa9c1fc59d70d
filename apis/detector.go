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

package apis

import (
	"reflect"

	"tola.dev/caps/capset"
)

// Detector coordinates strategies to answer capability questions for values
// and types. Typical chain: CarrierStrategy -> RegistryStrategy -> ProbeStrategy.
//
// Detection is affirmative-only: a false answer means no strategy could
// confirm the capability, never that its absence was proven. Negation is
// applied by query evaluation on top of the combined answer, not inside
// the detector.
type Detector interface {
	// Detect reports whether v carries the named capability.
	Detect(v any, name string, cfg Config) bool

	// DetectType reports whether the type t carries the named capability.
	// Instance-only evidence (see Carrier) is unavailable on this path.
	DetectType(t reflect.Type, name string, cfg Config) bool

	// Capabilities returns every capability any strategy can affirm for v.
	Capabilities(v any, cfg Config) capset.Set

	// CapabilitiesType returns every capability any strategy can affirm
	// for the type t.
	CapabilitiesType(t reflect.Type, cfg Config) capset.Set
}
