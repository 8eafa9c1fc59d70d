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

// Strategy is a pluggable detection step. A Detector chains multiple
// strategies in order (e.g., Carrier -> Registry -> Probe) with OR
// semantics: the first strategy to affirm a capability wins, and a false
// answer falls through to the next strategy.
type Strategy interface {
	// TryDetect reports whether this strategy can affirm that v carries
	// the named capability. False means "cannot affirm", not "absent".
	TryDetect(v any, name string, cfg Config) bool

	// TryDetectType is TryDetect for a reflect.Type. Strategies that need
	// an instance must return false here.
	TryDetectType(t reflect.Type, name string, cfg Config) bool

	// Capabilities returns every capability this strategy can affirm for v.
	Capabilities(v any, cfg Config) capset.Set

	// CapabilitiesType returns every capability this strategy can affirm
	// for the type t.
	CapabilitiesType(t reflect.Type, cfg Config) capset.Set
}
