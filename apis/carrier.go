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

// Carrier lets a value declare its own capabilities.
// Values implementing Carrier take precedence over registry grants and
// reflection probes when consulted by the default detector chain.
type Carrier interface {
	// CapabilityNames returns the capability names the value claims.
	// Order is not significant. Duplicates are ignored by consumers.
	CapabilityNames() []string
}
