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

// Package identity turns capability names into routing keys and
// collision-resistant fingerprints.
//
// A capability name (e.g. "io.reader", "text/template.Template") is mapped
// to two independent encodings:
//
//   - RoutingKey: a 64-bit FNV-1a hash of the name's bytes, read as a
//     sequence of 4-bit symbols. The trie in package capset consumes these
//     symbols to place the capability.
//   - Identity: a tiered, fixed-size encoding of the name itself, used to
//     disambiguate capabilities whose routing keys collide. Names up to 64
//     bytes are encoded losslessly; longer names are sampled.
//
// Both functions are pure: the result depends only on the name's bytes,
// never on where in a program the name was declared, so independently
// compiled packages agree on every key.
package identity

// FNV-1a 64-bit parameters. The hash loop is written out instead of using
// hash/fnv because the encoding is specified by these constants and the
// hash.Hash64 interface costs an allocation per call on a hot path.
const (
	// OffsetBasis64 is the FNV-1a 64-bit offset basis.
	OffsetBasis64 uint64 = 0xcbf29ce484222325
	// Prime64 is the FNV-1a 64-bit prime.
	Prime64 uint64 = 0x100000001b3
)

// KeyNibbles is the number of distinct 4-bit symbols in a RoutingKey.
// Nibble indices at or beyond KeyNibbles wrap around: the symbol stream has
// period KeyNibbles, so consuming more symbols yields no new discrimination.
const KeyNibbles = 16

// RoutingKey is the 64-bit hash of a capability name, consumed 4 bits at a
// time when placing the capability in a trie.
type RoutingKey uint64

// Route hashes name with FNV-1a 64 and returns its RoutingKey.
// Route is a pure function of the name's bytes; empty names are legal and
// map to the offset basis.
func Route(name string) RoutingKey {
	h := OffsetBasis64
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= Prime64
	}
	return RoutingKey(h)
}

// Nibble returns the 4-bit symbol at the given depth, lowest bits first.
// Depths at or beyond KeyNibbles wrap around (the stream has period 16).
// Negative depths are treated as depth 0.
func (k RoutingKey) Nibble(depth int) uint8 {
	if depth < 0 {
		depth = 0
	}
	shift := uint(depth%KeyNibbles) * 4
	return uint8(uint64(k)>>shift) & 0xF
}

// Path returns the first n symbols of the key, in consumption order.
// n is clamped to [0, KeyNibbles].
func (k RoutingKey) Path(n int) []uint8 {
	if n < 0 {
		n = 0
	}
	if n > KeyNibbles {
		n = KeyNibbles
	}
	out := make([]uint8, n)
	for i := range out {
		out[i] = k.Nibble(i)
	}
	return out
}

// Tier labels the encoding class of an Identity. Two identities with equal
// buffer contents but different tiers never compare equal.
type Tier uint8

const (
	// Tier8 encodes names of up to 8 bytes in full.
	Tier8 Tier = 8
	// Tier16 encodes names of up to 16 bytes in full.
	Tier16 Tier = 16
	// Tier32 encodes names of up to 32 bytes in full.
	Tier32 Tier = 32
	// Tier64 encodes names of up to 64 bytes in full.
	Tier64 Tier = 64
	// TierSampled encodes names longer than 64 bytes via a fixed-size
	// head+middle+tail sample. Lossy: see Identify.
	TierSampled Tier = 255
)

// String returns a short stable token for the tier.
func (tr Tier) String() string {
	switch tr {
	case Tier8:
		return "tier8"
	case Tier16:
		return "tier16"
	case Tier32:
		return "tier32"
	case Tier64:
		return "tier64"
	case TierSampled:
		return "sampled"
	default:
		return "unknown"
	}
}

// Sampling layout for names longer than 64 bytes.
const (
	sampleHead = 32
	sampleMid  = 16
	sampleTail = 16
	identSize  = sampleHead + sampleMid + sampleTail // 64
)

// Identity is a fixed-size, tier-tagged fingerprint of a capability name.
// It is a comparable value: == is the structural equality the trie uses to
// tie-break routing-key collisions, and Identity is usable as a map key.
type Identity struct {
	tier Tier
	data [identSize]byte
}

// Identify encodes name into its Identity.
//
// Names of byte length <= 64 are copied in full into the fixed buffer,
// NUL-padded, and tagged with the smallest tier that fits (8, 16, 32, 64).
// Distinct names in these tiers always produce distinct identities.
//
// Longer names are sampled: the first 32 bytes, 16 bytes starting at
// (len-16)/2, and the last 16 bytes, concatenated. The blocks may overlap
// for lengths just above 64. Sampling is deterministic but lossy:
// adversarially constructed long names can collide, which is accepted for
// the qualified type names this package is built for.
//
// The empty name is legal and yields the degenerate all-NUL Tier8 identity.
func Identify(name string) Identity {
	var id Identity
	n := len(name)
	switch {
	case n <= 8:
		id.tier = Tier8
	case n <= 16:
		id.tier = Tier16
	case n <= 32:
		id.tier = Tier32
	case n <= 64:
		id.tier = Tier64
	default:
		id.tier = TierSampled
		mid := (n - sampleMid) / 2
		copy(id.data[0:sampleHead], name[:sampleHead])
		copy(id.data[sampleHead:sampleHead+sampleMid], name[mid:mid+sampleMid])
		copy(id.data[sampleHead+sampleMid:], name[n-sampleTail:])
		return id
	}
	copy(id.data[:], name)
	return id
}

// Tier reports the identity's encoding class.
func (id Identity) Tier() Tier {
	return id.tier
}

// Name recovers the original name when the identity is lossless (tiers
// 8..64). For sampled identities it returns ("", false).
func (id Identity) Name() (string, bool) {
	if id.tier == TierSampled {
		return "", false
	}
	end := int(id.tier)
	b := id.data[:end]
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end]), true
}

// String renders a compact debug form: the tier token plus the recovered
// name or, for sampled identities, the head block.
func (id Identity) String() string {
	if name, ok := id.Name(); ok {
		return id.tier.String() + ":" + name
	}
	return id.tier.String() + ":" + string(id.data[:sampleHead]) + "…"
}
