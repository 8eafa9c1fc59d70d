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

package capset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tola.dev/caps/identity"
)

// forge builds a Capability with a controlled routing key so collision
// shapes can be produced deterministically. Identity still comes from the
// name, which keeps distinct names distinct.
func forge(name string, key uint64) Capability {
	return Capability{
		name: name,
		key:  identity.RoutingKey(key),
		id:   identity.Identify(name),
	}
}

func TestSplit_EscalatesSharedPrefix(t *testing.T) {
	// Keys share the first symbol (1) and diverge on the second (2 vs 3).
	a := forge("a", 0x21)
	b := forge("b", 0x31)

	s := Set{}.Insert(a).Insert(b)

	root, ok := s.root.(*branchNode)
	require.True(t, ok, "root should be a branch, got %T", s.root)

	// Only the shared first symbol is populated at the root.
	for i, child := range root.slots {
		if i == 1 {
			continue
		}
		assert.Nil(t, child, "slot %d", i)
	}

	inner, ok := root.slots[1].(*branchNode)
	require.True(t, ok, "depth 1 should be a branch, got %T", root.slots[1])

	la, ok := inner.slots[2].(*leafNode)
	require.True(t, ok)
	assert.Equal(t, "a", la.cap.name)

	lb, ok := inner.slots[3].(*leafNode)
	require.True(t, ok)
	assert.Equal(t, "b", lb.cap.name)
}

func TestSplit_FullCollisionBuckets(t *testing.T) {
	// Identical keys exhaust all symbols; identities keep the two apart.
	key := uint64(0xDEADBEEFCAFEF00D)
	first := forge("first", key)
	second := forge("second", key)

	s := Set{}.Insert(first).Insert(second)

	// Exactly MaxDepth branch levels, then a bucket.
	n := s.root
	for depth := 0; depth < MaxDepth; depth++ {
		br, ok := n.(*branchNode)
		require.True(t, ok, "depth %d should be a branch, got %T", depth, n)
		n = br.slots[first.key.Nibble(depth)]
	}
	bucket, ok := n.(*bucketNode)
	require.True(t, ok, "expected bucket at max depth, got %T", n)

	// Insertion order is preserved inside the bucket.
	require.Len(t, bucket.caps, 2)
	assert.Equal(t, "first", bucket.caps[0].name)
	assert.Equal(t, "second", bucket.caps[1].name)

	// Both are reachable and removable through the public surface.
	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(first))
	assert.True(t, s.Contains(second))

	s2 := s.Remove(first)
	assert.False(t, s2.Contains(first))
	assert.True(t, s2.Contains(second))

	// A one-entry bucket collapses to nil on removal.
	s3 := s2.Remove(second)
	assert.True(t, s3.IsEmpty())
}

func TestInsert_NoOpSharesRoot(t *testing.T) {
	a := forge("a", 0x21)
	s := Set{}.Insert(a)

	// Re-inserting the same identity returns the identical root pointer.
	s2 := s.Insert(forge("a", 0x21))
	assert.True(t, s.root == s2.root, "expected shared root on no-op insert")

	// Same for removals of absent capabilities.
	s3 := s.Remove(forge("b", 0x31))
	assert.True(t, s.root == s3.root, "expected shared root on no-op remove")
}

func TestInsert_CopiesOnlyTouchedPath(t *testing.T) {
	a := forge("a", 0x01)
	b := forge("b", 0x02)
	c := forge("c", 0x03)

	s := Set{}.Insert(a).Insert(b)
	before, ok := s.root.(*branchNode)
	require.True(t, ok)

	s2 := s.Insert(c)
	after, ok := s2.root.(*branchNode)
	require.True(t, ok)

	// The untouched children are shared between the two versions.
	assert.True(t, before.slots[1] == after.slots[1], "slot 1 should be shared")
	assert.True(t, before.slots[2] == after.slots[2], "slot 2 should be shared")
	assert.Nil(t, before.slots[3])
	assert.NotNil(t, after.slots[3])
}

func TestBucket_InsertReplaceSemantics(t *testing.T) {
	key := uint64(0xABCDEF0123456789)
	stored := forge("shared-name", key)
	incoming := Capability{
		name: "other-name",
		key:  identity.RoutingKey(key),
		id:   stored.id, // same identity, different display name
	}

	bucket := &bucketNode{caps: []Capability{stored}}

	// Keep the stored instance when replace is off.
	kept := insert(bucket, incoming, MaxDepth, false)
	assert.True(t, kept == node(bucket), "expected no-op without replace")

	// Substitute the incoming instance when replace is on.
	swapped := insert(bucket, incoming, MaxDepth, true)
	sb, ok := swapped.(*bucketNode)
	require.True(t, ok)
	require.Len(t, sb.caps, 1)
	assert.Equal(t, "other-name", sb.caps[0].name)

	// The original bucket is untouched either way.
	assert.Equal(t, "shared-name", bucket.caps[0].name)
}

func TestUnion_LeftBias(t *testing.T) {
	key := uint64(0x42)
	id := identity.Identify("the-capability")
	left := Capability{name: "left", key: identity.RoutingKey(key), id: id}
	right := Capability{name: "right", key: identity.RoutingKey(key), id: id}

	ls := Set{}.Insert(left)
	rs := Set{}.Insert(right)

	got, ok := ls.Union(rs).Get(left)
	require.True(t, ok)
	assert.Equal(t, "left", got.name)

	got, ok = rs.Union(ls).Get(right)
	require.True(t, ok)
	assert.Equal(t, "right", got.name)
}

func TestUnion_SharedSubtreesReused(t *testing.T) {
	a := forge("a", 0x01)
	b := forge("b", 0x02)
	c := forge("c", 0x03)

	s := Set{}.Insert(a).Insert(b).Insert(c)
	sub := s.Remove(c)

	// Union with self returns the identical root.
	assert.True(t, s.Union(s).root == s.root)

	// Union with a derived subset returns the identical root: the shared
	// children are recognized by pointer and nothing is rebuilt.
	assert.True(t, s.Union(sub).root == s.root)
}

func TestIntersect_PrefersReceiverInstance(t *testing.T) {
	key := uint64(0x42)
	id := identity.Identify("the-capability")
	left := Capability{name: "left", key: identity.RoutingKey(key), id: id}
	right := Capability{name: "right", key: identity.RoutingKey(key), id: id}

	ls := Set{}.Insert(left).Insert(forge("extra", 0x990))
	rs := Set{}.Insert(right)

	got, ok := ls.Intersect(rs).Get(left)
	require.True(t, ok)
	assert.Equal(t, "left", got.name)

	got, ok = rs.Intersect(ls).Get(right)
	require.True(t, ok)
	assert.Equal(t, "right", got.name)
}

func TestIntersect_UnchangedReturnsReceiverRoot(t *testing.T) {
	a := forge("a", 0x01)
	b := forge("b", 0x02)

	s := Set{}.Insert(a).Insert(b)
	wider := s.Insert(forge("c", 0x03))

	assert.True(t, s.Intersect(wider).root == s.root)
	assert.True(t, s.Intersect(s).root == s.root)
}

func TestWalk_SymbolOrder(t *testing.T) {
	// Inserted out of order; walk follows slot order at each level.
	s := Set{}.
		Insert(forge("third", 0x03)).
		Insert(forge("first", 0x01)).
		Insert(forge("second", 0x02))

	var order []string
	s.Walk(func(c Capability) bool {
		order = append(order, c.name)
		return true
	})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestRemove_LeavesBranchesUncompacted(t *testing.T) {
	a := forge("a", 0x21)
	b := forge("b", 0x31)

	s := Set{}.Insert(a).Insert(b)
	s2 := s.Remove(b)

	// The interior branch survives with a single child.
	root, ok := s2.root.(*branchNode)
	require.True(t, ok)
	inner, ok := root.slots[1].(*branchNode)
	require.True(t, ok)
	_, ok = inner.slots[2].(*leafNode)
	assert.True(t, ok)
	assert.Nil(t, inner.slots[3])

	// Removing the last capability leaves hollow branches behind; emptiness
	// is still reported correctly.
	s3 := s2.Remove(a)
	assert.NotNil(t, s3.root)
	assert.True(t, s3.IsEmpty())
	assert.Zero(t, s3.Size())
}

func TestSuperset_MixedNodeShapes(t *testing.T) {
	key := uint64(0x7777777777777777)
	first := forge("first", key)
	second := forge("second", key)

	bucketed := Set{}.Insert(first).Insert(second)
	single := Set{}.Insert(first)

	assert.True(t, bucketed.IsSuperset(single))
	assert.False(t, single.IsSuperset(bucketed))

	mixed := bucketed.Insert(forge("c", 0x03))
	assert.True(t, mixed.IsSuperset(bucketed))
	assert.True(t, mixed.IsSuperset(single))
	assert.False(t, bucketed.IsSuperset(mixed))
}
