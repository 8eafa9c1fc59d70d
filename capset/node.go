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

// Trie nodes. A nil node is the empty subtree. A node at depth d
// discriminates on RoutingKey.Nibble(d); leaves may sit at any depth.
// Branches exist only at depths < MaxDepth. Buckets exist only at depth
// MaxDepth, where the symbol stream is exhausted and capabilities with
// fully colliding routing keys are told apart by Identity alone.
//
// Nodes are immutable once linked into a published Set. All mutating
// recursions copy the path they change and share everything else, and they
// return the received node pointer unchanged whenever the operation was a
// no-op, so callers can detect no-ops by pointer equality.
type node interface {
	isNode()
}

// leafNode stores exactly one capability.
type leafNode struct {
	cap Capability
}

// branchNode is an interior node with one child per 4-bit symbol.
type branchNode struct {
	slots [16]node
}

// bucketNode holds capabilities whose routing keys collide at full depth,
// in insertion order.
type bucketNode struct {
	caps []Capability
}

func (*leafNode) isNode()   {}
func (*branchNode) isNode() {}
func (*bucketNode) isNode() {}

// insert adds c below n at the given depth. When replace is false an
// existing capability with equal Identity is kept (idempotent insert);
// when true it is substituted by c (used by union to enforce left bias).
func insert(n node, c Capability, depth int, replace bool) node {
	switch t := n.(type) {
	case nil:
		return &leafNode{cap: c}

	case *leafNode:
		if t.cap.id == c.id {
			if replace {
				return &leafNode{cap: c}
			}
			return n
		}
		return split(t.cap, c, depth)

	case *branchNode:
		idx := c.key.Nibble(depth)
		child := insert(t.slots[idx], c, depth+1, replace)
		if child == t.slots[idx] {
			return n
		}
		nb := *t
		nb.slots[idx] = child
		return &nb

	case *bucketNode:
		for i, have := range t.caps {
			if have.id == c.id {
				if !replace {
					return n
				}
				caps := make([]Capability, len(t.caps))
				copy(caps, t.caps)
				caps[i] = c
				return &bucketNode{caps: caps}
			}
		}
		caps := make([]Capability, len(t.caps)+1)
		copy(caps, t.caps)
		caps[len(t.caps)] = c
		return &bucketNode{caps: caps}
	}
	return n
}

// split separates two capabilities with distinct identities whose routing
// keys agree on all symbols before depth. It escalates one symbol at a
// time and falls back to a bucket once the stream is exhausted.
func split(a, b Capability, depth int) node {
	if depth >= MaxDepth {
		return &bucketNode{caps: []Capability{a, b}}
	}
	na, nb := a.key.Nibble(depth), b.key.Nibble(depth)
	br := &branchNode{}
	if na == nb {
		br.slots[na] = split(a, b, depth+1)
		return br
	}
	br.slots[na] = &leafNode{cap: a}
	br.slots[nb] = &leafNode{cap: b}
	return br
}

// get walks c's routing path below n and returns the stored capability
// whose Identity matches c's, if any.
func get(n node, c Capability, depth int) (Capability, bool) {
	switch t := n.(type) {
	case *leafNode:
		if t.cap.id == c.id {
			return t.cap, true
		}
	case *branchNode:
		return get(t.slots[c.key.Nibble(depth)], c, depth+1)
	case *bucketNode:
		for _, have := range t.caps {
			if have.id == c.id {
				return have, true
			}
		}
	}
	return Capability{}, false
}

// remove deletes the capability with c's Identity from below n. Emptied
// branches are left in place uncompacted; only buckets that lose their
// last entry collapse to nil.
func remove(n node, c Capability, depth int) node {
	switch t := n.(type) {
	case *leafNode:
		if t.cap.id == c.id {
			return nil
		}

	case *branchNode:
		idx := c.key.Nibble(depth)
		child := remove(t.slots[idx], c, depth+1)
		if child == t.slots[idx] {
			return n
		}
		nb := *t
		nb.slots[idx] = child
		return &nb

	case *bucketNode:
		for i, have := range t.caps {
			if have.id != c.id {
				continue
			}
			if len(t.caps) == 1 {
				return nil
			}
			caps := make([]Capability, 0, len(t.caps)-1)
			caps = append(caps, t.caps[:i]...)
			caps = append(caps, t.caps[i+1:]...)
			return &bucketNode{caps: caps}
		}
	}
	return n
}

// union merges b into a, keeping a's instance when identities match.
// Shared subtrees are detected by pointer equality and reused as-is.
func union(a, b node, depth int) node {
	if a == nil {
		return b
	}
	if b == nil || a == b {
		return a
	}
	switch ta := a.(type) {
	case *leafNode:
		// a's single capability overrides its match inside b.
		return insert(b, ta.cap, depth, true)

	case *branchNode:
		switch tb := b.(type) {
		case *leafNode:
			return insert(a, tb.cap, depth, false)
		case *branchNode:
			nb := &branchNode{}
			same := true
			for i := range nb.slots {
				nb.slots[i] = union(ta.slots[i], tb.slots[i], depth+1)
				if nb.slots[i] != ta.slots[i] {
					same = false
				}
			}
			if same {
				return a
			}
			return nb
		}

	case *bucketNode:
		switch tb := b.(type) {
		case *leafNode:
			return insert(a, tb.cap, depth, false)
		case *bucketNode:
			out := a
			for _, c := range tb.caps {
				out = insert(out, c, depth, false)
			}
			return out
		}
	}
	return a
}

// intersect keeps the capabilities present in both a and b, preferring a's
// stored instance.
func intersect(a, b node, depth int) node {
	if a == nil || b == nil {
		return nil
	}
	if a == b {
		return a
	}
	switch ta := a.(type) {
	case *leafNode:
		if _, ok := get(b, ta.cap, depth); ok {
			return a
		}
		return nil

	case *branchNode:
		switch tb := b.(type) {
		case *leafNode:
			if kept, ok := get(a, tb.cap, depth); ok {
				return &leafNode{cap: kept}
			}
			return nil
		case *branchNode:
			nb := &branchNode{}
			same := true
			for i := range nb.slots {
				nb.slots[i] = intersect(ta.slots[i], tb.slots[i], depth+1)
				if nb.slots[i] != ta.slots[i] {
					same = false
				}
			}
			if same {
				return a
			}
			return nb
		}

	case *bucketNode:
		switch tb := b.(type) {
		case *leafNode:
			if kept, ok := get(a, tb.cap, depth); ok {
				return &leafNode{cap: kept}
			}
			return nil
		case *bucketNode:
			var kept []Capability
			for _, c := range ta.caps {
				if _, ok := get(b, c, depth); ok {
					kept = append(kept, c)
				}
			}
			if len(kept) == 0 {
				return nil
			}
			if len(kept) == len(ta.caps) {
				return a
			}
			return &bucketNode{caps: kept}
		}
	}
	return nil
}

// superset reports whether every capability below b is also below a.
func superset(a, b node, depth int) bool {
	if b == nil || a == b {
		return true
	}
	switch tb := b.(type) {
	case *leafNode:
		_, ok := get(a, tb.cap, depth)
		return ok

	case *branchNode:
		if ab, ok := a.(*branchNode); ok {
			for i := range tb.slots {
				if !superset(ab.slots[i], tb.slots[i], depth+1) {
					return false
				}
			}
			return true
		}
		// a is nil, a leaf, or a bucket: check b's contents one by one.
		return walk(b, func(c Capability) bool {
			_, ok := get(a, c, depth)
			return ok
		})

	case *bucketNode:
		for _, c := range tb.caps {
			if _, ok := get(a, c, depth); !ok {
				return false
			}
		}
		return true
	}
	return true
}

// walk visits every capability below n in symbol order until fn returns
// false. It reports whether the traversal ran to completion.
func walk(n node, fn func(Capability) bool) bool {
	switch t := n.(type) {
	case *leafNode:
		return fn(t.cap)
	case *branchNode:
		for _, child := range t.slots {
			if !walk(child, fn) {
				return false
			}
		}
	case *bucketNode:
		for _, c := range t.caps {
			if !fn(c) {
				return false
			}
		}
	}
	return true
}
