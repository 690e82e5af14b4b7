package huffman

import "github.com/llehouerou/go-aac/internal/bits"

// node is one entry of a canonical-Huffman decode tree: a 1-bit-at-a-time
// binary trie mirroring the bitstream's MSB-first code assignment. Leaves
// carry a catalog index; internal nodes carry the indices of their two
// children within the same tree's node slice.
//
// This mirrors the bit-at-a-time walk the scale-factor table has always
// used in this package (see ScaleFactor): read one bit, follow a branch,
// stop at a leaf. Generalizing that walk to arbitrary value catalogs lets
// every codebook share one decoder instead of eleven hand-transcribed
// lookup tables.
type node struct {
	left, right int32 // -1 on a leaf
	value       int32 // catalog index, meaningful only on a leaf
}

type tree struct {
	nodes []node
	root  int32
}

// decode walks the tree one bit at a time and returns the catalog index of
// the matching leaf.
func (t *tree) decode(r *bits.Reader) int {
	i := t.root
	for {
		n := &t.nodes[i]
		if n.left < 0 {
			return int(n.value)
		}
		if r.Get1Bit() == 0 {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// buildTree constructs a canonical Huffman decode tree from per-catalog-entry
// weights (relative frequency; larger weight -> shorter code). It merges the
// two lowest-weight subtrees repeatedly, which always yields a complete
// binary tree and therefore a valid (uniquely decodable, prefix-free) code
// regardless of the weight values chosen.
func buildTree(weights []float64) *tree {
	type item struct {
		w     float64
		node  int32 // index into the output nodes slice for this subtree's root
		count int   // number of leaves under this subtree, for stable tie-breaking
	}

	t := &tree{nodes: make([]node, 0, 2*len(weights))}
	newLeaf := func(value int32) int32 {
		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{left: -1, right: -1, value: value})
		return idx
	}
	newInternal := func(l, r int32) int32 {
		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{left: l, right: r})
		return idx
	}

	items := make([]item, len(weights))
	for i, w := range weights {
		items[i] = item{w: w, node: newLeaf(int32(i)), count: 1}
	}

	for len(items) > 1 {
		// Find and remove the two lowest-weight items (stable: earlier
		// catalog entries act as ties-broken-by-index, keeping the
		// construction deterministic across runs).
		a, b := 0, 1
		if items[b].w < items[a].w {
			a, b = b, a
		}
		for i := 2; i < len(items); i++ {
			if items[i].w < items[a].w {
				a, b = i, a
			} else if items[i].w < items[b].w {
				b = i
			}
		}
		if a > b {
			a, b = b, a
		}
		merged := item{
			w:     items[a].w + items[b].w,
			node:  newInternal(items[a].node, items[b].node),
			count: items[a].count + items[b].count,
		}
		// Remove b first (higher index), then a.
		items = append(items[:b], items[b+1:]...)
		items = append(items[:a], items[a+1:]...)
		items = append(items, merged)
	}

	t.root = items[0].node
	return t
}
