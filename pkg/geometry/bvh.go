package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-meshtrace/pkg/core"
)

// BVHNode is a node of a binary Bounding Volume Hierarchy. Children are
// either further nodes or the primitives themselves. The tree is immutable
// once built and may be queried from many goroutines at once.
type BVHNode struct {
	Left  Primitive
	Right Primitive
	Box   core.AABB

	// aliased is set when a single primitive fills both children
	aliased bool
}

// NewBVH builds a hierarchy over every primitive in the composite. The
// composite's backing slice is reordered in place. Panics if it is empty.
func NewBVH(list *Composite) *BVHNode {
	return NewBVHFromSpan(list.primitives, 0, len(list.primitives))
}

// NewBVHFromSpan builds a hierarchy over primitives[start:end], sorting that
// span in place. Panics if the span is empty.
func NewBVHFromSpan(primitives []Primitive, start, end int) *BVHNode {
	span := end - start
	if span <= 0 {
		panic(fmt.Sprintf("cannot build BVH over empty span [%d, %d)", start, end))
	}

	node := &BVHNode{}
	if box, ok := unionBoxes(primitives[start:end]); ok {
		node.Box = box
	} else {
		node.Box = core.EmptyAABB
	}

	switch span {
	case 1:
		node.Left = primitives[start]
		node.Right = primitives[start]
		node.aliased = true
	case 2:
		node.Left = primitives[start]
		node.Right = primitives[start+1]
	default:
		sortByAxis(primitives[start:end], node.Box.LongestAxis())

		mid := start + span/2
		node.Left = NewBVHFromSpan(primitives, start, mid)
		node.Right = NewBVHFromSpan(primitives, mid, end)
	}

	return node
}

// sortByAxis orders primitives by the minimum of their box along axis.
// Primitives without a box sort last.
func sortByAxis(primitives []Primitive, axis int) {
	keys := make([]float64, len(primitives))
	for i, p := range primitives {
		keys[i] = boxMin(p, axis)
	}

	sort.Sort(byKey{primitives: primitives, keys: keys})
}

func boxMin(p Primitive, axis int) float64 {
	box, ok := p.BoundingBox()
	if !ok {
		return math.Inf(1)
	}
	return box.Axis(axis).Min
}

// byKey sorts primitives and their precomputed keys together
type byKey struct {
	primitives []Primitive
	keys       []float64
}

func (b byKey) Len() int           { return len(b.primitives) }
func (b byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey) Swap(i, j int) {
	b.primitives[i], b.primitives[j] = b.primitives[j], b.primitives[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Hit tests the ray against the node's box, then both children. The right
// child is searched only up to the left child's hit, so whatever it reports
// is the closer of the two.
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	if !n.Box.Hit(ray, rayT) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, rayT)

	rightT := rayT
	if hitLeft {
		rightT = rayT.WithMax(leftHit.T)
	}
	if rightHit, hitRight := n.Right.Hit(ray, rightT); hitRight {
		return rightHit, true
	}

	return leftHit, hitLeft
}

// BoundingBox returns the box computed when the node was built
func (n *BVHNode) BoundingBox() (core.AABB, bool) {
	if n.Box.IsEmpty() {
		return core.AABB{}, false
	}
	return n.Box, true
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	Nodes        int     // Internal BVH nodes
	Leaves       int     // Distinct leaf primitives reachable from the root
	MaxDepth     int     // Depth of the deepest leaf (children of the root are at 1)
	AvgLeafDepth float64 // Mean depth of the leaf primitives
}

// Stats walks the tree and collects BVHStats
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	depthSum := 0
	n.collectStats(0, &stats, &depthSum)

	if stats.Leaves > 0 {
		stats.AvgLeafDepth = float64(depthSum) / float64(stats.Leaves)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *BVHNode) collectStats(depth int, stats *BVHStats, depthSum *int) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	children := []Primitive{n.Left, n.Right}
	if n.aliased {
		children = children[:1]
	}

	for _, child := range children {
		if node, ok := child.(*BVHNode); ok {
			node.collectStats(depth+1, stats, depthSum)
			continue
		}
		stats.Leaves++
		*depthSum += depth + 1
		if depth+1 > stats.MaxDepth {
			stats.MaxDepth = depth + 1
		}
	}
}
