package geometry

import (
	"github.com/df07/go-meshtrace/pkg/core"
)

// Composite is an unordered, flat collection of primitives tested by linear scan
type Composite struct {
	primitives []Primitive
}

// NewComposite creates a composite holding the given primitives
func NewComposite(primitives ...Primitive) *Composite {
	c := &Composite{}
	c.primitives = append(c.primitives, primitives...)
	return c
}

// Add appends a primitive to the composite
func (c *Composite) Add(p Primitive) {
	c.primitives = append(c.primitives, p)
}

// Clear removes every primitive
func (c *Composite) Clear() {
	c.primitives = nil
}

// Len returns the number of primitives
func (c *Composite) Len() int {
	return len(c.primitives)
}

// Primitives returns the backing slice. NewBVH reorders it in place.
func (c *Composite) Primitives() []Primitive {
	return c.primitives
}

// Hit returns the nearest hit among all primitives. The search interval is
// narrowed to each closer hit as it is found, so farther primitives can no
// longer report.
func (c *Composite) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := rayT.Max

	for _, p := range c.primitives {
		if hit, isHit := p.Hit(ray, rayT.WithMax(closestSoFar)); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of the children's boxes, or false when no
// child has one
func (c *Composite) BoundingBox() (core.AABB, bool) {
	return unionBoxes(c.primitives)
}

// unionBoxes unions the boxes of primitives, skipping those without one
func unionBoxes(primitives []Primitive) (core.AABB, bool) {
	box := core.EmptyAABB
	found := false
	for _, p := range primitives {
		if childBox, ok := p.BoundingBox(); ok {
			box = box.Union(childBox)
			found = true
		}
	}

	if !found {
		return core.AABB{}, false
	}
	return box, true
}
