package geometry

import (
	"github.com/df07/go-meshtrace/pkg/core"
)

// Primitive is anything a ray can be tested against: triangles and other
// shapes, flat composites and BVH nodes.
type Primitive interface {
	// Hit returns the nearest intersection whose parameter lies strictly
	// inside rayT, or false if there is none.
	Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool)

	// BoundingBox returns false only when the primitive has no spatial
	// extent (an empty composite). Such boxes must be left out of unions.
	BoundingBox() (core.AABB, bool)
}
