package core

import "math"

// AABB represents an axis-aligned bounding box as the product of three intervals
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB contains no points and is the identity for Union.
// The zero AABB is not empty: it is a degenerate box at the origin.
var EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}

// NewAABB creates the box spanned by two extremal points, in either order
func NewAABB(a, b Vec3) AABB {
	return AABB{
		X: Interval{Min: math.Min(a.X, b.X), Max: math.Max(a.X, b.X)},
		Y: Interval{Min: math.Min(a.Y, b.Y), Max: math.Max(a.Y, b.Y)},
		Z: Interval{Min: math.Min(a.Z, b.Z), Max: math.Max(a.Z, b.Z)},
	}
}

// NewAABBFromIntervals creates a box from its per-axis extents
func NewAABBFromIntervals(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB
	for _, point := range points {
		box = box.Union(NewAABB(point, point))
	}
	return box
}

// Axis returns the extent along axis n (0=X, 1=Y, anything else=Z)
func (aabb AABB) Axis(n int) Interval {
	switch n {
	case 0:
		return aabb.X
	case 1:
		return aabb.Y
	default:
		return aabb.Z
	}
}

// Min returns the minimum corner
func (aabb AABB) Min() Vec3 {
	return Vec3{aabb.X.Min, aabb.Y.Min, aabb.Z.Min}
}

// Max returns the maximum corner
func (aabb AABB) Max() Vec3 {
	return Vec3{aabb.X.Max, aabb.Y.Max, aabb.Z.Max}
}

// Hit tests if a ray intersects with this AABB within rayT using the slab method.
// A zero direction component divides to a signed infinity, so that axis only
// rejects rays whose origin lies outside its slab.
func (aabb AABB) Hit(ray Ray, rayT Interval) bool {
	for axis := 0; axis < 3; axis++ {
		extent := aabb.Axis(axis)
		origin := ray.Origin.Axis(axis)
		invD := 1.0 / ray.Direction.Axis(axis)

		t0 := (extent.Min - origin) * invD
		t1 := (extent.Max - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > rayT.Min {
			rayT.Min = t0
		}
		if t1 < rayT.Max {
			rayT.Max = t1
		}

		if rayT.Max <= rayT.Min {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		X: aabb.X.Union(other.X),
		Y: aabb.Y.Union(other.Y),
		Z: aabb.Z.Union(other.Z),
	}
}

// Contains reports whether the point lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return aabb.X.Contains(p.X) && aabb.Y.Contains(p.Y) && aabb.Z.Contains(p.Z)
}

// IsEmpty reports whether any axis has no extent
func (aabb AABB) IsEmpty() bool {
	return aabb.X.IsEmpty() || aabb.Y.IsEmpty() || aabb.Z.IsEmpty()
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min().Add(aabb.Max()).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return Vec3{aabb.X.Size(), aabb.Y.Size(), aabb.Z.Size()}
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// X must be strictly longest to win, then Y must be strictly longer than Z.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// MinimumExtent is the thickness given to flat boxes by PadToMinimums
const MinimumExtent = 1e-4

// PadToMinimums widens every axis thinner than delta to exactly delta,
// keeping it centered. Flat primitives need this for the slab test to
// report a hit.
func (aabb AABB) PadToMinimums(delta float64) AABB {
	pad := func(i Interval) Interval {
		if i.Size() < delta {
			return i.Expand(delta - i.Size())
		}
		return i
	}
	return AABB{X: pad(aabb.X), Y: pad(aabb.Y), Z: pad(aabb.Z)}
}
