package geometry

import (
	"math"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/material"
)

const (
	// parallelEpsilon rejects rays (nearly) parallel to the triangle plane
	parallelEpsilon = 1e-8
	// zeroNormalLength is the length below which a vertex normal counts as missing
	zeroNormalLength = 0.001
)

// Triangle represents a single triangle defined by three vertices, with
// optional per-vertex normals for smooth shading
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	N0, N1, N2 core.Vec3         // Vertex normals (zero when flat shaded)
	Material   material.Material // Shared, never modified
	smooth     bool              // Interpolate vertex normals
	normal     core.Vec3         // Cached face normal
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a flat-shaded triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}

	t.computeNormal()
	t.computeBoundingBox()

	return t
}

// NewSmoothTriangle creates a triangle that interpolates the given vertex
// normals. If all three are (near) zero it falls back to flat shading.
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, material material.Material) *Triangle {
	t := NewTriangle(v0, v1, v2, material)
	t.N0, t.N1, t.N2 = n0, n1, n2
	t.smooth = !(n0.Length() < zeroNormalLength &&
		n1.Length() < zeroNormalLength &&
		n2.Length() < zeroNormalLength)

	return t
}

// computeNormal calculates and caches the triangle's face normal
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// computeBoundingBox caches the triangle's box, padded so that axis-aligned
// triangles still have some thickness for the slab test
func (t *Triangle) computeBoundingBox() {
	t.bbox = core.NewAABB(t.V0, t.V1).
		Union(core.NewAABB(t.V0, t.V2)).
		PadToMinimums(core.MinimumExtent)
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	pvec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if math.Abs(det) < parallelEpsilon {
		return nil, false
	}

	invDet := 1.0 / det
	tvec := ray.Origin.Subtract(t.V0)
	u := invDet * tvec.Dot(pvec)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	qvec := tvec.Cross(edge1)
	v := invDet * ray.Direction.Dot(qvec)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tHit := invDet * edge2.Dot(qvec)
	if !rayT.Surrounds(tHit) {
		return nil, false
	}

	outwardNormal := t.normal
	if t.smooth {
		w := 1.0 - u - v
		outwardNormal = t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	}

	hitRecord := &HitRecord{
		T:        tHit,
		Point:    ray.At(tHit),
		U:        u,
		V:        v,
		Material: t.Material,
	}
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}

// Normal returns the triangle's geometric (face) normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// IsSmooth reports whether hits interpolate the vertex normals
func (t *Triangle) IsSmooth() bool {
	return t.smooth
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Multiply(1.0 / 3.0)
}
