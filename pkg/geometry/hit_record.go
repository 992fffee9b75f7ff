package geometry

import (
	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Surface normal, always facing against the ray
	T         float64           // Parameter t along the ray
	U, V      float64           // Surface coordinates (barycentric for triangles)
	FrontFace bool              // Whether ray hit the front face
	Material  material.Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is expected to have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
