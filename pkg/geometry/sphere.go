package geometry

import (
	"math"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   math.Max(0, radius),
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	// Quadratic equation coefficients: at² + 2ht + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	// Try the closer root first
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (-halfB + sqrtD) / a
		if !rayT.Surrounds(root) {
			return nil, false
		}
	}

	hitRecord := &HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() (core.AABB, bool) {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius)), true
}
