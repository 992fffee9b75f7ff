package geometry

import (
	"math/rand"
	"testing"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/material"
	"github.com/stretchr/testify/assert"
)

// MockShape reports a fixed box and delegates Hit to hitFn
type MockShape struct {
	boundingBox core.AABB
	hitFn       func(ray core.Ray, rayT core.Interval) (*HitRecord, bool)
}

func (m *MockShape) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	return m.hitFn(ray, rayT)
}

func (m *MockShape) BoundingBox() (core.AABB, bool) {
	return m.boundingBox, true
}

// hitAt returns a hit function reporting a hit at tValue when it lies inside rayT
func hitAt(tValue float64) func(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	return func(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
		if ray.Direction.X > 0 && rayT.Surrounds(tValue) {
			return &HitRecord{T: tValue}, true
		}
		return nil, false
	}
}

func neverHit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	return nil, false
}

// countingPrimitive counts how often Hit is called on the wrapped primitive
type countingPrimitive struct {
	Primitive
	calls int
}

func (c *countingPrimitive) Hit(ray core.Ray, rayT core.Interval) (*HitRecord, bool) {
	c.calls++
	return c.Primitive.Hit(ray, rayT)
}

// randomTriangles builds a soup of small triangles scattered through a cube,
// each bound to its own material so hits can be told apart
func randomTriangles(random *rand.Rand, count int, extent float64) []Primitive {
	randomPoint := func(scale float64) core.Vec3 {
		return core.NewVec3(
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
		)
	}

	primitives := make([]Primitive, count)
	for i := range primitives {
		center := randomPoint(extent)
		mat := material.NewLambertian(core.NewVec3(random.Float64(), random.Float64(), random.Float64()))
		primitives[i] = NewTriangle(
			center.Add(randomPoint(1)),
			center.Add(randomPoint(1)),
			center.Add(randomPoint(1)),
			mat,
		)
	}
	return primitives
}

func randomRay(random *rand.Rand, extent float64) core.Ray {
	origin := core.NewVec3(
		(random.Float64()*2-1)*extent*2,
		(random.Float64()*2-1)*extent*2,
		(random.Float64()*2-1)*extent*2,
	)
	// Aim at a random point inside the cloud so a good fraction of rays hit
	target := core.NewVec3(
		(random.Float64()*2-1)*extent,
		(random.Float64()*2-1)*extent,
		(random.Float64()*2-1)*extent,
	)
	return core.NewRay(origin, target.Subtract(origin))
}

func assertVec3Near(t *testing.T, want, got core.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y of %v", got)
	assert.InDelta(t, want.Z, got.Z, 1e-9, "z of %v", got)
}
