package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"X cross Y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"Y cross Z", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"Z cross X", NewVec3(0, 0, 1), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"Parallel vectors", NewVec3(2, 2, 2), NewVec3(1, 1, 1), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Cross(tt.b))
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(3, 0, 4).Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Z, 1e-12)

	// Zero vector stays zero rather than producing NaNs
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestVec3_Axis(t *testing.T) {
	v := NewVec3(1, 2, 3)
	assert.Equal(t, 1.0, v.Axis(0))
	assert.Equal(t, 2.0, v.Axis(1))
	assert.Equal(t, 3.0, v.Axis(2))
	assert.Equal(t, 3.0, v.Axis(7), "out of range axis falls back to Z")
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))
	assert.Equal(t, NewVec3(1, 1, -3), ray.At(2))
	assert.Equal(t, ray.Origin, ray.At(0))
}

func TestVec3_Clamp(t *testing.T) {
	v := NewVec3(-1, 0.5, math.Inf(1)).Clamp(0, 1)
	assert.Equal(t, NewVec3(0, 0.5, 1), v)
}

func TestVec3_String(t *testing.T) {
	assert.Equal(t, "(1, -2.5, 0.001)", NewVec3(1, -2.5, 0.001).String())
}
