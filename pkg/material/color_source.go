package material

import (
	"math"

	"github.com/df07/go-meshtrace/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	Evaluate(point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of position
func (s *SolidColor) Evaluate(point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker is a 3D checkerboard alternating between two colors every Scale units
type Checker struct {
	Even, Odd core.Vec3
	Scale     float64
}

// NewChecker creates a checker pattern with cells of the given size
func NewChecker(scale float64, even, odd core.Vec3) *Checker {
	return &Checker{Even: even, Odd: odd, Scale: scale}
}

// Evaluate picks the color of the cell containing point
func (c *Checker) Evaluate(point core.Vec3) core.Vec3 {
	inv := 1.0 / c.Scale
	x := int(math.Floor(point.X * inv))
	y := int(math.Floor(point.Y * inv))
	z := int(math.Floor(point.Z * inv))
	if (x+y+z)%2 == 0 {
		return c.Even
	}
	return c.Odd
}
