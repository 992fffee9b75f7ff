package material

import (
	"github.com/df07/go-meshtrace/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Color ColorSource // Base color/reflectance (can be solid or procedural)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Color: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with a color source
func NewTexturedLambertian(color ColorSource) *Lambertian {
	return &Lambertian{Color: color}
}

// Albedo implements the Material interface
func (l *Lambertian) Albedo(point core.Vec3) core.Vec3 {
	return l.Color.Evaluate(point)
}
