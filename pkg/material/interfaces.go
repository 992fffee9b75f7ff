package material

import (
	"github.com/df07/go-meshtrace/pkg/core"
)

// Material is the surface binding carried by a hit record. Primitives share
// materials and never modify them.
type Material interface {
	// Albedo returns the surface reflectance at a world-space point
	Albedo(point core.Vec3) core.Vec3
}
