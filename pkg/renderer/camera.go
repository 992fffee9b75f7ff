package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-meshtrace/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction (usually 0,1,0)
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// degenerateFrame is the relative cross product length below which the up
// vector counts as parallel to the view direction
const degenerateFrame = 1e-9

// Validate rejects configurations that cannot form a camera basis: the
// camera sitting on its target, or an up vector along the view direction.
// A zero Up is replaced by +Y, as in NewCamera.
func (c CameraConfig) Validate() error {
	view := c.Center.Subtract(c.LookAt)
	if view.Length() == 0 {
		return fmt.Errorf("camera center and look-at point are both %v", c.Center)
	}

	up := c.Up
	if up.LengthSquared() == 0 {
		up = core.NewVec3(0, 1, 0)
	}
	if up.Cross(view).Length() <= degenerateFrame*up.Length()*view.Length() {
		return fmt.Errorf("camera up %v is parallel to the view direction", up)
	}

	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("camera vertical field of view must be in (0, 180), got %v", c.VFov)
	}
	return nil
}

// Camera generates primary rays through a pinhole
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	forward         core.Vec3
}

// NewCamera creates a pinhole camera from the configuration
func NewCamera(config CameraConfig) *Camera {
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 1.0
	}
	up := config.Up
	if up.LengthSquared() == 0 {
		up = core.NewVec3(0, 1, 0)
	}

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	// Orthonormal basis: w points backwards, u right, v up
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		forward:         w.Negate(),
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and t grows upwards
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// autoFrameDirection is the direction from the target to the camera
var autoFrameDirection = core.NewVec3(-0.3, 0.25, 1).Normalize()

// AutoFrame places the camera so that the whole box is in view, looking at
// its center from above and to the left
func AutoFrame(box core.AABB, aspectRatio float64) CameraConfig {
	center := box.Center()
	radius := 0.5 * box.Size().Length()
	if box.IsEmpty() || math.IsNaN(radius) || math.IsInf(radius, 0) {
		center = core.Vec3{}
		radius = 1.0
	}

	return CameraConfig{
		Center:      center.Add(autoFrameDirection.Multiply(3*radius + 1)),
		LookAt:      center,
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: aspectRatio,
		VFov:        40.0,
	}
}
