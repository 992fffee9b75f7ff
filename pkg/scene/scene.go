package scene

import (
	"fmt"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/df07/go-meshtrace/pkg/loaders"
	"github.com/df07/go-meshtrace/pkg/log"
	"github.com/df07/go-meshtrace/pkg/material"
	"github.com/df07/go-meshtrace/pkg/renderer"
)

var logger = log.New("scene")

// Scene holds the primitives to render, the acceleration structure built
// over them and the camera and render settings
type Scene struct {
	Objects      *geometry.Composite // Flat list of every top-level primitive
	World        geometry.Primitive  // BVH over Objects, set by Preprocess
	CameraConfig renderer.CameraConfig
	Config       renderer.Config
}

// NewScene creates an empty scene with default render settings
func NewScene() *Scene {
	return &Scene{
		Objects: geometry.NewComposite(),
		Config:  renderer.DefaultConfig(),
	}
}

// Add appends primitives to the scene. Preprocess must be called again
// before rendering.
func (s *Scene) Add(primitives ...geometry.Primitive) {
	for _, p := range primitives {
		s.Objects.Add(p)
	}
	s.World = nil
}

// Preprocess builds the BVH over the scene objects. The object list is
// reordered in place.
func (s *Scene) Preprocess() error {
	if s.Objects.Len() == 0 {
		return fmt.Errorf("scene has no objects")
	}
	bvh := geometry.NewBVH(s.Objects)
	s.World = bvh

	stats := bvh.Stats()
	logger.Debugf("built BVH over %d objects: %d nodes, %d leaves, max depth %d",
		s.Objects.Len(), stats.Nodes, stats.Leaves, stats.MaxDepth)
	return nil
}

// BVH returns the acceleration structure, or nil before Preprocess
func (s *Scene) BVH() *geometry.BVHNode {
	bvh, _ := s.World.(*geometry.BVHNode)
	return bvh
}

// Camera creates the camera described by CameraConfig with the aspect
// ratio of the render settings
func (s *Scene) Camera() *renderer.Camera {
	config := s.CameraConfig
	config.AspectRatio = s.Config.AspectRatio()
	return renderer.NewCamera(config)
}

// FrameObjects points the camera at the bounding box of every object
func (s *Scene) FrameObjects() {
	box, ok := s.Objects.BoundingBox()
	if !ok {
		box = core.EmptyAABB
	}
	s.CameraConfig = renderer.AutoFrame(box, s.Config.AspectRatio())
}

// NewSphereScene creates the two-sphere test scene on a large ground sphere
func NewSphereScene() *Scene {
	s := NewScene()

	red := material.NewLambertian(core.NewVec3(1.0, 0.2, 0.2))
	blue := material.NewLambertian(core.NewVec3(0.2, 0.2, 1.0))
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	s.Add(
		geometry.NewSphere(core.NewVec3(-0.5, 0, -2), 0.5, red),
		geometry.NewSphere(core.NewVec3(0.5, 0, -2), 0.5, blue),
		geometry.NewSphere(core.NewVec3(0, -100.5, -2), 100.0, ground),
	)

	s.CameraConfig = renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: s.Config.AspectRatio(),
		VFov:        90.0,
	}

	return s
}

// NewMeshScene loads a single mesh, gives it one lambertian color and
// frames the camera around it
func NewMeshScene(filename string, albedo core.Vec3, opts loaders.MeshOptions) (*Scene, error) {
	list, err := loaders.LoadMesh(filename, material.NewLambertian(albedo), opts)
	if err != nil {
		return nil, err
	}
	if list.Len() == 0 {
		return nil, fmt.Errorf("%s: mesh has no triangles", filename)
	}

	s := NewScene()
	s.Add(list.Primitives()...)
	s.FrameObjects()
	return s, nil
}
