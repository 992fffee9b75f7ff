package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/geometry"
	"github.com/df07/go-meshtrace/pkg/loaders"
	"github.com/df07/go-meshtrace/pkg/material"
	"github.com/df07/go-meshtrace/pkg/renderer"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of a scene
type Manifest struct {
	Render  RenderManifest   `yaml:"render"`
	Camera  *CameraManifest  `yaml:"camera"`
	Meshes  []MeshManifest   `yaml:"meshes"`
	Spheres []SphereManifest `yaml:"spheres"`
}

// RenderManifest overrides renderer defaults; zero values keep the default
type RenderManifest struct {
	Width   int   `yaml:"width"`
	Height  int   `yaml:"height"`
	Samples int   `yaml:"samples"`
	Workers int   `yaml:"workers"`
	Seed    int64 `yaml:"seed"`
}

// CameraManifest replaces automatic framing
type CameraManifest struct {
	Center []float64 `yaml:"center"`
	LookAt []float64 `yaml:"look_at"`
	Up     []float64 `yaml:"up"`
	VFov   float64   `yaml:"vfov"`
}

// MeshManifest references an OBJ or PLY file
type MeshManifest struct {
	Path      string           `yaml:"path"`
	Albedo    []float64        `yaml:"albedo"`
	Checker   *CheckerManifest `yaml:"checker"`
	Scale     float64          `yaml:"scale"`
	Translate []float64        `yaml:"translate"`
	Flat      bool             `yaml:"flat"`
}

// CheckerManifest gives a mesh or sphere a 3D checker pattern
type CheckerManifest struct {
	Scale float64   `yaml:"scale"`
	Even  []float64 `yaml:"even"`
	Odd   []float64 `yaml:"odd"`
}

// SphereManifest is an analytic sphere
type SphereManifest struct {
	Center  []float64        `yaml:"center"`
	Radius  float64          `yaml:"radius"`
	Albedo  []float64        `yaml:"albedo"`
	Checker *CheckerManifest `yaml:"checker"`
}

var defaultAlbedo = core.NewVec3(0.8, 0.8, 0.0)

// ParseManifest decodes and validates manifest YAML
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for values that cannot build a scene
func (m *Manifest) Validate() error {
	if len(m.Meshes) == 0 && len(m.Spheres) == 0 {
		return fmt.Errorf("manifest has no meshes and no spheres")
	}

	for i, mesh := range m.Meshes {
		if mesh.Path == "" {
			return fmt.Errorf("meshes[%d]: path is required", i)
		}
		if err := checkVec3(fmt.Sprintf("meshes[%d].albedo", i), mesh.Albedo, true); err != nil {
			return err
		}
		if err := checkVec3(fmt.Sprintf("meshes[%d].translate", i), mesh.Translate, true); err != nil {
			return err
		}
		if err := mesh.Checker.validate(fmt.Sprintf("meshes[%d].checker", i)); err != nil {
			return err
		}
	}

	for i, sphere := range m.Spheres {
		if err := checkVec3(fmt.Sprintf("spheres[%d].center", i), sphere.Center, false); err != nil {
			return err
		}
		if sphere.Radius <= 0 {
			return fmt.Errorf("spheres[%d]: radius must be positive, got %v", i, sphere.Radius)
		}
		if err := checkVec3(fmt.Sprintf("spheres[%d].albedo", i), sphere.Albedo, true); err != nil {
			return err
		}
		if err := sphere.Checker.validate(fmt.Sprintf("spheres[%d].checker", i)); err != nil {
			return err
		}
	}

	if m.Camera != nil {
		if err := checkVec3("camera.center", m.Camera.Center, false); err != nil {
			return err
		}
		if err := checkVec3("camera.look_at", m.Camera.LookAt, false); err != nil {
			return err
		}
		if err := checkVec3("camera.up", m.Camera.Up, true); err != nil {
			return err
		}
		if m.Camera.VFov < 0 || m.Camera.VFov >= 180 {
			return fmt.Errorf("camera.vfov must be in [0, 180), got %v", m.Camera.VFov)
		}
		if err := m.Camera.config().Validate(); err != nil {
			return fmt.Errorf("camera: %w", err)
		}
	}

	r := m.Render
	if r.Width < 0 || r.Height < 0 || r.Samples < 0 || r.Workers < 0 {
		return fmt.Errorf("render settings must not be negative")
	}
	return nil
}

// config converts the manifest camera, defaulting up to +Y and vfov to 40
func (c *CameraManifest) config() renderer.CameraConfig {
	vfov := c.VFov
	if vfov == 0 {
		vfov = 40.0
	}
	return renderer.CameraConfig{
		Center: toVec3(c.Center, core.Vec3{}),
		LookAt: toVec3(c.LookAt, core.Vec3{}),
		Up:     toVec3(c.Up, core.NewVec3(0, 1, 0)),
		VFov:   vfov,
	}
}

func (c *CheckerManifest) validate(field string) error {
	if c == nil {
		return nil
	}
	if c.Scale <= 0 {
		return fmt.Errorf("%s.scale must be positive, got %v", field, c.Scale)
	}
	if err := checkVec3(field+".even", c.Even, false); err != nil {
		return err
	}
	return checkVec3(field+".odd", c.Odd, false)
}

func checkVec3(field string, values []float64, optional bool) error {
	if len(values) == 0 && optional {
		return nil
	}
	if len(values) != 3 {
		return fmt.Errorf("%s must have 3 components, got %d", field, len(values))
	}
	return nil
}

func toVec3(values []float64, fallback core.Vec3) core.Vec3 {
	if len(values) != 3 {
		return fallback
	}
	return core.NewVec3(values[0], values[1], values[2])
}

func buildMaterial(albedo []float64, checker *CheckerManifest) material.Material {
	if checker != nil {
		return material.NewTexturedLambertian(
			material.NewChecker(checker.Scale, toVec3(checker.Even, core.Vec3{}), toVec3(checker.Odd, core.Vec3{})))
	}
	return material.NewLambertian(toVec3(albedo, defaultAlbedo))
}

// LoadManifest reads a manifest file and builds its scene. Mesh paths are
// resolved relative to the manifest's directory.
func LoadManifest(filename string) (*Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return m.Build(filepath.Dir(filename))
}

// Build loads every mesh, adds the spheres and applies camera and render
// settings. baseDir anchors relative mesh paths.
func (m *Manifest) Build(baseDir string) (*Scene, error) {
	s := NewScene()

	for i, mesh := range m.Meshes {
		path := mesh.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		opts := loaders.MeshOptions{
			Scale:       mesh.Scale,
			Translate:   toVec3(mesh.Translate, core.Vec3{}),
			FlatShading: mesh.Flat,
		}
		list, err := loaders.LoadMesh(path, buildMaterial(mesh.Albedo, mesh.Checker), opts)
		if err != nil {
			return nil, fmt.Errorf("meshes[%d]: %w", i, err)
		}
		s.Add(list.Primitives()...)
	}

	for _, sphere := range m.Spheres {
		s.Add(geometry.NewSphere(toVec3(sphere.Center, core.Vec3{}), sphere.Radius,
			buildMaterial(sphere.Albedo, sphere.Checker)))
	}

	m.applyRender(s)

	if s.Objects.Len() == 0 {
		return nil, fmt.Errorf("scene has no objects after loading")
	}

	if m.Camera != nil {
		s.CameraConfig = m.Camera.config()
		s.CameraConfig.AspectRatio = s.Config.AspectRatio()
	} else {
		s.FrameObjects()
	}

	logger.Infof("scene has %d objects", s.Objects.Len())
	return s, nil
}

func (m *Manifest) applyRender(s *Scene) {
	r := m.Render
	if r.Width > 0 {
		s.Config.Width = r.Width
	}
	if r.Height > 0 {
		s.Config.Height = r.Height
	}
	if r.Samples > 0 {
		s.Config.SamplesPerPixel = r.Samples
	}
	if r.Workers > 0 {
		s.Config.NumWorkers = r.Workers
	}
	if r.Seed != 0 {
		s.Config.Seed = r.Seed
	}
}
