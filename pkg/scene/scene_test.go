package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/df07/go-meshtrace/pkg/loaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tetraOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

const cubeOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSphereScene(t *testing.T) {
	s := NewSphereScene()
	require.Equal(t, 3, s.Objects.Len())
	assert.Nil(t, s.BVH(), "no BVH before preprocessing")

	require.NoError(t, s.Preprocess())
	require.NotNil(t, s.BVH())

	// Looking at the red sphere center
	red := core.NewRay(core.Vec3{}, core.NewVec3(-0.5, 0, -2))
	hit, ok := s.World.Hit(red, core.NewInterval(0.001, math.Inf(1)))
	require.True(t, ok)
	albedo := hit.Material.Albedo(hit.Point)
	assert.InDelta(t, 1.0, albedo.X, 1e-9)
}

func TestScene_PreprocessEmpty(t *testing.T) {
	assert.Error(t, NewScene().Preprocess())
}

func TestScene_AddInvalidatesBVH(t *testing.T) {
	s := NewSphereScene()
	require.NoError(t, s.Preprocess())
	s.Add(NewSphereScene().Objects.Primitives()[0])
	assert.Nil(t, s.World)
}

func TestNewMeshScene(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cube.obj", cubeOBJ)

	s, err := NewMeshScene(path, core.NewVec3(0.8, 0.8, 0), loaders.DefaultMeshOptions())
	require.NoError(t, err)
	assert.Equal(t, 12, s.Objects.Len())
	lookAt := s.CameraConfig.LookAt
	assert.InDelta(t, 0.5, lookAt.X, 1e-3)
	assert.InDelta(t, 0.5, lookAt.Y, 1e-3)
	assert.InDelta(t, 0.5, lookAt.Z, 1e-3)

	require.NoError(t, s.Preprocess())
	camera := s.Camera()
	_, ok := s.World.Hit(camera.GetRay(0.5, 0.5), core.NewInterval(0.001, math.Inf(1)))
	assert.True(t, ok, "auto framed camera looks at the mesh")

	empty := writeFile(t, t.TempDir(), "empty.obj", "v 0 0 0\n")
	_, err = NewMeshScene(empty, core.Vec3{}, loaders.DefaultMeshOptions())
	assert.Error(t, err)
}
