package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeOBJ = `# unit cube
mtllib cube.mtl
o cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vt 0 0
usemtl grey
s off
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
`

func TestParseOBJ_Cube(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader(cubeOBJ))
	require.NoError(t, err)

	assert.Len(t, data.Positions, 8)
	assert.Empty(t, data.Normals)
	require.Len(t, data.Triangles, 12, "six quads fan into twelve triangles")

	assert.Equal(t, [3]int{0, 3, 2}, data.Triangles[0].V)
	assert.Equal(t, [3]int{0, 2, 1}, data.Triangles[1].V)
	assert.Equal(t, [3]int{-1, -1, -1}, data.Triangles[0].N)
}

func TestParseOBJ_CornerFormats(t *testing.T) {
	input := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
vn 0 0 1
vn 0 0 1
f 1 2 3
f 1/1 2/2 3/3
f 1//1 2//2 3//3
f 1/1/1 2/2/2 3/3/3
f -3//-3 -2//-2 -1//-1
`
	data, err := ParseOBJ(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, data.Triangles, 5)

	for i, tri := range data.Triangles {
		assert.Equal(t, [3]int{0, 1, 2}, tri.V, "triangle %d", i)
	}
	assert.False(t, data.Triangles[0].HasNormals())
	assert.False(t, data.Triangles[1].HasNormals())
	assert.True(t, data.Triangles[2].HasNormals())
	assert.True(t, data.Triangles[3].HasNormals())
	assert.Equal(t, [3]int{0, 1, 2}, data.Triangles[4].N, "negative indices count back from the end")
}

func TestParseOBJ_MixedNormalsFallBackToFlat(t *testing.T) {
	input := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2 3\n"
	data, err := ParseOBJ(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, data.Triangles, 1)
	assert.False(t, data.Triangles[0].HasNormals())
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Vertex index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", "line 4"},
		{"Normal index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", "out of range"},
		{"Zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "index 0"},
		{"Too few corners", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
		{"Bad coordinate", "v 0 zero 0\n", "invalid coordinate"},
		{"Short vertex", "\n# comment\nv 1 2\n", "line 3"},
		{"Negative index too far back", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 -2 -1\n", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadOBJ_FromDisk(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, os.WriteFile(filename, []byte(cubeOBJ), 0o644))

	data, err := LoadOBJ(filename)
	require.NoError(t, err)
	assert.Len(t, data.Triangles, 12)

	broken := filepath.Join(t.TempDir(), "broken.obj")
	require.NoError(t, os.WriteFile(broken, []byte("f 1 2 3\n"), 0o644))
	_, err = LoadOBJ(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.obj")
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseOBJ_VertexValues(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader("v 1.5 -2 3e1 1.0\nvn 0 1 0\n"))
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(1.5, -2, 30), data.Positions[0])
	assert.Equal(t, core.NewVec3(0, 1, 0), data.Normals[0])
}
