package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestPLY builds a binary PLY square made of two triangles
func createTestPLY(t *testing.T, order binary.ByteOrder, includeNormals bool) []byte {
	t.Helper()
	var buf bytes.Buffer

	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}

	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("comment generated for tests\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}
	buf.WriteString("property uchar red\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for _, v := range vertices {
		require.NoError(t, binary.Write(&buf, order, v))
		if includeNormals {
			require.NoError(t, binary.Write(&buf, order, [3]float32{0, 0, 1}))
		}
		require.NoError(t, binary.Write(&buf, order, uint8(200)))
	}

	faces := [][3]int32{{0, 1, 2}, {0, 2, 3}}
	for _, f := range faces {
		require.NoError(t, binary.Write(&buf, order, uint8(3)))
		require.NoError(t, binary.Write(&buf, order, f))
	}

	return buf.Bytes()
}

func TestReadPLY_BinaryLittleEndian(t *testing.T) {
	data, err := ReadPLY(bytes.NewReader(createTestPLY(t, binary.LittleEndian, false)))
	require.NoError(t, err)

	require.Len(t, data.Positions, 4)
	assert.Equal(t, core.NewVec3(1, 1, 0), data.Positions[2])
	assert.Empty(t, data.Normals)

	require.Len(t, data.Triangles, 2)
	assert.Equal(t, [3]int{0, 2, 3}, data.Triangles[1].V)
	assert.False(t, data.Triangles[0].HasNormals())
}

func TestReadPLY_BinaryBigEndianWithNormals(t *testing.T) {
	data, err := ReadPLY(bytes.NewReader(createTestPLY(t, binary.BigEndian, true)))
	require.NoError(t, err)

	require.Len(t, data.Positions, 4)
	require.Len(t, data.Normals, 4)
	assert.Equal(t, core.NewVec3(0, 1, 0), data.Positions[3])
	assert.Equal(t, core.NewVec3(0, 0, 1), data.Normals[0])

	require.Len(t, data.Triangles, 2)
	assert.True(t, data.Triangles[0].HasNormals())
	assert.Equal(t, data.Triangles[0].V, data.Triangles[0].N)
}

func TestReadPLY_ASCIIWithQuadAndExtraElement(t *testing.T) {
	input := `ply
format ascii 1.0
element vertex 4
property double x
property double y
property double z
element face 1
property list uchar uint vertex_index
element edge 1
property int vertex1
property int vertex2
end_header
0 0 0
2 0 0
2 2 0
0 2 0
4 0 1 2 3
0 1
`
	data, err := ReadPLY(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, data.Positions, 4)
	require.Len(t, data.Triangles, 2, "quad is fan-triangulated")
	assert.Equal(t, [3]int{0, 1, 2}, data.Triangles[0].V)
	assert.Equal(t, [3]int{0, 2, 3}, data.Triangles[1].V)
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Missing magic",
			input: "format ascii 1.0\nend_header\n",
			want:  "magic",
		},
		{
			name:  "Unsupported format",
			input: "ply\nformat binary_middle_endian 1.0\nend_header\n",
			want:  "unsupported PLY format",
		},
		{
			name:  "Truncated header",
			input: "ply\nformat ascii 1.0\nelement vertex 1\n",
			want:  "end_header",
		},
		{
			name: "Index out of range",
			input: "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
				"element face 1\nproperty list uchar int vertex_indices\nend_header\n" +
				"0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n",
			want: "out of range",
		},
		{
			name: "Truncated body",
			input: "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\n" +
				"end_header\n0 0 0\n1 0\n",
			want: "vertex 1",
		},
		{
			name: "Huge vertex count with short body",
			input: "ply\nformat ascii 1.0\nelement vertex 4000000000000\nproperty float x\nproperty float y\nproperty float z\n" +
				"end_header\n0 0 0\n",
			want: "vertex 1",
		},
		{
			name: "Huge face list count",
			input: "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
				"element face 1\nproperty list uint int vertex_indices\nend_header\n" +
				"0 0 0\n1 0 0\n0 1 0\n4000000000 0 1 2\n",
			want: "limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPLY_FromDisk(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "square.ply")
	require.NoError(t, os.WriteFile(filename, createTestPLY(t, binary.LittleEndian, true), 0o644))

	data, err := LoadPLY(filename)
	require.NoError(t, err)
	assert.Len(t, data.Triangles, 2)

	_, err = LoadPLY(filepath.Join(t.TempDir(), "missing.ply"))
	assert.Error(t, err)
}
