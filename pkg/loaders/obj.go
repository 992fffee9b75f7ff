package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-meshtrace/pkg/core"
)

// LoadOBJ reads a Wavefront OBJ file from disk
func LoadOBJ(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads vertex positions, vertex normals and faces from OBJ text.
// Polygons are fan-triangulated. Texture coordinates, groups, smoothing
// groups and material statements are accepted and ignored.
func ParseOBJ(r io.Reader) (*MeshData, error) {
	data := &MeshData{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			var p core.Vec3
			p, err = parseOBJVector(fields[1:])
			data.Positions = append(data.Positions, p)
		case "vn":
			var n core.Vec3
			n, err = parseOBJVector(fields[1:])
			data.Normals = append(data.Normals, n)
		case "f":
			err = parseOBJFace(data, fields[1:])
		case "vt", "vp", "o", "g", "s", "usemtl", "mtllib", "l":
			// not needed for intersection
		default:
			logger.Debugf("line %d: ignoring unknown statement %q", lineNumber, fields[0])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	return data, nil
}

// parseOBJVector parses the first three numbers of a v or vn statement.
// A fourth homogeneous coordinate is tolerated and ignored.
func parseOBJVector(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid coordinate %q: %w", fields[i], err)
		}
		xyz[i] = value
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// parseOBJFace resolves every corner of an f statement and appends a
// triangle fan anchored at the first corner
func parseOBJFace(data *MeshData, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}

	vertexIndices := make([]int, len(fields))
	normalIndices := make([]int, len(fields))
	for i, field := range fields {
		v, n, err := parseOBJCorner(field, len(data.Positions), len(data.Normals))
		if err != nil {
			return err
		}
		vertexIndices[i] = v
		normalIndices[i] = n
	}

	for i := 1; i+1 < len(fields); i++ {
		data.Triangles = append(data.Triangles, MeshTriangle{
			V: [3]int{vertexIndices[0], vertexIndices[i], vertexIndices[i+1]},
			N: [3]int{normalIndices[0], normalIndices[i], normalIndices[i+1]},
		})
	}
	return nil
}

// parseOBJCorner parses v, v/vt, v//vn or v/vt/vn into zero-based position
// and normal indices. The normal index is -1 when absent.
func parseOBJCorner(field string, positionCount, normalCount int) (int, int, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 || parts[0] == "" {
		return 0, 0, fmt.Errorf("malformed face vertex %q", field)
	}

	v, err := parseOBJIndex(parts[0], positionCount)
	if err != nil {
		return 0, 0, fmt.Errorf("vertex %q: %w", field, err)
	}

	n := -1
	if len(parts) == 3 && parts[2] != "" {
		n, err = parseOBJIndex(parts[2], normalCount)
		if err != nil {
			return 0, 0, fmt.Errorf("normal %q: %w", field, err)
		}
	}
	return v, n, nil
}

// parseOBJIndex converts a 1-based or negative OBJ index to zero-based
func parseOBJIndex(token string, count int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", token)
	}
	if index == 0 {
		return 0, fmt.Errorf("index 0 is not valid in OBJ")
	}
	if index > 0 {
		index--
	}
	return resolveIndex(index, count, true)
}
