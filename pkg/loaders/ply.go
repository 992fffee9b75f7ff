package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-meshtrace/pkg/core"
)

const (
	// maxPreallocate caps slice capacity taken from header counts. Larger
	// meshes still load, growing by append.
	maxPreallocate = 1 << 20
	// maxPLYListLength bounds a single list property such as a face
	maxPLYListLength = 1 << 16
)

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYElement is one element block of the header, such as vertex or face
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string
	Elements []PLYElement
}

// LoadPLY reads a PLY file from disk
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY reads vertex positions, optional vertex normals and faces from a
// PLY stream in any of the three standard encodings. Faces with more than
// three corners are fan-triangulated. Unknown elements and properties are skipped.
func ReadPLY(r io.Reader) (*MeshData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "binary_little_endian":
		values = &plyBinaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{reader: reader, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	data := &MeshData{}
	var faceCorners [][]int
	hasNormals := false

	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			hasNormals = plyHasNormals(element.Props)
			if err := readPLYVertices(values, element, data, hasNormals); err != nil {
				return nil, err
			}
		case "face":
			faceCorners, err = readPLYFaces(values, element)
			if err != nil {
				return nil, err
			}
		default:
			if err := skipPLYElement(values, element); err != nil {
				return nil, err
			}
		}
	}

	for i, corners := range faceCorners {
		for j, index := range corners {
			if _, err := resolveIndex(index, len(data.Positions), false); err != nil {
				return nil, fmt.Errorf("face %d corner %d: %w", i, j, err)
			}
		}
		for k := 1; k+1 < len(corners); k++ {
			tri := MeshTriangle{
				V: [3]int{corners[0], corners[k], corners[k+1]},
				N: [3]int{-1, -1, -1},
			}
			if hasNormals {
				tri.N = tri.V
			}
			data.Triangles = append(data.Triangles, tri)
		}
	}

	return data, nil
}

// parsePLYHeader consumes the header through end_header, leaving the
// reader positioned at the first body byte
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	first := true
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", err)
		}
		line = strings.TrimSpace(line)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}

	if getTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("unsupported data type: %s", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func plyHasNormals(props []PLYProperty) bool {
	found := 0
	for _, prop := range props {
		switch prop.Name {
		case "nx", "ny", "nz":
			found++
		}
	}
	return found == 3
}

func readPLYVertices(values plyValueReader, element PLYElement, data *MeshData, hasNormals bool) error {
	capacity := min(element.Count, maxPreallocate)
	data.Positions = make([]core.Vec3, 0, capacity)
	if hasNormals {
		data.Normals = make([]core.Vec3, 0, capacity)
	}

	for i := 0; i < element.Count; i++ {
		var position, normal core.Vec3
		for _, prop := range element.Props {
			if prop.IsList {
				if _, err := readPLYList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}

			value, err := values.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				position.X = value
			case "y":
				position.Y = value
			case "z":
				position.Z = value
			case "nx":
				normal.X = value
			case "ny":
				normal.Y = value
			case "nz":
				normal.Z = value
			}
		}

		data.Positions = append(data.Positions, position)
		if hasNormals {
			data.Normals = append(data.Normals, normal)
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, element PLYElement) ([][]int, error) {
	faces := make([][]int, 0, min(element.Count, maxPreallocate))

	for i := 0; i < element.Count; i++ {
		var corners []int
		for _, prop := range element.Props {
			if !prop.IsList {
				if _, err := values.scalar(prop.Type); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			list, err := readPLYList(values, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(list) < 3 {
				return nil, fmt.Errorf("face %d has %d vertices, need at least 3", i, len(list))
			}
			corners = make([]int, len(list))
			for j, value := range list {
				corners[j] = int(value)
			}
		}

		if corners == nil {
			return nil, fmt.Errorf("face %d has no vertex_indices", i)
		}
		faces = append(faces, corners)
	}

	return faces, nil
}

func skipPLYElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			var err error
			if prop.IsList {
				_, err = readPLYList(values, prop)
			} else {
				_, err = values.scalar(prop.Type)
			}
			if err != nil {
				return fmt.Errorf("failed to skip %s %d property %s: %w", element.Name, i, prop.Name, err)
			}
		}
	}
	return nil
}

func readPLYList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.scalar(prop.ListType)
	if err != nil {
		return nil, fmt.Errorf("list %s count: %w", prop.Name, err)
	}
	if count < 0 || count != math.Trunc(count) {
		return nil, fmt.Errorf("list %s has invalid count %v", prop.Name, count)
	}
	if count > maxPLYListLength {
		return nil, fmt.Errorf("list %s has %v items, limit is %d", prop.Name, count, maxPLYListLength)
	}

	list := make([]float64, int(count))
	for i := range list {
		if list[i], err = values.scalar(prop.DataType); err != nil {
			return nil, fmt.Errorf("list %s item %d: %w", prop.Name, i, err)
		}
	}
	return list, nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader decodes one scalar of the named PLY type from the body
type plyValueReader interface {
	scalar(dataType string) (float64, error)
}

type plyBinaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *plyBinaryReader) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.reader, raw); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "char", "int8":
		return float64(int8(raw[0])), nil
	default:
		return float64(raw[0]), nil
	}
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (a *plyASCIIReader) scalar(dataType string) (float64, error) {
	if getTypeSize(dataType) == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", a.scanner.Text())
	}
	return value, nil
}
