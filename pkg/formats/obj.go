// Package formats provides readers and writers for the mesh pipeline's
// file formats: Wavefront OBJ (plain or gzip-compressed), binvox voxel
// grids, and occupancy point archives.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/buildingnet/meshprep/pkg/geom"
	"github.com/buildingnet/meshprep/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedVertex = errors.New("malformed vertex line")
	ErrMalformedFace   = errors.New("malformed face line")
	ErrFaceIndex       = errors.New("face index out of range")
)

// ReadOBJ reads a mesh from an OBJ file. Paths ending in ".gz" are
// decompressed transparently.
func ReadOBJ(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	m, err := ParseOBJ(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ parses OBJ data from r. Only vertex positions and faces are
// kept; texture coordinates, normals, and grouping directives are
// skipped. Faces with more than three corners are fan-triangulated.
func ParseOBJ(r io.Reader) (*mesh.Mesh, error) {
	m := &mesh.Mesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) < 2 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedVertex)
			}
			var p geom.Vec3
			var err error
			if p.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedVertex)
			}
			if p.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedVertex)
			}
			if p.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedVertex)
			}
			m.Vertices = append(m.Vertices, p)
		case "f":
			args := fields[1:]
			if len(args) < 3 {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedFace)
			}
			idx := make([]int, len(args))
			for i, arg := range args {
				v, err := parseFaceIndex(arg, len(m.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx[i] = v
			}
			for i := 1; i < len(idx)-1; i++ {
				m.Triangles = append(m.Triangles, mesh.Triangle{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseFaceIndex parses the vertex reference of one face corner
// ("v", "v/vt", "v//vn", or "v/vt/vn") into a zero-based index.
// Negative OBJ indices count back from the current vertex count.
func parseFaceIndex(arg string, nVertices int) (int, error) {
	ref := arg
	if i := strings.IndexByte(arg, '/'); i >= 0 {
		ref = arg[:i]
	}
	v, err := strconv.Atoi(ref)
	if err != nil {
		return 0, ErrMalformedFace
	}
	if v < 0 {
		v += nVertices
	} else {
		v--
	}
	if v < 0 || v >= nVertices {
		return 0, fmt.Errorf("index %s with %d vertices: %w", ref, nVertices, ErrFaceIndex)
	}
	return v, nil
}

// WriteOBJ writes the mesh to path in OBJ format. Paths ending in
// ".gz" are gzip-compressed.
func WriteOBJ(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}

	if err := EncodeOBJ(w, m); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return f.Close()
}

// EncodeOBJ writes the mesh to w in OBJ format.
func EncodeOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for _, t := range m.Triangles {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}
