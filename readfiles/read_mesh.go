package readfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/geoheat/mesh"
)

const BuiltinPrefix = "builtin:"

// Readers maps a lower case file extension to its mesh reader
var Readers = map[string]func(io.Reader) (*mesh.TriMesh, error){
	".off": ReadOFF,
	".obj": ReadOBJ,
	".su2": ReadSU2,
	".neu": ReadGambit,
}

/*
ReadMesh loads a mesh from a file, choosing the reader by extension, or builds a procedural mesh
when the name starts with "builtin:":

	builtin:triangle         unit equilateral triangle
	builtin:tetrahedron      regular tetrahedron
	builtin:icosphere:L      unit sphere, icosahedron subdivided L times (default 2)
	builtin:grid:N           unit square with N cells per side (default 16)
*/
func ReadMesh(path string) (tm *mesh.TriMesh, err error) {
	if strings.HasPrefix(path, BuiltinPrefix) {
		return BuiltinMesh(strings.TrimPrefix(path, BuiltinPrefix))
	}
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := Readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q of %s", ErrUnknownFormat, ext, path)
	}
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if tm, err = reader(file); err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
	}
	return
}

func BuiltinMesh(name string) (tm *mesh.TriMesh, err error) {
	var (
		fields = strings.Split(name, ":")
		level  = -1
	)
	if len(fields) > 2 {
		return nil, fmt.Errorf("%w: builtin mesh %q", ErrUnknownFormat, name)
	}
	if len(fields) == 2 {
		if level, err = strconv.Atoi(fields[1]); err != nil || level < 0 {
			return nil, fmt.Errorf("%w: bad resolution in builtin mesh %q", ErrUnknownFormat, name)
		}
	}
	switch fields[0] {
	case "triangle":
		tm = mesh.EquilateralTriangle(1)
	case "tetrahedron":
		tm = mesh.Tetrahedron()
	case "icosphere":
		if level < 0 {
			level = 2
		}
		tm = mesh.Icosphere(level, 1)
	case "grid":
		if level < 0 {
			level = 16
		}
		if level < 1 {
			return nil, fmt.Errorf("%w: grid needs at least one cell, have %q", ErrUnknownFormat, name)
		}
		tm = mesh.PlanarGrid(level, 1)
	default:
		err = fmt.Errorf("%w: builtin mesh %q", ErrUnknownFormat, name)
	}
	return
}
