package readfiles

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
)

/*
ReadOFF reads an Object File Format mesh:

	OFF
	nVertices nFaces nEdges
	x y z            (nVertices lines)
	3 i j k          (nFaces lines, 0-based)

The header keyword may carry the C/N/ST prefixes, extra per-vertex and per-face columns (colors,
normals) are ignored. Only triangles are accepted.
*/
func ReadOFF(r io.Reader) (tm *mesh.TriMesh, err error) {
	var (
		lr             = newLineReader(r)
		line           string
		nVerts, nFaces int
	)
	if line, err = lr.getDataLine("#"); err != nil {
		return nil, lr.early(err, "header")
	}
	if strings.HasSuffix(strings.Fields(line)[0], "OFF") {
		// The counts may follow the keyword on the same line
		if rest := strings.TrimSpace(line[strings.Index(line, "OFF")+3:]); len(rest) != 0 {
			line = rest
		} else if line, err = lr.getDataLine("#"); err != nil {
			return nil, lr.early(err, "element counts")
		}
	}
	if _, err = fmt.Sscanf(line, "%d %d", &nVerts, &nFaces); err != nil {
		return nil, lr.errorf("unable to read element counts from [%s]", line)
	}
	if nVerts < 0 || nFaces < 0 {
		return nil, lr.errorf("negative element counts in [%s]", line)
	}
	verts := make([]r3.Vector, nVerts)
	for i := range verts {
		if line, err = lr.getDataLine("#"); err != nil {
			return nil, lr.early(err, "vertices")
		}
		var v r3.Vector
		if _, err = fmt.Sscanf(line, "%g %g %g", &v.X, &v.Y, &v.Z); err != nil {
			return nil, lr.errorf("unable to read vertex %d from [%s]", i, line)
		}
		verts[i] = v
	}
	faces := make([][3]int, nFaces)
	for f := range faces {
		if line, err = lr.getDataLine("#"); err != nil {
			return nil, lr.early(err, "faces")
		}
		var n int
		if _, err = fmt.Sscanf(line, "%d", &n); err != nil {
			return nil, lr.errorf("unable to read face %d from [%s]", f, line)
		}
		if n != 3 {
			return nil, lr.errorf("face %d has %d vertices, only triangles are supported", f, n)
		}
		face := &faces[f]
		if _, err = fmt.Sscanf(line, "%d %d %d %d", &n, &face[0], &face[1], &face[2]); err != nil {
			return nil, lr.errorf("unable to read face %d from [%s]", f, line)
		}
	}
	return mesh.NewTriMesh(verts, faces)
}
