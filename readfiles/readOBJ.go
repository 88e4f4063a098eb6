package readfiles

import (
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
)

/*
ReadOBJ reads the geometry of a Wavefront OBJ file: "v x y z" vertex lines and "f a b c" face lines.
Face corners may be written as v, v/vt, v//vn or v/vt/vn; indices are 1-based, negative indices count
back from the last vertex read. Every other statement is ignored. Only triangles are accepted.
*/
func ReadOBJ(r io.Reader) (tm *mesh.TriMesh, err error) {
	var (
		lr    = newLineReader(r)
		line  string
		verts []r3.Vector
		faces [][3]int
	)
	for {
		if line, err = lr.getDataLine("#"); err == io.EOF {
			break
		} else if err != nil {
			return
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, lr.errorf("vertex needs three coordinates, have [%s]", line)
			}
			var c [3]float64
			for n := 0; n < 3; n++ {
				if c[n], err = strconv.ParseFloat(fields[n+1], 64); err != nil {
					return nil, lr.errorf("bad coordinate %q", fields[n+1])
				}
			}
			verts = append(verts, r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			if len(fields) != 4 {
				return nil, lr.errorf("face has %d vertices, only triangles are supported", len(fields)-1)
			}
			var face [3]int
			for n := 0; n < 3; n++ {
				corner := fields[n+1]
				if slash := strings.IndexByte(corner, '/'); slash >= 0 {
					corner = corner[:slash]
				}
				var ind int
				if ind, err = strconv.Atoi(corner); err != nil || ind == 0 {
					return nil, lr.errorf("bad face index %q", fields[n+1])
				}
				if ind < 0 {
					face[n] = len(verts) + ind
				} else {
					face[n] = ind - 1
				}
			}
			faces = append(faces, face)
		}
	}
	return mesh.NewTriMesh(verts, faces)
}
