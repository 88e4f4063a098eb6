package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"
)

// WriteDistances writes one value per line in vertex order, unreachable vertices print as +Inf
func WriteDistances(w io.Writer, d utils.Vector) (err error) {
	bw := bufio.NewWriter(w)
	for _, val := range d.Data() {
		if _, err = fmt.Fprintf(bw, "%.16g\n", val); err != nil {
			return
		}
	}
	return bw.Flush()
}

/*
WriteVTK writes the mesh and a per-vertex scalar as a legacy ASCII VTK polydata file. Non-finite
values are written as -1 since legacy VTK readers reject Inf.
*/
func WriteVTK(w io.Writer, m *mesh.TriMesh, d utils.Vector, name string) (err error) {
	if d.Len() != m.NumVertices() {
		return fmt.Errorf("%w: field has %d values, mesh has %d vertices",
			utils.ErrDimensionMismatch, d.Len(), m.NumVertices())
	}
	if name = strings.Join(strings.Fields(name), "_"); len(name) == 0 {
		name = "distance"
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\ngeoheat %s\nASCII\nDATASET POLYDATA\n", name)
	fmt.Fprintf(bw, "POINTS %d double\n", m.NumVertices())
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "%.16g %.16g %.16g\n", v.X, v.Y, v.Z)
	}
	fmt.Fprintf(bw, "POLYGONS %d %d\n", m.NumFaces(), 4*m.NumFaces())
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	fmt.Fprintf(bw, "POINT_DATA %d\nSCALARS %s double 1\nLOOKUP_TABLE default\n", d.Len(), name)
	for _, val := range d.Data() {
		if math.IsInf(val, 0) || math.IsNaN(val) {
			val = -1
		}
		fmt.Fprintf(bw, "%.16g\n", val)
	}
	return bw.Flush()
}
