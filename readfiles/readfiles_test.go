package readfiles

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tetOFF = `OFF
# regular tetrahedron
4 4 6
1 1 1
1 -1 -1
-1 1 -1
-1 -1 1
3 0 1 2
3 0 3 1
3 0 2 3 255 0 0
3 1 3 2
`

var tetOBJ = `# regular tetrahedron
o tet
v 1 1 1
v 1 -1 -1
v -1 1 -1
v -1 -1 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1//1 4//1 2//1
f 1 3 4
f -3 -1 -2
`

func TestReadOFF(t *testing.T) {
	{ // Header and counts on separate lines
		tm, err := ReadOFF(strings.NewReader(tetOFF))
		require.NoError(t, err)
		assert.Equal(t, mesh.Tetrahedron().Vertices, tm.Vertices)
		assert.Equal(t, mesh.Tetrahedron().Faces, tm.Faces)
		assert.True(t, tm.IsClosed())
	}
	{ // Counts on the header line
		txt := strings.Replace(tetOFF, "OFF\n# regular tetrahedron\n4 4 6", "OFF 4 4 6", 1)
		tm, err := ReadOFF(strings.NewReader(txt))
		require.NoError(t, err)
		assert.Equal(t, 4, tm.NumFaces())
	}
	{ // Polygons are rejected
		txt := strings.Replace(tetOFF, "3 1 3 2", "4 1 3 2 0", 1)
		_, err := ReadOFF(strings.NewReader(txt))
		assert.True(t, errors.Is(err, ErrMalformed))
		assert.Contains(t, err.Error(), "line 11")
	}
	{ // Missing faces
		txt := strings.Replace(tetOFF, "3 1 3 2\n", "", 1)
		_, err := ReadOFF(strings.NewReader(txt))
		assert.True(t, errors.Is(err, ErrMalformed))
	}
	{ // Out of range face index
		txt := strings.Replace(tetOFF, "3 1 3 2", "3 1 3 7", 1)
		_, err := ReadOFF(strings.NewReader(txt))
		assert.True(t, errors.Is(err, mesh.ErrIndexOutOfRange))
	}
	{ // Negative counts are malformed, not an allocation failure
		for _, counts := range []string{"-4 4 6", "4 -4 6"} {
			txt := strings.Replace(tetOFF, "4 4 6", counts, 1)
			var err error
			assert.NotPanics(t, func() { _, err = ReadOFF(strings.NewReader(txt)) })
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Contains(t, err.Error(), "negative element counts")
		}
	}
}

func TestReadOBJ(t *testing.T) {
	{
		tm, err := ReadOBJ(strings.NewReader(tetOBJ))
		require.NoError(t, err)
		assert.Equal(t, mesh.Tetrahedron().Vertices, tm.Vertices)
		assert.Equal(t, mesh.Tetrahedron().Faces, tm.Faces)
	}
	{ // Quads are rejected
		_, err := ReadOBJ(strings.NewReader(tetOBJ + "f 1 2 3 4\n"))
		assert.True(t, errors.Is(err, ErrMalformed))
	}
	{ // Index 0 does not exist in OBJ
		_, err := ReadOBJ(strings.NewReader(tetOBJ + "f 0 1 2\n"))
		assert.True(t, errors.Is(err, ErrMalformed))
	}
	{ // No faces at all
		_, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\n"))
		assert.True(t, errors.Is(err, mesh.ErrEmptyMesh))
	}
}

var squareNeu = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
unit square
PROGRAM:                Gambit     VERSION:  2.4.6
Sat Jun  7 21:41:35 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         4         2         1         0         2         2
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00
         3   1.00000000000e+00   1.00000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
         2         3         3         1         3         4
         1         3         3         1         2         3
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:           2 MATERIAL:      1.000 NFLAGS:          0
                  epsilon: 1.000
         0
         1         2
ENDOFSECTION
`

func TestReadGambit(t *testing.T) {
	{ // Planar, listed out of order
		tm, err := ReadGambit(strings.NewReader(squareNeu))
		require.NoError(t, err)
		assert.Equal(t, 4, tm.NumVertices())
		assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, tm.Faces)
		assert.Equal(t, r3.Vector{X: 1, Y: 1}, tm.Vertices[2])
		assert.Equal(t, r3.Vector{Y: 1}, tm.Vertices[3])
		assert.Equal(t, 4, len(tm.Edges().Boundary()))
	}
	{ // A surface in space
		txt := strings.Replace(squareNeu, "2         2\n", "3         3\n", 1)
		txt = strings.Replace(txt, "1.00000000000e+00   1.00000000000e+00\n", "1.00000000000e+00   1.00000000000e+00   2.5\n", 1)
		for _, pair := range [][2]string{
			{"0.00000000000e+00   0.00000000000e+00\n", "0.00000000000e+00   0.00000000000e+00   0\n"},
			{"1.00000000000e+00   0.00000000000e+00\n", "1.00000000000e+00   0.00000000000e+00   0\n"},
			{"0.00000000000e+00   1.00000000000e+00\n", "0.00000000000e+00   1.00000000000e+00   0\n"},
		} {
			txt = strings.Replace(txt, pair[0], pair[1], 1)
		}
		tm, err := ReadGambit(strings.NewReader(txt))
		require.NoError(t, err)
		assert.Equal(t, r3.Vector{X: 1, Y: 1, Z: 2.5}, tm.Vertices[2])
	}
	{ // Tetrahedra are rejected
		txt := strings.Replace(squareNeu, "2         3         3         1         3         4",
			"2         6         4         1         3         4         2", 1)
		_, err := ReadGambit(strings.NewReader(txt))
		assert.True(t, errors.Is(err, ErrMalformed))
		assert.Contains(t, err.Error(), "only triangles")
	}
	{
		txt := strings.Replace(squareNeu, "         0         2         2\n", "         0         4         4\n", 1)
		_, err := ReadGambit(strings.NewReader(txt))
		assert.True(t, errors.Is(err, ErrMalformed))
		assert.Contains(t, err.Error(), "space dimensions")
		_, err = ReadGambit(strings.NewReader(squareNeu[:strings.Index(squareNeu, "         3   1.0")]))
		assert.True(t, errors.Is(err, ErrMalformed))
		assert.Contains(t, err.Error(), "early end of file")
		txt = strings.Replace(squareNeu, "         1         3         3         1         2         3",
			"         1         3         3         1         2         5", 1)
		_, err = ReadGambit(strings.NewReader(txt))
		assert.True(t, errors.Is(err, mesh.ErrIndexOutOfRange))
	}
	{ // Negative counts
		txt := strings.Replace(squareNeu, "         4         2         1", "        -4         2         1", 1)
		var err error
		assert.NotPanics(t, func() { _, err = ReadGambit(strings.NewReader(txt)) })
		assert.True(t, errors.Is(err, ErrMalformed))
		assert.Contains(t, err.Error(), "negative node or element count")
	}
}

func TestReadMesh(t *testing.T) {
	dir := t.TempDir()
	{ // Extension dispatch, case insensitive
		path := filepath.Join(dir, "tet.OFF")
		require.NoError(t, os.WriteFile(path, []byte(tetOFF), 0644))
		tm, err := ReadMesh(path)
		require.NoError(t, err)
		assert.Equal(t, 4, tm.NumVertices())
	}
	{
		path := filepath.Join(dir, "tet.obj")
		require.NoError(t, os.WriteFile(path, []byte(tetOBJ), 0644))
		tm, err := ReadMesh(path)
		require.NoError(t, err)
		assert.Equal(t, 4, tm.NumFaces())
	}
	{
		path := filepath.Join(dir, "grid.su2")
		require.NoError(t, os.WriteFile(path, inputFile, 0644))
		tm, err := ReadMesh(path)
		require.NoError(t, err)
		assert.Equal(t, 22, tm.NumFaces())
	}
	{
		path := filepath.Join(dir, "square.neu")
		require.NoError(t, os.WriteFile(path, []byte(squareNeu), 0644))
		tm, err := ReadMesh(path)
		require.NoError(t, err)
		assert.Equal(t, 2, tm.NumFaces())
	}
	{
		_, err := ReadMesh(filepath.Join(dir, "tet.stl"))
		assert.True(t, errors.Is(err, ErrUnknownFormat))
		_, err = ReadMesh(filepath.Join(dir, "missing.off"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	}
	{ // Builtin meshes
		tm, err := ReadMesh("builtin:icosphere:1")
		require.NoError(t, err)
		assert.Equal(t, 42, tm.NumVertices())
		assert.Equal(t, 80, tm.NumFaces())
		tm, err = ReadMesh("builtin:icosphere")
		require.NoError(t, err)
		assert.Equal(t, 162, tm.NumVertices())
		tm, err = ReadMesh("builtin:grid:4")
		require.NoError(t, err)
		assert.Equal(t, 25, tm.NumVertices())
		assert.Equal(t, 32, tm.NumFaces())
		tm, err = ReadMesh("builtin:triangle")
		require.NoError(t, err)
		assert.Equal(t, 1, tm.NumFaces())
		tm, err = ReadMesh("builtin:tetrahedron")
		require.NoError(t, err)
		assert.Equal(t, 4, tm.NumFaces())
		for _, name := range []string{"builtin:torus", "builtin:grid:0", "builtin:grid:x", "builtin:grid:2:3"} {
			_, err = ReadMesh(name)
			assert.True(t, errors.Is(err, ErrUnknownFormat), name)
		}
	}
}

func TestWriters(t *testing.T) {
	var (
		tm = mesh.EquilateralTriangle(1)
		d  = utils.NewVector(3, []float64{0, 0.5, math.Inf(1)})
	)
	{
		var buf bytes.Buffer
		require.NoError(t, WriteDistances(&buf, d))
		assert.Equal(t, "0\n0.5\n+Inf\n", buf.String())
	}
	{
		var buf bytes.Buffer
		require.NoError(t, WriteVTK(&buf, tm, d, "geodesic distance"))
		txt := buf.String()
		assert.True(t, strings.HasPrefix(txt, "# vtk DataFile Version 3.0\n"))
		assert.Contains(t, txt, "POINTS 3 double\n")
		assert.Contains(t, txt, "POLYGONS 1 4\n3 0 1 2\n")
		assert.Contains(t, txt, "SCALARS geodesic_distance double 1\n")
		assert.True(t, strings.HasSuffix(txt, "0\n0.5\n-1\n"))
	}
	{ // Wrong field length
		var buf bytes.Buffer
		err := WriteVTK(&buf, tm, utils.NewVector(2), "d")
		assert.True(t, errors.Is(err, utils.ErrDimensionMismatch))
	}
	{ // A mesh written as OFF by hand reads back identically
		var (
			buf bytes.Buffer
			ico = mesh.Icosahedron()
		)
		fmt.Fprintf(&buf, "OFF\n%d %d 0\n", ico.NumVertices(), ico.NumFaces())
		for _, v := range ico.Vertices {
			fmt.Fprintf(&buf, "%.17g %.17g %.17g\n", v.X, v.Y, v.Z)
		}
		for _, f := range ico.Faces {
			fmt.Fprintf(&buf, "3 %d %d %d\n", f[0], f[1], f[2])
		}
		tm2, err := ReadOFF(&buf)
		require.NoError(t, err)
		assert.Equal(t, ico.Faces, tm2.Faces)
		assert.Equal(t, ico.Vertices, tm2.Vertices)
	}
}
