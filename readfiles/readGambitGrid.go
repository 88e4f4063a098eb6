package readfiles

import (
	"fmt"
	"io"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
)

/*
ReadGambit reads the nodes and elements of a Gambit neutral file holding a triangle mesh, either
planar (NDFCD = 2) or a surface in space (NDFCD = 3):

	        CONTROL INFO 2.0.0
	** GAMBIT NEUTRAL FILE
	title
	PROGRAM:                Gambit     VERSION:  2.4.6
	date
	     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
	         4         2         1         0         2         2
	ENDOFSECTION
	   NODAL COORDINATES 2.0.0
	         1   0.00000000000e+00   0.00000000000e+00
	...
	ENDOFSECTION
	      ELEMENTS/CELLS 2.0.0
	         1         3         3         1         2         3
	...

Node and element indices are 1-based. Element groups and boundary sets after the element section
are not needed for distances and are not read.
*/
func ReadGambit(r io.Reader) (tm *mesh.TriMesh, err error) {
	var (
		lr                         = newLineReader(r)
		line                       string
		Nv, K, Nmats, Nbcs, Nsd, n int
	)
	// Skip first six lines
	if err = lr.skipLines(6); err != nil {
		return nil, lr.early(err, "header")
	}
	if line, err = lr.getLine(); err != nil {
		return nil, lr.early(err, "problem size")
	}
	if n, err = fmt.Sscanf(line, "%d %d %d %d %d", &Nv, &K, &Nmats, &Nbcs, &Nsd); err != nil || n < 5 {
		return nil, lr.errorf("unable to read problem size from [%s]", line)
	}
	if Nv < 0 || K < 0 {
		return nil, lr.errorf("negative node or element count in [%s]", line)
	}
	if Nsd < 2 || Nsd > 3 {
		return nil, lr.errorf("space dimensions not 2 or 3, have %d", Nsd)
	}
	if err = lr.skipLines(2); err != nil {
		return nil, lr.early(err, "nodal coordinates header")
	}
	verts := make([]r3.Vector, Nv)
	for i := 0; i < Nv; i++ {
		var (
			ind int
			v   r3.Vector
		)
		if line, err = lr.getDataLine(); err != nil {
			return nil, lr.early(err, "nodal coordinates")
		}
		if Nsd == 3 {
			n, err = fmt.Sscanf(line, "%d %g %g %g", &ind, &v.X, &v.Y, &v.Z)
		} else {
			n, err = fmt.Sscanf(line, "%d %g %g", &ind, &v.X, &v.Y)
		}
		if err != nil || n < Nsd+1 {
			return nil, lr.errorf("read fewer than required dimensions, read %d, need %d, line: %s", n, Nsd+1, line)
		}
		if ind < 1 || ind > Nv {
			return nil, lr.errorf("node index %d out of range [1,%d]", ind, Nv)
		}
		verts[ind-1] = v
	}
	if err = lr.skipLines(2); err != nil {
		return nil, lr.early(err, "elements header")
	}
	faces := make([][3]int, K)
	for k := 0; k < K; k++ {
		var ind, typ, ndp, n1, n2, n3 int
		if line, err = lr.getDataLine(); err != nil {
			return nil, lr.early(err, "elements")
		}
		if n, err = fmt.Sscanf(line, "%d %d %d", &ind, &typ, &ndp); err != nil || n < 3 {
			return nil, lr.errorf("unable to read element from [%s]", line)
		}
		if ndp != 3 {
			return nil, lr.errorf("element %d has %d nodes, only triangles are supported", ind, ndp)
		}
		if n, err = fmt.Sscanf(line, "%d %d %d %d %d %d", &ind, &typ, &ndp, &n1, &n2, &n3); err != nil || n < 6 {
			return nil, lr.errorf("read fewer than required dimensions, read %d, need 6, line: %s", n, line)
		}
		if ind < 1 || ind > K {
			return nil, lr.errorf("element index %d out of range [1,%d]", ind, K)
		}
		faces[ind-1] = [3]int{n1 - 1, n2 - 1, n3 - 1}
	}
	return mesh.NewTriMesh(verts, faces)
}

func (lr *lineReader) skipLines(n int) (err error) {
	for i := 0; i < n; i++ {
		if _, err = lr.getLine(); err != nil {
			return
		}
	}
	return
}
