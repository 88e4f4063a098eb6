package readfiles

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
)

func (lr *lineReader) getToken(keyword string) (token string, err error) {
	var (
		line string
	)
	if line, err = lr.getDataLine("%"); err != nil {
		return "", lr.early(err, keyword)
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		return "", lr.errorf("badly formed input line [%s], should have an =", line)
	}
	if key := strings.TrimSpace(line[:ind]); key != keyword {
		return "", lr.errorf("expected %s, found %s", keyword, key)
	}
	token = strings.TrimSpace(line[ind+1:])
	return
}

func (lr *lineReader) readNumber(keyword string) (num int, err error) {
	var (
		token string
	)
	if token, err = lr.getToken(keyword); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = lr.errorf("unable to read number from token: [%s]", token)
	} else if num < 0 {
		err = lr.errorf("negative %s: %d", keyword, num)
	}
	return
}

func (lr *lineReader) readSU2Elements() (faces [][3]int, err error) {
	var (
		line  string
		nType int
		K     int
	)
	if K, err = lr.readNumber("NELEM"); err != nil {
		return
	}
	faces = make([][3]int, K)
	for k := 0; k < K; k++ {
		if line, err = lr.getDataLine("%"); err != nil {
			return nil, lr.early(err, "elements")
		}
		if _, err = fmt.Sscanf(line, "%d", &nType); err != nil {
			return nil, lr.errorf("unable to read element type from [%s]", line)
		}
		if SU2ElementType(nType) != ELType_Triangle {
			return nil, lr.errorf("element %d has type %d, only triangles (%d) are supported",
				k, nType, ELType_Triangle)
		}
		f := &faces[k]
		if _, err = fmt.Sscanf(line, "%d %d %d %d", &nType, &f[0], &f[1], &f[2]); err != nil {
			return nil, lr.errorf("unable to read vertices of element %d", k)
		}
	}
	return
}

func (lr *lineReader) readSU2Vertices(dim int) (verts []r3.Vector, err error) {
	var (
		line string
		Nv   int
	)
	if Nv, err = lr.readNumber("NPOIN"); err != nil {
		return
	}
	verts = make([]r3.Vector, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = lr.getDataLine("%"); err != nil {
			return nil, lr.early(err, "points")
		}
		v := &verts[i]
		if dim == 2 {
			_, err = fmt.Sscanf(line, "%g %g", &v.X, &v.Y)
		} else {
			_, err = fmt.Sscanf(line, "%g %g %g", &v.X, &v.Y, &v.Z)
		}
		if err != nil {
			return nil, lr.errorf("unable to read coordinates of point %d", i)
		}
	}
	return
}

/*
ReadSU2 reads the triangles and points of an SU2 mesh. A 2D grid is placed in the z=0 plane, a 3D
file must hold a triangulated surface. Boundary markers are not needed for distances and are skipped.
*/
func ReadSU2(r io.Reader) (tm *mesh.TriMesh, err error) {
	var (
		lr    = newLineReader(r)
		dim   int
		faces [][3]int
		verts []r3.Vector
	)
	if dim, err = lr.readNumber("NDIME"); err != nil {
		return
	}
	if dim != 2 && dim != 3 {
		return nil, lr.errorf("unsupported dimensionality %d", dim)
	}
	if faces, err = lr.readSU2Elements(); err != nil {
		return
	}
	if verts, err = lr.readSU2Vertices(dim); err != nil {
		return
	}
	return mesh.NewTriMesh(verts, faces)
}
