package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/types"
)

var (
	// ErrIndexOutOfRange is returned when a face references a vertex outside [0,N)
	ErrIndexOutOfRange = errors.New("mesh: face vertex index out of range")

	// ErrEmptyMesh is returned for a mesh without vertices or faces
	ErrEmptyMesh = errors.New("mesh: no vertices or no faces")
)

/*
TriMesh is a triangulated surface: N points in 3D and M index triples into them.
It is never modified by the operators built from it, so a TriMesh can be shared freely.
*/
type TriMesh struct {
	Vertices []r3.Vector
	Faces    [][3]int
}

func NewTriMesh(verts []r3.Vector, faces [][3]int) (tm *TriMesh, err error) {
	var (
		N = len(verts)
	)
	if N == 0 || len(faces) == 0 {
		err = fmt.Errorf("%w: %d vertices, %d faces", ErrEmptyMesh, N, len(faces))
		return
	}
	for f, face := range faces {
		for _, v := range face {
			if v < 0 || v >= N {
				err = fmt.Errorf("%w: face %d references vertex %d, mesh has %d vertices",
					ErrIndexOutOfRange, f, v, N)
				return
			}
		}
	}
	tm = &TriMesh{
		Vertices: verts,
		Faces:    faces,
	}
	return
}

// NewTriMeshFromArrays converts flat vertex/face arrays, three entries per vertex and per face
func NewTriMeshFromArrays(coords []float64, indices []int) (tm *TriMesh, err error) {
	if len(coords)%3 != 0 || len(indices)%3 != 0 {
		err = fmt.Errorf("vertex and face arrays must hold triples, have lengths %d and %d",
			len(coords), len(indices))
		return
	}
	var (
		verts = make([]r3.Vector, len(coords)/3)
		faces = make([][3]int, len(indices)/3)
	)
	for i := range verts {
		verts[i] = r3.Vector{X: coords[3*i], Y: coords[3*i+1], Z: coords[3*i+2]}
	}
	for f := range faces {
		faces[f] = [3]int{indices[3*f], indices[3*f+1], indices[3*f+2]}
	}
	return NewTriMesh(verts, faces)
}

func (tm *TriMesh) NumVertices() int { return len(tm.Vertices) }
func (tm *TriMesh) NumFaces() int    { return len(tm.Faces) }

// Corners returns the three vertex positions of face f
func (tm *TriMesh) Corners(f int) (p0, p1, p2 r3.Vector) {
	var (
		face = tm.Faces[f]
	)
	return tm.Vertices[face[0]], tm.Vertices[face[1]], tm.Vertices[face[2]]
}

// Scale returns a copy of the mesh with all coordinates multiplied by c
func (tm *TriMesh) Scale(c float64) (R *TriMesh) {
	R = &TriMesh{
		Vertices: make([]r3.Vector, len(tm.Vertices)),
		Faces:    tm.Faces,
	}
	for i, v := range tm.Vertices {
		R.Vertices[i] = v.Mul(c)
	}
	return
}

func (tm *TriMesh) Bounds() (lo, hi r3.Vector) {
	lo = r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = lo.Mul(-1)
	for _, v := range tm.Vertices {
		lo = r3.Vector{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = r3.Vector{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return
}

func (tm *TriMesh) Edges() types.EdgeMap {
	return types.NewEdgeMap(tm.Faces)
}

// IsClosed reports whether every edge is shared by exactly two faces
func (tm *TriMesh) IsClosed() bool {
	for _, use := range tm.Edges() {
		if use.Count() != 2 {
			return false
		}
	}
	return true
}

// EulerCharacteristic is V - E + F, counting only vertices referenced by a face
func (tm *TriMesh) EulerCharacteristic() int {
	var (
		used = make([]bool, len(tm.Vertices))
		nV   int
	)
	for _, face := range tm.Faces {
		for _, v := range face {
			if !used[v] {
				used[v] = true
				nV++
			}
		}
	}
	return nV - len(tm.Edges()) + len(tm.Faces)
}

/*
Components labels every vertex with the index of its connected component, following face edges.
Components are numbered in order of their lowest vertex index, an isolated vertex is its own component.
*/
func (tm *TriMesh) Components() (label []int, nComp int) {
	var (
		N      = len(tm.Vertices)
		parent = make([]int, N)
	)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// The root is always the lowest index in the set
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}
	for _, face := range tm.Faces {
		union(face[0], face[1])
		union(face[1], face[2])
	}
	label = make([]int, N)
	compOf := make(map[int]int)
	for i := 0; i < N; i++ {
		root := find(i)
		c, ok := compOf[root]
		if !ok {
			c = nComp
			compOf[root] = c
			nComp++
		}
		label[i] = c
	}
	return
}
