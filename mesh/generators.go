package mesh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/types"
)

// EquilateralTriangle is a single flat face in the z=0 plane with the given side length
func EquilateralTriangle(side float64) *TriMesh {
	return &TriMesh{
		Vertices: []r3.Vector{
			{X: 0, Y: 0, Z: 0},
			{X: side, Y: 0, Z: 0},
			{X: 0.5 * side, Y: 0.5 * math.Sqrt(3) * side, Z: 0},
		},
		Faces: [][3]int{{0, 1, 2}},
	}
}

// Tetrahedron is the regular tetrahedron inscribed in the cube [-1,1]^3, wound outward
func Tetrahedron() *TriMesh {
	return &TriMesh{
		Vertices: []r3.Vector{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		Faces: [][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}},
	}
}

/*
PlanarGrid triangulates the square [0,size]x[0,size] in the z=0 plane with n cells per side.
Cell diagonals alternate in a checkerboard so the triangulation has no preferred direction.
Vertex (i,j) has index j*(n+1)+i.
*/
func PlanarGrid(n int, size float64) (tm *TriMesh) {
	if n < 1 {
		panic(fmt.Errorf("grid needs at least one cell per side, have %d", n))
	}
	var (
		np1 = n + 1
		h   = size / float64(n)
		idx = func(i, j int) int { return j*np1 + i }
	)
	tm = &TriMesh{
		Vertices: make([]r3.Vector, 0, np1*np1),
		Faces:    make([][3]int, 0, 2*n*n),
	}
	for j := 0; j < np1; j++ {
		for i := 0; i < np1; i++ {
			tm.Vertices = append(tm.Vertices, r3.Vector{X: float64(i) * h, Y: float64(j) * h})
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a, b, c, d := idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)
			if (i+j)%2 == 0 {
				tm.Faces = append(tm.Faces, [3]int{a, b, c}, [3]int{a, c, d})
			} else {
				tm.Faces = append(tm.Faces, [3]int{a, b, d}, [3]int{b, c, d})
			}
		}
	}
	return
}

// Icosahedron is the regular icosahedron on the unit sphere, vertex 0 and vertex 3 are antipodal
func Icosahedron() (tm *TriMesh) {
	var (
		t = (1. + math.Sqrt(5)) / 2.
	)
	tm = &TriMesh{
		Vertices: []r3.Vector{
			{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
			{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
			{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
		},
		Faces: [][3]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	}
	for i, v := range tm.Vertices {
		tm.Vertices[i] = v.Normalize()
	}
	return
}

/*
Icosphere subdivides the icosahedron level times, splitting every face into four and projecting the
new edge midpoints onto the sphere of the given radius. Original vertex indices are preserved,
so vertex 0 and vertex 3 stay antipodal at every level.
*/
func Icosphere(level int, radius float64) (tm *TriMesh) {
	tm = Icosahedron()
	for l := 0; l < level; l++ {
		var (
			mid      = make(map[types.EdgeKey]int, 3*len(tm.Faces)/2)
			newFaces = make([][3]int, 0, 4*len(tm.Faces))
		)
		midpoint := func(a, b int) int {
			key := types.NewEdgeKey([2]int{a, b})
			if ind, ok := mid[key]; ok {
				return ind
			}
			p := tm.Vertices[a].Add(tm.Vertices[b]).Normalize()
			tm.Vertices = append(tm.Vertices, p)
			mid[key] = len(tm.Vertices) - 1
			return mid[key]
		}
		for _, f := range tm.Faces {
			ab, bc, ca := midpoint(f[0], f[1]), midpoint(f[1], f[2]), midpoint(f[2], f[0])
			newFaces = append(newFaces,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		tm.Faces = newFaces
	}
	for i, v := range tm.Vertices {
		tm.Vertices[i] = v.Mul(radius)
	}
	return
}

// Join concatenates meshes into one mesh with disjoint components, in argument order
func Join(meshes ...*TriMesh) (tm *TriMesh) {
	tm = &TriMesh{}
	for _, m := range meshes {
		offset := len(tm.Vertices)
		tm.Vertices = append(tm.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			tm.Faces = append(tm.Faces, [3]int{f[0] + offset, f[1] + offset, f[2] + offset})
		}
	}
	return
}

// Translate returns a copy of the mesh shifted by d
func (tm *TriMesh) Translate(d r3.Vector) (R *TriMesh) {
	R = &TriMesh{
		Vertices: make([]r3.Vector, len(tm.Vertices)),
		Faces:    tm.Faces,
	}
	for i, v := range tm.Vertices {
		R.Vertices[i] = v.Add(d)
	}
	return
}
