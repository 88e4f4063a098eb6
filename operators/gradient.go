package operators

import (
	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"
)

/*
FaceGrad assembles the 3M x N operator taking a per-vertex scalar to its constant gradient on each
face. Rows 3f, 3f+1, 3f+2 hold the x, y, z components for face f. The gradient of the hat function
at a corner is n x e / (2*area), with e the edge opposite that corner.
*/
func FaceGrad(m *mesh.TriMesh, opts ...Option) (G utils.CSR, err error) {
	var (
		skip []bool
	)
	if skip, _, err = screenFaces(m, newConfig(opts)); err != nil {
		return
	}
	G = faceGrad(m, skip)
	return
}

func faceGrad(m *mesh.TriMesh, skip []bool) (G utils.CSR) {
	var (
		N       = m.NumVertices()
		M       = m.NumFaces()
		T       = utils.NewTriplets(3*M, N, 9*M)
		normals = FaceNormals(m)
		area    = FaceArea(m)
	)
	for f, face := range m.Faces {
		if skipped(skip, f) {
			continue
		}
		var (
			p0, p1, p2 = m.Corners(f)
			n          = normals[f]
			scale      = 0.5 / area[f]
		)
		G1 := n.Cross(p2.Sub(p1)).Mul(scale)
		G2 := n.Cross(p0.Sub(p2)).Mul(scale)
		G3 := n.Cross(p1.Sub(p0)).Mul(scale)
		for c, g := range [3][3]float64{
			{G1.X, G2.X, G3.X},
			{G1.Y, G2.Y, G3.Y},
			{G1.Z, G2.Z, G3.Z},
		} {
			T.Add(3*f+c, face[0], g[0])
			T.Add(3*f+c, face[1], g[1])
			T.Add(3*f+c, face[2], g[2])
		}
	}
	G = T.ToCSR("Grad")
	return
}
