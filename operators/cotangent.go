package operators

import (
	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"
)

// Cotangent returns cot of the angle between x and y, undefined when they are parallel or zero
func Cotangent(x, y r3.Vector) float64 {
	return x.Dot(y) / x.Cross(y).Norm()
}

/*
CotangentLaplacian assembles the N x N cotangent Laplacian:

	L[i,j] = 0.5 * (cot(alpha_ij) + cot(beta_ij)), alpha and beta opposite edge ij
	L[i,i] = -sum_j L[i,j]

Each face (v0,v1,v2) contributes the cotangents of its three interior angles to the edge opposite
each angle, and their negated sums to the three diagonals.
*/
func CotangentLaplacian(m *mesh.TriMesh, opts ...Option) (L utils.CSR, err error) {
	var (
		skip []bool
	)
	if skip, _, err = screenFaces(m, newConfig(opts)); err != nil {
		return
	}
	L = cotangentLaplacian(m, skip)
	return
}

func cotangentLaplacian(m *mesh.TriMesh, skip []bool) (L utils.CSR) {
	var (
		N = m.NumVertices()
		M = m.NumFaces()
		// N diagonal placeholders, then 6 off-diagonal and 3 diagonal entries per face
		T = utils.NewTriplets(N, N, N+9*M)
	)
	for i := 0; i < N; i++ {
		T.Add(i, i, 0)
	}
	for f, face := range m.Faces {
		if skipped(skip, f) {
			continue
		}
		var (
			v0, v1, v2 = face[0], face[1], face[2]
			p0, p1, p2 = m.Corners(f)
			eA         = p1.Sub(p0)
			eB         = p2.Sub(p1)
			eC         = p0.Sub(p2)
		)
		cotC := Cotangent(eA.Mul(-1), eB) // angle at v1, opposite edge v2-v0
		cotA := Cotangent(eB.Mul(-1), eC) // angle at v2, opposite edge v0-v1
		cotB := Cotangent(eC.Mul(-1), eA) // angle at v0, opposite edge v1-v2

		T.Add(v0, v1, cotA)
		T.Add(v1, v0, cotA)
		T.Add(v1, v2, cotB)
		T.Add(v2, v1, cotB)
		T.Add(v2, v0, cotC)
		T.Add(v0, v2, cotC)

		T.Add(v0, v0, -(cotC + cotA))
		T.Add(v1, v1, -(cotB + cotA))
		T.Add(v2, v2, -(cotC + cotB))
	}
	L = T.ToCSR("L").Scaled(0.5)
	return
}
