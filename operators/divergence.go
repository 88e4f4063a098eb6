package operators

import (
	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"
)

/*
Div assembles the N x 3M integrated divergence of a per-face vector field X:

	(Div X)_i = 0.5 * sum over faces at i of cot(theta1)*(e1 . X) + cot(theta2)*(e2 . X)

where e1, e2 are the face edges leaving vertex i and theta1, theta2 the angles opposite them.
Div is the adjoint of FaceGrad under the face area inner product, so Div*Grad = L.
*/
func Div(m *mesh.TriMesh, opts ...Option) (D utils.CSR, err error) {
	var (
		skip []bool
	)
	if skip, _, err = screenFaces(m, newConfig(opts)); err != nil {
		return
	}
	D = div(m, skip)
	return
}

func div(m *mesh.TriMesh, skip []bool) (D utils.CSR) {
	var (
		N = m.NumVertices()
		M = m.NumFaces()
		T = utils.NewTriplets(N, 3*M, 9*M)
	)
	for f, face := range m.Faces {
		if skipped(skip, f) {
			continue
		}
		var (
			p0, p1, p2 = m.Corners(f)
			uv         = p1.Sub(p0)
			vw         = p2.Sub(p1)
			wu         = p0.Sub(p2)
		)
		// Interior angles at v0, v1, v2
		cot1 := -uv.Dot(wu) / uv.Cross(wu).Norm()
		cot2 := -vw.Dot(uv) / vw.Cross(uv).Norm()
		cot3 := -wu.Dot(vw) / wu.Cross(vw).Norm()

		A := wu.Mul(-cot2).Add(uv.Mul(cot3))
		B := vw.Mul(cot1).Sub(uv.Mul(cot3))
		C := vw.Mul(-cot1).Add(wu.Mul(cot2))
		for v, w := range [3][3]float64{
			{A.X, A.Y, A.Z},
			{B.X, B.Y, B.Z},
			{C.X, C.Y, C.Z},
		} {
			for c := 0; c < 3; c++ {
				T.Add(face[v], 3*f+c, w[c])
			}
		}
	}
	D = T.ToCSR("Div").Scaled(0.5)
	return
}
