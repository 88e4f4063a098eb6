package operators

import (
	"github.com/golang/geo/r3"

	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"
)

// MeanSpacing is the mean edge length, the natural length scale for the heat time step
func MeanSpacing(m *mesh.TriMesh) float64 {
	return meanSpacing(m, nil)
}

func meanSpacing(m *mesh.TriMesh, skip []bool) float64 {
	var (
		L1, L2, L3 float64
		M          float64
	)
	for f := range m.Faces {
		if skipped(skip, f) {
			continue
		}
		M++
		p0, p1, p2 := m.Corners(f)
		L1 += p1.Sub(p0).Norm()
		L2 += p2.Sub(p1).Norm()
		L3 += p0.Sub(p2).Norm()
	}
	return (L1/M + L2/M + L3/M) / 3.
}

// FaceAreaNormals returns 0.5 * (p1-p0) x (p2-p0) per face, a normal whose length is the face area
func FaceAreaNormals(m *mesh.TriMesh) (an []r3.Vector) {
	an = make([]r3.Vector, m.NumFaces())
	for f := range m.Faces {
		p0, p1, p2 := m.Corners(f)
		an[f] = p1.Sub(p0).Cross(p2.Sub(p0)).Mul(0.5)
	}
	return
}

// FaceNormals returns unit normals, a zero area face yields a non-finite normal
func FaceNormals(m *mesh.TriMesh) (n []r3.Vector) {
	n = FaceAreaNormals(m)
	for f, an := range n {
		n[f] = an.Mul(1. / an.Norm())
	}
	return
}

func FaceArea(m *mesh.TriMesh) (area []float64) {
	area = make([]float64, m.NumFaces())
	for f, an := range FaceAreaNormals(m) {
		area[f] = an.Norm()
	}
	return
}

// VertexArea lumps one third of every incident face's area onto each vertex
func VertexArea(m *mesh.TriMesh) utils.Vector {
	return vertexArea(m, FaceArea(m))
}

func vertexArea(m *mesh.TriMesh, faceArea []float64) (A utils.Vector) {
	A = utils.NewVector(m.NumVertices())
	data := A.Data()
	for f, face := range m.Faces {
		for _, v := range face {
			data[v] += faceArea[f]
		}
	}
	A.Scale(1. / 3.)
	return
}
