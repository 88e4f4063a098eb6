package utils

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

// NewVector allocates a zeroed vector, or wraps dataO[0] when supplied
func NewVector(n int, dataO ...[]float64) Vector {
	var (
		data []float64
	)
	if len(dataO) != 0 {
		data = dataO[0]
	} else {
		data = make([]float64, n)
	}
	if n == 0 {
		// mat panics on zero length vectors
		return Vector{V: &mat.VecDense{}}
	}
	return Vector{V: mat.NewVecDense(n, data)}
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.V.RawVector().Data }

func (v Vector) Copy() Vector { // Does not change receiver
	var (
		data = make([]float64, v.Len())
	)
	copy(data, v.Data())
	return NewVector(len(data), data)
}

// Chainable (extended) methods
func (v Vector) Set(a float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] = a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	floats.AddConst(a, v.Data())
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	floats.Scale(a, v.Data())
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Min() float64 { return floats.Min(v.Data()) }
func (v Vector) Max() float64 { return floats.Max(v.Data()) }
func (v Vector) Sum() float64 { return floats.Sum(v.Data()) }
