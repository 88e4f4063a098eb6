package utils

import (
	"fmt"
	"math"
	"slices"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

/*
Triplets accumulates (row, col, value) entries ahead of compression into a CSR matrix.
Entries that share a coordinate are summed when compressed, never overwritten, which is the
accumulation rule every mesh operator assembly depends on.
*/
type Triplets struct {
	nr, nc int
	I, J   []int
	V      []float64
}

// NewTriplets pre-sizes the entry buffers, capacity is the expected number of Add calls
func NewTriplets(nr, nc, capacity int) (T *Triplets) {
	T = &Triplets{
		nr: nr,
		nc: nc,
		I:  make([]int, 0, capacity),
		J:  make([]int, 0, capacity),
		V:  make([]float64, 0, capacity),
	}
	return
}

func (T *Triplets) Dims() (r, c int) { return T.nr, T.nc }
func (T *Triplets) Len() int         { return len(T.V) }

func (T *Triplets) Add(i, j int, val float64) {
	if i < 0 || i >= T.nr || j < 0 || j >= T.nc {
		panic(fmt.Errorf("triplet (%d,%d) outside of %dx%d matrix", i, j, T.nr, T.nc))
	}
	T.I = append(T.I, i)
	T.J = append(T.J, j)
	T.V = append(T.V, val)
}

// ToCSR compresses the entries, summing duplicates. Column indices within a row are sorted.
func (T *Triplets) ToCSR(name string) (R CSR) {
	var (
		indptr = make([]int, T.nr+1)
		order  = make([]int, len(T.V))
		fill   = make([]int, T.nr)
	)
	for _, i := range T.I {
		indptr[i+1]++
	}
	for i := 0; i < T.nr; i++ {
		indptr[i+1] += indptr[i]
	}
	for n, i := range T.I {
		order[indptr[i]+fill[i]] = n
		fill[i]++
	}
	var (
		ind  = make([]int, 0, len(T.V))
		data = make([]float64, 0, len(T.V))
		ptr  = make([]int, T.nr+1)
	)
	for i := 0; i < T.nr; i++ {
		row := order[indptr[i]:indptr[i+1]]
		// Stable so repeated assemblies sum duplicates in the same order
		slices.SortStableFunc(row, func(a, b int) int { return T.J[a] - T.J[b] })
		for k, n := range row {
			if k > 0 && T.J[n] == ind[len(ind)-1] {
				data[len(data)-1] += T.V[n]
				continue
			}
			ind = append(ind, T.J[n])
			data = append(data, T.V[n])
		}
		ptr[i+1] = len(ind)
	}
	R = CSR{
		M:    sparse.NewCSR(T.nr, T.nc, ptr, ind, data),
		name: name,
	}
	return
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// NewCSRFromDense is used mostly by tests to build small operators by hand
func NewCSRFromDense(nr, nc int, data []float64) (R CSR) {
	T := NewTriplets(nr, nc, len(data))
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if val := data[i*nc+j]; val != 0 {
				T.Add(i, j, val)
			}
		}
	}
	return T.ToCSR("dense")
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}
func (m CSR) NNZ() int    { return len(m.RawMatrix().Data) }
func (m CSR) Name() string { return m.name }

func (m *CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m CSR) IsReadOnly() bool { return m.readOnly }

// DoNonZero calls fn for every stored entry in row order
func (m CSR) DoNonZero(fn func(i, j int, val float64)) { m.M.DoNonZero(fn) }

func (m CSR) Triplets(extra int) (T *Triplets) {
	var (
		nr, nc = m.Dims()
	)
	T = NewTriplets(nr, nc, m.NNZ()+extra)
	m.DoNonZero(T.Add)
	return
}

func (m CSR) Scale(a float64) (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
		data   = make([]float64, len(raw.Data))
	)
	for k, val := range raw.Data {
		data[k] = a * val
	}
	R = CSR{
		M:    sparse.NewCSR(nr, nc, slices.Clone(raw.Indptr), slices.Clone(raw.Ind), data),
		name: m.name,
	}
	return
}

func (m CSR) Scaled(a float64) CSR { // Changes receiver
	m.checkWritable()
	for k := range m.Data() {
		m.Data()[k] *= a
	}
	return m
}

// AddDiagonal returns m + diag(d)
func (m CSR) AddDiagonal(d []float64) (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	if nr != nc || len(d) != nr {
		panic(fmt.Errorf("%w: diagonal of length %d added to %dx%d matrix", ErrDimensionMismatch, len(d), nr, nc))
	}
	T := m.Triplets(nr)
	for i, val := range d {
		T.Add(i, i, val)
	}
	return T.ToCSR(m.name)
}

// Sub returns m - B
func (m CSR) Sub(B CSR) (R CSR) { // Does not change receiver
	var (
		nr, nc   = m.Dims()
		nrB, ncB = B.Dims()
	)
	if nr != nrB || nc != ncB {
		panic(fmt.Errorf("%w: %dx%d - %dx%d", ErrDimensionMismatch, nr, nc, nrB, ncB))
	}
	T := m.Triplets(B.NNZ())
	B.DoNonZero(func(i, j int, val float64) { T.Add(i, j, -val) })
	return T.ToCSR(m.name)
}

// Mul returns the sparse product m*B
func (m CSR) Mul(B CSR) (R CSR) { // Does not change receiver
	var (
		nr, nc   = m.Dims()
		nrB, ncB = B.Dims()
	)
	if nc != nrB {
		panic(fmt.Errorf("%w: %dx%d * %dx%d", ErrDimensionMismatch, nr, nc, nrB, ncB))
	}
	P := sparse.NewCSR(nr, ncB, nil, nil, nil)
	P.Mul(m.M, B.M)
	// Canonicalize the product storage: sorted columns, no duplicates
	R = CSR{M: P}.Triplets(0).ToCSR(m.name + "*" + B.name)
	return
}

// MulVec computes dst = m*x, allocating dst when nil
func (m CSR) MulVec(dst, x []float64) []float64 {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("%w: %dx%d matrix times vector of length %d", ErrDimensionMismatch, nr, nc, len(x)))
	}
	if dst == nil {
		dst = make([]float64, nr)
	} else {
		// MulVecTo accumulates into dst
		clear(dst[:nr])
	}
	m.M.MulVecTo(dst[:nr], false, x)
	return dst
}

func (m CSR) Diagonal() (d []float64) {
	var (
		nr, _ = m.Dims()
	)
	d = make([]float64, nr)
	m.DoNonZero(func(i, j int, val float64) {
		if i == j {
			d[i] += val
		}
	})
	return
}

func (m CSR) RowSums() (s []float64) {
	var (
		nr, _ = m.Dims()
	)
	s = make([]float64, nr)
	m.DoNonZero(func(i, _ int, val float64) { s[i] += val })
	return
}

func (m CSR) AbsSum() (sum float64) {
	for _, val := range m.Data() {
		sum += math.Abs(val)
	}
	return
}

// Asymmetry returns max|m[i,j] - m[j,i]| over the stored entries
func (m CSR) Asymmetry() (maxDiff float64) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		return math.Inf(1)
	}
	m.DoNonZero(func(i, j int, val float64) {
		if d := math.Abs(val - m.At(j, i)); d > maxDiff {
			maxDiff = d
		}
	})
	return
}

// Submatrix keeps the rows and columns listed in keep, in that order
func (m CSR) Submatrix(keep []int) (R CSR) {
	var (
		nr, _ = m.Dims()
		nk    = len(keep)
		newI  = make([]int, nr)
	)
	for i := range newI {
		newI[i] = -1
	}
	for ii, i := range keep {
		newI[i] = ii
	}
	T := NewTriplets(nk, nk, m.NNZ())
	m.DoNonZero(func(i, j int, val float64) {
		if newI[i] >= 0 && newI[j] >= 0 {
			T.Add(newI[i], newI[j], val)
		}
	})
	return T.ToCSR(m.name)
}

func (m CSR) ToDense() (D *mat.Dense) {
	var (
		nr, nc = m.Dims()
	)
	D = mat.NewDense(nr, nc, nil)
	m.DoNonZero(func(i, j int, val float64) { D.Set(i, j, D.At(i, j)+val) })
	return
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
