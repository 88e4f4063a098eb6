package utils

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type SolverType uint8

const (
	SOLVER_CG SolverType = iota
	SOLVER_Cholesky
	SOLVER_BandCholesky
)

var (
	SolverNames = map[string]SolverType{
		"cg":       SOLVER_CG,
		"pcg":      SOLVER_CG,
		"cholesky": SOLVER_Cholesky,
		"band":     SOLVER_BandCholesky,
		"direct":   SOLVER_BandCholesky,
	}
	SolverPrintNames = []string{"Jacobi Preconditioned CG", "Dense Cholesky", "Banded Cholesky (RCM)"}
)

func NewSolverType(label string) (st SolverType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if st, ok = SolverNames[label]; !ok {
		err = fmt.Errorf("unable to use linear solver named %s", label)
	}
	return
}

func (st SolverType) Print() (txt string) {
	txt = SolverPrintNames[st]
	return
}

/*
SolverConfig selects and tunes the linear solver used for SPD systems.

The heat system needs every entry of its solution resolved to full relative precision, including
values many orders of magnitude below the peak at the source. A direct factorization delivers
that, a residual tolerance on CG does not, so CG only suits systems whose solution is not graded.
*/
type SolverConfig struct {
	Type          SolverType
	Tolerance     float64 // Relative residual target for CG
	MaxIterations int     // CG iteration cap, 0 means 10*N
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Type:      SOLVER_BandCholesky,
		Tolerance: 1.e-12,
	}
}

// LinearSolver solves A*x = b for a fixed symmetric positive definite A
type LinearSolver interface {
	Solve(b []float64) (x []float64, err error)
	Dims() int
}

func NewLinearSolver(A CSR, cfg SolverConfig) (ls LinearSolver, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("%w: linear solve needs a square matrix, have %dx%d", ErrDimensionMismatch, nr, nc)
		return
	}
	switch cfg.Type {
	case SOLVER_Cholesky:
		ls, err = NewCholeskySolver(A)
	case SOLVER_CG:
		ls, err = NewCGSolver(A, cfg.Tolerance, cfg.MaxIterations)
	case SOLVER_BandCholesky:
		fallthrough
	default:
		ls, err = NewBandCholeskySolver(A)
	}
	return
}

type CGSolver struct {
	A             CSR
	Tolerance     float64
	MaxIterations int
	invDiag       []float64
}

func NewCGSolver(A CSR, tol float64, maxIter int) (cg *CGSolver, err error) {
	var (
		n, _ = A.Dims()
		diag = A.Diagonal()
	)
	if tol <= 0 {
		tol = DefaultSolverConfig().Tolerance
	}
	if maxIter <= 0 {
		maxIter = 10 * max(n, 10)
	}
	cg = &CGSolver{
		A:             A,
		Tolerance:     tol,
		MaxIterations: maxIter,
		invDiag:       make([]float64, n),
	}
	for i, d := range diag {
		if !(d > 0) {
			err = fmt.Errorf("%w: diagonal entry %d is %g", ErrNotPositiveDefinite, i, d)
			return nil, err
		}
		cg.invDiag[i] = 1. / d
	}
	return
}

func (cg *CGSolver) Dims() int { return len(cg.invDiag) }

func (cg *CGSolver) Solve(b []float64) (x []float64, err error) {
	var (
		n = len(cg.invDiag)
	)
	if len(b) != n {
		err = fmt.Errorf("%w: right hand side has length %d, system has %d", ErrDimensionMismatch, len(b), n)
		return
	}
	x = make([]float64, n)
	bNorm := floats.Norm(b, 2)
	if bNorm == 0 {
		return
	}
	var (
		r  = make([]float64, n)
		z  = make([]float64, n)
		p  = make([]float64, n)
		Ap = make([]float64, n)
	)
	copy(r, b)
	floats.MulTo(z, cg.invDiag, r)
	copy(p, z)
	rz := floats.Dot(r, z)
	for iter := 1; iter <= cg.MaxIterations; iter++ {
		cg.A.MulVec(Ap, p)
		pAp := floats.Dot(p, Ap)
		if !(pAp > 0) {
			err = fmt.Errorf("%w: search direction curvature %g at iteration %d", ErrNotPositiveDefinite, pAp, iter)
			return
		}
		alpha := rz / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		if resid := floats.Norm(r, 2) / bNorm; resid <= cg.Tolerance {
			Logger().Debug("cg converged", "n", n, "iterations", iter, "residual", resid)
			return
		}
		floats.MulTo(z, cg.invDiag, r)
		rzNew := floats.Dot(r, z)
		floats.AddScaledTo(p, z, rzNew/rz, p)
		rz = rzNew
	}
	err = fmt.Errorf("%w: relative residual %g after %d iterations",
		ErrNoConvergence, floats.Norm(r, 2)/bNorm, cg.MaxIterations)
	return
}

// CholeskySolver factors a dense copy of A once, for small systems or as a reference solution
type CholeskySolver struct {
	n    int
	chol mat.Cholesky
}

func NewCholeskySolver(A CSR) (cs *CholeskySolver, err error) {
	var (
		n, _ = A.Dims()
	)
	if err = checkSymmetric(A); err != nil {
		return
	}
	cs = &CholeskySolver{n: n}
	if n == 0 {
		return
	}
	sym := mat.NewSymDense(n, nil)
	A.DoNonZero(func(i, j int, val float64) {
		if j >= i {
			sym.SetSym(i, j, sym.At(i, j)+val)
		}
	})
	if ok := cs.chol.Factorize(sym); !ok {
		err = fmt.Errorf("%w: cholesky factorization failed", ErrNotPositiveDefinite)
		return nil, err
	}
	return
}

func (cs *CholeskySolver) Dims() int { return cs.n }

func (cs *CholeskySolver) Solve(b []float64) (x []float64, err error) {
	if len(b) != cs.n {
		err = fmt.Errorf("%w: right hand side has length %d, system has %d", ErrDimensionMismatch, len(b), cs.n)
		return
	}
	x = make([]float64, cs.n)
	if cs.n == 0 {
		return
	}
	var (
		X = mat.NewVecDense(cs.n, x)
	)
	if err = cs.chol.SolveVecTo(X, mat.NewVecDense(cs.n, b)); err != nil {
		// A mat.Condition error still carries a usable solution
		if _, ok := err.(mat.Condition); !ok {
			return nil, err
		}
		Logger().Debug("cholesky solve is ill conditioned", "err", err)
		err = nil
	}
	return
}

func checkSymmetric(A CSR) (err error) {
	if asym := A.Asymmetry(); asym > 1.e-10*math.Max(1, floats.Norm(A.Data(), math.Inf(1))) {
		err = fmt.Errorf("%w: asymmetry of %g", ErrNotPositiveDefinite, asym)
	}
	return
}

/*
BandCholeskySolver renumbers A with reverse Cuthill-McKee and factors the band of the permuted
matrix. Storage is N*(K+1) for bandwidth K, which stays near the square root of N on surface meshes.
*/
type BandCholeskySolver struct {
	n, k int
	perm []int // perm[new] = original row
	chol mat.BandCholesky
}

func NewBandCholeskySolver(A CSR) (bs *BandCholeskySolver, err error) {
	var (
		n, _ = A.Dims()
	)
	if err = checkSymmetric(A); err != nil {
		return
	}
	bs = &BandCholeskySolver{n: n}
	if n == 0 {
		return
	}
	bs.perm = ReverseCuthillMcKee(A)
	inv := InversePermutation(bs.perm)
	bs.k = Bandwidth(A, inv)
	band := mat.NewSymBandDense(n, bs.k, nil)
	A.DoNonZero(func(i, j int, val float64) {
		// Upper triangle of the permuted matrix, each symmetric pair once
		if pi, pj := inv[i], inv[j]; pj >= pi {
			band.SetSymBand(pi, pj, band.At(pi, pj)+val)
		}
	})
	if ok := bs.chol.Factorize(band); !ok {
		err = fmt.Errorf("%w: banded cholesky factorization failed", ErrNotPositiveDefinite)
		return nil, err
	}
	Logger().Debug("banded cholesky", "n", n, "bandwidth", bs.k)
	return
}

func (bs *BandCholeskySolver) Dims() int { return bs.n }

func (bs *BandCholeskySolver) Bandwidth() int { return bs.k }

func (bs *BandCholeskySolver) Solve(b []float64) (x []float64, err error) {
	if len(b) != bs.n {
		err = fmt.Errorf("%w: right hand side has length %d, system has %d", ErrDimensionMismatch, len(b), bs.n)
		return
	}
	x = make([]float64, bs.n)
	if bs.n == 0 {
		return
	}
	var (
		bp = make([]float64, bs.n)
		X  = mat.NewVecDense(bs.n, nil)
	)
	for k, p := range bs.perm {
		bp[k] = b[p]
	}
	if err = bs.chol.SolveVecTo(X, mat.NewVecDense(bs.n, bp)); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, err
		}
		Logger().Debug("banded cholesky solve is ill conditioned", "err", err)
		err = nil
	}
	for k, p := range bs.perm {
		x[p] = X.AtVec(k)
	}
	return
}
