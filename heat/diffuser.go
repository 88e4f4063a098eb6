package heat

import (
	"fmt"

	"github.com/notargets/geoheat/utils"
)

// HeatFloor replaces negative heat after the final step, heat is physically non-negative
const HeatFloor = 1.e-50

/*
Diffuser takes backward Euler steps of du/dt = L u with the lumped mass matrix A:

	(diag(A) - dt*L) u_{k+1} = rhs_k

D = diag(A) - dt*L is symmetric positive definite for dt > 0, positive areas and the negative
semi-definite cotangent Laplacian, and is prepared for solving once at construction.
*/
type Diffuser struct {
	D  utils.CSR
	A  utils.Vector
	Dt float64
	// With MassWeighted, steps after the first use diag(A)*u_k as the right hand side instead of u_k
	MassWeighted bool
	solver       utils.LinearSolver
}

func NewDiffuser(L utils.CSR, A utils.Vector, dt float64, cfg utils.SolverConfig) (d *Diffuser, err error) {
	var (
		nr, nc = L.Dims()
	)
	if nr != nc || nr != A.Len() {
		err = fmt.Errorf("%w: Laplacian is %dx%d, vertex area has length %d",
			utils.ErrDimensionMismatch, nr, nc, A.Len())
		return
	}
	// Vertices outside every face have no area and no Laplacian row, they keep their heat
	var (
		diag  = A.Copy().Data()
		Ldiag = L.Diagonal()
	)
	for i, a := range diag {
		if a == 0 && Ldiag[i] == 0 {
			diag[i] = 1
		}
	}
	d = &Diffuser{
		D:  L.Scale(-dt).AddDiagonal(diag),
		A:  A,
		Dt: dt,
	}
	d.D.SetReadOnly("heat system")
	if d.solver, err = utils.NewLinearSolver(d.D, cfg); err != nil {
		err = fmt.Errorf("unable to prepare heat system with dt = %g: %w", dt, err)
		return nil, err
	}
	return
}

// Diffuse runs steps implicit steps from init and clamps the result to HeatFloor, init is not modified
func (d *Diffuser) Diffuse(init utils.Vector, steps int) (u utils.Vector, err error) {
	var (
		heat = init.Data()
		rhs  = make([]float64, init.Len())
	)
	if init.Len() != d.A.Len() {
		err = fmt.Errorf("%w: initial heat has length %d, mesh has %d vertices",
			utils.ErrDimensionMismatch, init.Len(), d.A.Len())
		return
	}
	for k := 0; k < steps; k++ {
		copy(rhs, heat)
		if d.MassWeighted && k > 0 {
			for i, a := range d.A.Data() {
				rhs[i] *= a
			}
		}
		if heat, err = d.solver.Solve(rhs); err != nil {
			err = fmt.Errorf("heat step %d: %w", k, err)
			return
		}
	}
	if steps <= 0 {
		heat = append([]float64(nil), heat...)
	}
	u = utils.NewVector(len(heat), heat).Apply(func(val float64) float64 {
		if val < 0 {
			return HeatFloor
		}
		return val
	})
	return
}

// HeatImplicit forms D = diag(A) - dt*L and solves D u_{k+1} = u_k for the given number of steps
func HeatImplicit(L utils.CSR, A, init utils.Vector, dt float64, steps int, cfg utils.SolverConfig) (u utils.Vector, err error) {
	var (
		d *Diffuser
	)
	if d, err = NewDiffuser(L, A, dt, cfg); err != nil {
		return
	}
	return d.Diffuse(init, steps)
}
