/*
Package geodesic approximates geodesic distance on a triangle mesh with the heat method:
diffuse heat from the sources for one short implicit step, normalize the negated heat gradient on
every face, and recover the distance as the solution of a Poisson problem whose right hand side is
the divergence of that unit field.
*/
package geodesic

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/geoheat/heat"
	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/operators"
	"github.com/notargets/geoheat/utils"
)

var (
	// ErrNoOrigins is returned for an empty source set
	ErrNoOrigins = errors.New("geodesic: no origin vertices")

	// ErrOriginOutOfRange is returned for a source index outside [0,N)
	ErrOriginOutOfRange = errors.New("geodesic: origin vertex out of range")
)

type config struct {
	timeScale    float64
	steps        int
	massWeighted bool
	solver       utils.SolverConfig
	assembly     []operators.Option
}

type Option func(*config)

// WithTimeScale sets c in dt = c*h^2, h being the mean edge length
func WithTimeScale(c float64) Option { return func(cfg *config) { cfg.timeScale = c } }

// WithSteps sets the number of implicit heat steps
func WithSteps(k int) Option { return func(cfg *config) { cfg.steps = k } }

func WithMassWeightedHeat(mw bool) Option { return func(cfg *config) { cfg.massWeighted = mw } }

func WithSolver(sc utils.SolverConfig) Option { return func(cfg *config) { cfg.solver = sc } }

// WithAssemblyOptions passes degenerate face handling through to operator assembly
func WithAssemblyOptions(opts ...operators.Option) Option {
	return func(cfg *config) { cfg.assembly = append(cfg.assembly, opts...) }
}

func newConfig(opts []Option) (cfg config) {
	cfg = config{
		timeScale: 1,
		steps:     1,
		solver:    utils.DefaultSolverConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return
}

/*
Solver holds the operators of one mesh with both linear systems prepared, so each Distance call
costs one heat solve, two sparse products and one Poisson solve. A Solver is not modified by
Distance and may be shared between goroutines.

The Poisson matrix L is singular, one constant per connected component lies in its null space.
The lowest index vertex of each component is pinned to zero and the remaining symmetric positive
definite system -L_ff phi_f = -X_f is solved. Div has zero column sums, so the dropped equations
hold automatically.
*/
type Solver struct {
	Mesh     *mesh.TriMesh
	Ops      *operators.Operators
	Dt       float64
	Residual float64 // sum(|L - Div*Grad|) measured when the solver was built

	steps    int
	diffuser *heat.Diffuser
	poisson  utils.LinearSolver
	label    []int // Connected component of each vertex
	nComp    int
	free     []int // Unpinned vertices, in the order of the reduced system
}

func NewSolver(m *mesh.TriMesh, opts ...Option) (s *Solver, err error) {
	var (
		cfg = newConfig(opts)
		ops *operators.Operators
	)
	if ops, err = operators.Assemble(m, cfg.assembly...); err != nil {
		return
	}
	return newSolver(m, ops, cfg)
}

/*
NewSolverFromOperators builds a Solver around operators assembled elsewhere. Faces with an empty
Grad row block are treated as left out of assembly, as under operators.SkipDegenerate.
*/
func NewSolverFromOperators(m *mesh.TriMesh, L utils.CSR, A utils.Vector, Grad, Div utils.CSR,
	opts ...Option) (s *Solver, err error) {
	var (
		ops *operators.Operators
	)
	if ops, err = operators.FromMatrices(m, L, A, Grad, Div); err != nil {
		return
	}
	return newSolver(m, ops, newConfig(opts))
}

func newSolver(m *mesh.TriMesh, ops *operators.Operators, cfg config) (s *Solver, err error) {
	var (
		N      = m.NumVertices()
		nr, nc = ops.L.Dims()
		h      = ops.MeanSpacing
	)
	if nr != N || nc != N {
		err = fmt.Errorf("%w: Laplacian is %dx%d for a mesh with %d vertices",
			utils.ErrDimensionMismatch, nr, nc, N)
		return
	}
	s = &Solver{
		Mesh: m,
		Ops:  ops,
		Dt:   cfg.timeScale * h * h,
	}
	s.Residual = operators.ConsistencyResidual(ops.L, ops.Div, ops.Grad)
	utils.Logger().Debug("operator consistency", "sum|L - Div*Grad|", s.Residual,
		"vertices", N, "faces", m.NumFaces())

	if s.diffuser, err = heat.NewDiffuser(ops.L, ops.A, s.Dt, cfg.solver); err != nil {
		return nil, err
	}
	s.diffuser.MassWeighted = cfg.massWeighted
	s.steps = cfg.steps

	s.label, s.nComp = activeMesh(m, ops.Degenerate).Components()
	pinned := make([]bool, s.nComp)
	for i, c := range s.label {
		if !pinned[c] {
			// Components are numbered in order of their lowest vertex
			pinned[c] = true
			continue
		}
		s.free = append(s.free, i)
	}
	K := ops.L.Scale(-1).Submatrix(s.free)
	K.SetReadOnly("poisson system")
	if s.poisson, err = utils.NewLinearSolver(K, cfg.solver); err != nil {
		err = fmt.Errorf("unable to prepare poisson system: %w", err)
		return nil, err
	}
	return
}

// activeMesh drops faces left out of assembly so connectivity matches the operators
func activeMesh(m *mesh.TriMesh, degenerate []int) *mesh.TriMesh {
	if len(degenerate) == 0 {
		return m
	}
	var (
		drop  = make(map[int]bool, len(degenerate))
		faces = make([][3]int, 0, m.NumFaces()-len(degenerate))
	)
	for _, f := range degenerate {
		drop[f] = true
	}
	for f, face := range m.Faces {
		if !drop[f] {
			faces = append(faces, face)
		}
	}
	return &mesh.TriMesh{Vertices: m.Vertices, Faces: faces}
}

func (s *Solver) NumComponents() int { return s.nComp }

// FlatFaceFraction is the share of active faces without a heat gradient above which Distance warns
const FlatFaceFraction = 1.e-3

/*
Distance returns the approximate geodesic distance from the nearest origin to every vertex.
Each connected component that holds an origin is shifted to a minimum of exactly zero, vertices in
components without an origin are at +Inf.
*/
func (s *Solver) Distance(origins []int) (phi utils.Vector, err error) {
	phi, _, err = s.DistanceReport(origins)
	return
}

/*
DistanceReport is Distance that also returns the number of active faces on which the diffused heat
had no usable gradient. Those faces carry no direction into the Poisson solve, so a count above a
small fraction of the mesh means the heat did not reach part of it and the distances there are not
reliable. That case is logged at warn level.
*/
func (s *Solver) DistanceReport(origins []int) (phi utils.Vector, flatFaces int, err error) {
	var (
		N = s.Mesh.NumVertices()
		M = s.Mesh.NumFaces()
	)
	if len(origins) == 0 {
		err = ErrNoOrigins
		return
	}
	u0 := utils.NewVector(N)
	for _, v := range origins {
		if v < 0 || v >= N {
			err = fmt.Errorf("%w: vertex %d, mesh has %d vertices", ErrOriginOutOfRange, v, N)
			return
		}
		u0.Data()[v] = 1.
	}

	u, err := s.diffuser.Diffuse(u0, s.steps)
	if err != nil {
		return
	}

	// Unit vector field pointing away from the sources, per face
	grads := s.Ops.Grad.MulVec(nil, u.Data())
	for f := 0; f < M; f++ {
		g := grads[3*f : 3*f+3]
		norm := math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2])
		if !(norm > 0) || math.IsInf(norm, 0) {
			g[0], g[1], g[2] = 0, 0, 0
			if s.Ops.FaceArea == nil || s.Ops.FaceArea[f] != 0 {
				flatFaces++
			}
			continue
		}
		g[0], g[1], g[2] = -g[0]/norm, -g[1]/norm, -g[2]/norm
	}
	switch active := M - len(s.Ops.Degenerate); {
	case float64(flatFaces) > FlatFaceFraction*float64(active):
		utils.Logger().Warn("heat did not reach part of the mesh, distances there are unreliable",
			"flat faces", flatFaces, "active faces", active)
	case flatFaces != 0:
		utils.Logger().Debug("faces without a heat gradient", "count", flatFaces)
	}
	X := s.Ops.Div.MulVec(nil, grads)

	b := make([]float64, len(s.free))
	for ii, i := range s.free {
		b[ii] = -X[i]
	}
	var phiF []float64
	if phiF, err = s.poisson.Solve(b); err != nil {
		err = fmt.Errorf("poisson solve: %w", err)
		return
	}
	phi = utils.NewVector(N)
	data := phi.Data()
	for ii, i := range s.free {
		data[i] = phiF[ii]
	}
	s.anchor(data, origins)
	return
}

func (s *Solver) anchor(phi []float64, origins []int) {
	var (
		hasOrigin = make([]bool, s.nComp)
		minVal    = make([]float64, s.nComp)
	)
	for _, v := range origins {
		hasOrigin[s.label[v]] = true
	}
	for c := range minVal {
		minVal[c] = math.Inf(1)
	}
	for i, c := range s.label {
		minVal[c] = math.Min(minVal[c], phi[i])
	}
	for i, c := range s.label {
		if hasOrigin[c] {
			phi[i] -= minVal[c]
		} else {
			phi[i] = math.Inf(1)
		}
	}
}

/*
HeatMethod computes geodesic distance from origins in one call, from operators assembled by the
caller. The operator consistency residual is logged at debug level.
*/
func HeatMethod(origins []int, m *mesh.TriMesh, L utils.CSR, A utils.Vector, Grad, Div utils.CSR,
	opts ...Option) (phi utils.Vector, err error) {
	var (
		s *Solver
	)
	if len(origins) == 0 {
		err = ErrNoOrigins
		return
	}
	if s, err = NewSolverFromOperators(m, L, A, Grad, Div, opts...); err != nil {
		return
	}
	return s.Distance(origins)
}
