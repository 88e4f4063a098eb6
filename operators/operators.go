/*
Package operators assembles the discrete differential operators of a triangle mesh: the cotangent
Laplacian, the per-face gradient, the cotangent divergence and the lumped vertex areas.

Sign convention: L has positive off-diagonal weights and a negative diagonal, so it is negative
semi-definite, and L = Div*Grad up to round-off.
*/
package operators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/utils"
)

// ErrDegenerateFace is returned when a zero area or collinear face is met under RejectDegenerate
var ErrDegenerateFace = errors.New("operators: degenerate face")

type DegeneratePolicy uint8

const (
	RejectDegenerate DegeneratePolicy = iota // Fail assembly on the first degenerate face
	SkipDegenerate                           // Drop degenerate faces from every operator
	IgnoreDegenerate                         // No check, non-finite values propagate
)

var (
	DegeneratePolicyNames = map[string]DegeneratePolicy{
		"reject": RejectDegenerate,
		"skip":   SkipDegenerate,
		"ignore": IgnoreDegenerate,
	}
	DegeneratePolicyPrintNames = []string{"Reject", "Skip", "Ignore"}
)

func NewDegeneratePolicy(label string) (dp DegeneratePolicy, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if dp, ok = DegeneratePolicyNames[label]; !ok {
		err = fmt.Errorf("unknown degenerate face policy %s", label)
	}
	return
}

func (dp DegeneratePolicy) Print() (txt string) {
	txt = DegeneratePolicyPrintNames[dp]
	return
}

const DefaultDegenerateTolerance = utils.NODETOL

type config struct {
	policy DegeneratePolicy
	tol    float64
}

type Option func(*config)

func WithDegeneratePolicy(p DegeneratePolicy) Option {
	return func(c *config) { c.policy = p }
}

// WithDegenerateTolerance sets the ratio of |e1 x e2| to the squared longest edge below which a face is degenerate
func WithDegenerateTolerance(tol float64) Option {
	return func(c *config) { c.tol = tol }
}

func newConfig(opts []Option) (c config) {
	c = config{
		policy: RejectDegenerate,
		tol:    DefaultDegenerateTolerance,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return
}

// Operators holds everything the heat method needs from one mesh, all read-only after Assemble
type Operators struct {
	L           utils.CSR    // N x N cotangent Laplacian
	A           utils.Vector // Lumped vertex areas
	Grad        utils.CSR    // 3M x N
	Div         utils.CSR    // N x 3M
	FaceArea    []float64
	MeanSpacing float64
	Degenerate  []int // Faces left out under SkipDegenerate
}

func Assemble(m *mesh.TriMesh, opts ...Option) (ops *Operators, err error) {
	var (
		cfg  = newConfig(opts)
		skip []bool
	)
	ops = &Operators{}
	if skip, ops.Degenerate, err = screenFaces(m, cfg); err != nil {
		return nil, err
	}
	ops.L = cotangentLaplacian(m, skip)
	ops.Grad = faceGrad(m, skip)
	ops.Div = div(m, skip)
	ops.FaceArea = FaceArea(m)
	for _, f := range ops.Degenerate {
		ops.FaceArea[f] = 0
	}
	ops.A = vertexArea(m, ops.FaceArea)
	ops.MeanSpacing = meanSpacing(m, skip)
	ops.L.SetReadOnly("L")
	ops.Grad.SetReadOnly("Grad")
	ops.Div.SetReadOnly("Div")
	return
}

/*
FromMatrices wraps operators assembled elsewhere. Faces whose three Grad rows hold no nonzero value
were left out of assembly, they are recorded in Degenerate and excluded from FaceArea and
MeanSpacing just as Assemble does under SkipDegenerate.
*/
func FromMatrices(m *mesh.TriMesh, L utils.CSR, A utils.Vector, Grad, Div utils.CSR) (ops *Operators, err error) {
	var (
		N, M   = m.NumVertices(), m.NumFaces()
		active = make([]bool, M)
		skip   []bool
	)
	check := func(name string, mat utils.CSR, nr, nc int) {
		if r, c := mat.Dims(); err == nil && (r != nr || c != nc) {
			err = fmt.Errorf("%w: %s is %dx%d, want %dx%d for %d vertices and %d faces",
				utils.ErrDimensionMismatch, name, r, c, nr, nc, N, M)
		}
	}
	check("L", L, N, N)
	check("Grad", Grad, 3*M, N)
	check("Div", Div, N, 3*M)
	if err == nil && A.Len() != N {
		err = fmt.Errorf("%w: A has %d entries for %d vertices", utils.ErrDimensionMismatch, A.Len(), N)
	}
	if err != nil {
		return
	}
	Grad.DoNonZero(func(i, _ int, val float64) {
		if val != 0 {
			active[i/3] = true
		}
	})
	ops = &Operators{L: L, A: A, Grad: Grad, Div: Div, FaceArea: FaceArea(m)}
	for f, ok := range active {
		if !ok {
			ops.Degenerate = append(ops.Degenerate, f)
			ops.FaceArea[f] = 0
		}
	}
	if len(ops.Degenerate) != 0 {
		skip = make([]bool, M)
		for _, f := range ops.Degenerate {
			skip[f] = true
		}
		utils.Logger().Debug("faces missing from supplied Grad", "count", len(ops.Degenerate))
	}
	ops.MeanSpacing = meanSpacing(m, skip)
	return
}

// ConsistencyResidual returns sum(|L - Div*Grad|), which is round-off sized for a correct operator pair
func ConsistencyResidual(L, Div, Grad utils.CSR) float64 {
	return L.Sub(Div.Mul(Grad)).AbsSum()
}

/*
screenFaces marks the faces to leave out of assembly. A face is degenerate when it repeats a vertex
or when |e1 x e2| <= tol * max|e|^2, which also catches non-finite coordinates.
*/
func screenFaces(m *mesh.TriMesh, cfg config) (skip []bool, degenerate []int, err error) {
	if cfg.policy == IgnoreDegenerate {
		return
	}
	skip = make([]bool, m.NumFaces())
	for f, face := range m.Faces {
		p0, p1, p2 := m.Corners(f)
		var (
			e1, e2, e3 = p1.Sub(p0), p2.Sub(p1), p0.Sub(p2)
			area2      = e1.Cross(e3.Mul(-1)).Norm()
			maxLen2    = max(e1.Norm2(), e2.Norm2(), e3.Norm2())
		)
		repeated := face[0] == face[1] || face[1] == face[2] || face[2] == face[0]
		if !repeated && area2 > cfg.tol*maxLen2 {
			continue
		}
		if cfg.policy == RejectDegenerate {
			err = fmt.Errorf("%w: face %d (%d,%d,%d) has |e1 x e2| = %g",
				ErrDegenerateFace, f, face[0], face[1], face[2], area2)
			return
		}
		skip[f] = true
		degenerate = append(degenerate, f)
	}
	if len(degenerate) != 0 {
		utils.Logger().Warn("skipping degenerate faces", "count", len(degenerate), "first", degenerate[0])
	}
	return
}

func skipped(skip []bool, f int) bool {
	return skip != nil && skip[f]
}
