package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/geoheat/operators"
	"github.com/notargets/geoheat/utils"
)

// Parameters obtained from the YAML input file, ghodss/yaml decodes through the json tags
type GeodesicParameters struct {
	Title           string  `json:"Title"`
	Origins         []int   `json:"Origins"`
	TimeScale       float64 `json:"TimeScale"`     // dt = TimeScale * h^2, h the mean edge length
	Steps           int     `json:"Steps"`         // Implicit heat steps
	MassWeightedRHS bool    `json:"MassWeightedRHS"`
	Solver          string  `json:"Solver"`        // band, cholesky or cg
	Tolerance       float64 `json:"Tolerance"`     // Relative residual for cg
	MaxIterations   int     `json:"MaxIterations"` // Zero lets cg choose from the system size
	DegenerateFaces string  `json:"DegenerateFaces"`
}

var ExampleFile = `
########################################
Title: "Distance from the north pole"
Origins: [0]
TimeScale: 1.       # dt = TimeScale * (mean edge length)^2
Steps: 1
MassWeightedRHS: false
Solver: band        # Can be "cholesky" or "cg"
Tolerance: 1.e-12
DegenerateFaces: reject # Can be "skip" or "ignore"
########################################
`

func NewGeodesicParameters() *GeodesicParameters {
	return &GeodesicParameters{
		TimeScale:       1,
		Steps:           1,
		Solver:          "band",
		Tolerance:       utils.DefaultSolverConfig().Tolerance,
		DegenerateFaces: "reject",
	}
}

// Parse overlays the file content on the receiver, fields absent from the file keep their values
func (gp *GeodesicParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, gp)
}

func (gp *GeodesicParameters) Validate() (err error) {
	var errs []string
	if gp.TimeScale <= 0 {
		errs = append(errs, fmt.Sprintf("TimeScale must be positive, have %g", gp.TimeScale))
	}
	if gp.Steps < 1 {
		errs = append(errs, fmt.Sprintf("Steps must be at least 1, have %d", gp.Steps))
	}
	if gp.Tolerance <= 0 {
		errs = append(errs, fmt.Sprintf("Tolerance must be positive, have %g", gp.Tolerance))
	}
	if gp.MaxIterations < 0 {
		errs = append(errs, fmt.Sprintf("MaxIterations can not be negative, have %d", gp.MaxIterations))
	}
	if _, err = utils.NewSolverType(gp.Solver); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err = operators.NewDegeneratePolicy(gp.DegenerateFaces); err != nil {
		errs = append(errs, err.Error())
	}
	for _, o := range gp.Origins {
		if o < 0 {
			errs = append(errs, fmt.Sprintf("Origins can not be negative, have %d", o))
		}
	}
	if len(errs) != 0 {
		return fmt.Errorf("invalid input parameters:\n\t%s", strings.Join(errs, "\n\t"))
	}
	return nil
}

// SolverConfig and DegeneratePolicy expect a validated receiver
func (gp *GeodesicParameters) SolverConfig() (sc utils.SolverConfig) {
	sc.Type, _ = utils.NewSolverType(gp.Solver)
	sc.Tolerance = gp.Tolerance
	sc.MaxIterations = gp.MaxIterations
	return
}

func (gp *GeodesicParameters) DegeneratePolicy() (dp operators.DegeneratePolicy) {
	dp, _ = operators.NewDegeneratePolicy(gp.DegenerateFaces)
	return
}

func (gp *GeodesicParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", gp.Title)
	fmt.Printf("%v\t\t\t= Origins\n", gp.Origins)
	fmt.Printf("%8.5f\t\t= TimeScale\n", gp.TimeScale)
	fmt.Printf("[%d]\t\t\t= Heat Steps\n", gp.Steps)
	fmt.Printf("[%t]\t\t\t= Mass Weighted RHS\n", gp.MassWeightedRHS)
	fmt.Printf("[%s]\t\t\t= Solver\n", gp.Solver)
	fmt.Printf("%8.2e\t\t= Tolerance\n", gp.Tolerance)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", gp.MaxIterations)
	fmt.Printf("[%s]\t\t= Degenerate Faces\n", gp.DegenerateFaces)
}
