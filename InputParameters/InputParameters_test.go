package InputParameters

import (
	"testing"

	"github.com/notargets/geoheat/operators"
	"github.com/notargets/geoheat/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeodesicParameters(t *testing.T) {
	{ // The example file parses and validates
		gp := NewGeodesicParameters()
		require.NoError(t, gp.Parse([]byte(ExampleFile)))
		require.NoError(t, gp.Validate())
		assert.Equal(t, "Distance from the north pole", gp.Title)
		assert.Equal(t, []int{0}, gp.Origins)
		assert.Equal(t, utils.SOLVER_BandCholesky, gp.SolverConfig().Type)
		assert.Equal(t, operators.RejectDegenerate, gp.DegeneratePolicy())
		gp.Print()
	}
	{ // Absent fields keep their defaults
		gp := NewGeodesicParameters()
		fileInput := []byte(`
Title: Test Case
Origins: [3, 7]
Solver: Cholesky
DegenerateFaces: skip
MassWeightedRHS: true
Steps: 3
`)
		require.NoError(t, gp.Parse(fileInput))
		require.NoError(t, gp.Validate())
		assert.Equal(t, []int{3, 7}, gp.Origins)
		assert.Equal(t, 1., gp.TimeScale)
		assert.Equal(t, 3, gp.Steps)
		assert.True(t, gp.MassWeightedRHS)
		sc := gp.SolverConfig()
		assert.Equal(t, utils.SOLVER_Cholesky, sc.Type)
		assert.Equal(t, 1.e-12, sc.Tolerance)
		assert.Equal(t, operators.SkipDegenerate, gp.DegeneratePolicy())
	}
	{ // Defaults use the direct solver
		gp := NewGeodesicParameters()
		assert.Equal(t, utils.DefaultSolverConfig(), gp.SolverConfig())
		assert.Equal(t, utils.SOLVER_BandCholesky, gp.SolverConfig().Type)
	}
	{ // Every bad field is reported
		gp := NewGeodesicParameters()
		fileInput := []byte(`
TimeScale: -1
Steps: 0
Solver: gmres
DegenerateFaces: fix
Origins: [-2]
`)
		require.NoError(t, gp.Parse(fileInput))
		err := gp.Validate()
		require.Error(t, err)
		for _, s := range []string{"TimeScale", "Steps", "gmres", "fix", "Origins"} {
			assert.Contains(t, err.Error(), s)
		}
	}
	{ // Malformed YAML
		gp := NewGeodesicParameters()
		assert.Error(t, gp.Parse([]byte("Origins: [1, 2\n")))
	}
}
