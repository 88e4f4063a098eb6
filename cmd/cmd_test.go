package cmd

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/geoheat/utils"
)

func TestProcessInput(t *testing.T) {
	var (
		dir       = t.TempDir()
		icFile    = filepath.Join(dir, "params.yaml")
		fileInput = []byte(`
Title: Test Case
Origins: [0, 5]
TimeScale: 2.
Steps: 2
Solver: cholesky # Can be cg
`)
	)
	require.NoError(t, os.WriteFile(icFile, fileInput, 0644))
	{ // File values over defaults
		gp, err := processInput(&DistanceRun{GridFile: "builtin:triangle", ICFile: icFile}, viper.New())
		require.NoError(t, err)
		assert.Equal(t, "Test Case", gp.Title)
		assert.Equal(t, []int{0, 5}, gp.Origins)
		assert.Equal(t, 2., gp.TimeScale)
		assert.Equal(t, 2, gp.Steps)
		assert.Equal(t, utils.SOLVER_Cholesky, gp.SolverConfig().Type)
		assert.Equal(t, "reject", gp.DegenerateFaces)
	}
	{ // Config, environment and flags over file values, --origins over the file origins
		v := viper.New()
		v.Set("solver", "cg")
		v.Set("timeScale", 0.5)
		gp, err := processInput(&DistanceRun{GridFile: "builtin:triangle", ICFile: icFile, Origins: []int{2}}, v)
		require.NoError(t, err)
		assert.Equal(t, utils.SOLVER_CG, gp.SolverConfig().Type)
		assert.Equal(t, 0.5, gp.TimeScale)
		assert.Equal(t, 2, gp.Steps)
		assert.Equal(t, []int{2}, gp.Origins)
	}
	{ // Missing pieces
		_, err := processInput(&DistanceRun{ICFile: icFile}, viper.New())
		assert.Error(t, err)
		_, err = processInput(&DistanceRun{GridFile: "builtin:triangle"}, viper.New())
		assert.Error(t, err)
		_, err = processInput(&DistanceRun{GridFile: "builtin:triangle", ICFile: filepath.Join(dir, "none.yaml")}, viper.New())
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
	{ // Invalid override
		v := viper.New()
		v.Set("steps", 0)
		_, err := processInput(&DistanceRun{GridFile: "builtin:triangle", ICFile: icFile}, v)
		assert.Error(t, err)
	}
}

func TestRunDistance(t *testing.T) {
	var (
		dir = t.TempDir()
		dr  = &DistanceRun{
			GridFile: "builtin:icosphere:2",
			OutFile:  filepath.Join(dir, "sphere.dist"),
			VTKFile:  filepath.Join(dir, "sphere.vtk"),
			Origins:  []int{0},
		}
	)
	gp, err := processInput(dr, viper.New())
	require.NoError(t, err)
	tm, d, err := RunDistance(dr, gp)
	require.NoError(t, err)
	assert.Equal(t, tm.NumVertices(), d.Len())
	assert.Equal(t, 0., d.AtVec(0))
	// Vertex 3 is the antipode of vertex 0 on the unit sphere
	assert.InDelta(t, math.Pi, d.AtVec(3), 0.1*math.Pi)

	data, err := os.ReadFile(dr.OutFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, tm.NumVertices(), len(lines))
	assert.Equal(t, "0", lines[0])

	data, err = os.ReadFile(dr.VTKFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "POINT_DATA 162")

	{ // Origin outside the mesh
		dr2 := &DistanceRun{GridFile: "builtin:triangle", Origins: []int{3}}
		gp, err := processInput(dr2, viper.New())
		require.NoError(t, err)
		_, _, err = RunDistance(dr2, gp)
		assert.Error(t, err)
	}
}

func TestInspect(t *testing.T) {
	{
		var buf bytes.Buffer
		ms, err := Inspect("builtin:tetrahedron", &buf)
		require.NoError(t, err)
		assert.Equal(t, 4, ms.Vertices)
		assert.Equal(t, 4, ms.Faces)
		assert.Equal(t, 6, ms.Edges)
		assert.Equal(t, 0, ms.BoundaryEdges)
		assert.Equal(t, 0, ms.MisorientedEdges)
		assert.Equal(t, 1, ms.Components)
		assert.Equal(t, 2, ms.EulerCharacteristic)
		assert.InDelta(t, 8*math.Sqrt(3), ms.Area, 1.e-12)
		assert.InDelta(t, 2*math.Sqrt(2), ms.MeanSpacing, 1.e-12)
		assert.Less(t, ms.Asymmetry, 1.e-12)
		assert.Less(t, ms.MaxRowSum, 1.e-12)
		assert.Less(t, ms.Consistency, 1.e-9)
		assert.Contains(t, buf.String(), "Euler Characteristic")
	}
	{
		var buf bytes.Buffer
		ms, err := Inspect("builtin:grid:4", &buf)
		require.NoError(t, err)
		assert.Equal(t, 16, ms.BoundaryEdges)
		assert.Equal(t, 1, ms.EulerCharacteristic)
		assert.InDelta(t, 1., ms.Area, 1.e-12)
	}
	{
		var buf bytes.Buffer
		_, err := Inspect("builtin:sphere", &buf)
		assert.Error(t, err)
	}
}
