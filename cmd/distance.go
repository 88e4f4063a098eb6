/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/notargets/geoheat/InputParameters"
	"github.com/notargets/geoheat/geodesic"
	"github.com/notargets/geoheat/mesh"
	"github.com/notargets/geoheat/operators"
	"github.com/notargets/geoheat/readfiles"
	"github.com/notargets/geoheat/utils"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type DistanceRun struct {
	GridFile   string
	ICFile     string
	OutFile    string // "-" writes to stdout
	VTKFile    string
	ProfileDir string
	Origins    []int // Replaces the Origins of the input file when not empty
}

// DistanceCmd represents the distance command
var DistanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Geodesic distance from source vertices to every vertex of a mesh",
	Long: `
Reads a triangle mesh (.off, .obj, .su2 or builtin:<name>) and writes the heat method geodesic
distance from the origin vertices to every vertex.

geoheat distance -F bunny.off -I params.yaml -o bunny.dist --vtk bunny.vtk`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		dr := &DistanceRun{}
		if dr.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		if dr.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		dr.OutFile, _ = cmd.Flags().GetString("output")
		dr.VTKFile, _ = cmd.Flags().GetString("vtk")
		dr.ProfileDir = viper.GetString("cpuprofile")
		dr.Origins, _ = cmd.Flags().GetIntSlice("origins")
		gp, err := processInput(dr, viper.GetViper())
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if len(dr.ProfileDir) != 0 {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(dr.ProfileDir),
				profile.NoShutdownHook).Stop()
		}
		if _, _, err = RunDistance(dr, gp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(DistanceCmd)
	DistanceCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read (.off, .obj, .su2, .neu) or builtin:icosphere:N, builtin:grid:N, builtin:triangle, builtin:tetrahedron")
	DistanceCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Origins\n\t- TimeScale\n\t- Solver")
	DistanceCmd.Flags().StringP("output", "o", "", "file for the distances, one per vertex, - for stdout")
	DistanceCmd.Flags().String("vtk", "", "legacy VTK file with the mesh and the distance field")
	DistanceCmd.Flags().IntSlice("origins", nil, "source vertices, replaces Origins from the input file")
	DistanceCmd.Flags().String("solver", "band", "linear solver: band, cholesky or cg")
	DistanceCmd.Flags().Float64("timeScale", 1, "dt = timeScale * (mean edge length)^2")
	DistanceCmd.Flags().Int("steps", 1, "number of implicit heat steps")
	DistanceCmd.Flags().String("degenerateFaces", "reject", "degenerate face policy: reject, skip or ignore")
	DistanceCmd.Flags().String("cpuprofile", "", "directory for a CPU profile")
	for _, key := range []string{"solver", "timeScale", "steps", "degenerateFaces", "cpuprofile"} {
		_ = viper.BindPFlag(key, DistanceCmd.Flags().Lookup(key))
	}
}

/*
processInput reads the run parameters: defaults, then the input file, then any value set in the
config file, the environment or on the command line.
*/
func processInput(dr *DistanceRun, v *viper.Viper) (gp *InputParameters.GeodesicParameters, err error) {
	if len(dr.GridFile) == 0 {
		err = fmt.Errorf("must supply a mesh file (-F, --gridFile) in .off, .obj or .su2 format, or a builtin mesh")
		return
	}
	gp = InputParameters.NewGeodesicParameters()
	if len(dr.ICFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(dr.ICFile); err != nil {
			return nil, err
		}
		if err = gp.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", dr.ICFile, err)
		}
	}
	if v.IsSet("solver") {
		gp.Solver = v.GetString("solver")
	}
	if v.IsSet("timeScale") {
		gp.TimeScale = v.GetFloat64("timeScale")
	}
	if v.IsSet("steps") {
		gp.Steps = v.GetInt("steps")
	}
	if v.IsSet("degenerateFaces") {
		gp.DegenerateFaces = v.GetString("degenerateFaces")
	}
	if len(dr.Origins) != 0 {
		gp.Origins = dr.Origins
	}
	if len(gp.Origins) == 0 {
		fmt.Printf("Example File:%s\n", InputParameters.ExampleFile)
		return nil, fmt.Errorf("must supply origin vertices, in the input parameters file (-I) or with --origins")
	}
	if err = gp.Validate(); err != nil {
		return nil, err
	}
	return
}

func RunDistance(dr *DistanceRun, gp *InputParameters.GeodesicParameters) (tm *mesh.TriMesh, d utils.Vector, err error) {
	var (
		s     *geodesic.Solver
		flat  int
		start = time.Now()
	)
	if tm, err = readfiles.ReadMesh(dr.GridFile); err != nil {
		return
	}
	fmt.Printf("Read %s: %d vertices, %d faces\n", dr.GridFile, tm.NumVertices(), tm.NumFaces())
	gp.Print()
	s, err = geodesic.NewSolver(tm,
		geodesic.WithTimeScale(gp.TimeScale),
		geodesic.WithSteps(gp.Steps),
		geodesic.WithMassWeightedHeat(gp.MassWeightedRHS),
		geodesic.WithSolver(gp.SolverConfig()),
		geodesic.WithAssemblyOptions(operators.WithDegeneratePolicy(gp.DegeneratePolicy())),
	)
	if err != nil {
		return
	}
	fmt.Printf("Prepared %s systems in %v: dt = %8.3e, components = %d, sum|L - Div*Grad| = %8.3e\n",
		gp.SolverConfig().Type.Print(), time.Since(start), s.Dt, s.NumComponents(), s.Residual)
	if len(s.Ops.Degenerate) != 0 {
		fmt.Printf("Skipped %d degenerate faces\n", len(s.Ops.Degenerate))
	}
	start = time.Now()
	if d, flat, err = s.DistanceReport(gp.Origins); err != nil {
		return
	}
	fmt.Printf("Solved in %v\n", time.Since(start))
	if flat != 0 {
		fmt.Printf("Warning: %d faces without a heat gradient, try a larger timeScale or the band solver\n", flat)
	}
	fmt.Printf("Memory: %s\n", utils.GetMemUsage())
	if utils.IsNan(s.Ops.L) || utils.IsNan(d) {
		fmt.Printf("Warning: NaN in the operators or distances, check degenerate faces (policy %s)\n",
			gp.DegeneratePolicy().Print())
	}
	printSummary(d)
	if len(dr.OutFile) != 0 {
		if err = writeTo(dr.OutFile, func(w io.Writer) error { return readfiles.WriteDistances(w, d) }); err != nil {
			return
		}
	}
	if len(dr.VTKFile) != 0 {
		name := gp.Title
		if len(name) == 0 {
			name = "distance"
		}
		if err = writeTo(dr.VTKFile, func(w io.Writer) error { return readfiles.WriteVTK(w, tm, d, name) }); err != nil {
			return
		}
	}
	return
}

func printSummary(d utils.Vector) {
	var (
		maxFinite, sum float64
		nFinite        int
	)
	for _, val := range d.Data() {
		if math.IsInf(val, 1) {
			continue
		}
		maxFinite = math.Max(maxFinite, val)
		sum += val
		nFinite++
	}
	fmt.Printf("Distance: min = %8.5f, max = %8.5f, mean = %8.5f, unreachable vertices = %d\n",
		d.Min(), maxFinite, sum/float64(max(nFinite, 1)), d.Len()-nFinite)
}

func writeTo(path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	if err = write(file); err != nil {
		file.Close()
		return
	}
	if err = file.Close(); err == nil {
		fmt.Printf("Wrote %s\n", path)
	}
	return
}
