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

	"github.com/notargets/geoheat/operators"
	"github.com/notargets/geoheat/readfiles"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Mesh statistics and operator diagnostics",
	Long: `
Reports the size, topology and surface area of a mesh together with checks on the assembled
operators: Laplacian symmetry and row sums, and the residual of L = Div*Grad.

geoheat inspect -F builtin:icosphere:3`,
	Run: func(cmd *cobra.Command, args []string) {
		gridFile, _ := cmd.Flags().GetString("gridFile")
		if len(gridFile) == 0 {
			fmt.Printf("error: must supply a mesh file (-F, --gridFile)\n")
			os.Exit(1)
		}
		if _, err := Inspect(gridFile, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(InspectCmd)
	InspectCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read (.off, .obj, .su2) or builtin:<name>")
}

type MeshStats struct {
	Vertices, Faces, Edges int
	BoundaryEdges          int
	NonManifoldEdges       int
	MisorientedEdges       int
	Components             int
	EulerCharacteristic    int
	DegenerateFaces        int
	Area, MeanSpacing      float64
	Asymmetry              float64 // max|L - L^T|
	MaxRowSum              float64 // max|sum_j L_ij|
	Consistency            float64 // sum|L - Div*Grad|
}

func Inspect(gridFile string, w io.Writer) (ms *MeshStats, err error) {
	tm, err := readfiles.ReadMesh(gridFile)
	if err != nil {
		return
	}
	ops, err := operators.Assemble(tm, operators.WithDegeneratePolicy(operators.SkipDegenerate))
	if err != nil {
		return
	}
	edges := tm.Edges()
	_, nComp := tm.Components()
	ms = &MeshStats{
		Vertices:            tm.NumVertices(),
		Faces:               tm.NumFaces(),
		Edges:               len(edges),
		BoundaryEdges:       len(edges.Boundary()),
		NonManifoldEdges:    len(edges.NonManifold()),
		MisorientedEdges:    len(edges.Misoriented()),
		Components:          nComp,
		EulerCharacteristic: tm.EulerCharacteristic(),
		DegenerateFaces:     len(ops.Degenerate),
		Area:                floats.Sum(ops.FaceArea),
		MeanSpacing:         ops.MeanSpacing,
		Asymmetry:           ops.L.Asymmetry(),
		Consistency:         operators.ConsistencyResidual(ops.L, ops.Div, ops.Grad),
	}
	for _, s := range ops.L.RowSums() {
		ms.MaxRowSum = math.Max(ms.MaxRowSum, math.Abs(s))
	}
	ms.Print(w)
	return
}

func (ms *MeshStats) Print(w io.Writer) {
	fmt.Fprintf(w, "[%d]\t\t= Vertices\n", ms.Vertices)
	fmt.Fprintf(w, "[%d]\t\t= Faces\n", ms.Faces)
	fmt.Fprintf(w, "[%d]\t\t= Edges\n", ms.Edges)
	fmt.Fprintf(w, "[%d]\t\t= Boundary Edges\n", ms.BoundaryEdges)
	fmt.Fprintf(w, "[%d]\t\t= Non-manifold Edges\n", ms.NonManifoldEdges)
	fmt.Fprintf(w, "[%d]\t\t= Misoriented Edges\n", ms.MisorientedEdges)
	fmt.Fprintf(w, "[%d]\t\t= Connected Components\n", ms.Components)
	fmt.Fprintf(w, "[%d]\t\t= Euler Characteristic\n", ms.EulerCharacteristic)
	fmt.Fprintf(w, "[%d]\t\t= Degenerate Faces\n", ms.DegenerateFaces)
	fmt.Fprintf(w, "%8.5f\t= Surface Area\n", ms.Area)
	fmt.Fprintf(w, "%8.5f\t= Mean Edge Length\n", ms.MeanSpacing)
	fmt.Fprintf(w, "%8.3e\t= max|L - L^T|\n", ms.Asymmetry)
	fmt.Fprintf(w, "%8.3e\t= max|row sum of L|\n", ms.MaxRowSum)
	fmt.Fprintf(w, "%8.3e\t= sum|L - Div*Grad|\n", ms.Consistency)
}
