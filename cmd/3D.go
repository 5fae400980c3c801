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
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/flowsolve/gofvm/InputParameters"
	"github.com/flowsolve/gofvm/model_problems/Diffusion3D"

	"github.com/spf13/cobra"
)

type Model3D struct {
	ICFile  string
	Graph   bool
	Profile bool
	Delay   time.Duration
}

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D",
	Short: "Three dimensional multiblock implicit relaxation model problem",
	Long: `
Runs the steady reaction-diffusion model problem on a row of blocks, driving
the LU-SGS or DP-LUR matrix relaxation to convergence

gofvm 3D -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("3D called")
		m3d := &Model3D{}
		if m3d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m3d.Graph, _ = cmd.Flags().GetBool("graph")
		m3d.Profile, _ = cmd.Flags().GetBool("profile")
		dr, _ := cmd.Flags().GetInt("delay")
		m3d.Delay = time.Duration(dr) * time.Millisecond
		ip := processInput(m3d)
		Run3D(m3d, ip)
	},
}

func processInput(m3d *Model3D) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	ip = &InputParameters.InputParameters{
		Title:            "Multiblock Diffusion",
		MatrixSolver:     "lusgs",
		MatrixSweeps:     4,
		MatrixRelaxation: 1,
		Theta:            1,
		NumEquations:     1,
		NumSpecies:       0,
		BlockSize:        [3]int{8, 8, 8},
		NumBlocks:        4,
		MaxIterations:    2000,
		Diffusivity:      0.25,
	}
	if len(m3d.ICFile) == 0 {
		exampleFile := `
########################################
Title: "Multiblock Diffusion"
MatrixSolver: lusgs       # or dplur
MatrixSweeps: 4
MatrixRelaxation: 1.
Theta: 1.
DualTimeCFL: 0.
NumEquations: 1
NumSpecies: 0
BlockSize: [8, 8, 8]
NumBlocks: 4
MaxIterations: 2000
Diffusivity: 0.25
########################################
`
		fmt.Printf("no input parameters file (-I), using defaults. Example File:%s\n", exampleFile)
		return
	}
	var data []byte
	if data, err = ioutil.ReadFile(m3d.ICFile); err != nil {
		panic(err)
	}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func Run3D(m3d *Model3D, ip *InputParameters.InputParameters) {
	if m3d.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	c := Diffusion3D.NewDiffusion(ip)
	c.Run(m3d.Graph, m3d.Delay)
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	ThreeDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- MatrixSolver\n\t- MatrixSweeps")
	ThreeDCmd.Flags().BoolP("graph", "g", false, "display a residual history graph while computing")
	ThreeDCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	ThreeDCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
}
