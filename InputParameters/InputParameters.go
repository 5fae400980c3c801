package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title            string  `yaml:"Title"`
	MatrixSolver     string  `yaml:"MatrixSolver"` // "lusgs" or "dplur"
	MatrixSweeps     int     `yaml:"MatrixSweeps"`
	MatrixRelaxation float64 `yaml:"MatrixRelaxation"` // omega >= 1 damps the diagonal
	Theta            float64 `yaml:"Theta"`            // implicit time discretization weight
	DualTimeCFL      float64 `yaml:"DualTimeCFL"`      // <= 0 disables dual time stepping
	NumEquations     int     `yaml:"NumEquations"`
	NumSpecies       int     `yaml:"NumSpecies"`
	// Model problem controls
	BlockSize     [3]int  `yaml:"BlockSize"` // NI, NJ, NK per block
	NumBlocks     int     `yaml:"NumBlocks"` // blocks stacked along I
	MaxIterations int     `yaml:"MaxIterations"`
	Diffusivity   float64 `yaml:"Diffusivity"`
	ProcLimit     int     `yaml:"ProcLimit"` // 0 uses all cores
}

func (ip *InputParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

func (ip *InputParameters) Validate() error {
	switch strings.ToLower(ip.MatrixSolver) {
	case "lusgs", "dplur":
		ip.MatrixSolver = strings.ToLower(ip.MatrixSolver)
	default:
		return fmt.Errorf("unknown MatrixSolver %q, must be lusgs or dplur", ip.MatrixSolver)
	}
	if ip.Theta <= 0 {
		return fmt.Errorf("Theta must be positive, have %v", ip.Theta)
	}
	if ip.MatrixRelaxation < 1 {
		return fmt.Errorf("MatrixRelaxation must be >= 1, have %v", ip.MatrixRelaxation)
	}
	if ip.NumEquations < 1 || ip.NumSpecies < 0 {
		return fmt.Errorf("need NumEquations >= 1 and NumSpecies >= 0, have %d, %d",
			ip.NumEquations, ip.NumSpecies)
	}
	return nil
}

// NumVariables is the length L of the conservative variable vector, the
// momentum/energy equations plus one continuity equation per species
func (ip *InputParameters) NumVariables() int {
	return ip.NumEquations + ip.NumSpecies
}

// The DP-LUR solver has no within-sweep coupling, so its update is seeded
// with the block-Jacobi estimate to make the first sweep productive
func (ip *InputParameters) MatrixRequiresInitialization() bool {
	return ip.MatrixSolver == "dplur"
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Matrix Solver\n", ip.MatrixSolver)
	fmt.Printf("[%d]\t\t\t\t= Matrix Sweeps\n", ip.MatrixSweeps)
	fmt.Printf("%8.5f\t\t= Matrix Relaxation\n", ip.MatrixRelaxation)
	fmt.Printf("%8.5f\t\t= Theta\n", ip.Theta)
	fmt.Printf("%8.5f\t\t= Dual Time CFL\n", ip.DualTimeCFL)
	fmt.Printf("[%d+%d]\t\t\t= Equations + Species\n", ip.NumEquations, ip.NumSpecies)
	fmt.Printf("[%dx%dx%d] x %d\t\t= Block Size x Num Blocks\n",
		ip.BlockSize[0], ip.BlockSize[1], ip.BlockSize[2], ip.NumBlocks)
}
