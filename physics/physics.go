package physics

import (
	"math"
)

/*
	The implicit operator never stores flux jacobians. Instead, the action of
	an off-diagonal block on a neighbor update is approximated as

		A*S*du = 0.5 * (dF(du)*S + K*du)

	where dF(du) is the convective flux difference induced by perturbing the
	neighbor state by du, and K is the face spectral radius. Models supplies
	the dF term and the overrelaxation factor applied to K; the grid block
	supplies the geometry and the spectral radii.
*/
type Models interface {
	// ConvectiveFluxDelta stores F(q+dq).S - F(q).S into dst
	ConvectiveFluxDelta(q, dq, area, dst []float64)
	// SpectralRadiusRelaxation is the factor (<= 1) applied to the face
	// spectral radius in the off diagonal action, 1 is SGS, < 1 is SOR
	SpectralRadiusRelaxation() float64
}

// IdealGas is the calorically perfect gas model. The conservative variable
// layout is [rho_1..rho_ns, rho*u, rho*v, rho*w, rho*E].
type IdealGas struct {
	Gamma      float64
	NumSpecies int
	RelaxK     float64 // overrelaxation factor on the spectral radius
}

func NewIdealGas(gamma float64, numSpecies int) *IdealGas {
	return &IdealGas{
		Gamma:      gamma,
		NumSpecies: numSpecies,
		RelaxK:     1,
	}
}

func (ig *IdealGas) SpectralRadiusRelaxation() float64 { return ig.RelaxK }

func (ig *IdealGas) ConvectiveFluxDelta(q, dq, area, dst []float64) {
	var (
		qp = make([]float64, len(q))
	)
	for i := range q {
		qp[i] = q[i] + dq[i]
	}
	ig.convectiveFlux(qp, area, dst)
	f := make([]float64, len(q))
	ig.convectiveFlux(q, area, f)
	for i := range dst {
		dst[i] -= f[i]
	}
}

// convectiveFlux stores F(q).S into dst, S carries the face area magnitude
func (ig *IdealGas) convectiveFlux(q, area, dst []float64) {
	var (
		ns  = ig.NumSpecies
		rho float64
	)
	for s := 0; s < ns; s++ {
		rho += q[s]
	}
	var (
		u  = q[ns] / rho
		v  = q[ns+1] / rho
		w  = q[ns+2] / rho
		E  = q[ns+3] / rho
		p  = (ig.Gamma - 1) * rho * (E - 0.5*(u*u+v*v+w*w))
		vn = u*area[0] + v*area[1] + w*area[2] // velocity dotted with the area vector
	)
	for s := 0; s < ns; s++ {
		dst[s] = q[s] * vn // species continuity
	}
	dst[ns] = q[ns]*vn + p*area[0]
	dst[ns+1] = q[ns+1]*vn + p*area[1]
	dst[ns+2] = q[ns+2]*vn + p*area[2]
	dst[ns+3] = (q[ns+3] + p) * vn
}

// ConvectiveSpectralRadius is |u.n| + c scaled by the face area magnitude
func (ig *IdealGas) ConvectiveSpectralRadius(q, area []float64) float64 {
	var (
		ns  = ig.NumSpecies
		rho float64
	)
	for s := 0; s < ns; s++ {
		rho += q[s]
	}
	var (
		u     = q[ns] / rho
		v     = q[ns+1] / rho
		w     = q[ns+2] / rho
		E     = q[ns+3] / rho
		p     = (ig.Gamma - 1) * rho * (E - 0.5*(u*u+v*v+w*w))
		c     = math.Sqrt(ig.Gamma * p / rho)
		aMag  = math.Sqrt(area[0]*area[0] + area[1]*area[1] + area[2]*area[2])
		vn    = u*area[0] + v*area[1] + w*area[2]
		radii = math.Abs(vn) + c*aMag
	)
	return radii
}

// Linear is a scalar linearization used by model problems and tests: the
// flux delta is Coeff times the update, scaled by the face area magnitude.
// Coeff = 0 with zero spectral radii gives identity physics.
type Linear struct {
	Coeff  float64
	RelaxK float64
}

func NewLinear(coeff float64) *Linear {
	return &Linear{Coeff: coeff, RelaxK: 1}
}

func (lm *Linear) SpectralRadiusRelaxation() float64 { return lm.RelaxK }

func (lm *Linear) ConvectiveFluxDelta(q, dq, area, dst []float64) {
	var (
		aMag = math.Sqrt(area[0]*area[0] + area[1]*area[1] + area[2]*area[2])
	)
	for i := range dst {
		dst[i] = lm.Coeff * aMag * dq[i]
	}
}
