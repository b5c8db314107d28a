// Package solver implements one explicit FTCS (forward-time, centered-
// space) update of the temperature field, combining a latent-heat
// "apparent heat capacity" nonlinearity with an anisotropic Gaussian
// volumetric source term that tracks a moving beam.
package solver

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-MDF/Finch/grid"
	"github.com/ORNL-MDF/Finch/inp"
)

// wMax is the Gaussian cutoff (~3σ in the source's natural variable).
var wMax = math.Log(3) + 2*math.Log(10)

// Solver holds the time step and material constants derived once from
// configuration rather than recomputed on every cell update.
type Solver struct {
	H         float64
	Dt        float64
	KOverH2   float64
	RhoCp     float64
	RhoLfOverDT float64
	Tsolidus  float64
	Tliquidus float64

	AinvX, AinvY, AinvZ float64 // 1/r_d^2, anisotropic Gaussian radii
	I0                  float64 // peak volumetric intensity
}

// New precomputes the stable time step, the apparent-heat-capacity and
// Laplacian coefficients, and the anisotropic Gaussian source constants
// from a validated configuration.
func New(cfg *inp.Config) (*Solver, error) {
	h := cfg.Space.CellSize
	rho := cfg.Properties.Density
	cp := cfg.Properties.SpecificHeat
	k := cfg.Properties.ThermalConductivity
	alpha := k / (rho * cp)
	if alpha <= 0 {
		return nil, chk.Err("solver: thermal diffusivity must be positive (k=%g rho=%g cp=%g)", k, rho, cp)
	}
	dT := cfg.Properties.Liquidus - cfg.Properties.Solidus
	if dT <= 0 {
		return nil, chk.Err("solver: liquidus must exceed solidus")
	}

	rx := cfg.Source.TwoSigma[0] / math.Sqrt2
	ry := cfg.Source.TwoSigma[1] / math.Sqrt2
	rz := cfg.Source.TwoSigma[2] / math.Sqrt2
	if rx <= 0 || ry <= 0 || rz <= 0 {
		return nil, chk.Err("solver: source.two_sigma entries must be nonzero")
	}

	s := &Solver{
		H:           h,
		Dt:          cfg.Time.Co * h * h / alpha,
		KOverH2:     k / (h * h),
		RhoCp:       rho * cp,
		RhoLfOverDT: rho * cfg.Properties.LatentHeat / dT,
		Tsolidus:    cfg.Properties.Solidus,
		Tliquidus:   cfg.Properties.Liquidus,
		AinvX:       1 / (rx * rx),
		AinvY:       1 / (ry * ry),
		AinvZ:       1 / (rz * rz),
		I0:          2 * cfg.Source.Absorption / (math.Pi * math.Sqrt(math.Pi) * rx * ry * rz),
	}
	return s, nil
}

// Step advances every owned cell of g by one explicit time step, given
// the current beam position and power. It reads exclusively from
// g.PreviousTemperature() and writes exclusively to g.Temperature();
// distinct owned cells have no data dependency within a step, so this
// loop is safe to parallelize over (i,j,k).
func (s *Solver) Step(g *grid.Grid, beamPos [3]float64, beamPower float64) {
	T, T0 := g.Temperature(), g.PreviousTemperature()
	sp := g.OwnedIndexSpace()
	for i := sp.Lo[0]; i < sp.Hi[0]; i++ {
		for j := sp.Lo[1]; j < sp.Hi[1]; j++ {
			for k := sp.Lo[2]; k < sp.Hi[2]; k++ {
				T.Set(i, j, k, s.updateCell(g, T0, i, j, k, beamPos, beamPower))
			}
		}
	}
}

func (s *Solver) updateCell(g *grid.Grid, T0 *grid.Field, i, j, k int, beamPos [3]float64, beamPower float64) float64 {
	x := T0.At(i, j, k)

	mushy := 0.0
	if x >= s.Tsolidus && x <= s.Tliquidus {
		mushy = 1.0
	}
	cEff := s.RhoCp + mushy*s.RhoLfOverDT

	lap := s.KOverH2 * (T0.At(i-1, j, k) + T0.At(i+1, j, k) +
		T0.At(i, j-1, k) + T0.At(i, j+1, k) +
		T0.At(i, j, k-1) + T0.At(i, j, k+1) -
		6*x)

	c := g.LocalCoordinates(i, j, k)
	dx, dy, dz := c[0]-beamPos[0], c[1]-beamPos[1], c[2]-beamPos[2]
	w := s.AinvX*dx*dx + s.AinvY*dy*dy + s.AinvZ*dz*dz

	q := 0.0
	if beamPower > 0 && w < wMax {
		q = s.I0 * beamPower * math.Exp(-w)
	}

	return x + (s.Dt/cEff)*(lap+q)
}
