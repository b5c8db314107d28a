package solver

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/ORNL-MDF/Finch/bc"
	"github.com/ORNL-MDF/Finch/grid"
	"github.com/ORNL-MDF/Finch/inp"
)

func baseConfig(co float64) *inp.Config {
	cfg := &inp.Config{}
	cfg.Time.Co = co
	cfg.Space.CellSize = 1.0
	cfg.Properties.Prms = fun.Prms{
		&fun.Prm{N: "density", V: 1},
		&fun.Prm{N: "specific_heat", V: 1},
		&fun.Prm{N: "thermal_conductivity", V: 1},
		&fun.Prm{N: "latent_heat", V: 0},
		&fun.Prm{N: "solidus", V: 1000},
		&fun.Prm{N: "liquidus", V: 2000},
	}
	cfg.Properties.Density = 1
	cfg.Properties.SpecificHeat = 1
	cfg.Properties.ThermalConductivity = 1
	cfg.Properties.LatentHeat = 0
	cfg.Properties.Solidus = 1000
	cfg.Properties.Liquidus = 2000
	cfg.Source.Absorption = 1
	cfg.Source.TwoSigma = [3]float64{1, 1, 1}
	return cfg
}

func adiabaticFaces() [6]bc.Face {
	var f [6]bc.Face
	for i := range f {
		f[i] = bc.Face{Kind: bc.Adiabatic}
	}
	return f
}

func dirichletFaces(v float64) [6]bc.Face {
	var f [6]bc.Face
	for i := range f {
		f[i] = bc.Face{Kind: bc.Dirichlet, Value: v, HasValue: true}
	}
	return f
}

func l1Norm(g *grid.Grid) float64 {
	sp := g.OwnedIndexSpace()
	sum := 0.0
	for i := sp.Lo[0]; i < sp.Hi[0]; i++ {
		for j := sp.Lo[1]; j < sp.Hi[1]; j++ {
			for k := sp.Lo[2]; k < sp.Hi[2]; k++ {
				sum += math.Abs(g.Temperature().At(i, j, k))
			}
		}
	}
	return sum
}

// TestConservationZeroSourceAdiabatic checks that with zero source power
// and adiabatic boundaries, the field's l1 norm stays conserved while
// the hot center cell decreases monotonically.
func TestConservationZeroSourceAdiabatic(tst *testing.T) {
	chk.PrintTitle("solver: conservation under zero source, adiabatic BC")
	cfg := baseConfig(0.1)
	s, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	g, err := grid.New(grid.SerialComm{}, 1.0, [3]float64{0, 0, 0}, [3]float64{10, 10, 10}, [3]int{1, 1, 1}, adiabaticFaces(), 0)
	if err != nil {
		tst.Fatalf("grid.New failed: %v", err)
	}
	g.Temperature().Set(5, 5, 5, 1.0)
	g.PreviousTemperature().Set(5, 5, 5, 1.0)

	prev := math.Inf(1)
	for n := 0; n < 100; n++ {
		g.PreviousTemperature().CopyFrom(g.Temperature())
		s.Step(g, [3]float64{-1e9, -1e9, -1e9}, 0) // beam far away / zero power: no source
		g.UpdateBoundaries()
		g.Gather()

		center := g.Temperature().At(5, 5, 5)
		if center >= prev {
			tst.Fatalf("step %d: center value did not decrease (%.15g -> %.15g)", n, prev, center)
		}
		prev = center
	}
	norm := l1Norm(g)
	if math.Abs(norm-1.0) > 1e-10 {
		tst.Fatalf("expected l1 norm conserved at 1.0, got %.15g", norm)
	}
}

// TestDirichletSteadyState checks that a uniform Dirichlet boundary
// pulls an arbitrary initial field to that boundary value over enough
// steps.
func TestDirichletSteadyState(tst *testing.T) {
	chk.PrintTitle("solver: steady-state convergence to a uniform Dirichlet value")
	cfg := baseConfig(0.15)
	s, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	g, err := grid.New(grid.SerialComm{}, 1.0, [3]float64{0, 0, 0}, [3]float64{8, 8, 8}, [3]int{1, 1, 1}, dirichletFaces(100), 0)
	if err != nil {
		tst.Fatalf("grid.New failed: %v", err)
	}
	for n := 0; n < 2000; n++ {
		g.PreviousTemperature().CopyFrom(g.Temperature())
		s.Step(g, [3]float64{-1e9, -1e9, -1e9}, 0)
		g.UpdateBoundaries()
		g.Gather()
	}
	sp := g.OwnedIndexSpace()
	maxErr := 0.0
	for i := sp.Lo[0]; i < sp.Hi[0]; i++ {
		for j := sp.Lo[1]; j < sp.Hi[1]; j++ {
			for k := sp.Lo[2]; k < sp.Hi[2]; k++ {
				e := math.Abs(g.Temperature().At(i, j, k) - 100)
				if e > maxErr {
					maxErr = e
				}
			}
		}
	}
	if maxErr >= 1e-3 {
		tst.Fatalf("expected max|T-100| < 1e-3 after 2000 steps, got %.6g", maxErr)
	}
}

// TestSymmetricSourceIsSymmetric checks that a Gaussian source with
// equal x/y radii, centered on a symmetric grid, preserves
// T(i,j,k) == T(j,i,k) at every step.
func TestSymmetricSourceIsSymmetric(tst *testing.T) {
	chk.PrintTitle("solver: symmetric Gaussian source preserves T(i,j,k) = T(j,i,k)")
	cfg := baseConfig(0.1)
	cfg.Source.TwoSigma = [3]float64{2, 2, 2} // sigma_x == sigma_y
	s, err := New(cfg)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	g, err := grid.New(grid.SerialComm{}, 1.0, [3]float64{0, 0, 0}, [3]float64{8, 8, 8}, [3]int{1, 1, 1}, adiabaticFaces(), 300)
	if err != nil {
		tst.Fatalf("grid.New failed: %v", err)
	}
	beam := [3]float64{4, 4, 4} // centroid of a symmetric 8x8x8 grid
	for n := 0; n < 20; n++ {
		g.PreviousTemperature().CopyFrom(g.Temperature())
		s.Step(g, beam, 500)
		g.UpdateBoundaries()
		g.Gather()
	}
	sp := g.OwnedIndexSpace()
	for i := sp.Lo[0]; i < sp.Hi[0]; i++ {
		for j := sp.Lo[1]; j < sp.Hi[1]; j++ {
			for k := sp.Lo[2]; k < sp.Hi[2]; k++ {
				a, b := g.Temperature().At(i, j, k), g.Temperature().At(j, i, k)
				if math.Abs(a-b) > 1e-9 {
					tst.Fatalf("asymmetry at (%d,%d,%d): %.15g != %.15g", i, j, k, a, b)
				}
			}
		}
	}
}
