package grid

import (
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-MDF/Finch/bc"
)

func adiabaticFaces() [6]bc.Face {
	var f [6]bc.Face
	for i := range f {
		f[i] = bc.Face{Kind: bc.Adiabatic}
	}
	return f
}

func TestSingleRankPartitionAndCoordinates(tst *testing.T) {
	chk.PrintTitle("grid: single-rank partition and cell-center coordinates")
	g, err := New(SerialComm{}, 1.0, [3]float64{0, 0, 0}, [3]float64{4, 4, 4}, [3]int{1, 1, 1}, adiabaticFaces(), 0)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	sp := g.OwnedIndexSpace()
	if sp.Hi != ([3]int{4, 4, 4}) {
		tst.Fatalf("expected a 4x4x4 owned space, got %v", sp.Hi)
	}
	c := g.LocalCoordinates(0, 0, 0)
	if c != ([3]float64{0.5, 0.5, 0.5}) {
		tst.Fatalf("expected cell center (0.5,0.5,0.5), got %v", c)
	}
}

func TestDirichletThenGatherIsIdempotentOnPhysicalFaces(tst *testing.T) {
	chk.PrintTitle("grid: update_boundaries then gather on a single rank")
	var faces [6]bc.Face
	for i := range faces {
		faces[i] = bc.Face{Kind: bc.Dirichlet, Value: 100, HasValue: true}
	}
	g, err := New(SerialComm{}, 1.0, [3]float64{0, 0, 0}, [3]float64{2, 2, 2}, [3]int{1, 1, 1}, faces, 0)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	g.UpdateBoundaries()
	g.Gather()
	if g.T.At(-1, 0, 0) != 100 {
		tst.Fatalf("expected physical ghost at Dirichlet value, got %v", g.T.At(-1, 0, 0))
	}
}

// pairComm connects exactly two ranks with a pair of rendezvous channels,
// used to exercise Grid.Gather across an in-process "MPI" pair without
// a real MPI runtime.
type pairComm struct {
	rank int
	toHi chan []float64 // rank 0 -> rank 1
	toLo chan []float64 // rank 1 -> rank 0
}

func (c *pairComm) Rank() int  { return c.rank }
func (c *pairComm) Size() int  { return 2 }
func (c *pairComm) IsOn() bool { return true }

func (c *pairComm) SendRecv(send []float64, dest int, recv []float64, source int) {
	cp := make([]float64, len(send))
	copy(cp, send)
	if c.rank == 0 {
		c.toHi <- cp
		got := <-c.toLo
		copy(recv, got)
	} else {
		got := <-c.toHi
		c.toLo <- cp
		copy(recv, got)
	}
}

func (c *pairComm) AllReduceSum(vals []float64) {}
func (c *pairComm) AllReduceMin(vals []float64) {}
func (c *pairComm) AllReduceMax(vals []float64) {}

func TestTwoRankHaloExchange(tst *testing.T) {
	chk.PrintTitle("grid: S6 halo correctness across two ranks split along x")
	toHi := make(chan []float64)
	toLo := make(chan []float64)

	faces := adiabaticFaces()

	var wg sync.WaitGroup
	grids := make([]*Grid, 2)
	var errs [2]error
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			comm := &pairComm{rank: rank, toHi: toHi, toLo: toLo}
			g, err := New(comm, 1.0, [3]float64{0, 0, 0}, [3]float64{4, 2, 2}, [3]int{2, 1, 1}, faces, 0)
			if err != nil {
				errs[rank] = err
				return
			}
			// step function: 0 for x<L/2, 1 otherwise
			for i := 0; i < g.Owned.Hi[0]; i++ {
				for j := 0; j < g.Owned.Hi[1]; j++ {
					for k := 0; k < g.Owned.Hi[2]; k++ {
						c := g.LocalCoordinates(i, j, k)
						v := 0.0
						if c[0] >= 2.0 {
							v = 1.0
						}
						g.T.Set(i, j, k, v)
					}
				}
			}
			g.UpdateBoundaries()
			g.Gather()
			grids[rank] = g
		}(r)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			tst.Fatalf("New failed: %v", e)
		}
	}

	// rank 0's high-x ghost must equal rank 1's first interior plane (all 1.0)
	g0, g1 := grids[0], grids[1]
	nx0 := g0.Owned.Hi[0]
	for j := 0; j < g0.Owned.Hi[1]; j++ {
		for k := 0; k < g0.Owned.Hi[2]; k++ {
			if g0.T.At(nx0, j, k) != g1.T.At(0, j, k) {
				tst.Fatalf("rank0 high ghost (%v) != rank1 interior (%v)", g0.T.At(nx0, j, k), g1.T.At(0, j, k))
			}
		}
	}
	// rank 1's low-x ghost must equal rank 0's last interior plane
	for j := 0; j < g1.Owned.Hi[1]; j++ {
		for k := 0; k < g1.Owned.Hi[2]; k++ {
			if g1.T.At(-1, j, k) != g0.T.At(nx0-1, j, k) {
				tst.Fatalf("rank1 low ghost (%v) != rank0 interior (%v)", g1.T.At(-1, j, k), g0.T.At(nx0-1, j, k))
			}
		}
	}
}
