// Package grid owns the distributed structured mesh: a Cartesian
// partition of a rectangular domain, its two temperature fields, halo
// exchange between neighboring ranks, per-face boundary application,
// and field snapshot output.
package grid

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-MDF/Finch/bc"
)

// IndexSpace is a half-open 3D range of locally-owned cell indices.
type IndexSpace struct {
	Lo, Hi [3]int
}

// Descriptor is the immutable global grid description: cell size,
// global low/high corners, ranks-per-dimension, and the per-face
// boundary descriptors.
type Descriptor struct {
	H                    float64
	GlobalLow, GlobalHigh [3]float64
	RanksPerDim          [3]int
	Faces                [6]bc.Face
}

// Grid is one rank's view of the distributed mesh: its Cartesian
// coordinate, owned index space, and the two temperature fields.
type Grid struct {
	Desc Descriptor
	Comm Communicator

	RanksPerDim [3]int
	RankCoord   [3]int
	neighbors   [6]int // rank id on each face, -1 if this face is a physical boundary

	GlobalN  [3]int // global cell counts along each axis
	originIJK [3]int // this rank's owned-region global index offset

	Owned IndexSpace // local owned index space; Lo is always {0,0,0}

	T, T0 *Field
	bcs   *bc.Set
}

// New partitions the global domain across Comm's ranks and allocates
// the two temperature fields, both initialized to initialTemperature.
func New(comm Communicator, h float64, globalLow, globalHigh [3]float64, ranksPerDim [3]int, faces [6]bc.Face, initialTemperature float64) (*Grid, error) {
	if h <= 0 {
		return nil, chk.Err("grid: cell size must be positive, got %g", h)
	}
	set, err := bc.NewSet(faces)
	if err != nil {
		return nil, err
	}

	nranks := comm.Size()
	rpd := resolveRanksPerDim(ranksPerDim, nranks)

	var globalN [3]int
	for d := 0; d < 3; d++ {
		span := globalHigh[d] - globalLow[d]
		if span <= 0 {
			return nil, chk.Err("grid: axis %d: high corner must exceed low corner", d)
		}
		n := int(span/h + 0.5)
		if n < rpd[d] {
			return nil, chk.Err("grid: axis %d has %d cells but %d ranks along that axis; domain too small for the partition", d, n, rpd[d])
		}
		globalN[d] = n
	}

	coord := rankCoord(comm.Rank(), rpd)
	var lo, hi [3]int
	for d := 0; d < 3; d++ {
		lo[d], hi[d] = blockExtent(globalN[d], rpd[d], coord[d])
	}
	nx, ny, nz := hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, chk.Err("grid: rank %d received an empty subdomain for ranks_per_dim=%v", comm.Rank(), rpd)
	}

	g := &Grid{
		Desc: Descriptor{H: h, GlobalLow: globalLow, GlobalHigh: globalHigh, RanksPerDim: rpd, Faces: faces},
		Comm: comm, RanksPerDim: rpd, RankCoord: coord,
		GlobalN: globalN, originIJK: lo,
		Owned: IndexSpace{Lo: [3]int{0, 0, 0}, Hi: [3]int{nx, ny, nz}},
		T:     NewField(nx, ny, nz, initialTemperature),
		T0:    NewField(nx, ny, nz, initialTemperature),
		bcs:   set,
	}
	g.computeNeighbors()
	return g, nil
}

func (g *Grid) computeNeighbors() {
	offsets := [6][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}}
	for f, off := range offsets {
		nc := g.RankCoord
		nc[0] += off[0]
		nc[1] += off[1]
		nc[2] += off[2]
		g.neighbors[f] = rankOf(nc, g.RanksPerDim)
	}
}

// Temperature returns the current temperature field.
func (g *Grid) Temperature() *Field { return g.T }

// PreviousTemperature returns the previous-step temperature field.
func (g *Grid) PreviousTemperature() *Field { return g.T0 }

// OwnedIndexSpace returns the half-open range of locally-owned cell indices.
func (g *Grid) OwnedIndexSpace() IndexSpace { return g.Owned }

// LocalCoordinates returns the physical cell-center coordinate of owned
// or ghost cell (i,j,k).
func (g *Grid) LocalCoordinates(i, j, k int) [3]float64 {
	gi := g.originIJK[0] + i
	gj := g.originIJK[1] + j
	gk := g.originIJK[2] + k
	h := g.Desc.H
	return [3]float64{
		g.Desc.GlobalLow[0] + (float64(gi)+0.5)*h,
		g.Desc.GlobalLow[1] + (float64(gj)+0.5)*h,
		g.Desc.GlobalLow[2] + (float64(gk)+0.5)*h,
	}
}

// UpdateBoundaries applies the Boundary set to this rank's ghost cells.
func (g *Grid) UpdateBoundaries() {
	g.bcs.Update(g.T)
}

// Gather performs one halo exchange: every rank sends its six boundary
// slabs to its Cartesian neighbors and receives the corresponding ghost
// slabs. Faces with no neighbor (the global physical boundary) are left
// untouched here; UpdateBoundaries is responsible for those, and must
// run before Gather so Gather's interior-face writes take final
// precedence over any stale physical-boundary ghost value.
func (g *Grid) Gather() {
	g.exchangeAxis(0, bc.FaceXlo, bc.FaceXhi, g.Owned.Hi[1], g.Owned.Hi[2])
	g.exchangeAxis(1, bc.FaceYlo, bc.FaceYhi, g.Owned.Hi[0], g.Owned.Hi[2])
	g.exchangeAxis(2, bc.FaceZlo, bc.FaceZhi, g.Owned.Hi[0], g.Owned.Hi[1])
}

func (g *Grid) exchangeAxis(axis, faceLo, faceHi, n1, n2 int) {
	g.exchangeFace(axis, faceLo, 0, -1, n1, n2)
	g.exchangeFace(axis, faceHi, g.Owned.Hi[axis]-1, g.Owned.Hi[axis], n1, n2)
}

// exchangeFace ships the boundary slab at ownedIndex (the last interior
// layer on this side) to the neighbor on `face`, and receives that
// neighbor's matching slab into ghostIndex.
func (g *Grid) exchangeFace(axis, face, ownedIndex, ghostIndex, n1, n2 int) {
	neighbor := g.neighbors[face]
	if neighbor < 0 {
		return // physical boundary: update_boundaries owns this face
	}
	n := n1 * n2
	send := make([]float64, n)
	recv := make([]float64, n)
	g.packSlab(axis, ownedIndex, send, n1, n2)
	if neighbor == g.Comm.Rank() {
		copy(recv, send) // self-send: this rank is its own neighbor on this face
	} else {
		g.Comm.SendRecv(send, neighbor, recv, neighbor)
	}
	g.unpackSlab(axis, ghostIndex, recv, n1, n2)
}

func (g *Grid) packSlab(axis, index int, buf []float64, n1, n2 int) {
	p := 0
	forEachInSlab(axis, n1, n2, func(a, b int) {
		i, j, k := coordAt(axis, index, a, b)
		buf[p] = g.T.At(i, j, k)
		p++
	})
}

func (g *Grid) unpackSlab(axis, index int, buf []float64, n1, n2 int) {
	p := 0
	forEachInSlab(axis, n1, n2, func(a, b int) {
		i, j, k := coordAt(axis, index, a, b)
		g.T.Set(i, j, k, buf[p])
		p++
	})
}

func forEachInSlab(axis, n1, n2 int, f func(a, b int)) {
	for a := 0; a < n1; a++ {
		for b := 0; b < n2; b++ {
			f(a, b)
		}
	}
}

// coordAt maps a (axis, fixed index, a, b) slab coordinate back to (i,j,k).
func coordAt(axis, index, a, b int) (i, j, k int) {
	switch axis {
	case 0:
		return index, a, b
	case 1:
		return a, index, b
	default:
		return a, b, index
	}
}
