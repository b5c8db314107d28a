// Package sample implements the solidification event recorder: it
// watches every owned cell's liquidus crossings and appends melting
// time, resolidification time, cooling rate and local gradient records
// to a lock-free, adaptively-grown event log.
package sample

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ORNL-MDF/Finch/grid"
)

// growThreshold is the load factor beyond which Update proactively
// doubles capacity even without an overflow.
const growThreshold = 0.9

// tmView holds one melt time per owned cell, default-initialized to
// NaN. A NaN read back out means this cell's current solidification
// event is its first ever for this rank: there is no prior melt time
// to report, so the sentinel is surfaced rather than silently
// zero-filled.
type tmView struct {
	nx, ny, nz int
	data       []float64
}

func newTmView(nx, ny, nz int) *tmView {
	v := &tmView{nx: nx, ny: ny, nz: nz, data: make([]float64, nx*ny*nz)}
	for i := range v.data {
		v.data[i] = math.NaN()
	}
	return v
}

func (v *tmView) idx(i, j, k int) int { return (i*v.ny+j)*v.nz + k }
func (v *tmView) at(i, j, k int) float64 { return v.data[v.idx(i, j, k)] }
func (v *tmView) set(i, j, k int, t float64) { v.data[v.idx(i, j, k)] = t }

// Recorder detects liquidus crossings over a grid's owned cells and
// records melt/solidification events in a growable, rank-local log.
type Recorder struct {
	tm       *tmView
	events   []float64 // capacity*9, row-major
	capacity int
	n        int64 // atomic; number of valid rows
	comm     grid.Communicator
}

// NewRecorder allocates a recorder whose initial event capacity equals
// g's owned cell count.
func NewRecorder(g *grid.Grid, comm grid.Communicator) *Recorder {
	sp := g.OwnedIndexSpace()
	nx, ny, nz := sp.Hi[0], sp.Hi[1], sp.Hi[2]
	cap0 := nx * ny * nz
	if cap0 < 1 {
		cap0 = 1
	}
	return &Recorder{
		tm:       newTmView(nx, ny, nz),
		events:   make([]float64, cap0*9),
		capacity: cap0,
		comm:     comm,
	}
}

// Update scans every owned cell of g for liquidus crossings at time t
// (step size dt) and appends one row per solidification event. It is
// idempotent in the melt-field update, so an overflow retry never
// double-records a melt time inconsistently.
func (r *Recorder) Update(g *grid.Grid, t, dt, liquidus float64) {
	nBefore := atomic.LoadInt64(&r.n)
	for {
		atomic.StoreInt64(&r.n, nBefore)
		overflowed := r.pass(g, t, dt, liquidus)
		if !overflowed {
			break
		}
		final := int(atomic.LoadInt64(&r.n))
		r.grow(2*final, false)
	}
	final := int(atomic.LoadInt64(&r.n))
	if r.capacity > 0 && float64(final)/float64(r.capacity) > growThreshold {
		r.grow(2*final, true)
	}
}

// pass runs one full data-parallel sweep over owned cells, reports
// whether the pass overflowed the capacity captured at its start.
func (r *Recorder) pass(g *grid.Grid, t, dt, liquidus float64) (overflowed bool) {
	capAtStart := r.capacity
	sp := g.OwnedIndexSpace()
	nx, ny, nz := sp.Hi[0], sp.Hi[1], sp.Hi[2]

	workers := runtime.GOMAXPROCS(0)
	if workers > nx {
		workers = nx
	}
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	chunk := (nx + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > nx {
			hi = nx
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(iLo, iHi int) {
			defer wg.Done()
			for i := iLo; i < iHi; i++ {
				for j := 0; j < ny; j++ {
					for k := 0; k < nz; k++ {
						r.updateCell(g, i, j, k, t, dt, liquidus)
					}
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	return int(atomic.LoadInt64(&r.n)) >= capAtStart
}

func (r *Recorder) updateCell(g *grid.Grid, i, j, k int, t, dt, liquidus float64) {
	T := g.Temperature().At(i, j, k)
	T0 := g.PreviousTemperature().At(i, j, k)

	switch {
	case T <= liquidus && T0 > liquidus:
		// solidification event
		idx := atomic.AddInt64(&r.n, 1) - 1
		if int(idx) >= r.capacity {
			return // overflow: this pass will be retried
		}
		m := clamp01((T - liquidus) / (T - T0))
		ts := t - m*dt
		R := (T0 - T) / dt
		c := g.LocalCoordinates(i, j, k)
		h := g.Desc.H
		gx := (g.Temperature().At(i+1, j, k) - g.Temperature().At(i-1, j, k)) / (2 * h)
		gy := (g.Temperature().At(i, j+1, k) - g.Temperature().At(i, j-1, k)) / (2 * h)
		gz := (g.Temperature().At(i, j, k+1) - g.Temperature().At(i, j, k-1)) / (2 * h)
		row := r.events[idx*9 : idx*9+9]
		row[0], row[1], row[2] = c[0], c[1], c[2]
		row[3] = r.tm.at(i, j, k)
		row[4] = ts
		row[5] = R
		row[6], row[7], row[8] = gx, gy, gz

	case T > liquidus && T0 <= liquidus:
		// melt event: remember when this cell most recently crossed upward
		m := clamp01((T - liquidus) / (T - T0))
		r.tm.set(i, j, k, t-m*dt)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// grow resizes the event buffer to newCap rows. When preserve is false
// (the overflow path) existing content is not copied and the pass is
// retried from scratch; when true, existing rows survive.
func (r *Recorder) grow(newCap int, preserve bool) {
	if newCap < r.capacity {
		newCap = r.capacity
	}
	fresh := make([]float64, newCap*9)
	if preserve {
		copy(fresh, r.events)
	}
	r.events = fresh
	r.capacity = newCap
}

// Get returns a dense host-resident copy of all valid event rows in
// insertion order; insertion order is the only order guaranteed, since
// the atomic counter resolves concurrent writers arbitrarily.
func (r *Recorder) Get() [][9]float64 {
	n := int(atomic.LoadInt64(&r.n))
	if n > r.capacity {
		n = r.capacity
	}
	out := make([][9]float64, n)
	for idx := 0; idx < n; idx++ {
		copy(out[idx][:], r.events[idx*9:idx*9+9])
	}
	return out
}

// Len returns the number of valid event rows.
func (r *Recorder) Len() int { return int(atomic.LoadInt64(&r.n)) }

// Capacity returns the current buffer capacity.
func (r *Recorder) Capacity() int { return r.capacity }

// LowerBounds / UpperBounds compute the communicator-wide component-wise
// extrema of columns 0..2 (the event coordinates). A rank that recorded
// no events contributes the identity element.
func (r *Recorder) LowerBounds() [3]float64 { return r.reduceBounds(math.Inf(1), r.comm.AllReduceMin) }
func (r *Recorder) UpperBounds() [3]float64 { return r.reduceBounds(math.Inf(-1), r.comm.AllReduceMax) }

func (r *Recorder) reduceBounds(identity float64, reduce func([]float64)) [3]float64 {
	bounds := [3]float64{identity, identity, identity}
	rows := r.Get()
	for _, row := range rows {
		for d := 0; d < 3; d++ {
			if identity == math.Inf(1) {
				if row[d] < bounds[d] {
					bounds[d] = row[d]
				}
			} else {
				if row[d] > bounds[d] {
					bounds[d] = row[d]
				}
			}
		}
	}
	buf := bounds[:]
	reduce(buf)
	return [3]float64{buf[0], buf[1], buf[2]}
}
