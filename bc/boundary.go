// Package bc implements per-face boundary conditions applied to the
// ghost layer of a structured grid.
package bc

import (
	"github.com/cpmech/gosl/chk"
)

// Kind is the tag of a boundary condition on one face.
type Kind int

// available kinds
const (
	Dirichlet Kind = iota
	Neumann
	Adiabatic
)

func (k Kind) String() string {
	switch k {
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	case Adiabatic:
		return "adiabatic"
	}
	return "unknown"
}

// Face holds one face's boundary descriptor.
//  Kind  -- Dirichlet, Neumann or Adiabatic
//  Value -- imposed ghost temperature (Dirichlet) or additive increment (Neumann); unused for Adiabatic
type Face struct {
	Kind     Kind
	Value    float64
	HasValue bool
}

// face index order, fixed: {-x, +x, -y, +y, -z, +z}
const (
	FaceXlo = iota
	FaceXhi
	FaceYlo
	FaceYhi
	FaceZlo
	FaceZhi
)

// normals holds the outward unit normal (as integer offsets) for each face, in FaceXlo..FaceZhi order.
var normals = [6][3]int{
	{-1, 0, 0}, // FaceXlo
	{+1, 0, 0}, // FaceXhi
	{0, -1, 0}, // FaceYlo
	{0, +1, 0}, // FaceYhi
	{0, 0, -1}, // FaceZlo
	{0, 0, +1}, // FaceZhi
}

// Set holds the six face descriptors of one subdomain.
type Set struct {
	Faces [6]Face
}

// NewSet validates and builds a boundary Set from six face descriptors.
// Dirichlet and Neumann faces must carry a value; Adiabatic must not need one.
func NewSet(faces [6]Face) (o *Set, err error) {
	for i, f := range faces {
		switch f.Kind {
		case Dirichlet, Neumann:
			if !f.HasValue {
				return nil, chk.Err("bc: face %d (%v) requires a value but none was given", i, f.Kind)
			}
		case Adiabatic:
			// no value required
		default:
			return nil, chk.Err("bc: face %d has unrecognised kind %v", i, f.Kind)
		}
	}
	return &Set{Faces: faces}, nil
}

// GhostAccessor is implemented by a field that exposes owned-cell extents
// and indexed get/set over the owned-plus-ghost index space. Ghost indices
// are -1 (low side) and Dims()[d] (high side) along each axis d.
type GhostAccessor interface {
	Dims() (nx, ny, nz int)
	At(i, j, k int) float64
	Set(i, j, k int, v float64)
}

// Update applies all six face descriptors to the ghost cells of acc.
// No interior cell is touched. Faces are disjoint ghost slabs, so the
// order they are applied in is unobservable.
func (o *Set) Update(acc GhostAccessor) {
	nx, ny, nz := acc.Dims()
	o.applyFaceX(acc, FaceXlo, -1, ny, nz)
	o.applyFaceX(acc, FaceXhi, nx, ny, nz)
	o.applyFaceY(acc, FaceYlo, -1, nx, nz)
	o.applyFaceY(acc, FaceYhi, ny, nx, nz)
	o.applyFaceZ(acc, FaceZlo, -1, nx, ny)
	o.applyFaceZ(acc, FaceZhi, nz, nx, ny)
}

func (o *Set) applyFaceX(acc GhostAccessor, face, i, ny, nz int) {
	n := normals[face]
	f := o.Faces[face]
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			acc.Set(i, j, k, ghostValue(f, acc, i, j, k, n))
		}
	}
}

func (o *Set) applyFaceY(acc GhostAccessor, face, j, nx, nz int) {
	n := normals[face]
	f := o.Faces[face]
	for i := 0; i < nx; i++ {
		for k := 0; k < nz; k++ {
			acc.Set(i, j, k, ghostValue(f, acc, i, j, k, n))
		}
	}
}

func (o *Set) applyFaceZ(acc GhostAccessor, face, k, nx, ny int) {
	n := normals[face]
	f := o.Faces[face]
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			acc.Set(i, j, k, ghostValue(f, acc, i, j, k, n))
		}
	}
}

func ghostValue(f Face, acc GhostAccessor, i, j, k int, n [3]int) float64 {
	switch f.Kind {
	case Dirichlet:
		return f.Value
	case Neumann:
		return acc.At(i, j, k) + f.Value
	default: // Adiabatic: mirror the first interior cell inward
		return acc.At(i-n[0], j-n[1], k-n[2])
	}
}
