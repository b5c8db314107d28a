package grid

import "github.com/cpmech/gosl/la"

// Field is a scalar-per-node array over one rank's owned cells plus a
// one-cell-wide ghost layer on every face, backed by a flat dense
// la.Vector.
type Field struct {
	Nx, Ny, Nz int // owned cell counts along each local axis
	data       la.Vector
}

// NewField allocates a field of the given owned shape, filled with v.
func NewField(nx, ny, nz int, v float64) *Field {
	n := (nx + 2) * (ny + 2) * (nz + 2)
	f := &Field{Nx: nx, Ny: ny, Nz: nz, data: make(la.Vector, n)}
	la.VecFill(f.data, v)
	return f
}

// Dims implements bc.GhostAccessor.
func (f *Field) Dims() (int, int, int) { return f.Nx, f.Ny, f.Nz }

func (f *Field) index(i, j, k int) int {
	return ((i+1)*(f.Ny+2)+(j+1))*(f.Nz+2) + (k + 1)
}

// At reads the value at owned/ghost index (i,j,k); i,j,k range over
// [-1, Nx], [-1, Ny], [-1, Nz] respectively.
func (f *Field) At(i, j, k int) float64 { return f.data[f.index(i, j, k)] }

// Set writes the value at owned/ghost index (i,j,k).
func (f *Field) Set(i, j, k int, v float64) { f.data[f.index(i, j, k)] = v }

// CopyFrom overwrites this field's entire backing array (owned and
// ghosts) with src's. src and this field are never the same allocation.
func (f *Field) CopyFrom(src *Field) {
	copy(f.data, src.data)
}

// Raw exposes the flat backing array for bulk operations (e.g. ℓ1/ℓ∞
// norms in tests) that don't need index semantics.
func (f *Field) Raw() la.Vector { return f.data }
