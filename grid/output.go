package grid

import (
	"bytes"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// Output emits the local temperature field as a legacy-VTK structured-
// points snapshot, one file per rank per call: the buffer is built up
// field-by-field and flushed with a single gosl/io writer call.
func (g *Grid) Output(dir string, step int, time float64) error {
	nx, ny, nz := g.Owned.Hi[0], g.Owned.Hi[1], g.Owned.Hi[2]

	var b bytes.Buffer
	b.WriteString("# vtk DataFile Version 3.0\n")
	b.WriteString(io.Sf("Finch temperature field, step=%d time=%.10e\n", step, time))
	b.WriteString("ASCII\n")
	b.WriteString("DATASET STRUCTURED_POINTS\n")
	b.WriteString(io.Sf("DIMENSIONS %d %d %d\n", nx, ny, nz))
	origin := g.LocalCoordinates(0, 0, 0)
	b.WriteString(io.Sf("ORIGIN %.10e %.10e %.10e\n", origin[0], origin[1], origin[2]))
	b.WriteString(io.Sf("SPACING %.10e %.10e %.10e\n", g.Desc.H, g.Desc.H, g.Desc.H))
	b.WriteString(io.Sf("POINT_DATA %d\n", nx*ny*nz))
	b.WriteString("SCALARS temperature double 1\n")
	b.WriteString("LOOKUP_TABLE default\n")
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				b.WriteString(io.Sf("%.10e\n", g.T.At(i, j, k)))
			}
		}
	}

	fn := io.Sf("finch_r%d_s%06d.vtk", g.Comm.Rank(), step)
	return io.WriteFileV(filepath.Join(dir, fn), &b)
}
