package sample

import (
	"bytes"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// WriteCSV dumps this rank's recorded events to "data_<rank>.csv" under
// dir, ten-decimal fixed point, no header. format "default" appends
// the three gradient columns; any other value (e.g. "exaca") writes
// only the first six columns.
func (r *Recorder) WriteCSV(dir, format string, rank int) error {
	rows := r.Get()
	var b bytes.Buffer
	for _, row := range rows {
		if format == "default" {
			b.WriteString(io.Sf("%.10f,%.10f,%.10f,%.10f,%.10f,%.10f,%.10f,%.10f,%.10f\n",
				row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], row[8]))
		} else {
			b.WriteString(io.Sf("%.10f,%.10f,%.10f,%.10f,%.10f,%.10f\n",
				row[0], row[1], row[2], row[3], row[4], row[5]))
		}
	}
	fn := io.Sf("data_%d.csv", rank)
	return io.WriteFileV(filepath.Join(dir, fn), &b)
}
