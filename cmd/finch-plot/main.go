// Command finch-plot is a standalone diagnostic tool: it renders a scan
// path's beam trajectory to a PNG using gosl/plt.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"

	"github.com/ORNL-MDF/Finch/scan"
)

func main() {
	scanPath := flag.String("scan", "", "path to the scan-path text file")
	out := flag.String("out", "scanpath.png", "output image path")
	npts := flag.Int("npts", 400, "number of sample points along the trace")
	flag.Parse()

	if *scanPath == "" {
		io.Pfred("finch-plot: -scan <path> is required\n")
		os.Exit(1)
	}

	path, err := scan.Load(*scanPath)
	if err != nil {
		io.Pfred("finch-plot: %v\n", err)
		os.Exit(1)
	}

	ts := utl.LinSpace(0, path.EndTime(), *npts)
	xs := make([]float64, *npts)
	ys := make([]float64, *npts)
	for i, t := range ts {
		pos, _ := path.Query(t)
		xs[i], ys[i] = pos[0], pos[1]
	}

	plt.SetForPng(0.75, 400, 150)
	plt.Plot(xs, ys, "'b-', clip_on=0, label='beam trajectory'")
	plt.Gll("$x$ [m]", "$y$ [m]", "")
	plt.Cross()
	plt.SaveD(filepath.Dir(*out), filepath.Base(*out))
}
