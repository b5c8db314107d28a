// Command finch-stats computes descriptive statistics over a completed
// run's solidification event CSVs: mean/stddev cooling rate and the
// melt-pool bounding box. It is a read-only consumer of the Event CSV
// format sample.Recorder.WriteCSV produces, using gonum/stat for the
// moment computation.
package main

import (
	"bufio"
	"flag"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/stat"
)

func main() {
	path := flag.String("csv", "", "path to one rank's data_<rank>.csv file")
	flag.Parse()
	if *path == "" {
		io.Pfred("finch-stats: -csv <path> is required\n")
		os.Exit(1)
	}

	f, err := os.Open(*path)
	if err != nil {
		io.Pfred("finch-stats: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var coolRates []float64
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			io.Pfred("finch-stats: malformed row %q\n", line)
			os.Exit(1)
		}
		x, _ := strconv.ParseFloat(fields[0], 64)
		y, _ := strconv.ParseFloat(fields[1], 64)
		z, _ := strconv.ParseFloat(fields[2], 64)
		r, _ := strconv.ParseFloat(fields[5], 64)
		coolRates = append(coolRates, r)
		for d, v := range [3]float64{x, y, z} {
			if v < lo[d] {
				lo[d] = v
			}
			if v > hi[d] {
				hi[d] = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		io.Pfred("finch-stats: read error: %v\n", err)
		os.Exit(1)
	}

	if len(coolRates) == 0 {
		io.Pf("finch-stats: no events recorded\n")
		return
	}

	mean, std := stat.MeanStdDev(coolRates, nil)
	io.Pf("events:        %d\n", len(coolRates))
	io.Pf("cooling rate:  mean=%.6g K/s  stddev=%.6g K/s\n", mean, std)
	io.Pf("melt pool box: [%.6g,%.6g] x [%.6g,%.6g] x [%.6g,%.6g]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
}
