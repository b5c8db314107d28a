// Command finch is the standalone CLI driver: it reads one JSON
// configuration file and runs the time-stepping loop to completion.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/ORNL-MDF/Finch/grid"
	"github.com/ORNL-MDF/Finch/inp"
	"github.com/ORNL-MDF/Finch/layer"
)

func main() {
	mpi.Start(false)
	code := run()
	mpi.Stop(false)
	os.Exit(code)
}

// run contains the whole CLI body so every defer inside it completes
// before main hands an exit code to os.Exit, which skips pending
// defers in the frame that calls it.
func run() (exitCode int) {
	defer func() {
		if mpi.Rank() == 0 {
			if r := recover(); r != nil {
				io.Pfred("finch: ERROR: %v\n", r)
				exitCode = 1
			}
		}
	}()

	inputPath := flag.String("i", "", "path to the input configuration file")
	flag.Parse()
	if *inputPath == "" {
		io.Pfred("finch: -i <path> is required\n")
		return 1
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		io.Pfred("finch: cannot read %s: %v\n", *inputPath, err)
		return 1
	}
	cfg, err := inp.Load(raw)
	if err != nil {
		io.Pfred("finch: %v\n", err)
		return 1
	}

	logFile, err := inp.InitLogFile(*inputPath, mpi.Rank())
	if err != nil {
		io.Pfred("finch: %v\n", err)
		return 1
	}
	defer inp.FlushLog(logFile)

	var comm grid.Communicator
	if mpi.IsOn() && mpi.Size() > 1 {
		comm = grid.NewMPIComm()
	} else {
		comm = grid.SerialComm{}
	}

	l, err := layer.New(cfg, comm)
	if grid.Stop(comm, err, "layer.New") {
		if err != nil {
			io.Pfred("finch: %v\n", err)
		}
		return 1
	}

	_, runErr := l.Run()
	if grid.Stop(comm, runErr, "layer.Run") {
		if runErr != nil {
			io.Pfred("finch: run failed: %v\n", runErr)
		}
		return 1
	}

	if cfg.Sampling.Enabled() {
		writeErr := l.Sampler().WriteCSV(cfg.Sampling.DirectoryName, cfg.Sampling.Format, comm.Rank())
		if grid.Stop(comm, writeErr, "sampler.WriteCSV") {
			if writeErr != nil {
				io.Pfred("finch: failed to write solidification events: %v\n", writeErr)
			}
			return 1
		}
	}
	return 0
}
