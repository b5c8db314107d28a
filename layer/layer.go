// Package layer orchestrates one simulated run: the time-stepping loop
// that ties the scan path, grid, solver and solidification recorder
// together, plus the Monitor that reports its progress.
package layer

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-MDF/Finch/grid"
	"github.com/ORNL-MDF/Finch/inp"
	"github.com/ORNL-MDF/Finch/sample"
	"github.com/ORNL-MDF/Finch/scan"
	"github.com/ORNL-MDF/Finch/solver"
)

// Layer holds everything one rank needs to run a full simulation.
type Layer struct {
	cfg     *inp.Config
	grid    *grid.Grid
	solver  *solver.Solver
	path    *scan.Path
	sampler *sample.Recorder
	monitor *Monitor

	n                              int
	dt                             float64
	outputInterval, monitorInterval int
	outputDir                      string
}

// New wires up one rank's Layer from a validated configuration. Faces
// come from cfg.Faces (resolved by inp.Load from the "boundary" section).
func New(cfg *inp.Config, comm grid.Communicator) (*Layer, error) {
	path, err := scan.Load(cfg.Source.ScanPathFile)
	if err != nil {
		return nil, err
	}

	g, err := grid.New(comm, cfg.Space.CellSize, cfg.Space.GlobalLowCorner, cfg.Space.GlobalHighCorner,
		cfg.Space.RanksPerDim, cfg.Faces, cfg.Space.InitialTemperature)
	if err != nil {
		return nil, err
	}

	s, err := solver.New(cfg)
	if err != nil {
		return nil, err
	}

	n := int((cfg.Time.EndTime - cfg.Time.StartTime) / s.Dt)
	if n < 1 {
		return nil, chk.Err("layer: computed zero time steps (end_time=%g start_time=%g dt=%g)",
			cfg.Time.EndTime, cfg.Time.StartTime, s.Dt)
	}

	l := &Layer{
		cfg:             cfg,
		grid:            g,
		solver:          s,
		path:            path,
		monitor:         NewMonitor(comm.Rank()),
		n:               n,
		dt:              s.Dt,
		outputInterval:  stepInterval(cfg.Time.TotalOutputSteps, n),
		monitorInterval: stepInterval(cfg.Time.TotalMonitorSteps, n),
		outputDir:       cfg.Output.DirectoryName,
	}
	if cfg.Sampling.Enabled() {
		l.sampler = sample.NewRecorder(g, comm)
	}
	return l, nil
}

// stepInterval turns a "total steps over the run" count into a stride.
// A total of zero suppresses the corresponding action entirely, which
// is implemented as an interval of n+1 so it never divides the loop.
func stepInterval(total, n int) int {
	if total <= 0 {
		return n + 1
	}
	iv := n / total
	if iv < 1 {
		iv = 1
	}
	return iv
}

// Run steps the simulation from cfg.Time.StartTime to EndTime,
// returning the final simulated time. Any per-step failure aborts the
// run immediately; there is no step-level retry.
func (l *Layer) Run() (float64, error) {
	t := l.cfg.Time.StartTime
	for n := 0; n < l.n; n++ {
		l.monitor.Tick()
		t += l.dt

		pos, power := l.path.Query(t)

		l.grid.PreviousTemperature().CopyFrom(l.grid.Temperature())
		l.solver.Step(l.grid, pos, power)
		l.grid.UpdateBoundaries()
		l.grid.Gather()

		if l.sampler != nil {
			l.sampler.Update(l.grid, t, l.dt, l.cfg.Properties.Liquidus)
		}

		if (n+1)%l.monitorInterval == 0 || n == l.n-1 {
			l.monitor.Write(n+1, t, l.maxTemperature())
		}
		if (n+1)%l.outputInterval == 0 || n == l.n-1 {
			if err := l.grid.Output(l.outputDir, n+1, t); err != nil {
				return t, err
			}
		}
	}
	l.monitor.End(t)
	return t, nil
}

// Sampler exposes the solidification recorder, nil if sampling was
// disabled in configuration.
func (l *Layer) Sampler() *sample.Recorder { return l.sampler }

// Grid exposes the underlying grid, e.g. for diagnostics or CLI tools
// that want to dump the final temperature field.
func (l *Layer) Grid() *grid.Grid { return l.grid }

func (l *Layer) maxTemperature() float64 {
	sp := l.grid.OwnedIndexSpace()
	max := math.Inf(-1)
	for i := sp.Lo[0]; i < sp.Hi[0]; i++ {
		for j := sp.Lo[1]; j < sp.Hi[1]; j++ {
			for k := sp.Lo[2]; k < sp.Hi[2]; k++ {
				if v := l.grid.Temperature().At(i, j, k); v > max {
					max = v
				}
			}
		}
	}
	return max
}
