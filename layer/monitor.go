package layer

import (
	"time"

	"github.com/cpmech/gosl/io"
)

// Monitor tracks wall-clock timing and per-step throughput over one
// Layer run.
type Monitor struct {
	rank int

	runStart time.Time
	lastTick time.Time
	entries  []MonitorEntry
}

// MonitorEntry is one recorded line of the run's write history.
type MonitorEntry struct {
	Step        int
	Time        float64
	StepsPerSec float64
	MaxTemp     float64
}

// NewMonitor starts a Monitor for the given rank. Diagnostics only
// print on rank 0.
func NewMonitor(rank int) *Monitor {
	now := time.Now()
	return &Monitor{rank: rank, runStart: now, lastTick: now}
}

// Tick is called at the top of every time step. It records nothing:
// Write derives throughput from the step numbers it is given.
func (m *Monitor) Tick() {}

// Write records one monitor entry and, on rank 0, prints a status line.
// maxTemp is the caller-supplied reduction of the current field (the
// Layer computes it, since only it has a Grid to scan).
func (m *Monitor) Write(step int, t, maxTemp float64) {
	elapsed := time.Since(m.lastTick)
	m.lastTick = time.Now()
	prevStep := 0
	if len(m.entries) > 0 {
		prevStep = m.entries[len(m.entries)-1].Step
	}
	stepsPerSec := 0.0
	if elapsed > 0 {
		stepsPerSec = float64(step-prevStep) / elapsed.Seconds()
	}
	m.entries = append(m.entries, MonitorEntry{Step: step, Time: t, StepsPerSec: stepsPerSec, MaxTemp: maxTemp})
	if m.rank == 0 {
		io.Pfcyan("step %6d  t=%10.6g  Tmax=%10.6g  steps/s=%8.2f\n", step, t, maxTemp, stepsPerSec)
	}
}

// Entries returns every recorded monitor line, in emission order.
func (m *Monitor) Entries() []MonitorEntry { return m.entries }

// End prints the final wall-clock summary.
func (m *Monitor) End(finalTime float64) {
	if m.rank == 0 {
		io.Pfcyan("\nfinal time = %g\n", finalTime)
		io.Pfblue2("wall time  = %v\n", time.Since(m.runStart))
	}
}
