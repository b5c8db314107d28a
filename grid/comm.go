package grid

import (
	"github.com/cpmech/gosl/mpi"
)

// Communicator abstracts the collective operations Grid needs: rank
// bookkeeping, halo point-to-point exchange, and the reductions used by
// the solidification recorder's bounding-box output. The real
// implementation delegates to github.com/cpmech/gosl/mpi; SerialComm
// below serves single-rank runs and tests without requiring MPI to be
// running.
type Communicator interface {
	Rank() int
	Size() int
	IsOn() bool
	SendRecv(send []float64, dest int, recv []float64, source int)
	AllReduceSum(vals []float64)
	AllReduceMin(vals []float64)
	AllReduceMax(vals []float64)
}

// gomComm wraps github.com/cpmech/gosl/mpi's package-level world communicator.
type gomComm struct{}

// NewMPIComm returns a Communicator backed by the running MPI session.
// Callers are responsible for mpi.Start/mpi.Stop around the process
// lifetime, exactly as cmd/finch's main does.
func NewMPIComm() Communicator { return gomComm{} }

func (gomComm) Rank() int { return mpi.Rank() }
func (gomComm) Size() int { return mpi.Size() }
func (gomComm) IsOn() bool { return mpi.IsOn() }

func (gomComm) SendRecv(send []float64, dest int, recv []float64, source int) {
	comm := mpi.NewCommunicator(nil)
	comm.SendRecv(send, dest, recv, source)
}

func (gomComm) AllReduceSum(vals []float64) {
	tmp := make([]float64, len(vals))
	mpi.AllReduceSum(vals, tmp)
	copy(vals, tmp)
}

func (gomComm) AllReduceMin(vals []float64) {
	tmp := make([]float64, len(vals))
	mpi.AllReduceMin(vals, tmp)
	copy(vals, tmp)
}

func (gomComm) AllReduceMax(vals []float64) {
	tmp := make([]float64, len(vals))
	mpi.AllReduceMax(vals, tmp)
	copy(vals, tmp)
}

// SerialComm is a single-rank, no-MPI Communicator used when NRanks==1
// (the common case for tests and single-process runs). A self-send is
// simply a copy: there is no other rank to exchange with.
type SerialComm struct{}

func (SerialComm) Rank() int  { return 0 }
func (SerialComm) Size() int  { return 1 }
func (SerialComm) IsOn() bool { return false }

func (SerialComm) SendRecv(send []float64, dest int, recv []float64, source int) {
	copy(recv, send)
}

func (SerialComm) AllReduceSum(vals []float64) {}
func (SerialComm) AllReduceMin(vals []float64) {}
func (SerialComm) AllReduceMax(vals []float64) {}
