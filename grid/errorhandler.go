package grid

import (
	"github.com/cpmech/gosl/io"
)

// Stop decides whether a rank-local error should halt the whole run. A
// serial communicator (Size()==1) stops immediately on any error. A
// distributed communicator polls every rank with one collective
// AllReduceMax so that one rank's failure is visible to all of them
// before the caller tears anything down: a failed collective is fatal
// to the whole run, not just the rank that hit it.
func Stop(comm Communicator, err error, msg string) bool {
	if comm.Size() == 1 {
		if err != nil {
			io.Pfred("finch: rank %d: %s failed: %v\n", comm.Rank(), msg, err)
			return true
		}
		return false
	}

	flag := []float64{0}
	if err != nil {
		io.Pfred("finch: rank %d: %s failed: %v\n", comm.Rank(), msg, err)
		flag[0] = 1
	}
	comm.AllReduceMax(flag)
	return flag[0] > 0
}
