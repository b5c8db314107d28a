// Package scan implements the time-parameterized scan path of a moving
// beam: an ordered sequence of dwell and traversal segments that yields
// beam position and power at any query time.
package scan

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Mode tags a segment as a straight traverse or a dwell.
type Mode int

// segment modes
const (
	Traverse Mode = 0
	Dwell    Mode = 1
)

// eps is the tolerance used throughout for power/time comparisons.
const eps = 1e-10

// Segment is one row of the scan path after time_end has been derived.
type Segment struct {
	Mode     Mode
	Position [3]float64
	Power    float64
	Param    float64 // scan speed (Traverse, m/s) or dwell duration (Dwell, s)
	TimeEnd  float64 // absolute simulated time at which this segment completes
}

// Path holds the loaded, time-stamped sequence of segments plus the
// cursor used to accelerate monotonic queries.
type Path struct {
	segs    []Segment
	cursor  int
	endTime float64
}

// Load reads a scan-path text file: a discarded header line followed by
// one "mode px py pz power param" record per non-empty line.
func Load(path string) (*Path, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("scan: cannot open scan path file %q: %v", path, err)
	}
	defer f.Close()

	p := &Path{
		segs: []Segment{{Mode: Dwell, Position: [3]float64{0, 0, 0}, Power: 0, Param: 0, TimeEnd: 0}},
	}

	sc := bufio.NewScanner(f)
	lineNo := 0
	header := true
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if header {
			header = false
			continue
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, chk.Err("scan: %s:%d: expected 6 fields, got %d", path, lineNo, len(fields))
		}
		var v [6]float64
		for i, s := range fields {
			x, perr := strconv.ParseFloat(s, 64)
			if perr != nil {
				return nil, chk.Err("scan: %s:%d: field %d (%q) is not a number: %v", path, lineNo, i, s, perr)
			}
			v[i] = x
		}
		seg := Segment{
			Mode:     Mode(int(v[0])),
			Position: [3]float64{v[1], v[2], v[3]},
			Power:    v[4],
			Param:    v[5],
		}
		p.segs = append(p.segs, seg)
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("scan: %s: read error: %v", path, err)
	}
	if len(p.segs) < 2 {
		return nil, chk.Err("scan: %s: no segments were read", path)
	}

	// derive time_end, non-decreasing by construction
	prev := &p.segs[0]
	for i := 1; i < len(p.segs); i++ {
		s := &p.segs[i]
		switch s.Mode {
		case Dwell:
			if s.Param < 0 {
				return nil, chk.Err("scan: %s: segment %d: dwell duration must be >= 0", path, i)
			}
			s.TimeEnd = prev.TimeEnd + s.Param
		case Traverse:
			if s.Param <= 0 {
				return nil, chk.Err("scan: %s: segment %d: scan speed must be > 0", path, i)
			}
			s.TimeEnd = prev.TimeEnd + distance(prev.Position, s.Position)/s.Param
		default:
			return nil, chk.Err("scan: %s: segment %d: unknown mode %d", path, i, s.Mode)
		}
		prev = s
	}

	// end_time is the greatest time_end whose segment power exceeds eps
	for _, s := range p.segs {
		if s.Power > eps && s.TimeEnd > p.endTime {
			p.endTime = s.TimeEnd
		}
	}
	return p, nil
}

func distance(a, b [3]float64) float64 {
	dx, dy, dz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Segments returns the loaded, time-stamped segments including the
// sentinel at index 0. Read-only accessor used by diagnostics and tests.
func (p *Path) Segments() []Segment { return p.segs }

// EndTime returns the path's global end time.
func (p *Path) EndTime() float64 { return p.endTime }

// Query returns the beam position and power at time t. Queries are a
// deterministic function of t and the loaded path; both forward and
// backward (non-monotonic) queries are supported, amortized O(1) for
// the common monotonic case.
func (p *Path) Query(t float64) (position [3]float64, power float64) {
	if t-p.endTime > eps {
		// beam has finished its path; it remains at the final waypoint with no power
		return p.segs[len(p.segs)-1].Position, 0
	}

	i := p.locate(t)
	p.cursor = i

	seg := p.segs[i]
	if seg.Mode == Dwell {
		position = seg.Position
	} else {
		prev := p.segs[i-1]
		span := seg.TimeEnd - prev.TimeEnd
		if span <= 0 {
			position = seg.Position
		} else {
			frac := (t - prev.TimeEnd) / span
			position = [3]float64{
				prev.Position[0] + frac*(seg.Position[0]-prev.Position[0]),
				prev.Position[1] + frac*(seg.Position[1]-prev.Position[1]),
				prev.Position[2] + frac*(seg.Position[2]-prev.Position[2]),
			}
		}
	}

	if t-p.segs[i-1].TimeEnd > eps {
		power = seg.Power
	} else {
		power = p.segs[i-1].Power
	}
	return position, power
}

// locate finds the segment index i such that time_end[i-1] < t <= time_end[i],
// walking from the cached cursor, then skips trailing zero-duration dwells.
func (p *Path) locate(t float64) int {
	i := p.cursor
	if i < 1 {
		i = 1
	}
	if i > len(p.segs)-1 {
		i = len(p.segs) - 1
	}
	for i > 1 && p.segs[i-1].TimeEnd >= t {
		i--
	}
	for i < len(p.segs)-1 && p.segs[i].TimeEnd < t {
		i++
	}
	for i < len(p.segs)-1 && p.segs[i].Mode == Dwell && p.segs[i].Param == 0 {
		i++
	}
	if i < 1 {
		i = 1
	}
	if i > len(p.segs)-1 {
		i = len(p.segs) - 1
	}
	return i
}
