package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func writeScanFile(tst *testing.T, body string) string {
	dir := tst.TempDir()
	fn := filepath.Join(dir, "path.txt")
	if err := os.WriteFile(fn, []byte(body), 0644); err != nil {
		tst.Fatalf("cannot write scan file: %v", err)
	}
	return fn
}

func TestDwellThenTraverse(tst *testing.T) {
	chk.PrintTitle("scan: dwell then traverse")
	fn := writeScanFile(tst, "mode px py pz power param\n1 0 0 0 0.0 1.0\n0 1 0 0 100.0 1.0\n")
	p, err := Load(fn)
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}

	pos, pow := p.Query(0.5)
	if pos != ([3]float64{0, 0, 0}) || pow != 0 {
		tst.Fatalf("t=0.5: got pos=%v pow=%v", pos, pow)
	}

	pos, pow = p.Query(1.5)
	if pos != ([3]float64{0.5, 0, 0}) || pow != 100 {
		tst.Fatalf("t=1.5: got pos=%v pow=%v", pos, pow)
	}

	pos, pow = p.Query(3.0)
	if pos != ([3]float64{1, 0, 0}) || pow != 0 {
		tst.Fatalf("t=3.0 (past end): got pos=%v pow=%v", pos, pow)
	}
}

func TestBackwardQuery(tst *testing.T) {
	chk.PrintTitle("scan: backward (non-monotonic) queries are handled")
	fn := writeScanFile(tst, "header\n1 0 0 0 0.0 1.0\n0 1 0 0 100.0 1.0\n")
	p, err := Load(fn)
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}
	p.Query(1.9)
	pos, _ := p.Query(0.2)
	if pos != ([3]float64{0, 0, 0}) {
		tst.Fatalf("backward query mismatch: %v", pos)
	}
}

func TestSegmentContinuity(tst *testing.T) {
	chk.PrintTitle("scan: traversal endpoints match adjacent waypoints")
	fn := writeScanFile(tst, "header\n1 0 0 0 0.0 0.5\n0 2 0 0 50.0 2.0\n0 2 2 0 50.0 2.0\n")
	p, err := Load(fn)
	if err != nil {
		tst.Fatalf("Load failed: %v", err)
	}
	segs := p.Segments()
	for i := 1; i < len(segs); i++ {
		if segs[i].Mode != Traverse {
			continue
		}
		dtSeg := segs[i].TimeEnd - segs[i-1].TimeEnd
		if dtSeg <= 0 {
			continue
		}
		startPos, _ := p.Query(segs[i-1].TimeEnd + 1e-12)
		if distance(startPos, segs[i-1].Position) > 1e-9 {
			tst.Fatalf("segment %d start position mismatch: %v != %v", i, startPos, segs[i-1].Position)
		}
		endPos, _ := p.Query(segs[i].TimeEnd)
		if endPos != segs[i].Position {
			tst.Fatalf("segment %d end position mismatch: %v != %v", i, endPos, segs[i].Position)
		}
	}
}

func TestMalformedLineRejected(tst *testing.T) {
	chk.PrintTitle("scan: malformed line is a load error")
	fn := writeScanFile(tst, "header\n1 0 0 0\n")
	if _, err := Load(fn); err == nil {
		tst.Fatalf("expected an error for a malformed segment line")
	}
}
