package observ

import (
	"testing"
	"time"

	"github.com/nalgeon/be"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	done := tm.Track("parse")
	done("3 decls")
	idx := tm.Begin("lower")
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	be.Equal(t, len(r.Phases), 2)
	be.Equal(t, r.Phases[0], PhaseReport{Name: "parse", DurationMS: 2, Note: "3 decls"})
	be.Equal(t, r.TotalMS, 4.0)

	p, ok := r.Phase("lower")
	be.True(t, ok)
	be.Equal(t, p.DurationMS, 2.0)
	_, ok = r.Phase("link")
	be.True(t, !ok)
}

func TestSummary(t *testing.T) {
	var r Report
	r.Add("parse", 1500*time.Microsecond, "")
	r.Add("link", 10*time.Millisecond, "cc")
	want := "timings:\n" +
		"  parse            1.50 ms\n" +
		"  link            10.00 ms  // cc\n" +
		"  total           11.50 ms\n"
	be.Equal(t, r.Summary(), want)
}
