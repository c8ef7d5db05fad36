package observ

import (
	"fmt"
	"strings"
	"time"
)

// Timer measures the phases of one expansion run (pre-passes, expand,
// squash, post-passes, checks). One per run; not safe for concurrent use.
type Timer struct {
	phases []phase
}

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

func NewTimer() *Timer { return &Timer{phases: make([]phase, 0, 8)} }

// Start opens a phase; calling the returned func closes it with a note.
// Closing twice keeps the first duration.
func (t *Timer) Start(name string) (stop func(note string)) {
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	i := len(t.phases) - 1
	return func(note string) {
		p := &t.phases[i]
		if p.dur != 0 {
			return
		}
		p.dur = max(time.Since(p.start), time.Nanosecond)
		p.note = note
	}
}

// PhaseReport is one row of a Report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serializable form used by --timings and the cache.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	for _, p := range t.phases {
		ms := millis(p.dur)
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: ms, Note: p.note})
		r.TotalMS += ms
	}
	return r
}

func (t *Timer) Summary() string { return t.Report().Summary() }

// Merge appends the phases of other as "label/phase" rows so a batch
// prints one table.
func (r *Report) Merge(label string, other Report) {
	for _, p := range other.Phases {
		if label != "" {
			p.Name = label + "/" + p.Name
		}
		r.Phases = append(r.Phases, p)
	}
	r.TotalMS += other.TotalMS
}

func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&b, "  // %s", note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 {
	return d.Seconds() * 1e3
}
