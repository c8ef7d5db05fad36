package observ

import (
	"fmt"
	"sort"
	"strings"
)

// ExpansionStats counts what one expansion run did.
type ExpansionStats struct {
	Invocations   int            `json:"invocations"`
	Bang          int            `json:"bang"`
	Attr          int            `json:"attr"`
	Derives       int            `json:"derives"`
	PassedThrough int            `json:"passed_through"`
	Failed        int            `json:"failed"`
	MaxDepth      int            `json:"max_depth"`
	Marks         int            `json:"marks"`
	ByExtension   map[string]int `json:"by_extension,omitempty"`
}

// Hit records one dispatched invocation of name at depth.
func (s *ExpansionStats) Hit(name string, depth int) {
	s.Invocations++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	if s.ByExtension == nil {
		s.ByExtension = make(map[string]int)
	}
	s.ByExtension[name]++
}

// Add merges o into s (batch totals).
func (s *ExpansionStats) Add(o ExpansionStats) {
	s.Invocations += o.Invocations
	s.Bang += o.Bang
	s.Attr += o.Attr
	s.Derives += o.Derives
	s.PassedThrough += o.PassedThrough
	s.Failed += o.Failed
	s.Marks += o.Marks
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
	for name, n := range o.ByExtension {
		if s.ByExtension == nil {
			s.ByExtension = make(map[string]int)
		}
		s.ByExtension[name] += n
	}
}

// Summary renders the counters in the same layout as Timer.Summary.
func (s *ExpansionStats) Summary() string {
	var b strings.Builder
	b.WriteString("expansion:\n")
	fmt.Fprintf(&b, "  %-20s %7d\n", "invocations", s.Invocations)
	fmt.Fprintf(&b, "  %-20s %7d\n", "bang", s.Bang)
	fmt.Fprintf(&b, "  %-20s %7d\n", "attr", s.Attr)
	fmt.Fprintf(&b, "  %-20s %7d\n", "derive", s.Derives)
	fmt.Fprintf(&b, "  %-20s %7d\n", "passed through", s.PassedThrough)
	fmt.Fprintf(&b, "  %-20s %7d\n", "failed", s.Failed)
	fmt.Fprintf(&b, "  %-20s %7d\n", "max depth", s.MaxDepth)
	fmt.Fprintf(&b, "  %-20s %7d\n", "marks", s.Marks)
	names := make([]string, 0, len(s.ByExtension))
	for name := range s.ByExtension {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "    %-18s %7d\n", name, s.ByExtension[name])
	}
	return b.String()
}
