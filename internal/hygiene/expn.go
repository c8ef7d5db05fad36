package hygiene

import (
	"fortio.org/safecast"

	"syntex/internal/source"
)

// Format says how an extension was invoked.
type Format uint8

const (
	FormatBang Format = iota + 1 // name!(...)
	FormatAttr                   // #[name]
)

func (f Format) String() string {
	switch f {
	case FormatBang:
		return "bang"
	case FormatAttr:
		return "attr"
	default:
		return "unknown"
	}
}

// ExpnInfo describes one expansion event.
type ExpnInfo struct {
	Mark     Mark
	CallSite source.Span // span of the invocation; its Expn links to the enclosing expansion
	Callee   string
	Format   Format
}

// ExpnTable is the expansion backtrace of one run.
type ExpnTable struct {
	infos []ExpnInfo
}

// Push records an expansion and returns its id.
func (t *ExpnTable) Push(info ExpnInfo) source.ExpnID {
	t.infos = append(t.infos, info)
	n, err := safecast.Conv[uint32](len(t.infos))
	if err != nil {
		panic("hygiene: expansion table overflow")
	}
	return source.ExpnID(n)
}

// Get returns the info for id.
func (t *ExpnTable) Get(id source.ExpnID) (ExpnInfo, bool) {
	if id == source.NoExpn || int(id) > len(t.infos) {
		return ExpnInfo{}, false
	}
	return t.infos[id-1], true
}

// Backtrace walks from id outwards, innermost expansion first.
func (t *ExpnTable) Backtrace(id source.ExpnID) []ExpnInfo {
	var out []ExpnInfo
	seen := make(map[source.ExpnID]bool)
	for id != source.NoExpn && !seen[id] {
		seen[id] = true
		info, ok := t.Get(id)
		if !ok {
			break
		}
		out = append(out, info)
		id = info.CallSite.Expn
	}
	return out
}

// Len returns the number of recorded expansions.
func (t *ExpnTable) Len() int {
	return len(t.infos)
}
