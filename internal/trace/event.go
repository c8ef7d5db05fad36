package trace

import "time"

// Kind is what happened: a span opened or closed, a point, a heartbeat.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string { return tableName(kindNames[:], int(k)) }

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver     Scope = iota + 1 // batch and per-file work
	ScopePass                        // collect, normalize, dispatch, finalize
	ScopeDepth                       // one expansion depth
	ScopeInvocation                  // one dispatched invocation
)

var scopeNames = [...]string{
	ScopeDriver:     "driver",
	ScopePass:       "pass",
	ScopeDepth:      "depth",
	ScopeInvocation: "invocation",
}

func (s Scope) String() string { return tableName(scopeNames[:], int(s)) }

func tableName(names []string, i int) string {
	if i <= 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

// Event is one trace record. Seq is global and monotonic; SpanID and
// ParentID are zero for events outside any span.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64 // goroutine that emitted it
	Name     string // "expand", "depth:2", "greet!"
	Detail   string
	Extra    map[string]string
	Dur      time.Duration // span length on end events, uptime on heartbeats
}
