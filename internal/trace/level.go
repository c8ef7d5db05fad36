package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped on crash
	LevelPhase        // driver and pass boundaries
	LevelDetail       // plus depth steps
	LevelDebug        // plus every invocation
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	i := slices.Index(levelNames, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil // #nosec G115 -- index into a five element table
}

// maxScope is the innermost scope a level lets through; ok is false when
// the level emits nothing live.
func (l Level) maxScope() (Scope, bool) {
	switch l {
	case LevelPhase:
		return ScopePass, true
	case LevelDetail:
		return ScopeDepth, true
	case LevelDebug:
		return ScopeInvocation, true
	}
	return 0, false
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	limit, ok := l.maxScope()
	return ok && scope <= limit
}
