package hygiene

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Mark is an opaque per-expansion tag. Root is never minted.
type Mark uint32

const Root Mark = 0

func (m Mark) String() string {
	return fmt.Sprintf("#%d", uint32(m))
}

// Chain is the ordered list of marks an identifier has accumulated, oldest first.
// A nil chain is the unmarked (source) context.
type Chain []Mark

// Apply returns a new chain with m appended. The receiver is never modified, so
// chains may be shared between identifiers.
func (c Chain) Apply(m Mark) Chain {
	out := make(Chain, len(c), len(c)+1)
	copy(out, c)
	return append(out, m)
}

// Equal compares full chains.
func (c Chain) Equal(other Chain) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Outer returns the most recently applied mark, or Root.
func (c Chain) Outer() Mark {
	if len(c) == 0 {
		return Root
	}
	return c[len(c)-1]
}

func (c Chain) String() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, m := range c {
		parts[i] = m.String()
	}
	return strings.Join(parts, "")
}

// Counter mints marks for a single expansion run. It is not safe for
// concurrent use; concurrent runs own separate counters.
type Counter struct {
	next uint64
}

// Fresh returns a mark that was never returned before by this counter.
// Marks are strictly increasing.
func (c *Counter) Fresh() Mark {
	c.next++
	v, err := safecast.Conv[uint32](c.next)
	if err != nil {
		panic("hygiene: ran out of scope marks")
	}
	return Mark(v)
}

// Last returns the most recently minted mark, or Root when none was minted.
func (c *Counter) Last() Mark {
	return Mark(uint32(c.next)) // #nosec G115 -- Fresh guarantees next fits in uint32
}
