package resolve

import (
	"errors"

	"fortio.org/safecast"

	"syntex/internal/ast"
)

var ErrNodeIDsExhausted = errors.New("node identifiers exhausted")

// idAllocator is a monotonic counter. Zero is DummyNodeID and never
// returned.
type idAllocator struct {
	next uint64
}

func (a *idAllocator) NextNodeID() (ast.NodeID, error) {
	a.next++
	v, err := safecast.Conv[uint32](a.next)
	if err != nil {
		a.next--
		return ast.DummyNodeID, ErrNodeIDsExhausted
	}
	return ast.NodeID(v), nil
}
