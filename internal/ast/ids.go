package ast

type (
	// NodeID identifies a node for downstream passes. DummyNodeID marks nodes
	// that have not been numbered yet.
	NodeID uint32
	// InvocationID is the identity of a pending expansion. The placeholder
	// left in the tree and the recorded result share it. RootInvocation is
	// reserved for the crate itself.
	InvocationID uint32
)

const (
	DummyNodeID    NodeID       = 0
	RootInvocation InvocationID = 0
)

func (id NodeID) IsDummy() bool { return id == DummyNodeID }
