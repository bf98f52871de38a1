package sprig

import (
	"fmt"
	"strings"
)

// --- ID counter ---

// nodeIDCounter is a plain counter: nodes are only created on the frame loop
// goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Lifecycle state ---

// LifecycleState reports how far a node got through Build.
type LifecycleState uint8

const (
	LifecyclePending LifecycleState = iota // created, not yet instantiated
	LifecycleReady                         // instantiated and ready; may be attached
	LifecycleFailed                        // prepare or init failed; never attachable
)

func (s LifecycleState) String() string {
	switch s {
	case LifecyclePending:
		return "pending"
	case LifecycleReady:
		return "ready"
	case LifecycleFailed:
		return "failed"
	default:
		return fmt.Sprintf("LifecycleState(%d)", uint8(s))
	}
}

// --- Node ---

// Node is the scene tree element. A node carries identity, ownership and the
// ordering flags every System reads; what a node can do is decided by its
// Behavior, which implements any subset of the capability interfaces
// (Processor, Renderer, Controller, Body).
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Active nodes and their subtrees are visited by Systems. Inactive nodes
	// are skipped together with everything below them.
	Active bool

	// Priority orders nodes within a System pass; lower runs first. The same
	// value is used by every System.
	Priority int

	// Behavior is the node's capability carrier. May be nil for pure
	// grouping nodes.
	Behavior any

	// Metadata
	UserData any

	state    LifecycleState
	disposed bool
}

// NewNode creates a pending node. It becomes attachable once
// Runtime.Instantiate (or Runtime.Build) has resolved for it.
func NewNode(name string, behavior any) *Node {
	return &Node{
		ID:       nextNodeID(),
		Name:     name,
		Active:   true,
		Behavior: behavior,
	}
}

// State returns the node's lifecycle state.
func (n *Node) State() LifecycleState {
	return n.state
}

// IsReady reports whether the node finished its lifecycle and may be attached.
func (n *Node) IsReady() bool {
	return n.state == LifecycleReady
}

// Path returns the slash-separated names from the root to this node.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.Parent {
		parts = append(parts, p.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, not ready, disposed, an ancestor of this node
// (cycle), or shares its name with an existing sibling.
func (n *Node) AddChild(child *Node) {
	n.checkAttach(child)
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// AddChildAt inserts child at the given index.
// Same reparenting and validity checks as AddChild. The index is checked
// before anything moves, so a bad index leaves the tree untouched.
func (n *Node) AddChildAt(child *Node, index int) {
	n.checkAttach(child)
	limit := len(n.children)
	if child.Parent == n {
		limit-- // the child moves within n
	}
	if index < 0 || index > limit {
		panic("sprig: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

func (n *Node) checkAttach(child *Node) {
	if child == nil {
		panic("sprig: cannot add nil child")
	}
	if n.disposed || child.disposed {
		panic(fmt.Sprintf("sprig: cannot attach disposed node %q", child.Name))
	}
	if child.state != LifecycleReady {
		panic(fmt.Sprintf("sprig: cannot attach node %q before it is instantiated (state %s)", child.Name, child.state))
	}
	if isAncestor(child, n) {
		panic("sprig: adding child would create a cycle")
	}
	if other := n.ChildByName(child.Name); other != nil && other != child {
		panic(fmt.Sprintf("sprig: node %q already has a child named %q", n.Name, child.Name))
	}
}

// RemoveChild detaches child from this node. The child is not disposed.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("sprig: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveChildNamed detaches the child with the given name and returns it.
// When keep is false the child is disposed and nil is returned. Returns nil
// if no such child exists.
func (n *Node) RemoveChildNamed(name string, keep bool) *Node {
	child := n.ChildByName(name)
	if child == nil {
		return nil
	}
	n.RemoveChild(child)
	if !keep {
		child.dispose()
		return nil
	}
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// ChildByName returns the direct child with the given name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- Disposal ---

// Disposer is implemented by behaviors that release resources when their
// node is disposed.
type Disposer interface {
	Dispose()
}

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Children are disposed first.
// Disposer hooks run only for nodes that reached LifecycleReady.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	if d, ok := n.Behavior.(Disposer); ok && n.state == LifecycleReady {
		d.Dispose()
	}
	n.disposed = true
	n.children = nil
	n.Parent = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
