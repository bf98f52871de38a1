package sprig

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup path does not name a node.
	ErrNotFound = errors.New("sprig: node not found")
	// ErrWrongType is returned when a node's behavior is not of the requested type.
	ErrWrongType = errors.New("sprig: node behavior has the wrong type")
)

// Find resolves a slash-separated path of child names relative to n.
func Find(n *Node, path string) (*Node, error) {
	cur := n
	for _, name := range strings.Split(path, "/") {
		next := cur.ChildByName(name)
		if next == nil {
			return nil, fmt.Errorf("%w: %q under %q", ErrNotFound, path, n.Path())
		}
		cur = next
	}
	return cur, nil
}

// Get resolves path relative to parent and returns the node's behavior as T.
// Scenes call it once from Init or Ready and keep the typed result in a
// field instead of looking names up every frame.
func Get[T any](parent *Node, path string) (T, error) {
	var zero T
	n, err := Find(parent, path)
	if err != nil {
		return zero, err
	}
	b, ok := n.Behavior.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrWrongType, n.Path(), n.Behavior, zero)
	}
	return b, nil
}

// MustGet is like Get but panics on failure. Intended for declared children,
// whose presence is guaranteed by the parent's Tree.
func MustGet[T any](parent *Node, path string) T {
	b, err := Get[T](parent, path)
	if err != nil {
		panic(err)
	}
	return b
}
