// Package tree implements the virtual file tree: the node data model,
// virtual path resolution, and the structural mutation operations.
//
// A tree is a named hierarchy of directories whose leaves are references
// to real filesystem paths. The tree never owns file content; a reference
// stores only the target path and an optional description. Child names are
// unique within a directory and compared byte-exact (case-sensitive).
package tree

import (
	"fmt"
	"os"
	"strings"
)

// Kind tags the two node variants.
type Kind string

const (
	// KindDirectory is a node with named children and no target.
	KindDirectory Kind = "dir"
	// KindReference is a leaf pointing at a real filesystem path.
	KindReference Kind = "ref"
)

// Node is a single entry in the virtual tree. The zero value is not
// usable; construct nodes with NewDirectory or NewReference so the kind
// tag is always set.
type Node struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Target   string  `json:"target,omitempty"`
	Desc     string  `json:"desc,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// NewDirectory creates an empty directory node.
func NewDirectory(name string) *Node {
	return &Node{Name: name, Kind: KindDirectory}
}

// NewReference creates a reference node pointing at target.
func NewReference(name, target, desc string) *Node {
	return &Node{Name: name, Kind: KindReference, Target: target, Desc: desc}
}

// IsDir returns true for directory nodes.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// IsDangling reports whether a reference's target is currently missing.
// This is an advisory check: a dangling reference is a normal runtime
// state, not a structural error. Directories are never dangling.
func (n *Node) IsDangling() bool {
	if n.IsDir() {
		return false
	}
	_, err := os.Stat(n.Target)
	return err != nil
}

// Child returns the child with the given name, if present.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasChild reports whether a child with the given name exists.
func (n *Node) HasChild(name string) bool {
	_, ok := n.Child(name)
	return ok
}

// ChildNames returns the names of the immediate children in insertion
// order. Callers that need deterministic display order sort the result.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

// addChild appends a child, enforcing the unique-name invariant.
func (n *Node) addChild(child *Node) error {
	if n.HasChild(child.Name) {
		return &Error{Op: "add", Path: child.Name, Err: ErrNameCollision}
	}
	n.Children = append(n.Children, child)
	return nil
}

// removeChild removes the child with the given name.
func (n *Node) removeChild(name string) error {
	for i, c := range n.Children {
		if c.Name == name {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return nil
		}
	}
	return &Error{Op: "remove", Path: name, Err: ErrNotFound}
}

// Characters that may not appear in node names. The set includes the
// virtual path separator and the <> markers used by call substitution.
const invalidNameChars = `\/#|"*?<>:`

// ValidateName checks that name is usable as a node name.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return fmt.Errorf("%w: %q must not contain any of %s",
			ErrInvalidName, name, invalidNameChars)
	}
	return nil
}

// Validate checks the structural invariants of the whole subtree:
// kind tags are known, directory children have unique names, references
// carry no children, directories carry no target. Used after loading a
// hand-editable store record.
func (n *Node) Validate() error {
	switch n.Kind {
	case KindDirectory:
		if n.Target != "" {
			return fmt.Errorf("directory %q has a target", n.Name)
		}
	case KindReference:
		if len(n.Children) > 0 {
			return fmt.Errorf("reference %q has children", n.Name)
		}
	default:
		return fmt.Errorf("node %q has unknown kind %q", n.Name, n.Kind)
	}
	seen := make(map[string]bool, len(n.Children))
	for _, c := range n.Children {
		if seen[c.Name] {
			return fmt.Errorf("directory %q has duplicate child %q", n.Name, c.Name)
		}
		seen[c.Name] = true
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tree is a named root directory plus the dirty flag that tracks unsaved
// mutations. The tree name doubles as the root node's name and as the
// lookup key in the store.
type Tree struct {
	Name string
	Root *Node

	dirty bool
}

// New creates an empty tree with the given name.
func New(name string) *Tree {
	return &Tree{Name: name, Root: NewDirectory(name)}
}

// FromRoot wraps an existing root node, e.g. one loaded from the store.
func FromRoot(root *Node) *Tree {
	return &Tree{Name: root.Name, Root: root}
}

// Dirty reports whether the tree has unsaved mutations.
func (t *Tree) Dirty() bool {
	return t.dirty
}

// MarkClean clears the dirty flag. Only the store calls this, after a
// successful save.
func (t *Tree) MarkClean() {
	t.dirty = false
}

func (t *Tree) markDirty() {
	t.dirty = true
}
