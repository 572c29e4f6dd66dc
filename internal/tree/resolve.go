package tree

import "strings"

// Resolution is the result of resolving a virtual path string: the node
// it names plus its absolute position in the tree. Callers switch on
// Node.Kind to distinguish directories from references.
type Resolution struct {
	Node *Node
	Path VirtualPath
}

// Resolve walks the tree from cwd (or from the root for absolute paths)
// along the segments of raw. "." skips, ".." moves to the parent and
// fails at the root, anything else is an exact child lookup. An
// intermediate reference fails with ErrNotADirectory.
//
// Resolve is a pure function of the tree contents and the path string.
// It never checks the real filesystem: a reference resolves to its stored
// target whether or not the target currently exists, so navigation never
// fails on dangling references.
func Resolve(t *Tree, cwd VirtualPath, raw string) (Resolution, error) {
	node := t.Root
	path := RootPath()
	stack := []*Node{node}

	// Relative paths start at cwd; re-walk from the root so the node
	// stack holds every ancestor and ".." needs no upward pointers.
	if !strings.HasPrefix(raw, Separator) {
		for _, seg := range cwd.Segments() {
			child, ok := node.Child(seg)
			if !ok {
				return Resolution{}, &Error{Op: OpResolve, Path: cwd.String(), Err: ErrNotFound}
			}
			node = child
			stack = append(stack, node)
			path = path.Join(seg)
		}
	}
	for _, seg := range strings.Split(raw, Separator) {
		switch seg {
		case "", ".":
			continue
		case "..":
			if path.IsRoot() {
				return Resolution{}, &Error{Op: OpResolve, Path: raw, Err: ErrAtRoot}
			}
			stack = stack[:len(stack)-1]
			node = stack[len(stack)-1]
			path = path.Parent()
		default:
			if !node.IsDir() {
				return Resolution{}, &Error{Op: OpResolve, Path: path.String(), Err: ErrNotADirectory}
			}
			child, ok := node.Child(seg)
			if !ok {
				return Resolution{}, &Error{Op: OpResolve, Path: path.Join(seg).String(), Err: ErrNotFound}
			}
			node = child
			stack = append(stack, node)
			path = path.Join(seg)
		}
	}
	return Resolution{Node: node, Path: path}, nil
}

// ResolveDir resolves raw and additionally requires a directory.
func ResolveDir(t *Tree, cwd VirtualPath, raw string) (Resolution, error) {
	res, err := Resolve(t, cwd, raw)
	if err != nil {
		return Resolution{}, err
	}
	if !res.Node.IsDir() {
		return Resolution{}, &Error{Op: OpResolve, Path: res.Path.String(), Err: ErrNotADirectory}
	}
	return res, nil
}

// nodeAt walks an already-resolved absolute path. The path must come
// from a prior successful Resolve; a missing segment reports ErrNotFound.
func (t *Tree) nodeAt(p VirtualPath) (*Node, error) {
	node := t.Root
	for _, seg := range p.Segments() {
		child, ok := node.Child(seg)
		if !ok {
			return nil, &Error{Op: OpResolve, Path: p.String(), Err: ErrNotFound}
		}
		node = child
	}
	return node, nil
}
