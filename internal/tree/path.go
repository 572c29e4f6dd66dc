package tree

import "strings"

// Separator splits virtual paths into segments.
const Separator = "/"

// VirtualPath is an absolute position in a virtual tree, held as the
// sequence of child names from the root. The zero value is the root.
// VirtualPath is a value type; all methods return copies.
type VirtualPath struct {
	segs []string
}

// RootPath returns the tree root path.
func RootPath() VirtualPath {
	return VirtualPath{}
}

// NewVirtualPath builds a path from pre-resolved segments.
func NewVirtualPath(segs ...string) VirtualPath {
	return VirtualPath{segs: append([]string(nil), segs...)}
}

// String renders the path with a leading separator, "/" for the root.
func (p VirtualPath) String() string {
	return Separator + strings.Join(p.segs, Separator)
}

// Segments returns a copy of the child-name sequence.
func (p VirtualPath) Segments() []string {
	return append([]string(nil), p.segs...)
}

// IsRoot reports whether this is the tree root.
func (p VirtualPath) IsRoot() bool {
	return len(p.segs) == 0
}

// Base returns the last segment, or "" for the root.
func (p VirtualPath) Base() string {
	if p.IsRoot() {
		return ""
	}
	return p.segs[len(p.segs)-1]
}

// Join extends the path by one child name.
func (p VirtualPath) Join(name string) VirtualPath {
	segs := make([]string, 0, len(p.segs)+1)
	segs = append(segs, p.segs...)
	return VirtualPath{segs: append(segs, name)}
}

// Parent returns the containing directory's path. The root is its own
// parent; callers that must not cross the root check IsRoot first.
func (p VirtualPath) Parent() VirtualPath {
	if p.IsRoot() {
		return p
	}
	return VirtualPath{segs: append([]string(nil), p.segs[:len(p.segs)-1]...)}
}

// Equal reports segment-wise equality. Path equality is name-path-based:
// two paths are equal iff they name the same lookup sequence.
func (p VirtualPath) Equal(other VirtualPath) bool {
	if len(p.segs) != len(other.segs) {
		return false
	}
	for i, s := range p.segs {
		if other.segs[i] != s {
			return false
		}
	}
	return true
}

// splitLast separates a raw path string into the parent part and the
// final segment, e.g. "/data/a" -> ("/data", "a") and "a" -> ("", "a").
func splitLast(raw string) (parent, name string) {
	raw = strings.TrimSuffix(raw, Separator)
	i := strings.LastIndex(raw, Separator)
	if i < 0 {
		return "", raw
	}
	if i == 0 {
		return Separator, raw[1:]
	}
	return raw[:i], raw[i+1:]
}
