package tree

// Structural mutations. Every operation validates completely before
// touching the tree, so a failed call leaves the tree unchanged. Every
// successful call marks the tree dirty; only a store save clears it.

// Mkdir creates a directory at raw, resolved against cwd. The parent
// must already exist and be a directory; intermediate directories are
// never created implicitly.
func (t *Tree) Mkdir(cwd VirtualPath, raw string) (VirtualPath, error) {
	parentRaw, name := splitLast(raw)
	if err := ValidateName(name); err != nil {
		return VirtualPath{}, &Error{Op: OpMkdir, Path: raw, Err: err}
	}
	parent, err := ResolveDir(t, cwd, parentRaw)
	if err != nil {
		return VirtualPath{}, err
	}
	if parent.Node.HasChild(name) {
		return VirtualPath{}, &Error{Op: OpMkdir, Path: parent.Path.Join(name).String(), Err: ErrNameCollision}
	}
	if err := parent.Node.addChild(NewDirectory(name)); err != nil {
		return VirtualPath{}, err
	}
	t.markDirty()
	return parent.Path.Join(name), nil
}

// AddReference creates a reference to target at raw. The target string
// is stored as given; whether it exists is advisory and checked by the
// caller, so not-yet-created files can be referenced forward.
func (t *Tree) AddReference(cwd VirtualPath, raw, target, desc string) (VirtualPath, error) {
	parentRaw, name := splitLast(raw)
	if err := ValidateName(name); err != nil {
		return VirtualPath{}, &Error{Op: OpAdd, Path: raw, Err: err}
	}
	parent, err := ResolveDir(t, cwd, parentRaw)
	if err != nil {
		return VirtualPath{}, err
	}
	if parent.Node.HasChild(name) {
		return VirtualPath{}, &Error{Op: OpAdd, Path: parent.Path.Join(name).String(), Err: ErrNameCollision}
	}
	if err := parent.Node.addChild(NewReference(name, target, desc)); err != nil {
		return VirtualPath{}, err
	}
	t.markDirty()
	return parent.Path.Join(name), nil
}

// Remove deletes the node at raw. Removing a non-empty directory
// removes its whole subtree and therefore requires recursive; the
// confirmation for that destructive step lives at the CLI boundary.
func (t *Tree) Remove(cwd VirtualPath, raw string, recursive bool) error {
	res, err := Resolve(t, cwd, raw)
	if err != nil {
		return err
	}
	if res.Path.IsRoot() {
		return &Error{Op: OpRemove, Path: res.Path.String(), Err: ErrInvalidName}
	}
	if res.Node.IsDir() && len(res.Node.Children) > 0 && !recursive {
		return &Error{Op: OpRemove, Path: res.Path.String(), Err: ErrDirectoryNotEmpty}
	}
	parent, err := t.nodeAt(res.Path.Parent())
	if err != nil {
		return err
	}
	if err := parent.removeChild(res.Path.Base()); err != nil {
		return err
	}
	t.markDirty()
	return nil
}

// Rename changes a node's name in place. Renaming changes the node's
// identity: its path, and the path of everything under it.
func (t *Tree) Rename(cwd VirtualPath, raw, newName string) error {
	if err := ValidateName(newName); err != nil {
		return &Error{Op: OpRename, Path: raw, Err: err}
	}
	res, err := Resolve(t, cwd, raw)
	if err != nil {
		return err
	}
	if res.Path.IsRoot() {
		return &Error{Op: OpRename, Path: res.Path.String(), Err: ErrInvalidName}
	}
	if res.Node.Name == newName {
		return nil
	}
	parent, err := t.nodeAt(res.Path.Parent())
	if err != nil {
		return err
	}
	if parent.HasChild(newName) {
		return &Error{Op: OpRename, Path: res.Path.Parent().Join(newName).String(), Err: ErrNameCollision}
	}
	res.Node.Name = newName
	t.markDirty()
	return nil
}

// SetDescription attaches free text to the node at raw. Directories may
// carry descriptions too.
func (t *Tree) SetDescription(cwd VirtualPath, raw, text string) error {
	res, err := Resolve(t, cwd, raw)
	if err != nil {
		return err
	}
	res.Node.Desc = text
	t.markDirty()
	return nil
}
