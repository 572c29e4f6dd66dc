// Package session implements the interactive navigation state machine:
// one loaded tree, a current virtual working directory, and the REPL
// built on top of them.
package session

import (
	"fmt"
	"sort"

	"vtree/internal/logging"
	"vtree/internal/store"
	"vtree/internal/tree"
)

var logger = logging.GetLogger().WithPrefix("session")

// State tracks the session lifecycle. Exited is terminal.
type State int

const (
	StateNotEntered State = iota
	StateEntered
	StateExited
)

// ErrNotEntered guards navigation calls outside the Entered state.
var ErrNotEntered = fmt.Errorf("no tree entered")

// Session binds one tree, its store lock, and the current directory.
// It is single-threaded and cooperative: each command runs to completion
// before the next prompt.
type Session struct {
	store *store.Store
	tree  *tree.Tree
	lock  *store.Lock
	cwd   tree.VirtualPath
	state State
}

// New creates a session in the NotEntered state.
func New(s *store.Store) *Session {
	return &Session{store: s}
}

// Enter loads the named tree and takes its exclusive lock. A held lock
// or a corrupt record aborts before any session state changes.
func (s *Session) Enter(name string) error {
	if s.state != StateNotEntered {
		return fmt.Errorf("session already used")
	}
	lock, err := s.store.Acquire(name)
	if err != nil {
		return err
	}
	t, err := s.store.Load(name)
	if err != nil {
		lock.Release()
		return err
	}
	s.tree = t
	s.lock = lock
	s.cwd = tree.RootPath()
	s.state = StateEntered
	logger.Info("Entered tree %q", name)
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Tree exposes the loaded tree for command dispatch.
func (s *Session) Tree() *tree.Tree {
	return s.tree
}

// Cwd returns the current virtual directory path.
func (s *Session) Cwd() tree.VirtualPath {
	return s.cwd
}

// Cd moves the current directory. The empty path returns to the root.
// Only directories are valid targets; a failed cd leaves cwd unchanged.
func (s *Session) Cd(raw string) error {
	if s.state != StateEntered {
		return ErrNotEntered
	}
	if raw == "" {
		s.cwd = tree.RootPath()
		return nil
	}
	res, err := tree.ResolveDir(s.tree, s.cwd, raw)
	if err != nil {
		return err
	}
	s.cwd = res.Path
	return nil
}

// Entry is one row of ls output.
type Entry struct {
	Name     string
	Kind     tree.Kind
	Target   string
	Desc     string
	Dangling bool
}

// Ls lists the children of raw (or of the current directory when raw is
// empty), sorted by name, flagging references whose targets are
// currently missing. It never mutates session state.
func (s *Session) Ls(raw string) ([]Entry, error) {
	if s.state != StateEntered {
		return nil, ErrNotEntered
	}
	res, err := tree.ResolveDir(s.tree, s.cwd, raw)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(res.Node.Children))
	for _, c := range res.Node.Children {
		entries = append(entries, Entry{
			Name:     c.Name,
			Kind:     c.Kind,
			Target:   c.Target,
			Desc:     c.Desc,
			Dangling: c.IsDangling(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Pwd reports the current virtual path.
func (s *Session) Pwd() string {
	return s.cwd.String()
}

// Prompt renders the REPL prefix, e.g. "/[project]/data/ > ".
func (s *Session) Prompt() string {
	p := "/[" + s.tree.Name + "]"
	for _, seg := range s.cwd.Segments() {
		p += tree.Separator + seg
	}
	return p + tree.Separator + " > "
}

// Subtree renders the box-drawing view of raw (or the current
// directory).
func (s *Session) Subtree(raw string) (string, error) {
	if s.state != StateEntered {
		return "", ErrNotEntered
	}
	res, err := tree.Resolve(s.tree, s.cwd, raw)
	if err != nil {
		return "", err
	}
	return res.Node.Render(), nil
}

// Exit saves the tree if dirty, releases the lock, and moves to the
// terminal Exited state. The lock is released even when the save fails.
func (s *Session) Exit() error {
	if s.state != StateEntered {
		return ErrNotEntered
	}
	var saveErr error
	if s.tree.Dirty() {
		saveErr = s.store.Save(s.tree)
	}
	if err := s.lock.Release(); err != nil {
		logger.Warn("Failed to release lock: %v", err)
	}
	s.state = StateExited
	logger.Info("Exited tree %q", s.tree.Name)
	return saveErr
}
