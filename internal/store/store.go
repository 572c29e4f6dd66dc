// Package store persists named virtual trees as one JSON record per tree
// in a per-user home directory, and hands out exclusive per-tree locks
// for interactive sessions.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vtree/internal/logging"
	"vtree/internal/tree"
)

var logger = logging.GetLogger().WithPrefix("store")

const (
	treesDir   = "trees"
	locksDir   = "locks"
	backupsDir = "backups"

	// EnvHome overrides the store location; defaults to ~/.vtree.
	EnvHome = "VTREE_HOME"

	backupCount = 5
)

// Store owns the durable records. Save is the only mutator of durable
// state; it writes to a temp file and renames so a crash never leaves a
// half-written tree.
type Store struct {
	home string
}

// Open locates the store home ($VTREE_HOME, else ~/.vtree) and ensures
// its layout exists.
func Open() (*Store, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		home = filepath.Join(userHome, ".vtree")
	}
	return OpenAt(home)
}

// OpenAt opens a store rooted at an explicit directory.
func OpenAt(home string) (*Store, error) {
	logger.Debug("Opening store at: %s", home)
	for _, sub := range []string{treesDir, locksDir, backupsDir} {
		if err := os.MkdirAll(filepath.Join(home, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", sub, err)
		}
	}
	return &Store{home: home}, nil
}

// Home returns the store's root directory.
func (s *Store) Home() string {
	return s.home
}

func (s *Store) treePath(name string) string {
	return filepath.Join(s.home, treesDir, name+".json")
}

// Create writes a new empty tree record. Fails if the name is taken.
func (s *Store) Create(name string) (*tree.Tree, error) {
	if err := tree.ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.treePath(name)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTreeExists, name)
	}
	t := tree.New(name)
	if err := s.writeRecord(t); err != nil {
		return nil, err
	}
	logger.Info("Created tree %q", name)
	return t, nil
}

// Load reads the record for name. A missing record is ErrTreeNotFound;
// an unreadable or invariant-breaking record is ErrStoreCorrupt.
func (s *Store) Load(name string) (*tree.Tree, error) {
	logger.Debug("Loading tree %q", name)
	data, err := os.ReadFile(s.treePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTreeNotFound, name)
		}
		return nil, fmt.Errorf("failed to read tree %s: %w", name, err)
	}

	var root tree.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, name, err)
	}
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, name, err)
	}
	if root.Name != name {
		return nil, fmt.Errorf("%w: %s: record names tree %q", ErrStoreCorrupt, name, root.Name)
	}
	return tree.FromRoot(&root), nil
}

// Save persists the tree and clears its dirty flag. The previous record
// is rotated into backups/ first.
func (s *Store) Save(t *tree.Tree) error {
	logger.Debug("Saving tree %q", t.Name)
	if err := s.backup(t.Name); err != nil {
		logger.Warn("Failed to back up tree %q: %v", t.Name, err)
		// A failed backup never blocks the save itself.
	}
	if err := s.writeRecord(t); err != nil {
		return err
	}
	t.MarkClean()
	logger.Debug("Tree %q saved", t.Name)
	return nil
}

// writeRecord marshals the root node and writes it atomically:
// temp file in the same directory, then rename over the record.
func (s *Store) writeRecord(t *tree.Tree) error {
	data, err := json.MarshalIndent(t.Root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree %s: %w", t.Name, err)
	}

	path := s.treePath(t.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write tree %s: %w", t.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace tree record %s: %w", t.Name, err)
	}
	return nil
}

// TreeInfo is one row of List output.
type TreeInfo struct {
	Name string
	Desc string
}

// List returns the known trees, sorted by name, with the root
// description when one is set.
func (s *Store) List() ([]TreeInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.home, treesDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var infos []TreeInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		info := TreeInfo{Name: name}
		if t, err := s.Load(name); err == nil {
			info.Desc = t.Root.Desc
		} else {
			logger.Warn("Skipping description for %q: %v", name, err)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a tree's record. The lock file, if any, is left to its
// holder; backups are kept as the recovery path.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.treePath(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrTreeNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to delete tree %s: %w", name, err)
	}
	logger.Info("Deleted tree %q", name)
	return nil
}

// backup copies the current record into backups/ with a timestamp and
// prunes old copies, keeping the newest backupCount per tree.
func (s *Store) backup(name string) error {
	data, err := os.ReadFile(s.treePath(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	stamp := time.Now().Format("20060102-150405.000000")
	backupPath := filepath.Join(s.home, backupsDir, fmt.Sprintf("%s-%s.json", name, stamp))
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return s.pruneBackups(name)
}

func (s *Store) pruneBackups(name string) error {
	dir := filepath.Join(s.home, backupsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	prefix := name + "-"
	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, entry.Name())
		}
	}

	// The timestamp suffix sorts lexically, newest last.
	sort.Strings(backups)
	for len(backups) > backupCount {
		old := backups[0]
		backups = backups[1:]
		logger.Debug("Removing old backup: %s", old)
		if err := os.Remove(filepath.Join(dir, old)); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old, err)
		}
	}
	return nil
}
