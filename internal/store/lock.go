package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Lock is an exclusive advisory lock on one tree, held for the lifetime
// of an interactive session. The flock is released by the kernel when
// the holding process exits, so a crashed session never wedges its tree;
// the PID payload in the lock file is diagnostic only.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the exclusive lock for name. Returns ErrLockHeld,
// annotated with the holder's PID when known, if another live session
// owns the tree.
func (s *Store) Acquire(name string) (*Lock, error) {
	path := filepath.Join(s.home, locksDir, name+".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		holder := readHolder(f)
		f.Close()
		if err == unix.EWOULDBLOCK {
			if holder != "" {
				return nil, fmt.Errorf("%w: %s (pid %s)", ErrLockHeld, name, holder)
			}
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, name)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", name, err)
	}

	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
	}
	logger.Debug("Acquired lock for %q", name)
	return &Lock{file: f, path: path}, nil
}

// Release drops the lock and removes the lock file. Safe to call more
// than once.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	os.Remove(l.path)
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	return closeErr
}

func readHolder(f *os.File) string {
	buf := make([]byte, 32)
	n, err := f.ReadAt(buf, 0)
	if n == 0 && err != nil {
		return ""
	}
	pid := strings.TrimSpace(string(buf[:n]))
	if _, err := strconv.Atoi(pid); err != nil {
		return ""
	}
	return pid
}
