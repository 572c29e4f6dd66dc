package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtree/internal/store"
	"vtree/internal/tree"
)

// seedStore creates a store with one tree:
//
//	project
//	└─ data
//	   └─ a -> <tmp>/a.csv   (file exists)
func seedStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	s, err := store.OpenAt(t.TempDir())
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(target, []byte("x,y\n"), 0644))

	tr, err := s.Create("project")
	require.NoError(t, err)
	_, err = tr.Mkdir(tree.RootPath(), "/data")
	require.NoError(t, err)
	_, err = tr.AddReference(tree.RootPath(), "/data/a", target, "run A")
	require.NoError(t, err)
	require.NoError(t, s.Save(tr))
	return s, target
}

func TestEnterNavigateExit(t *testing.T) {
	s, target := seedStore(t)

	sess := New(s)
	assert.Equal(t, StateNotEntered, sess.State())
	require.NoError(t, sess.Enter("project"))
	assert.Equal(t, StateEntered, sess.State())
	assert.Equal(t, "/", sess.Pwd())
	assert.Equal(t, "/[project]/ > ", sess.Prompt())

	require.NoError(t, sess.Cd("/data"))
	assert.Equal(t, "/data", sess.Pwd())
	assert.Equal(t, "/[project]/data/ > ", sess.Prompt())

	entries, err := sess.Ls("")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Name: "a", Kind: tree.KindReference, Target: target, Desc: "run A"}, entries[0])

	require.NoError(t, sess.Exit())
	assert.Equal(t, StateExited, sess.State())

	// The lock must be free for the next session.
	lock, err := s.Acquire("project")
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestEnterUnknownTree(t *testing.T) {
	s, _ := seedStore(t)
	err := New(s).Enter("nope")
	assert.ErrorIs(t, err, store.ErrTreeNotFound)

	// The failed enter must not leave the lock behind.
	lock, err := s.Acquire("nope")
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestEnterLockedTree(t *testing.T) {
	s, _ := seedStore(t)
	first := New(s)
	require.NoError(t, first.Enter("project"))

	// Each session opens its own lock file descriptor, so a second enter
	// conflicts even inside one process.
	second := New(s)
	err := second.Enter("project")
	assert.ErrorIs(t, err, store.ErrLockHeld)

	require.NoError(t, first.Exit())
	third := New(s)
	require.NoError(t, third.Enter("project"))
	require.NoError(t, third.Exit())
}

func TestCdRejectsReference(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))
	defer sess.Exit()

	err := sess.Cd("/data/a")
	assert.ErrorIs(t, err, tree.ErrNotADirectory)
	assert.Equal(t, "/", sess.Pwd())
}

func TestCdDotDotAtRootKeepsCwd(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))
	defer sess.Exit()

	err := sess.Cd("..")
	assert.ErrorIs(t, err, tree.ErrAtRoot)
	assert.Equal(t, "/", sess.Pwd())
}

func TestCdEmptyReturnsToRoot(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))
	defer sess.Exit()

	require.NoError(t, sess.Cd("/data"))
	require.NoError(t, sess.Cd(""))
	assert.Equal(t, "/", sess.Pwd())
}

func TestLsFlagsDangling(t *testing.T) {
	s, target := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))
	defer sess.Exit()

	entries, err := sess.Ls("/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Dangling)

	// Delete the real file; the reference must still list, flagged.
	require.NoError(t, os.Remove(target))
	entries, err = sess.Ls("/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Dangling)
}

func TestExitSavesDirtyTree(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	_, err := sess.Tree().Mkdir(sess.Cwd(), "/notes")
	require.NoError(t, err)
	require.NoError(t, sess.Exit())

	reloaded, err := s.Load("project")
	require.NoError(t, err)
	_, err = tree.Resolve(reloaded, tree.RootPath(), "/notes")
	assert.NoError(t, err)
}

func TestReplScript(t *testing.T) {
	s, target := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	script := strings.Join([]string{
		"cd /data",
		"pwd",
		"ls",
		"mkdir raw",
		"bogus-command",
		"cd ..",
		"tree",
		"exit",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, sess.Run(strings.NewReader(script), &out))
	assert.Equal(t, StateExited, sess.State())

	text := out.String()
	assert.Contains(t, text, "/data\n")
	assert.Contains(t, text, "a -> "+target)
	assert.Contains(t, text, "unknown command: bogus-command")
	assert.Contains(t, text, "└─ raw")

	// mkdir from the script must have been saved on exit.
	reloaded, err := s.Load("project")
	require.NoError(t, err)
	_, err = tree.Resolve(reloaded, tree.RootPath(), "/data/raw")
	assert.NoError(t, err)
}

func TestReplEOFSaves(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	var out bytes.Buffer
	require.NoError(t, sess.Run(strings.NewReader("mkdir notes\n"), &out))
	assert.Equal(t, StateExited, sess.State())

	reloaded, err := s.Load("project")
	require.NoError(t, err)
	_, err = tree.Resolve(reloaded, tree.RootPath(), "/notes")
	assert.NoError(t, err)
}

func TestReplRmRequiresRecursive(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	var out bytes.Buffer
	script := "rm data\nls\nrm -r data\nls\nexit\n"
	require.NoError(t, sess.Run(strings.NewReader(script), &out))

	text := out.String()
	assert.Contains(t, text, "directory not empty")
	assert.Contains(t, text, "data/")

	reloaded, err := s.Load("project")
	require.NoError(t, err)
	_, err = tree.Resolve(reloaded, tree.RootPath(), "/data")
	assert.ErrorIs(t, err, tree.ErrNotFound)
}

func TestReplAddReference(t *testing.T) {
	s, target := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	var out bytes.Buffer
	script := "cd /data\nadd b " + target + " mirror of a\nls -d\nexit\n"
	require.NoError(t, sess.Run(strings.NewReader(script), &out))
	assert.Contains(t, out.String(), "b -> "+target)
	assert.Contains(t, out.String(), "# mirror of a")

	reloaded, err := s.Load("project")
	require.NoError(t, err)
	res, err := tree.Resolve(reloaded, tree.RootPath(), "/data/b")
	require.NoError(t, err)
	assert.Equal(t, target, res.Node.Target)
	assert.Equal(t, "mirror of a", res.Node.Desc)
}

func TestReplAddMissingTargetWarns(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	var out bytes.Buffer
	script := "add ghost /definitely/not/here.csv\nexit\n"
	require.NoError(t, sess.Run(strings.NewReader(script), &out))
	assert.Contains(t, out.String(), "does not exist yet")

	// Forward references are still persisted.
	reloaded, err := s.Load("project")
	require.NoError(t, err)
	_, err = tree.Resolve(reloaded, tree.RootPath(), "/ghost")
	assert.NoError(t, err)
}

func TestReplDesc(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	var out bytes.Buffer
	script := "desc data \"raw experiment inputs\"\nls -d\nexit\n"
	require.NoError(t, sess.Run(strings.NewReader(script), &out))
	assert.Contains(t, out.String(), "# raw experiment inputs")
}

func TestReplCall(t *testing.T) {
	s, _ := seedStore(t)
	sess := New(s)
	require.NoError(t, sess.Enter("project"))

	var out bytes.Buffer
	// grep -q: exit status comes from the child against the substituted
	// real path.
	script := "cd /data\ncall grep -q x,y <a>\ncall grep -q absent <a>\nexit\n"
	require.NoError(t, sess.Run(strings.NewReader(script), &out))
	assert.Contains(t, out.String(), "exit status 1")
}
