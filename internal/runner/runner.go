// Package runner executes external commands against the virtual tree.
//
// Arguments written as <virtual/path> are resolved against the session's
// current directory and replaced by the reference's stored target before
// the process is spawned. The angle brackets are reserved characters in
// node names, so the marker can never collide with a literal name.
// Unmarked arguments are passed to the child verbatim and are never
// tried against the resolver.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"vtree/internal/logging"
	"vtree/internal/tree"
)

var logger = logging.GetLogger().WithPrefix("runner")

// ErrSpawnFailed indicates the external command could not be started.
var ErrSpawnFailed = errors.New("failed to start command")

// Run substitutes virtual-path tokens in argv, spawns the command with
// the parent's stdio, blocks until it terminates, and returns its exit
// status. A dangling reference substitutes its stored target unchanged;
// reporting the missing file is the child's job, as in a shell.
func Run(t *tree.Tree, cwd tree.VirtualPath, argv []string) (int, error) {
	resolved, err := Substitute(t, cwd, argv)
	if err != nil {
		return 0, err
	}

	logger.Debug("Running: %s", strings.Join(resolved, " "))
	cmd := exec.Command(resolved[0], resolved[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return 0, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, resolved[0], err)
	}
}

// Substitute returns argv with every <virtual/path> token replaced by
// the target of the reference it resolves to. Directories are not file
// arguments and fail the whole call before anything is spawned.
func Substitute(t *tree.Tree, cwd tree.VirtualPath, argv []string) ([]string, error) {
	out := make([]string, len(argv))
	for i, arg := range argv {
		vpath, ok := virtualToken(arg)
		if !ok {
			out[i] = arg
			continue
		}
		res, err := tree.Resolve(t, cwd, vpath)
		if err != nil {
			return nil, err
		}
		if res.Node.IsDir() {
			return nil, &tree.Error{Op: "call", Path: res.Path.String(), Err: tree.ErrIsDirectory}
		}
		out[i] = res.Node.Target
	}
	return out, nil
}

func virtualToken(arg string) (string, bool) {
	if len(arg) >= 2 && strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">") {
		return arg[1 : len(arg)-1], true
	}
	return "", false
}
