package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vtree/internal/runner"
	"vtree/internal/tree"
)

// Run drives the REPL until exit or end of input. Structural and
// resolution errors are reported and leave the session in its prior
// state; only exit (or EOF) ends the loop.
func (s *Session) Run(in io.Reader, out io.Writer) error {
	if s.state != StateEntered {
		return ErrNotEntered
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, s.Prompt())
		if !scanner.Scan() {
			// EOF behaves like exit so a piped session still saves.
			fmt.Fprintln(out)
			return s.Exit()
		}
		tokens := Tokenize(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		done, err := s.dispatch(tokens, out)
		if err != nil {
			fmt.Fprintln(out, paint(Styles.Error, err.Error()))
		}
		if done {
			return nil
		}
	}
}

// dispatch runs one REPL command. done is true after exit.
func (s *Session) dispatch(tokens []string, out io.Writer) (done bool, err error) {
	cmd, args := tokens[0], tokens[1:]
	switch cmd {
	case "ls":
		path, withDesc := "", false
		for _, a := range args {
			if a == "-d" || a == "--desc" {
				withDesc = true
			} else {
				path = a
			}
		}
		entries, err := s.Ls(path)
		if err != nil {
			return false, err
		}
		for _, e := range entries {
			fmt.Fprintln(out, formatEntry(e, withDesc))
		}
		return false, nil

	case "cd":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return false, s.Cd(path)

	case "pwd":
		fmt.Fprintln(out, s.Pwd())
		return false, nil

	case "tree":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		rendered, err := s.Subtree(path)
		if err != nil {
			return false, err
		}
		fmt.Fprint(out, rendered)
		return false, nil

	case "mkdir":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: mkdir <name>")
		}
		_, err := s.tree.Mkdir(s.cwd, args[0])
		return false, err

	case "add":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: add <path> <real-path> [description...]")
		}
		abs, err := filepath.Abs(args[1])
		if err != nil {
			return false, fmt.Errorf("failed to resolve %s: %w", args[1], err)
		}
		if _, err := s.tree.AddReference(s.cwd, args[0], abs, strings.Join(args[2:], " ")); err != nil {
			return false, err
		}
		if _, statErr := os.Stat(abs); statErr != nil {
			fmt.Fprintln(out, paint(Styles.Warning, "warning: target "+abs+" does not exist yet"))
		}
		return false, nil

	case "rm":
		recursive := false
		path := ""
		for _, a := range args {
			if a == "-r" || a == "--recursive" {
				recursive = true
			} else {
				path = a
			}
		}
		if path == "" {
			return false, fmt.Errorf("usage: rm [-r] <path>")
		}
		return false, s.tree.Remove(s.cwd, path, recursive)

	case "desc":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: desc <path> <text>")
		}
		return false, s.tree.SetDescription(s.cwd, args[0], strings.Join(args[1:], " "))

	case "call":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: call <program> [args...]")
		}
		status, err := runner.Run(s.tree, s.cwd, args)
		if err != nil {
			return false, err
		}
		if status != 0 {
			fmt.Fprintln(out, paint(Styles.Warning, fmt.Sprintf("exit status %d", status)))
		}
		return false, nil

	case "exit":
		return true, s.Exit()

	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
}

func formatEntry(e Entry, withDesc bool) string {
	var b strings.Builder
	switch {
	case e.Kind == tree.KindDirectory:
		b.WriteString(paint(Styles.Dir, e.Name+"/"))
	case e.Dangling:
		b.WriteString(paint(Styles.Dangling, e.Name))
		b.WriteString(paint(Styles.Muted, " -> "+e.Target))
		b.WriteString(paint(Styles.Warning, " (dangling)"))
	default:
		b.WriteString(paint(Styles.Ref, e.Name))
		b.WriteString(paint(Styles.Muted, " -> "+e.Target))
	}
	if withDesc && e.Desc != "" {
		b.WriteString(paint(Styles.Muted, "  # "+e.Desc))
	}
	return b.String()
}
