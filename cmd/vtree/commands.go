package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vtree/internal/session"
	"vtree/internal/store"
	"vtree/internal/tree"
)

var (
	addDescription string
	rmRecursive    bool
	deleteForce    bool

	rootCmd = &cobra.Command{
		Use:   "vtree",
		Short: "Organize files in named virtual trees without moving them",
		Long: `vtree manages named virtual file trees: user-defined hierarchies of
directories whose leaves are references to real files elsewhere on disk.
Trees are navigated interactively with enter, and referenced files can be
passed to external commands by their virtual path (call cat <a>).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	newCmd = &cobra.Command{
		Use:   "new <tree-name>",
		Short: "Create a new empty tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runNew,
	}

	addCmd = &cobra.Command{
		Use:   "add <tree-name> <virtual-path> <real-path>",
		Short: "Add a reference to a real file under a virtual path",
		Long: `Add a reference. The parent virtual directory must already exist.
The real path is stored absolute; it does not have to exist yet — a
missing target only produces a warning, so files can be referenced
before they are created.`,
		Args: cobra.ExactArgs(3),
		RunE: runAdd,
	}

	mkdirCmd = &cobra.Command{
		Use:   "mkdir <tree-name> <virtual-path>",
		Short: "Create a virtual directory",
		Args:  cobra.ExactArgs(2),
		RunE:  runMkdir,
	}

	rmCmd = &cobra.Command{
		Use:   "rm <tree-name> <virtual-path>",
		Short: "Remove a reference or directory from a tree",
		Args:  cobra.ExactArgs(2),
		RunE:  runRm,
	}

	enterCmd = &cobra.Command{
		Use:   "enter <tree-name>",
		Short: "Start an interactive session in a tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnter,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List known trees",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	treeCmd = &cobra.Command{
		Use:   "tree <tree-name> [virtual-path]",
		Short: "Print a tree (or a subtree) without entering it",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runTree,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <tree-name>",
		Short: "Delete a tree's store record",
		Long: `Delete a tree. Only the virtual tree is removed; the real files its
references point at are never touched.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
)

func init() {
	addCmd.Flags().StringVar(&addDescription, "description", "", "free-text description for the reference")
	rmCmd.Flags().BoolVar(&rmRecursive, "recursive", false, "allow removing a non-empty directory with its whole subtree")
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "skip the confirmation prompt")

	rootCmd.AddCommand(newCmd, addCmd, mkdirCmd, rmCmd, enterCmd, listCmd, treeCmd, deleteCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	if _, err := s.Create(args[0]); err != nil {
		return err
	}
	fmt.Printf("Created tree %s\n", args[0])
	return nil
}

// withLockedTree loads a tree under its exclusive lock, applies fn, and
// saves if fn left the tree dirty. One-shot CLI mutations go through
// here so they cannot race an interactive session.
func withLockedTree(name string, fn func(*tree.Tree) error) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	lock, err := s.Acquire(name)
	if err != nil {
		return err
	}
	defer lock.Release()

	t, err := s.Load(name)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	if t.Dirty() {
		return s.Save(t)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	name, vpath, realPath := args[0], args[1], args[2]
	abs, err := filepath.Abs(realPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", realPath, err)
	}
	return withLockedTree(name, func(t *tree.Tree) error {
		p, err := t.AddReference(tree.RootPath(), vpath, abs, addDescription)
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(abs); statErr != nil {
			fmt.Fprintf(os.Stderr, "warning: target %s does not exist yet\n", abs)
		}
		fmt.Printf("Added %s -> %s\n", p, abs)
		return nil
	})
}

func runMkdir(cmd *cobra.Command, args []string) error {
	return withLockedTree(args[0], func(t *tree.Tree) error {
		p, err := t.Mkdir(tree.RootPath(), args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", p)
		return nil
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	return withLockedTree(args[0], func(t *tree.Tree) error {
		if err := t.Remove(tree.RootPath(), args[1], rmRecursive); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[1])
		return nil
	})
}

func runEnter(cmd *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	sess := session.New(s)
	if err := sess.Enter(args[0]); err != nil {
		return err
	}
	return sess.Run(os.Stdin, os.Stdout)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	infos, err := s.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		if info.Desc != "" {
			fmt.Printf("%s: %s\n", info.Name, info.Desc)
		} else {
			fmt.Println(info.Name)
		}
	}
	return nil
}

func runTree(cmd *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	t, err := s.Load(args[0])
	if err != nil {
		return err
	}
	raw := "/"
	if len(args) == 2 {
		raw = args[1]
	}
	res, err := tree.Resolve(t, tree.RootPath(), raw)
	if err != nil {
		return err
	}
	fmt.Print(res.Node.Render())
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := store.Open()
	if err != nil {
		return err
	}
	name := args[0]
	if !deleteForce {
		fmt.Printf("Delete tree %s? This cannot be undone. [y/N] ", name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}
	lock, err := s.Acquire(name)
	if err != nil {
		return err
	}
	defer lock.Release()
	if err := s.Delete(name); err != nil {
		return err
	}
	fmt.Printf("Deleted tree %s\n", name)
	return nil
}
