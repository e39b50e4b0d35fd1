package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/abspath/pkg/abspath"
)

func newListCommand() *cobra.Command {
	var (
		pattern  string
		depth    int
		dirsOnly bool
		hidden   bool
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List files or subdirectories below a directory",
		Long: `Files are listed depth-first with same-level files before the
descent into subdirectories; with --dirs the traversal is breadth-first
over directories instead. Depth bounds how many levels are visited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := abspath.New(args[0])
			if err != nil {
				return err
			}
			var attrs abspath.Attributes
			if hidden {
				attrs |= abspath.AttrHidden
			}
			if readOnly {
				attrs |= abspath.AttrReadOnly
			}

			dir := p.Dir()
			var entries []abspath.AbsolutePath
			if dirsOnly {
				entries, err = dir.Dirs(pattern, depth, attrs).Collect()
			} else {
				entries, err = dir.Files(pattern, depth, attrs)
			}
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "*", "glob matched against entry names")
	cmd.Flags().IntVar(&depth, "depth", 1, "number of directory levels to descend")
	cmd.Flags().BoolVar(&dirsOnly, "dirs", false, "list subdirectories instead of files")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "only dot-prefixed entries")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "only entries without an owner-write bit")
	return cmd
}
