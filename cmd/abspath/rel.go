package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/abspath/pkg/abspath/pathsyntax"
)

func newRelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rel <base> <dest>",
		Short: "Compute the relative path from base to dest",
		Long: `Both paths must be absolute and share the same root. The result is
a run of ".." segments followed by the unmatched dest segments; an
empty result means the paths are equal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := pathsyntax.RelativeTo(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rel)
			return nil
		},
	}
}
