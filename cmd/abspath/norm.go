package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/abspath/pkg/abspath/pathsyntax"
)

func newNormCommand() *cobra.Command {
	var sepName string

	cmd := &cobra.Command{
		Use:   "norm <path>",
		Short: "Normalize a path",
		Long: `Normalize collapses "." and ".." segments and settles the path on
one separator convention. Rooted paths that resolve above their root
are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := separatorFromName(sepName)
			if err != nil {
				return err
			}
			norm, err := pathsyntax.NormalizeTo(args[0], sep)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), norm)
			return nil
		},
	}

	cmd.Flags().StringVar(&sepName, "sep", "", "separator convention: unix or windows (default: inferred)")
	return cmd
}

func separatorFromName(name string) (rune, error) {
	switch name {
	case "":
		return 0, nil
	case "unix":
		return pathsyntax.UnixSeparator, nil
	case "windows":
		return pathsyntax.WindowsSeparator, nil
	default:
		return 0, fmt.Errorf("invalid separator %q (want unix or windows)", name)
	}
}
